package domain

import "time"

type Message struct {
	ID            string    `json:"id" yaml:"id"`
	SenderEmail   string    `json:"senderEmail" yaml:"senderEmail"`
	ReceiverEmail string    `json:"receiverEmail" yaml:"receiverEmail"`
	Content       string    `json:"content" yaml:"content"`
	Read          bool      `json:"read" yaml:"read"`
	Timestamp     time.Time `json:"timestamp" yaml:"timestamp"`
}

// Between reports whether the message was exchanged by a and b in either direction.
func (m Message) Between(a, b string) bool {
	return (SameEmail(m.SenderEmail, a) && SameEmail(m.ReceiverEmail, b)) ||
		(SameEmail(m.SenderEmail, b) && SameEmail(m.ReceiverEmail, a))
}
