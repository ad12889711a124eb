package domain

import "time"

type ConnectionStatus string

const (
	ConnectionStatusPending  ConnectionStatus = "pending"
	ConnectionStatusAccepted ConnectionStatus = "accepted"
	ConnectionStatusRejected ConnectionStatus = "rejected"
)

type Connection struct {
	ID          string           `json:"id" yaml:"id"`
	RequesterID string           `json:"requesterId" yaml:"requesterId"`
	RecipientID string           `json:"recipientId" yaml:"recipientId"`
	Status      ConnectionStatus `json:"status" yaml:"status"`
	Message     string           `json:"message,omitempty" yaml:"message"`
	CreatedAt   time.Time        `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt" yaml:"updatedAt"`
}

// Joins reports whether the connection is between a and b in either direction.
func (c Connection) Joins(a, b string) bool {
	return (c.RequesterID == a && c.RecipientID == b) || (c.RequesterID == b && c.RecipientID == a)
}

// Involves reports whether userID is either side of the connection.
func (c Connection) Involves(userID string) bool {
	return c.RequesterID == userID || c.RecipientID == userID
}
