package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/store"
)

type SendMessageInput struct {
	SenderEmail   string `validate:"required,email"`
	SenderName    string
	ReceiverEmail string `validate:"required,email"`
	Content       string `validate:"required,max=5000"`
}

// ConversationSummary is the latest message exchanged with one peer.
type ConversationSummary struct {
	PeerEmail   string         `json:"peerEmail"`
	LastMessage domain.Message `json:"lastMessage"`
	Unread      int            `json:"unread"`
	Total       int            `json:"total"`
}

type messageService struct {
	messageRepo *store.Store[domain.Message]
	notifier    NotificationService
}

func NewMessageService(messageRepo *store.Store[domain.Message], notifier NotificationService) MessageService {
	return &messageService{messageRepo: messageRepo, notifier: notifier}
}

func (s *messageService) Send(ctx context.Context, in SendMessageInput) (*domain.Message, error) {
	in.Content = strings.TrimSpace(in.Content)
	if err := validateInput("message", in); err != nil {
		return nil, err
	}
	if domain.SameEmail(in.SenderEmail, in.ReceiverEmail) {
		return nil, domain.Violation("message", "ReceiverEmail", "cannot message yourself")
	}

	msg, err := s.messageRepo.Create(ctx, domain.Message{
		SenderEmail:   strings.TrimSpace(in.SenderEmail),
		ReceiverEmail: strings.TrimSpace(in.ReceiverEmail),
		Content:       in.Content,
	})
	if err != nil {
		return nil, err
	}

	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: msg.ReceiverEmail,
		Type:           domain.NotificationNewMessage,
		Title:          "New message from " + senderLabel(in),
		Message:        preview(msg.Content, 140),
		Link:           "/messages",
	})
	return &msg, nil
}

func senderLabel(in SendMessageInput) string {
	if name := strings.TrimSpace(in.SenderName); name != "" {
		return name
	}
	return in.SenderEmail
}

func preview(content string, n int) string {
	r := []rune(content)
	if len(r) <= n {
		return content
	}
	return string(r[:n]) + "..."
}

func byTimestamp(a, b domain.Message) int {
	return a.Timestamp.Compare(b.Timestamp)
}

// Conversation returns the messages between a and b, oldest first.
func (s *messageService) Conversation(ctx context.Context, a, b string) ([]domain.Message, error) {
	msgs := s.messageRepo.Filter(func(m domain.Message) bool { return m.Between(a, b) })
	slices.SortStableFunc(msgs, byTimestamp)
	return msgs, nil
}

// Inbox returns the messages received by email, newest first.
func (s *messageService) Inbox(ctx context.Context, email string) ([]domain.Message, error) {
	msgs := s.messageRepo.Filter(func(m domain.Message) bool { return domain.SameEmail(m.ReceiverEmail, email) })
	slices.Reverse(msgs)
	slices.SortStableFunc(msgs, func(a, b domain.Message) int { return byTimestamp(b, a) })
	return msgs, nil
}

// Conversations lists one summary per peer, most recent conversation first.
func (s *messageService) Conversations(ctx context.Context, email string) ([]ConversationSummary, error) {
	msgs := s.messageRepo.Filter(func(m domain.Message) bool {
		return domain.SameEmail(m.SenderEmail, email) || domain.SameEmail(m.ReceiverEmail, email)
	})
	slices.SortStableFunc(msgs, byTimestamp)

	var out []ConversationSummary
	pos := make(map[string]int)
	for _, m := range msgs {
		peer := m.ReceiverEmail
		if domain.SameEmail(m.ReceiverEmail, email) {
			peer = m.SenderEmail
		}
		key := strings.ToLower(peer)
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, ConversationSummary{PeerEmail: peer})
		}
		out[i].LastMessage = m
		out[i].Total++
		if !m.Read && domain.SameEmail(m.ReceiverEmail, email) {
			out[i].Unread++
		}
	}
	slices.SortStableFunc(out, func(a, b ConversationSummary) int {
		return byTimestamp(b.LastMessage, a.LastMessage)
	})
	return out, nil
}

// MarkRead marks a message read. Only its receiver may do so.
func (s *messageService) MarkRead(ctx context.Context, email, id string) (*domain.Message, error) {
	msg, err := s.messageRepo.Update(ctx, id, func(m *domain.Message) error {
		if !domain.SameEmail(m.ReceiverEmail, email) {
			return domain.Forbidden("mark message read", "the receiver")
		}
		m.Read = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (s *messageService) MarkConversationRead(ctx context.Context, email, peer string) (int, error) {
	marked := 0
	err := s.messageRepo.Atomically(ctx, func(tx *store.Tx[domain.Message]) error {
		unread := tx.Filter(func(m domain.Message) bool {
			return !m.Read && domain.SameEmail(m.ReceiverEmail, email) && domain.SameEmail(m.SenderEmail, peer)
		})
		for _, m := range unread {
			if _, err := tx.Update(m.ID, func(m *domain.Message) error {
				m.Read = true
				return nil
			}); err != nil {
				return fmt.Errorf("failed to mark message %s read: %w", m.ID, err)
			}
			marked++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

func (s *messageService) UnreadCount(ctx context.Context, email string) (int, error) {
	unread := s.messageRepo.Filter(func(m domain.Message) bool {
		return !m.Read && domain.SameEmail(m.ReceiverEmail, email)
	})
	return len(unread), nil
}
