package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/store"
)

const emailSendTimeout = 30 * time.Second

// NotifyInput describes one in-app notification and its email copy.
type NotifyInput struct {
	RecipientEmail string `validate:"required,email"`
	RecipientName  string
	Type           domain.NotificationType `validate:"required"`
	Title          string                  `validate:"required,max=200"`
	Message        string                  `validate:"max=2000"`
	Link           string
}

type notificationService struct {
	noteRepo *store.Store[domain.Notification]
	emailSvc EmailService
	sends    sync.WaitGroup
}

func NewNotificationService(noteRepo *store.Store[domain.Notification], emailSvc EmailService) NotificationService {
	return &notificationService{noteRepo: noteRepo, emailSvc: emailSvc}
}

// Notify persists the notification, then mails it on a separate goroutine. A
// failed send is logged and never affects the stored notification.
func (s *notificationService) Notify(ctx context.Context, in NotifyInput) (*domain.Notification, error) {
	if err := validateInput("notification", in); err != nil {
		return nil, err
	}
	if !in.Type.Valid() {
		return nil, domain.Violation("notification", "Type", "unknown notification type "+string(in.Type))
	}

	note, err := s.noteRepo.Create(ctx, domain.Notification{
		RecipientEmail: in.RecipientEmail,
		Type:           in.Type,
		Title:          in.Title,
		Message:        in.Message,
		Link:           in.Link,
	})
	if err != nil {
		return nil, err
	}

	if s.emailSvc != nil {
		s.sends.Add(1)
		go func() {
			defer s.sends.Done()
			sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailSendTimeout)
			defer cancel()
			if err := s.emailSvc.SendNotificationEmail(sendCtx, in.RecipientEmail, in.RecipientName, in.Title, in.Message, in.Link); err != nil {
				logger.Warn("Notification email failed", "notificationID", note.ID, "to", in.RecipientEmail, "error", err)
			}
		}()
	}

	return &note, nil
}

func (s *notificationService) Drain() {
	s.sends.Wait()
}

// List returns the recipient's notifications, newest first.
func (s *notificationService) List(ctx context.Context, email string, unreadOnly bool) ([]domain.Notification, error) {
	notes := s.noteRepo.Filter(func(n domain.Notification) bool {
		return domain.SameEmail(n.RecipientEmail, email) && (!unreadOnly || !n.IsRead)
	})
	slices.Reverse(notes)
	slices.SortStableFunc(notes, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return notes, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, email string) (int, error) {
	unread, err := s.List(ctx, email, true)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}

func (s *notificationService) MarkRead(ctx context.Context, email, id string) (*domain.Notification, error) {
	var out domain.Notification
	err := s.noteRepo.Atomically(ctx, func(tx *store.Tx[domain.Notification]) error {
		var err error
		out, err = tx.Update(id, func(n *domain.Notification) error {
			if !domain.SameEmail(n.RecipientEmail, email) {
				return domain.Forbidden("mark notification read", "the recipient")
			}
			if !n.IsRead {
				now := tx.Now()
				n.IsRead = true
				n.ReadAt = &now
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, email string) (int, error) {
	marked := 0
	err := s.noteRepo.Atomically(ctx, func(tx *store.Tx[domain.Notification]) error {
		unread := tx.Filter(func(n domain.Notification) bool {
			return domain.SameEmail(n.RecipientEmail, email) && !n.IsRead
		})
		now := tx.Now()
		for _, n := range unread {
			if _, err := tx.Update(n.ID, func(n *domain.Notification) error {
				n.IsRead = true
				n.ReadAt = &now
				return nil
			}); err != nil {
				return err
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

func (s *notificationService) Delete(ctx context.Context, email, id string) error {
	return s.noteRepo.Atomically(ctx, func(tx *store.Tx[domain.Notification]) error {
		n, ok := tx.Get(id)
		if !ok {
			return domain.NotFound("notification", id)
		}
		if !domain.SameEmail(n.RecipientEmail, email) {
			return domain.Forbidden("delete notification", "the recipient")
		}
		tx.Delete(id)
		return nil
	})
}
