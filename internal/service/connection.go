package service

import (
	"context"
	"fmt"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/store"
)

type connectionService struct {
	connRepo   *store.Store[domain.Connection]
	alumniRepo *store.Store[domain.AlumniProfile]
	notifier   NotificationService
}

func NewConnectionService(
	connRepo *store.Store[domain.Connection],
	alumniRepo *store.Store[domain.AlumniProfile],
	notifier NotificationService,
) ConnectionService {
	return &connectionService{
		connRepo:   connRepo,
		alumniRepo: alumniRepo,
		notifier:   notifier,
	}
}

func pairKey(a, b string) string {
	return a + "/" + b
}

// Request connects two alumni. Asking again for a pair that already has a
// connection, in either direction and in any state, returns the existing record.
func (s *connectionService) Request(ctx context.Context, requesterID, recipientID, message string) (*domain.Connection, error) {
	logger.EnterMethod("connectionService.Request", "requesterID", requesterID, "recipientID", recipientID)

	if requesterID == "" || recipientID == "" {
		err := domain.Violation("connection", "RecipientID", "both alumni are required")
		logger.ExitMethodWithError("connectionService.Request", err)
		return nil, err
	}
	if requesterID == recipientID {
		err := domain.Violation("connection", "RecipientID", "cannot connect with yourself")
		logger.ExitMethodWithError("connectionService.Request", err, "requesterID", requesterID)
		return nil, err
	}
	requester, ok := s.alumniRepo.Get(requesterID)
	if !ok {
		return nil, domain.NotFound("alumni", requesterID)
	}
	recipient, ok := s.alumniRepo.Get(recipientID)
	if !ok {
		return nil, domain.NotFound("alumni", recipientID)
	}

	var (
		conn    domain.Connection
		created bool
	)
	err := s.connRepo.Atomically(ctx, func(tx *store.Tx[domain.Connection]) error {
		if existing, found := tx.Find(func(c domain.Connection) bool { return c.Joins(requesterID, recipientID) }); found {
			conn = existing
			return nil
		}
		var err error
		conn, err = tx.Create(domain.Connection{
			RequesterID: requesterID,
			RecipientID: recipientID,
			Message:     strings.TrimSpace(message),
		})
		created = err == nil
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("connectionService.Request", err, "requesterID", requesterID, "recipientID", recipientID)
		return nil, err
	}

	if created {
		notify(ctx, s.notifier, NotifyInput{
			RecipientEmail: recipient.Email,
			RecipientName:  recipient.Name,
			Type:           domain.NotificationConnectionRequest,
			Title:          "New connection request",
			Message:        fmt.Sprintf("%s would like to connect with you.", requester.Name),
			Link:           "/connections",
		})
	}

	logger.ExitMethod("connectionService.Request", "connectionID", conn.ID, "created", created)
	return &conn, nil
}

// Respond accepts or rejects the pending connection between a and b. Only the
// recipient or an admin may respond.
func (s *connectionService) Respond(ctx context.Context, actor domain.Actor, a, b string, status domain.ConnectionStatus) (*domain.Connection, error) {
	logger.EnterMethod("connectionService.Respond", "a", a, "b", b, "status", status)

	if status != domain.ConnectionStatusAccepted && status != domain.ConnectionStatusRejected {
		err := domain.Violation("connection", "Status", "response must be accepted or rejected")
		logger.ExitMethodWithError("connectionService.Respond", err)
		return nil, err
	}

	var conn domain.Connection
	err := s.connRepo.Atomically(ctx, func(tx *store.Tx[domain.Connection]) error {
		current, ok := tx.Find(func(c domain.Connection) bool { return c.Joins(a, b) })
		if !ok {
			return domain.NotFound("connection", pairKey(a, b))
		}
		if !actor.IsAdmin && actor.UserID != current.RecipientID {
			return domain.Forbidden("respond to connection", "the recipient or an admin")
		}
		if current.Status != domain.ConnectionStatusPending {
			return &domain.TransitionError{Entity: "connection", ID: current.ID, Op: "respond to", From: string(current.Status)}
		}
		var err error
		conn, err = tx.Update(current.ID, func(c *domain.Connection) error {
			c.Status = status
			return nil
		})
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("connectionService.Respond", err, "a", a, "b", b)
		return nil, err
	}

	if conn.Status == domain.ConnectionStatusAccepted {
		requester, okReq := s.alumniRepo.Get(conn.RequesterID)
		recipient, _ := s.alumniRepo.Get(conn.RecipientID)
		if okReq {
			notify(ctx, s.notifier, NotifyInput{
				RecipientEmail: requester.Email,
				RecipientName:  requester.Name,
				Type:           domain.NotificationConnectionAccepted,
				Title:          "Connection accepted",
				Message:        fmt.Sprintf("%s accepted your connection request.", displayName(recipient.Name)),
				Link:           "/connections",
			})
		}
	}

	logger.ExitMethod("connectionService.Respond", "connectionID", conn.ID, "status", conn.Status)
	return &conn, nil
}

func (s *connectionService) Between(ctx context.Context, a, b string) (*domain.Connection, error) {
	conn, ok := s.connRepo.Find(func(c domain.Connection) bool { return c.Joins(a, b) })
	if !ok {
		return nil, domain.NotFound("connection", pairKey(a, b))
	}
	return &conn, nil
}

// ListForUser returns connections involving userID. An empty status lists all.
func (s *connectionService) ListForUser(ctx context.Context, userID string, status domain.ConnectionStatus) ([]domain.Connection, error) {
	return s.connRepo.Filter(func(c domain.Connection) bool {
		return c.Involves(userID) && (status == "" || c.Status == status)
	}), nil
}

func (s *connectionService) Remove(ctx context.Context, actor domain.Actor, a, b string) error {
	return s.connRepo.Atomically(ctx, func(tx *store.Tx[domain.Connection]) error {
		conn, ok := tx.Find(func(c domain.Connection) bool { return c.Joins(a, b) })
		if !ok {
			return domain.NotFound("connection", pairKey(a, b))
		}
		if !actor.IsAdmin && !conn.Involves(actor.UserID) {
			return domain.Forbidden("remove connection", "either side or an admin")
		}
		tx.Delete(conn.ID)
		return nil
	})
}
