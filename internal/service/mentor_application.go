package service

import (
	"context"
	"fmt"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/store"
)

type SubmitApplicationInput struct {
	UserID          string `validate:"required"`
	Name            string `validate:"required,max=200"`
	Email           string `validate:"required,email"`
	Department      domain.Department
	MentorshipAreas []string `validate:"required"`
	Experience      string   `validate:"max=5000"`
	Motivation      string   `validate:"max=5000"`
}

type mentorApplicationService struct {
	appRepo    *store.Store[domain.MentorApplication]
	mentorRepo *store.Store[domain.ApprovedMentor]
	notifier   NotificationService
}

func NewMentorApplicationService(
	appRepo *store.Store[domain.MentorApplication],
	mentorRepo *store.Store[domain.ApprovedMentor],
	notifier NotificationService,
) MentorApplicationService {
	return &mentorApplicationService{
		appRepo:    appRepo,
		mentorRepo: mentorRepo,
		notifier:   notifier,
	}
}

// Submit files an application. A user may have at most one pending application.
func (s *mentorApplicationService) Submit(ctx context.Context, in SubmitApplicationInput) (*domain.MentorApplication, error) {
	logger.EnterMethod("mentorApplicationService.Submit", "userID", in.UserID)

	if err := validateInput("mentor application", in); err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Submit", err, "userID", in.UserID)
		return nil, err
	}
	if in.Department != "" && !in.Department.Valid() {
		err := domain.Violation("mentor application", "Department", "unknown department "+string(in.Department))
		logger.ExitMethodWithError("mentorApplicationService.Submit", err, "userID", in.UserID)
		return nil, err
	}
	areas, err := requireAreas("mentor application", in.MentorshipAreas)
	if err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Submit", err, "userID", in.UserID)
		return nil, err
	}

	var app domain.MentorApplication
	err = s.appRepo.Atomically(ctx, func(tx *store.Tx[domain.MentorApplication]) error {
		if _, pending := tx.Find(func(a domain.MentorApplication) bool {
			return a.UserID == in.UserID && a.Status == domain.ApplicationStatusPending
		}); pending {
			return domain.Violation("mentor application", "UserID", "a pending application already exists")
		}
		var err error
		app, err = tx.Create(domain.MentorApplication{
			UserID:          in.UserID,
			Name:            strings.TrimSpace(in.Name),
			Email:           strings.TrimSpace(in.Email),
			Department:      in.Department,
			MentorshipAreas: areas,
			Experience:      in.Experience,
			Motivation:      in.Motivation,
		})
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Submit", err, "userID", in.UserID)
		return nil, err
	}

	logger.ExitMethod("mentorApplicationService.Submit", "applicationID", app.ID)
	return &app, nil
}

// Approve marks a pending application approved and adds the applicant to the
// mentor directory in one critical section. An existing mentor with the same
// email is left as it is.
func (s *mentorApplicationService) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.MentorApplication, *domain.ApprovedMentor, error) {
	logger.EnterMethod("mentorApplicationService.Approve", "applicationID", id, "reviewer", actor.UserID)

	if !actor.IsAdmin {
		err := domain.Forbidden("approve mentor application", "an admin")
		logger.ExitMethodWithError("mentorApplicationService.Approve", err, "applicationID", id)
		return nil, nil, err
	}

	var (
		app    domain.MentorApplication
		mentor domain.ApprovedMentor
	)
	err := store.Atomically2(ctx, s.appRepo, s.mentorRepo, func(apps *store.Tx[domain.MentorApplication], mentors *store.Tx[domain.ApprovedMentor]) error {
		current, ok := apps.Get(id)
		if !ok {
			return domain.NotFound("mentor application", id)
		}
		if current.Status != domain.ApplicationStatusPending {
			return &domain.TransitionError{Entity: "mentor application", ID: id, Op: "approve", From: string(current.Status)}
		}

		now := apps.Now()
		var err error
		app, err = apps.Update(id, func(a *domain.MentorApplication) error {
			a.Status = domain.ApplicationStatusApproved
			a.ReviewedBy = reviewerOf(actor)
			a.ReviewedAt = &now
			a.RejectionReason = ""
			return nil
		})
		if err != nil {
			return err
		}

		if existing, found := mentors.Find(func(m domain.ApprovedMentor) bool {
			return domain.SameEmail(m.Email, app.Email)
		}); found {
			mentor = existing
			return nil
		}
		mentor, err = mentors.Create(domain.ApprovedMentor{
			ApplicationID:   app.ID,
			UserID:          app.UserID,
			Name:            app.Name,
			Email:           app.Email,
			MentorshipAreas: app.MentorshipAreas,
			Available:       true,
			AddedBy:         reviewerOf(actor),
			ApprovedAt:      now,
		})
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Approve", err, "applicationID", id)
		return nil, nil, err
	}

	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: app.Email,
		RecipientName:  app.Name,
		Type:           domain.NotificationApplicationApproved,
		Title:          "Your mentor application was approved",
		Message:        "Welcome to the mentor network. Alumni can now send you mentorship requests.",
		Link:           "/mentorship",
	})

	logger.ExitMethod("mentorApplicationService.Approve", "applicationID", id, "mentorID", mentor.ID)
	return &app, &mentor, nil
}

func (s *mentorApplicationService) Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.MentorApplication, error) {
	logger.EnterMethod("mentorApplicationService.Reject", "applicationID", id, "reviewer", actor.UserID)

	if !actor.IsAdmin {
		err := domain.Forbidden("reject mentor application", "an admin")
		logger.ExitMethodWithError("mentorApplicationService.Reject", err, "applicationID", id)
		return nil, err
	}

	var app domain.MentorApplication
	err := s.appRepo.Atomically(ctx, func(tx *store.Tx[domain.MentorApplication]) error {
		now := tx.Now()
		var err error
		app, err = tx.Update(id, func(a *domain.MentorApplication) error {
			if a.Status != domain.ApplicationStatusPending {
				return &domain.TransitionError{Entity: "mentor application", ID: id, Op: "reject", From: string(a.Status)}
			}
			a.Status = domain.ApplicationStatusRejected
			a.ReviewedBy = reviewerOf(actor)
			a.ReviewedAt = &now
			a.RejectionReason = strings.TrimSpace(reason)
			return nil
		})
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Reject", err, "applicationID", id)
		return nil, err
	}

	message := "Thank you for applying to mentor. Your application was not approved this time."
	if app.RejectionReason != "" {
		message += fmt.Sprintf(" Reason: %s", app.RejectionReason)
	}
	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: app.Email,
		RecipientName:  app.Name,
		Type:           domain.NotificationApplicationRejected,
		Title:          "Update on your mentor application",
		Message:        message,
		Link:           "/mentorship",
	})

	logger.ExitMethod("mentorApplicationService.Reject", "applicationID", id)
	return &app, nil
}

// Withdraw deletes an application in any state. Withdrawing an approved
// application also removes the mentor it created, in the same critical section.
func (s *mentorApplicationService) Withdraw(ctx context.Context, actor domain.Actor, id string) error {
	logger.EnterMethod("mentorApplicationService.Withdraw", "applicationID", id, "actor", actor.UserID)

	removedMentors := 0
	err := store.Atomically2(ctx, s.appRepo, s.mentorRepo, func(apps *store.Tx[domain.MentorApplication], mentors *store.Tx[domain.ApprovedMentor]) error {
		app, ok := apps.Get(id)
		if !ok {
			return domain.NotFound("mentor application", id)
		}
		if !actor.IsAdmin && !actor.Is(app.UserID, app.Email) {
			return domain.Forbidden("withdraw mentor application", "the applicant or an admin")
		}
		apps.Delete(id)
		if app.Status == domain.ApplicationStatusApproved {
			removedMentors = mentors.DeleteWhere(func(m domain.ApprovedMentor) bool {
				return domain.SameEmail(m.Email, app.Email)
			})
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("mentorApplicationService.Withdraw", err, "applicationID", id)
		return err
	}

	logger.ExitMethod("mentorApplicationService.Withdraw", "applicationID", id, "removedMentors", removedMentors)
	return nil
}

func (s *mentorApplicationService) Get(ctx context.Context, id string) (*domain.MentorApplication, error) {
	app, ok := s.appRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("mentor application", id)
	}
	return &app, nil
}

// List returns applications in submission order. An empty status lists all.
func (s *mentorApplicationService) List(ctx context.Context, status domain.ApplicationStatus) ([]domain.MentorApplication, error) {
	return s.appRepo.Filter(func(a domain.MentorApplication) bool {
		return status == "" || a.Status == status
	}), nil
}

func (s *mentorApplicationService) ListByUser(ctx context.Context, userID string) ([]domain.MentorApplication, error) {
	return s.appRepo.Filter(func(a domain.MentorApplication) bool {
		return a.UserID == userID
	}), nil
}

func reviewerOf(actor domain.Actor) string {
	if actor.UserID != "" {
		return actor.UserID
	}
	return actor.Email
}

// normalizeAreas trims areas and drops blanks and case-insensitive duplicates.
func normalizeAreas(areas []string) []string {
	out := make([]string, 0, len(areas))
	seen := make(map[string]struct{}, len(areas))
	for _, a := range areas {
		a = strings.TrimSpace(a)
		key := strings.ToLower(a)
		if a == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	return out
}

// requireAreas normalizes areas and rejects a list that ends up empty.
func requireAreas(entity string, areas []string) ([]string, error) {
	out := normalizeAreas(areas)
	if len(out) == 0 {
		return nil, domain.Violation(entity, "MentorshipAreas", "at least one area is required")
	}
	return out, nil
}

// notify sends a notification whose failure must not fail the calling workflow.
func notify(ctx context.Context, notifier NotificationService, in NotifyInput) {
	if notifier == nil || in.RecipientEmail == "" {
		return
	}
	if _, err := notifier.Notify(ctx, in); err != nil {
		logger.Warn("Failed to record notification", "type", in.Type, "to", in.RecipientEmail, "error", err)
	}
}
