package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

type CreateEventInput struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Time        string `validate:"max=40"`
	Location    string `validate:"max=200"`
	Category    string `validate:"max=100"`
	Capacity    int    `validate:"gte=0,lte=1000000"`
	// RegisteredCount seeds the base registration count, e.g. for walk-ins.
	RegisteredCount int `validate:"gte=0,lte=1000000"`
}

// UpdateEventInput carries the fields to change; nil fields are left alone.
type UpdateEventInput struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	Location    *string
	Category    *string
	Capacity    *int
}

type EventFilter struct {
	Status   domain.EventStatus
	Category string
	// From keeps events on or after this YYYY-MM-DD date.
	From string
}

type EventStats struct {
	Total              int                    `json:"total"`
	ByStatus           map[string]int         `json:"byStatus"`
	ByCategory         []query.Bucket[string] `json:"byCategory"`
	ByMonth            []query.Bucket[string] `json:"byMonth"`
	TotalRegistrations int                    `json:"totalRegistrations"`
	AverageAttendance  float64                `json:"averageAttendance"`
	FillRate           int                    `json:"fillRate"`
}

type eventService struct {
	eventRepo  *store.Store[domain.Event]
	rsvpRepo   *store.Store[domain.RSVP]
	alumniRepo *store.Store[domain.AlumniProfile]
	notifier   NotificationService
}

func NewEventService(
	eventRepo *store.Store[domain.Event],
	rsvpRepo *store.Store[domain.RSVP],
	alumniRepo *store.Store[domain.AlumniProfile],
	notifier NotificationService,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		rsvpRepo:   rsvpRepo,
		alumniRepo: alumniRepo,
		notifier:   notifier,
	}
}

// registered is the event's base count plus the party sizes of its confirmed RSVPs.
func registered(e domain.Event, rsvps []domain.RSVP) int {
	n := e.RegisteredCount
	for _, r := range rsvps {
		if r.EventID == e.ID && r.Status == domain.RSVPStatusConfirmed {
			n += r.PartySize()
		}
	}
	return n
}

func (s *eventService) withCounts(events []domain.Event) []domain.Event {
	rsvps := s.rsvpRepo.All()
	for i := range events {
		events[i].RegisteredCount = registered(events[i], rsvps)
	}
	return events
}

func (s *eventService) Create(ctx context.Context, in CreateEventInput) (*domain.Event, error) {
	if err := validateInput("event", in); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.Create(ctx, domain.Event{
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Date:            in.Date,
		Time:            strings.TrimSpace(in.Time),
		Location:        strings.TrimSpace(in.Location),
		Category:        strings.TrimSpace(in.Category),
		Capacity:        in.Capacity,
		RegisteredCount: in.RegisteredCount,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Event created", "eventID", event.ID, "date", event.Date)
	return &event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := s.eventRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("event", id)
	}
	e = s.withCounts([]domain.Event{e})[0]
	return &e, nil
}

func (s *eventService) List(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	events := s.eventRepo.Filter(func(e domain.Event) bool {
		if filter.Status != "" && e.Status != filter.Status {
			return false
		}
		if filter.Category != "" && !strings.EqualFold(e.Category, filter.Category) {
			return false
		}
		return filter.From == "" || e.Date >= filter.From
	})
	return s.withCounts(events), nil
}

func (s *eventService) Update(ctx context.Context, id string, in UpdateEventInput) (*domain.Event, error) {
	if in.Date != nil {
		if err := validate.Var(*in.Date, "required,datetime=2006-01-02"); err != nil {
			return nil, domain.Violation("event", "Date", "must be a date in 2006-01-02 format")
		}
	}
	if in.Capacity != nil && (*in.Capacity < 0 || *in.Capacity > domain.MaxEventCapacity) {
		return nil, domain.Violation("event", "Capacity", fmt.Sprintf("must be between 0 and %d", domain.MaxEventCapacity))
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, domain.Violation("event", "Title", "is required")
	}

	var event domain.Event
	err := store.Atomically2(ctx, s.eventRepo, s.rsvpRepo, func(events *store.Tx[domain.Event], rsvps *store.Tx[domain.RSVP]) error {
		var err error
		event, err = events.Update(id, func(e *domain.Event) error {
			setTrimmed(&e.Title, in.Title)
			setTrimmed(&e.Time, in.Time)
			setTrimmed(&e.Location, in.Location)
			setTrimmed(&e.Category, in.Category)
			if in.Description != nil {
				e.Description = *in.Description
			}
			if in.Date != nil {
				e.Date = *in.Date
			}
			if in.Capacity != nil {
				if n := registered(*e, rsvps.All()); *in.Capacity > 0 && *in.Capacity < n {
					return domain.Violation("event", "Capacity", fmt.Sprintf("%d already registered", n))
				}
				e.Capacity = *in.Capacity
			}
			return nil
		})
		if err == nil {
			event.RegisteredCount = registered(event, rsvps.All())
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *eventService) Cancel(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.Update(ctx, id, func(e *domain.Event) error {
		if e.Status != domain.EventStatusUpcoming {
			return &domain.TransitionError{Entity: "event", ID: id, Op: "cancel", From: string(e.Status)}
		}
		e.Status = domain.EventStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Event cancelled", "eventID", id)
	return &event, nil
}

// Delete removes the event together with its RSVPs.
func (s *eventService) Delete(ctx context.Context, id string) error {
	removed := 0
	err := store.Atomically2(ctx, s.eventRepo, s.rsvpRepo, func(events *store.Tx[domain.Event], rsvps *store.Tx[domain.RSVP]) error {
		if !events.Delete(id) {
			return domain.NotFound("event", id)
		}
		removed = rsvps.DeleteWhere(func(r domain.RSVP) bool { return r.EventID == id })
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Event deleted", "eventID", id, "rsvpsRemoved", removed)
	return nil
}

// CompletePast marks upcoming events dated before today as completed.
func (s *eventService) CompletePast(ctx context.Context, today string) (int, error) {
	cutoff, err := time.Parse(domain.DateLayout, today)
	if err != nil {
		return 0, domain.Violation("event", "Date", "must be a date in 2006-01-02 format")
	}
	completed := 0
	err = s.eventRepo.Atomically(ctx, func(tx *store.Tx[domain.Event]) error {
		past := tx.Filter(func(e domain.Event) bool {
			if e.Status != domain.EventStatusUpcoming {
				return false
			}
			day, err := e.Day()
			return err == nil && day.Before(cutoff)
		})
		for _, e := range past {
			if _, err := tx.Update(e.ID, func(e *domain.Event) error {
				e.Status = domain.EventStatusCompleted
				return nil
			}); err != nil {
				return err
			}
			completed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return completed, nil
}

// RSVP registers an alumnus and guests for an upcoming event. A second
// confirmed RSVP for the same pair is rejected; a cancelled one is reactivated.
// Capacity 0 means unlimited.
func (s *eventService) RSVP(ctx context.Context, eventID, alumniID string, guestCount int) (*domain.RSVP, error) {
	logger.EnterMethod("eventService.RSVP", "eventID", eventID, "alumniID", alumniID, "guests", guestCount)

	if guestCount < 0 || guestCount > domain.MaxGuests {
		err := domain.Violation("rsvp", "GuestCount", fmt.Sprintf("must be between 0 and %d", domain.MaxGuests))
		logger.ExitMethodWithError("eventService.RSVP", err)
		return nil, err
	}
	alumnus, ok := s.alumniRepo.Get(alumniID)
	if !ok {
		err := domain.NotFound("alumni", alumniID)
		logger.ExitMethodWithError("eventService.RSVP", err)
		return nil, err
	}

	var (
		rsvp  domain.RSVP
		event domain.Event
	)
	err := store.Atomically2(ctx, s.eventRepo, s.rsvpRepo, func(events *store.Tx[domain.Event], rsvps *store.Tx[domain.RSVP]) error {
		var ok bool
		event, ok = events.Get(eventID)
		if !ok {
			return domain.NotFound("event", eventID)
		}
		if event.Status != domain.EventStatusUpcoming {
			return &domain.TransitionError{Entity: "event", ID: eventID, Op: "rsvp to", From: string(event.Status)}
		}

		existing, found := rsvps.Find(func(r domain.RSVP) bool {
			return r.EventID == eventID && r.AlumniID == alumniID
		})
		if found && existing.Status == domain.RSVPStatusConfirmed {
			return domain.Violation("rsvp", "AlumniID", "already registered for this event")
		}

		// The attendee takes one place, so the guests must fit in the rest.
		if left := event.Capacity - registered(event, rsvps.All()); event.Capacity > 0 && guestCount >= left {
			return domain.Violation("rsvp", "GuestCount", fmt.Sprintf("only %d places left", max(left, 0)))
		}

		var err error
		if found {
			rsvp, err = rsvps.Update(existing.ID, func(r *domain.RSVP) error {
				r.Status = domain.RSVPStatusConfirmed
				r.GuestCount = guestCount
				return nil
			})
		} else {
			rsvp, err = rsvps.Create(domain.RSVP{EventID: eventID, AlumniID: alumniID, GuestCount: guestCount})
		}
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("eventService.RSVP", err, "eventID", eventID, "alumniID", alumniID)
		return nil, err
	}

	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: alumnus.Email,
		RecipientName:  alumnus.Name,
		Type:           domain.NotificationRSVPConfirmed,
		Title:          "RSVP confirmed: " + event.Title,
		Message:        fmt.Sprintf("You are registered for %s on %s with %d guest(s).", event.Title, event.Date, rsvp.GuestCount),
		Link:           "/events/" + event.ID,
	})

	logger.ExitMethod("eventService.RSVP", "rsvpID", rsvp.ID)
	return &rsvp, nil
}

func (s *eventService) CancelRSVP(ctx context.Context, eventID, alumniID string) (*domain.RSVP, error) {
	var rsvp domain.RSVP
	err := s.rsvpRepo.Atomically(ctx, func(tx *store.Tx[domain.RSVP]) error {
		current, ok := tx.Find(func(r domain.RSVP) bool { return r.EventID == eventID && r.AlumniID == alumniID })
		if !ok {
			return domain.NotFound("rsvp", pairKey(eventID, alumniID))
		}
		if current.Status != domain.RSVPStatusConfirmed {
			return &domain.TransitionError{Entity: "rsvp", ID: current.ID, Op: "cancel", From: string(current.Status)}
		}
		var err error
		rsvp, err = tx.Update(current.ID, func(r *domain.RSVP) error {
			r.Status = domain.RSVPStatusCancelled
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (s *eventService) ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error) {
	if _, ok := s.eventRepo.Get(eventID); !ok {
		return nil, domain.NotFound("event", eventID)
	}
	return s.rsvpRepo.Filter(func(r domain.RSVP) bool { return r.EventID == eventID }), nil
}

func (s *eventService) ListForAlumni(ctx context.Context, alumniID string) ([]domain.RSVP, error) {
	return s.rsvpRepo.Filter(func(r domain.RSVP) bool { return r.AlumniID == alumniID }), nil
}

// SendReminders notifies every confirmed attendee of the upcoming events held
// on day and returns the number of reminders recorded.
func (s *eventService) SendReminders(ctx context.Context, day string) (int, error) {
	if s.notifier == nil {
		return 0, nil
	}
	events := s.eventRepo.Filter(func(e domain.Event) bool {
		return e.Status == domain.EventStatusUpcoming && e.Date == day
	})
	sent := 0
	for _, e := range events {
		attendees := s.rsvpRepo.Filter(func(r domain.RSVP) bool {
			return r.EventID == e.ID && r.Status == domain.RSVPStatusConfirmed
		})
		for _, r := range attendees {
			alumnus, ok := s.alumniRepo.Get(r.AlumniID)
			if !ok {
				logger.Warn("RSVP refers to a missing alumni profile", "rsvpID", r.ID, "alumniID", r.AlumniID)
				continue
			}
			message := fmt.Sprintf("Reminder: %s is on %s", e.Title, e.Date)
			if e.Time != "" {
				message += " at " + e.Time
			}
			if e.Location != "" {
				message += ", " + e.Location
			}
			if _, err := s.notifier.Notify(ctx, NotifyInput{
				RecipientEmail: alumnus.Email,
				RecipientName:  alumnus.Name,
				Type:           domain.NotificationEventReminder,
				Title:          "Upcoming event: " + e.Title,
				Message:        message + ".",
				Link:           "/events/" + e.ID,
			}); err != nil {
				logger.Warn("Failed to record event reminder", "eventID", e.ID, "alumniID", r.AlumniID, "error", err)
				continue
			}
			sent++
		}
	}
	return sent, nil
}

func (s *eventService) Stats(ctx context.Context) (*EventStats, error) {
	events := s.withCounts(s.eventRepo.All())

	stats := &EventStats{
		Total:      len(events),
		ByStatus:   query.GroupBy(events, func(e domain.Event) string { return string(e.Status) }),
		ByCategory: query.TopN(query.Group(events, func(e domain.Event) string { return e.Category }, nil), 0, query.ByCount[string]),
		ByMonth:    query.SortByKey(query.Group(events, func(e domain.Event) string { return query.MonthKey(e.Date) }, nil)),
	}
	registrations := query.Sum(events, func(e domain.Event) float64 { return float64(e.RegisteredCount) })
	stats.TotalRegistrations = int(registrations)
	stats.AverageAttendance = query.Round1(query.Average(registrations, len(events)))

	capped := query.Filter(events, func(e domain.Event) bool { return e.Capacity > 0 })
	capacity := query.Sum(capped, func(e domain.Event) float64 { return float64(e.Capacity) })
	filled := query.Sum(capped, func(e domain.Event) float64 { return float64(e.RegisteredCount) })
	stats.FillRate = query.Percentage(int(filled), int(capacity))
	return stats, nil
}
