package service

import (
	"context"
	"fmt"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

type RequestMentorshipInput struct {
	MentorID    string `validate:"required"`
	MenteeID    string `validate:"required"`
	MenteeEmail string `validate:"required,email"`
	MenteeName  string `validate:"max=200"`
	Area        string `validate:"required,max=200"`
	Message     string `validate:"max=2000"`
}

type MentorshipStats struct {
	TotalMentors     int                     `json:"totalMentors"`
	AvailableMentors int                     `json:"availableMentors"`
	TotalRequests    int                     `json:"totalRequests"`
	ByStatus         map[string]int          `json:"byStatus"`
	ActivePercentage int                     `json:"activePercentage"`
	AverageRating    float64                 `json:"averageRating"`
	TopAreas         []query.Bucket[string]  `json:"topAreas"`
	TopMentors       []domain.ApprovedMentor `json:"topMentors"`
}

type mentorshipService struct {
	requestRepo *store.Store[domain.MentorshipRequest]
	mentorRepo  *store.Store[domain.ApprovedMentor]
	notifier    NotificationService
}

func NewMentorshipService(
	requestRepo *store.Store[domain.MentorshipRequest],
	mentorRepo *store.Store[domain.ApprovedMentor],
	notifier NotificationService,
) MentorshipService {
	return &mentorshipService{
		requestRepo: requestRepo,
		mentorRepo:  mentorRepo,
		notifier:    notifier,
	}
}

// Request opens a mentorship request. The mentor must be accepting mentees and
// the pair may have only one open request at a time.
func (s *mentorshipService) Request(ctx context.Context, in RequestMentorshipInput) (*domain.MentorshipRequest, error) {
	logger.EnterMethod("mentorshipService.Request", "mentorID", in.MentorID, "menteeID", in.MenteeID)

	req, mentor, err := s.open(ctx, in)
	if err != nil {
		logger.ExitMethodWithError("mentorshipService.Request", err, "mentorID", in.MentorID, "menteeID", in.MenteeID)
		return nil, err
	}

	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: mentor.Email,
		RecipientName:  mentor.Name,
		Type:           domain.NotificationMentorshipRequest,
		Title:          "New mentorship request",
		Message:        fmt.Sprintf("%s would like your mentorship in %s.", displayName(req.MenteeName), req.Area),
		Link:           "/mentorship/requests/" + req.ID,
	})

	logger.ExitMethod("mentorshipService.Request", "requestID", req.ID)
	return &req, nil
}

func (s *mentorshipService) open(ctx context.Context, in RequestMentorshipInput) (domain.MentorshipRequest, domain.ApprovedMentor, error) {
	var (
		req    domain.MentorshipRequest
		mentor domain.ApprovedMentor
	)
	if err := validateInput("mentorship request", in); err != nil {
		return req, mentor, err
	}
	err := store.Atomically2(ctx, s.requestRepo, s.mentorRepo, func(requests *store.Tx[domain.MentorshipRequest], mentors *store.Tx[domain.ApprovedMentor]) error {
		var ok bool
		mentor, ok = mentors.Get(in.MentorID)
		if !ok {
			return domain.NotFound("mentor", in.MentorID)
		}
		if !mentor.Available {
			return domain.Violation("mentorship request", "MentorID", "mentor is not accepting mentees")
		}
		if in.MenteeID == mentor.UserID || domain.SameEmail(in.MenteeEmail, mentor.Email) {
			return domain.Violation("mentorship request", "MenteeID", "cannot request mentorship from yourself")
		}
		if _, dup := requests.Find(func(r domain.MentorshipRequest) bool {
			return handledBy(mentor, r) && r.MenteeID == in.MenteeID && r.IsOpen()
		}); dup {
			return domain.Violation("mentorship request", "MenteeID", "an open request with this mentor already exists")
		}

		var err error
		req, err = requests.Create(domain.MentorshipRequest{
			MentorID:    mentor.ID,
			MentorEmail: mentor.Email,
			MenteeID:    in.MenteeID,
			MenteeEmail: strings.TrimSpace(in.MenteeEmail),
			MenteeName:  strings.TrimSpace(in.MenteeName),
			Area:        strings.TrimSpace(in.Area),
			Message:     in.Message,
		})
		return err
	})
	return req, mentor, err
}

func (s *mentorshipService) isMentor(actor domain.Actor, r domain.MentorshipRequest, mentors *store.Tx[domain.ApprovedMentor]) bool {
	if actor.Is("", r.MentorEmail) {
		return true
	}
	m, ok := mentors.Get(r.MentorID)
	return ok && actor.Is(m.UserID, m.Email)
}

func isMentee(actor domain.Actor, r domain.MentorshipRequest) bool {
	return actor.Is(r.MenteeID, r.MenteeEmail)
}

// transition moves a request from one status to another under both locks and
// refreshes the mentor's derived totals.
func (s *mentorshipService) transition(
	ctx context.Context,
	id, op string,
	allowed func(domain.Actor, domain.MentorshipRequest, *store.Tx[domain.ApprovedMentor]) bool,
	who string,
	actor domain.Actor,
	from domain.MentorshipStatus,
	apply func(r *domain.MentorshipRequest, tx *store.Tx[domain.MentorshipRequest]),
) (domain.MentorshipRequest, error) {
	var out domain.MentorshipRequest
	err := store.Atomically2(ctx, s.requestRepo, s.mentorRepo, func(requests *store.Tx[domain.MentorshipRequest], mentors *store.Tx[domain.ApprovedMentor]) error {
		current, ok := requests.Get(id)
		if !ok {
			return domain.NotFound("mentorship request", id)
		}
		if !actor.IsAdmin && !allowed(actor, current, mentors) {
			return domain.Forbidden(op+" mentorship request", who)
		}
		if current.Status != from {
			return &domain.TransitionError{Entity: "mentorship request", ID: id, Op: op, From: string(current.Status)}
		}
		var err error
		out, err = requests.Update(id, func(r *domain.MentorshipRequest) error {
			apply(r, requests)
			return nil
		})
		if err != nil {
			return err
		}
		return refreshMentor(out, requests, mentors)
	})
	return out, err
}

// refreshMentor recomputes the derived fields of the request's mentor from
// every request visible in the transaction. A removed mentor is skipped.
func refreshMentor(r domain.MentorshipRequest, requests *store.Tx[domain.MentorshipRequest], mentors *store.Tx[domain.ApprovedMentor]) error {
	mentor, ok := mentors.Get(r.MentorID)
	if !ok {
		mentor, ok = mentors.Find(func(m domain.ApprovedMentor) bool { return domain.SameEmail(m.Email, r.MentorEmail) })
	}
	if !ok {
		logger.Warn("Mentorship request refers to a missing mentor", "requestID", r.ID, "mentorID", r.MentorID)
		return nil
	}
	rating, mentees := mentorStats(mentor, requests.All())
	if rating == mentor.Rating && mentees == mentor.TotalMentees {
		return nil
	}
	_, err := mentors.Update(mentor.ID, func(m *domain.ApprovedMentor) error {
		m.Rating = rating
		m.TotalMentees = mentees
		return nil
	})
	return err
}

func (s *mentorshipService) Accept(ctx context.Context, actor domain.Actor, id string) (*domain.MentorshipRequest, error) {
	logger.EnterMethod("mentorshipService.Accept", "requestID", id)

	req, err := s.transition(ctx, id, "accept", s.isMentor, "the mentor or an admin", actor, domain.MentorshipStatusRequested,
		func(r *domain.MentorshipRequest, tx *store.Tx[domain.MentorshipRequest]) {
			now := tx.Now()
			r.Status = domain.MentorshipStatusActive
			r.RespondedAt = &now
		})
	if err != nil {
		logger.ExitMethodWithError("mentorshipService.Accept", err, "requestID", id)
		return nil, err
	}

	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: req.MenteeEmail,
		RecipientName:  req.MenteeName,
		Type:           domain.NotificationMentorshipAccepted,
		Title:          "Your mentorship request was accepted",
		Message:        fmt.Sprintf("Your mentorship request in %s has been accepted.", req.Area),
		Link:           "/mentorship/requests/" + req.ID,
	})

	logger.ExitMethod("mentorshipService.Accept", "requestID", id)
	return &req, nil
}

// Decline is only legal from REQUESTED; an active mentorship is completed instead.
func (s *mentorshipService) Decline(ctx context.Context, actor domain.Actor, id, reason string) (*domain.MentorshipRequest, error) {
	logger.EnterMethod("mentorshipService.Decline", "requestID", id)

	req, err := s.transition(ctx, id, "decline", s.isMentor, "the mentor or an admin", actor, domain.MentorshipStatusRequested,
		func(r *domain.MentorshipRequest, tx *store.Tx[domain.MentorshipRequest]) {
			now := tx.Now()
			r.Status = domain.MentorshipStatusDeclined
			r.DeclineReason = strings.TrimSpace(reason)
			r.RespondedAt = &now
		})
	if err != nil {
		logger.ExitMethodWithError("mentorshipService.Decline", err, "requestID", id)
		return nil, err
	}

	message := fmt.Sprintf("Your mentorship request in %s was declined.", req.Area)
	if req.DeclineReason != "" {
		message += " Reason: " + req.DeclineReason
	}
	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: req.MenteeEmail,
		RecipientName:  req.MenteeName,
		Type:           domain.NotificationMentorshipDeclined,
		Title:          "Update on your mentorship request",
		Message:        message,
		Link:           "/mentorship",
	})

	logger.ExitMethod("mentorshipService.Decline", "requestID", id)
	return &req, nil
}

func (s *mentorshipService) Complete(ctx context.Context, actor domain.Actor, id string) (*domain.MentorshipRequest, error) {
	logger.EnterMethod("mentorshipService.Complete", "requestID", id)

	participant := func(a domain.Actor, r domain.MentorshipRequest, mentors *store.Tx[domain.ApprovedMentor]) bool {
		return isMentee(a, r) || s.isMentor(a, r, mentors)
	}
	req, err := s.transition(ctx, id, "complete", participant, "a participant or an admin", actor, domain.MentorshipStatusActive,
		func(r *domain.MentorshipRequest, tx *store.Tx[domain.MentorshipRequest]) {
			now := tx.Now()
			r.Status = domain.MentorshipStatusCompleted
			r.CompletedAt = &now
		})
	if err != nil {
		logger.ExitMethodWithError("mentorshipService.Complete", err, "requestID", id)
		return nil, err
	}

	in := NotifyInput{
		Type:    domain.NotificationMentorshipCompleted,
		Title:   "Mentorship completed",
		Message: fmt.Sprintf("Your mentorship in %s has been marked complete.", req.Area),
		Link:    "/mentorship/requests/" + req.ID,
	}
	if isMentee(actor, req) {
		in.RecipientEmail = req.MentorEmail
	} else {
		in.RecipientEmail, in.RecipientName = req.MenteeEmail, req.MenteeName
		in.Message += " You can now rate your mentor."
	}
	notify(ctx, s.notifier, in)

	logger.ExitMethod("mentorshipService.Complete", "requestID", id)
	return &req, nil
}

// Rate records the mentee's rating, clamped to [1,5], and recomputes the
// mentor's rating from all rated requests in the same critical section.
func (s *mentorshipService) Rate(ctx context.Context, actor domain.Actor, id string, rating int, feedback string) (*domain.MentorshipRequest, error) {
	logger.EnterMethod("mentorshipService.Rate", "requestID", id, "rating", rating)

	var out domain.MentorshipRequest
	err := store.Atomically2(ctx, s.requestRepo, s.mentorRepo, func(requests *store.Tx[domain.MentorshipRequest], mentors *store.Tx[domain.ApprovedMentor]) error {
		current, ok := requests.Get(id)
		if !ok {
			return domain.NotFound("mentorship request", id)
		}
		if !actor.IsAdmin && !isMentee(actor, current) {
			return domain.Forbidden("rate mentorship request", "the mentee or an admin")
		}
		if !current.Rateable() {
			return &domain.TransitionError{Entity: "mentorship request", ID: id, Op: "rate", From: string(current.Status)}
		}
		now := requests.Now()
		var err error
		out, err = requests.Update(id, func(r *domain.MentorshipRequest) error {
			r.Rating = domain.ClampRating(rating)
			r.Feedback = strings.TrimSpace(feedback)
			r.RatedAt = &now
			return nil
		})
		if err != nil {
			return err
		}
		return refreshMentor(out, requests, mentors)
	})
	if err != nil {
		logger.ExitMethodWithError("mentorshipService.Rate", err, "requestID", id)
		return nil, err
	}

	logger.ExitMethod("mentorshipService.Rate", "requestID", id, "rating", out.Rating)
	return &out, nil
}

func (s *mentorshipService) Get(ctx context.Context, id string) (*domain.MentorshipRequest, error) {
	r, ok := s.requestRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("mentorship request", id)
	}
	return &r, nil
}

func (s *mentorshipService) ListForMentor(ctx context.Context, mentorID string) ([]domain.MentorshipRequest, error) {
	mentor, ok := s.mentorRepo.Get(mentorID)
	return s.requestRepo.Filter(func(r domain.MentorshipRequest) bool {
		if ok {
			return handledBy(mentor, r)
		}
		return r.MentorID == mentorID
	}), nil
}

func (s *mentorshipService) ListForMentee(ctx context.Context, menteeID string) ([]domain.MentorshipRequest, error) {
	return s.requestRepo.Filter(func(r domain.MentorshipRequest) bool {
		return r.MenteeID == menteeID
	}), nil
}

func (s *mentorshipService) Stats(ctx context.Context) (*MentorshipStats, error) {
	mentors := s.mentorRepo.All()
	requests := s.requestRepo.All()

	stats := &MentorshipStats{
		TotalMentors:  len(mentors),
		TotalRequests: len(requests),
		ByStatus:      query.GroupBy(requests, func(r domain.MentorshipRequest) string { return string(r.Status) }),
	}
	stats.AvailableMentors = len(query.Filter(mentors, func(m domain.ApprovedMentor) bool { return m.Available }))
	stats.ActivePercentage = query.Percentage(stats.ByStatus[string(domain.MentorshipStatusActive)], len(requests))

	rated := query.Filter(mentors, func(m domain.ApprovedMentor) bool { return m.Rating > 0 })
	stats.AverageRating = query.Round1(query.Average(query.Sum(rated, func(m domain.ApprovedMentor) float64 { return m.Rating }), len(rated)))

	var areas []string
	for _, m := range mentors {
		areas = append(areas, m.MentorshipAreas...)
	}
	stats.TopAreas = query.TopN(query.Group(areas, strings.TrimSpace, nil), 5, query.ByCount[string])

	ranked := query.Filter(mentors, func(m domain.ApprovedMentor) bool { return m.TotalMentees > 0 || m.Rating > 0 })
	buckets := query.Group(ranked, func(m domain.ApprovedMentor) string { return m.ID }, func(m domain.ApprovedMentor) float64 { return m.Rating })
	byID := make(map[string]domain.ApprovedMentor, len(ranked))
	for _, m := range ranked {
		byID[m.ID] = m
	}
	for _, b := range query.TopN(buckets, 5, query.BySum[string]) {
		stats.TopMentors = append(stats.TopMentors, byID[b.Key])
	}
	return stats, nil
}
