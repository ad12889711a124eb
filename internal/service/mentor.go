package service

import (
	"context"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

type MentorFilter struct {
	Area          string
	AvailableOnly bool
}

type AddMentorInput struct {
	UserID          string
	Name            string   `validate:"required,max=200"`
	Email           string   `validate:"required,email"`
	MentorshipAreas []string `validate:"required"`
}

// UpdateMentorInput carries the fields to change; nil fields are left alone.
type UpdateMentorInput struct {
	MentorshipAreas []string
	Available       *bool
}

type mentorService struct {
	mentorRepo  *store.Store[domain.ApprovedMentor]
	requestRepo *store.Store[domain.MentorshipRequest]
}

func NewMentorService(mentorRepo *store.Store[domain.ApprovedMentor], requestRepo *store.Store[domain.MentorshipRequest]) MentorService {
	return &mentorService{mentorRepo: mentorRepo, requestRepo: requestRepo}
}

func (s *mentorService) List(ctx context.Context, filter MentorFilter) ([]domain.ApprovedMentor, error) {
	area := strings.TrimSpace(filter.Area)
	return s.mentorRepo.Filter(func(m domain.ApprovedMentor) bool {
		if filter.AvailableOnly && !m.Available {
			return false
		}
		return area == "" || m.Offers(area)
	}), nil
}

func (s *mentorService) Get(ctx context.Context, id string) (*domain.ApprovedMentor, error) {
	m, ok := s.mentorRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("mentor", id)
	}
	return &m, nil
}

func (s *mentorService) GetByEmail(ctx context.Context, email string) (*domain.ApprovedMentor, error) {
	m, ok := s.mentorRepo.Find(func(m domain.ApprovedMentor) bool { return domain.SameEmail(m.Email, email) })
	if !ok {
		return nil, domain.NotFound("mentor", email)
	}
	return &m, nil
}

// Add puts a mentor in the directory without an application. Emails are unique.
func (s *mentorService) Add(ctx context.Context, actor domain.Actor, in AddMentorInput) (*domain.ApprovedMentor, error) {
	if !actor.IsAdmin {
		return nil, domain.Forbidden("add mentor", "an admin")
	}
	if err := validateInput("mentor", in); err != nil {
		return nil, err
	}
	areas, err := requireAreas("mentor", in.MentorshipAreas)
	if err != nil {
		return nil, err
	}

	var mentor domain.ApprovedMentor
	err = s.mentorRepo.Atomically(ctx, func(tx *store.Tx[domain.ApprovedMentor]) error {
		if _, dup := tx.Find(func(m domain.ApprovedMentor) bool { return domain.SameEmail(m.Email, in.Email) }); dup {
			return domain.Violation("mentor", "Email", "a mentor with this email already exists")
		}
		var err error
		mentor, err = tx.Create(domain.ApprovedMentor{
			UserID:          in.UserID,
			Name:            strings.TrimSpace(in.Name),
			Email:           strings.TrimSpace(in.Email),
			MentorshipAreas: areas,
			Available:       true,
			AddedBy:         reviewerOf(actor),
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Mentor added", "mentorID", mentor.ID, "addedBy", mentor.AddedBy)
	return &mentor, nil
}

// Update lets the mentor or an admin change areas and availability.
func (s *mentorService) Update(ctx context.Context, actor domain.Actor, id string, in UpdateMentorInput) (*domain.ApprovedMentor, error) {
	mentor, err := s.mentorRepo.Update(ctx, id, func(m *domain.ApprovedMentor) error {
		if !actor.IsAdmin && !actor.Is(m.UserID, m.Email) {
			return domain.Forbidden("update mentor", "the mentor or an admin")
		}
		if in.MentorshipAreas != nil {
			areas, err := requireAreas("mentor", in.MentorshipAreas)
			if err != nil {
				return err
			}
			m.MentorshipAreas = areas
		}
		if in.Available != nil {
			m.Available = *in.Available
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &mentor, nil
}

func (s *mentorService) Remove(ctx context.Context, actor domain.Actor, id string) error {
	if !actor.IsAdmin {
		return domain.Forbidden("remove mentor", "an admin")
	}
	if !s.mentorRepo.Delete(ctx, id) {
		return domain.NotFound("mentor", id)
	}
	return nil
}

// RefreshStats recomputes rating and mentee totals of every mentor from the
// mentorship requests and returns how many mentors changed.
func (s *mentorService) RefreshStats(ctx context.Context) (int, error) {
	changed := 0
	err := store.Atomically2(ctx, s.mentorRepo, s.requestRepo, func(mentors *store.Tx[domain.ApprovedMentor], requests *store.Tx[domain.MentorshipRequest]) error {
		all := requests.All()
		for _, m := range mentors.All() {
			rating, mentees := mentorStats(m, all)
			if rating == m.Rating && mentees == m.TotalMentees {
				continue
			}
			if _, err := mentors.Update(m.ID, func(m *domain.ApprovedMentor) error {
				m.Rating = rating
				m.TotalMentees = mentees
				return nil
			}); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return changed, nil
}

func handledBy(m domain.ApprovedMentor, r domain.MentorshipRequest) bool {
	return r.MentorID == m.ID || (r.MentorEmail != "" && domain.SameEmail(r.MentorEmail, m.Email))
}

// mentorStats scans every request of the mentor. The rating is the mean of all
// rated requests rounded to one decimal; mentees counts active and completed ones.
func mentorStats(m domain.ApprovedMentor, requests []domain.MentorshipRequest) (float64, int) {
	var (
		sum     float64
		rated   int
		mentees int
	)
	for _, r := range requests {
		if !handledBy(m, r) {
			continue
		}
		if r.CountsAsMentee() {
			mentees++
		}
		if r.Rating > 0 {
			sum += float64(r.Rating)
			rated++
		}
	}
	return query.Round1(query.Average(sum, rated)), mentees
}
