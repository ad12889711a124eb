package service

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

type CreateAlumniInput struct {
	Name           string            `validate:"required,max=200"`
	Email          string            `validate:"required,email"`
	GraduationYear int               `validate:"required,gte=1900,lte=2100"`
	Program        string            `validate:"max=200"`
	Department     domain.Department `validate:"required"`
	Employer       string            `validate:"max=200"`
	Title          string            `validate:"max=200"`
	Location       domain.Location
	Phone          string   `validate:"max=40"`
	LinkedInURL    string   `validate:"omitempty,url"`
	Bio            string   `validate:"max=5000"`
	Skills         []string `validate:"max=50"`
}

// UpdateAlumniInput carries the fields to change; nil fields are left alone.
type UpdateAlumniInput struct {
	Name           *string
	Email          *string
	GraduationYear *int
	Program        *string
	Department     *domain.Department
	Employer       *string
	Title          *string
	Location       *domain.Location
	Phone          *string
	LinkedInURL    *string
	Bio            *string
	Skills         []string
}

type DirectoryStats struct {
	Total               int                    `json:"total"`
	Verified            int                    `json:"verified"`
	VerifiedPercentage  int                    `json:"verifiedPercentage"`
	ByDepartment        map[string]int         `json:"byDepartment"`
	ByGraduationYear    []query.Bucket[int]    `json:"byGraduationYear"`
	TopEmployers        []query.Bucket[string] `json:"topEmployers"`
	TopLocations        []query.Bucket[string] `json:"topLocations"`
	AverageCompleteness float64                `json:"averageCompleteness"`
}

type alumniService struct {
	alumniRepo *store.Store[domain.AlumniProfile]
	notifier   NotificationService
}

func NewAlumniService(alumniRepo *store.Store[domain.AlumniProfile], notifier NotificationService) AlumniService {
	return &alumniService{alumniRepo: alumniRepo, notifier: notifier}
}

func emailTaken(tx *store.Tx[domain.AlumniProfile], email, exceptID string) bool {
	_, taken := tx.Find(func(p domain.AlumniProfile) bool {
		return p.ID != exceptID && domain.SameEmail(p.Email, email)
	})
	return taken
}

func (s *alumniService) Create(ctx context.Context, in CreateAlumniInput) (*domain.AlumniProfile, error) {
	logger.EnterMethod("alumniService.Create", "email", in.Email)

	if err := validateInput("alumni", in); err != nil {
		logger.ExitMethodWithError("alumniService.Create", err, "email", in.Email)
		return nil, err
	}
	if !in.Department.Valid() {
		err := domain.Violation("alumni", "Department", "unknown department "+string(in.Department))
		logger.ExitMethodWithError("alumniService.Create", err, "email", in.Email)
		return nil, err
	}

	var profile domain.AlumniProfile
	err := s.alumniRepo.Atomically(ctx, func(tx *store.Tx[domain.AlumniProfile]) error {
		if emailTaken(tx, in.Email, "") {
			return domain.Violation("alumni", "Email", "email is already registered")
		}
		var err error
		profile, err = tx.Create(domain.AlumniProfile{
			Name:           strings.TrimSpace(in.Name),
			Email:          strings.TrimSpace(in.Email),
			GraduationYear: in.GraduationYear,
			Program:        strings.TrimSpace(in.Program),
			Department:     in.Department,
			Employer:       strings.TrimSpace(in.Employer),
			Title:          strings.TrimSpace(in.Title),
			Location:       in.Location,
			Phone:          strings.TrimSpace(in.Phone),
			LinkedInURL:    strings.TrimSpace(in.LinkedInURL),
			Bio:            in.Bio,
			Skills:         normalizeAreas(in.Skills),
		})
		return err
	})
	if err != nil {
		logger.ExitMethodWithError("alumniService.Create", err, "email", in.Email)
		return nil, err
	}

	logger.ExitMethod("alumniService.Create", "alumniID", profile.ID, "completeness", profile.ProfileCompleteness)
	return &profile, nil
}

func (s *alumniService) Get(ctx context.Context, id string) (*domain.AlumniProfile, error) {
	p, ok := s.alumniRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("alumni", id)
	}
	return &p, nil
}

func (s *alumniService) GetByEmail(ctx context.Context, email string) (*domain.AlumniProfile, error) {
	p, ok := s.alumniRepo.Find(func(p domain.AlumniProfile) bool { return domain.SameEmail(p.Email, email) })
	if !ok {
		return nil, domain.NotFound("alumni", email)
	}
	return &p, nil
}

func (s *alumniService) Update(ctx context.Context, id string, in UpdateAlumniInput) (*domain.AlumniProfile, error) {
	if in.Department != nil && !in.Department.Valid() {
		return nil, domain.Violation("alumni", "Department", "unknown department "+string(*in.Department))
	}
	if in.Email != nil {
		if err := validate.Var(*in.Email, "required,email"); err != nil {
			return nil, domain.Violation("alumni", "Email", "must be a valid email address")
		}
	}
	if in.GraduationYear != nil && (*in.GraduationYear < 1900 || *in.GraduationYear > 2100) {
		return nil, domain.Violation("alumni", "GraduationYear", "must be between 1900 and 2100")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, domain.Violation("alumni", "Name", "is required")
	}

	var profile domain.AlumniProfile
	err := s.alumniRepo.Atomically(ctx, func(tx *store.Tx[domain.AlumniProfile]) error {
		if in.Email != nil && emailTaken(tx, *in.Email, id) {
			return domain.Violation("alumni", "Email", "email is already registered")
		}
		var err error
		profile, err = tx.Update(id, func(p *domain.AlumniProfile) error {
			setTrimmed(&p.Name, in.Name)
			setTrimmed(&p.Email, in.Email)
			setTrimmed(&p.Program, in.Program)
			setTrimmed(&p.Employer, in.Employer)
			setTrimmed(&p.Title, in.Title)
			setTrimmed(&p.Phone, in.Phone)
			setTrimmed(&p.LinkedInURL, in.LinkedInURL)
			setTrimmed(&p.Bio, in.Bio)
			if in.GraduationYear != nil {
				p.GraduationYear = *in.GraduationYear
			}
			if in.Department != nil {
				p.Department = *in.Department
			}
			if in.Location != nil {
				p.Location = *in.Location
			}
			if in.Skills != nil {
				p.Skills = normalizeAreas(in.Skills)
			}
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func (s *alumniService) Delete(ctx context.Context, id string) error {
	if !s.alumniRepo.Delete(ctx, id) {
		return domain.NotFound("alumni", id)
	}
	return nil
}

func (s *alumniService) Search(ctx context.Context, filter query.AlumniFilter) ([]domain.AlumniProfile, error) {
	return query.SearchAlumni(s.alumniRepo.All(), filter), nil
}

// SetVerification lets an admin change a profile's verification status.
func (s *alumniService) SetVerification(ctx context.Context, actor domain.Actor, id string, status domain.VerificationStatus) (*domain.AlumniProfile, error) {
	if !actor.IsAdmin {
		return nil, domain.Forbidden("verify alumni", "an admin")
	}
	if !status.Valid() {
		return nil, domain.Violation("alumni", "VerificationStatus", "unknown verification status "+string(status))
	}

	var previous domain.VerificationStatus
	profile, err := s.alumniRepo.Update(ctx, id, func(p *domain.AlumniProfile) error {
		previous = p.VerificationStatus
		p.VerificationStatus = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == domain.VerificationVerified && previous != domain.VerificationVerified {
		notify(ctx, s.notifier, NotifyInput{
			RecipientEmail: profile.Email,
			RecipientName:  profile.Name,
			Type:           domain.NotificationProfileVerified,
			Title:          "Your alumni profile is verified",
			Message:        "Your profile now shows as verified in the alumni directory.",
			Link:           "/profile",
		})
	}
	return &profile, nil
}

func (s *alumniService) DirectoryStats(ctx context.Context) (*DirectoryStats, error) {
	profiles := s.alumniRepo.All()

	verified := query.Filter(profiles, func(p domain.AlumniProfile) bool {
		return p.VerificationStatus == domain.VerificationVerified
	})
	stats := &DirectoryStats{
		Total:              len(profiles),
		Verified:           len(verified),
		VerifiedPercentage: query.Percentage(len(verified), len(profiles)),
		ByDepartment: query.GroupBy(profiles, func(p domain.AlumniProfile) string {
			return string(p.Department)
		}),
		ByGraduationYear: query.SortByKey(query.Group(profiles, func(p domain.AlumniProfile) int {
			return p.GraduationYear
		}, nil)),
	}

	employed := query.Filter(profiles, func(p domain.AlumniProfile) bool { return p.Employer != "" })
	stats.TopEmployers = query.TopN(query.Group(employed, func(p domain.AlumniProfile) string {
		return p.Employer
	}, nil), 10, query.ByCount[string])

	located := query.Filter(profiles, func(p domain.AlumniProfile) bool { return p.Location.City != "" })
	stats.TopLocations = query.TopN(query.Group(located, locationLabel, nil), 10, query.ByCount[string])

	completeness := query.Sum(profiles, func(p domain.AlumniProfile) float64 { return float64(p.ProfileCompleteness) })
	stats.AverageCompleteness = query.Round1(query.Average(completeness, len(profiles)))
	return stats, nil
}

func locationLabel(p domain.AlumniProfile) string {
	parts := slices.DeleteFunc([]string{p.Location.City, p.Location.State}, func(s string) bool { return s == "" })
	return strings.Join(parts, ", ")
}

// graduationDecade is used by the dashboard for cohort buckets, e.g. "2010s".
func graduationDecade(p domain.AlumniProfile) string {
	if p.GraduationYear <= 0 {
		return ""
	}
	return strconv.Itoa(p.GraduationYear/10*10) + "s"
}
