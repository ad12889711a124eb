package service

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

const anonymousDonor = "Anonymous"

// checkAmount accepts finite amounts in whole cents, so the stored amount is
// exactly the one given.
func checkAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return domain.Violation("donation", "Amount", "must be a finite number")
	}
	if query.Round2(amount) != amount {
		return domain.Violation("donation", "Amount", "must not have more than two decimal places")
	}
	return nil
}

type CreateDonationInput struct {
	AlumniID      string                `validate:"required"`
	Amount        float64               `validate:"gt=0,lte=1000000000"`
	Purpose       string                `validate:"max=200"`
	Date          string                `validate:"omitempty,datetime=2006-01-02"`
	Status        domain.DonationStatus `validate:"omitempty,oneof=Completed Pending Failed"`
	PaymentMethod string                `validate:"max=100"`
	Anonymous     bool
}

type DonationFilter struct {
	AlumniID string
	Purpose  string
	Status   domain.DonationStatus
}

type DonorTotal struct {
	AlumniID string  `json:"alumniId,omitempty"`
	Name     string  `json:"name"`
	Total    float64 `json:"total"`
	Count    int     `json:"count"`
}

type DonationStats struct {
	TotalAmount   float64                `json:"totalAmount"`
	Count         int                    `json:"count"`
	Average       float64                `json:"average"`
	Donors        int                    `json:"donors"`
	ByPurpose     []query.Bucket[string] `json:"byPurpose"`
	MonthlyTrend  []query.Bucket[string] `json:"monthlyTrend"`
	ByYear        []query.Bucket[string] `json:"byYear"`
	ByWeekday     []query.Bucket[string] `json:"byWeekday"`
	TopDonors     []DonorTotal           `json:"topDonors"`
	ByStatus      map[string]int         `json:"byStatus"`
	PendingAmount float64                `json:"pendingAmount"`
}

type donationService struct {
	donationRepo *store.Store[domain.Donation]
	alumniRepo   *store.Store[domain.AlumniProfile]
	notifier     NotificationService
}

func NewDonationService(
	donationRepo *store.Store[domain.Donation],
	alumniRepo *store.Store[domain.AlumniProfile],
	notifier NotificationService,
) DonationService {
	return &donationService{
		donationRepo: donationRepo,
		alumniRepo:   alumniRepo,
		notifier:     notifier,
	}
}

func (s *donationService) Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error) {
	logger.EnterMethod("donationService.Create", "alumniID", in.AlumniID, "amount", in.Amount)

	if err := validateInput("donation", in); err != nil {
		logger.ExitMethodWithError("donationService.Create", err, "alumniID", in.AlumniID)
		return nil, err
	}
	if err := checkAmount(in.Amount); err != nil {
		logger.ExitMethodWithError("donationService.Create", err, "alumniID", in.AlumniID)
		return nil, err
	}
	donor, ok := s.alumniRepo.Get(in.AlumniID)
	if !ok {
		err := domain.NotFound("alumni", in.AlumniID)
		logger.ExitMethodWithError("donationService.Create", err)
		return nil, err
	}

	donation, err := s.donationRepo.Create(ctx, domain.Donation{
		AlumniID:      in.AlumniID,
		Amount:        in.Amount,
		Purpose:       strings.TrimSpace(in.Purpose),
		Date:          in.Date,
		Status:        in.Status,
		PaymentMethod: strings.TrimSpace(in.PaymentMethod),
		Anonymous:     in.Anonymous,
	})
	if err != nil {
		logger.ExitMethodWithError("donationService.Create", err, "alumniID", in.AlumniID)
		return nil, err
	}

	if donation.Status == domain.DonationStatusCompleted {
		s.sendReceipt(ctx, donor, donation)
	}

	logger.ExitMethod("donationService.Create", "donationID", donation.ID)
	return &donation, nil
}

func (s *donationService) sendReceipt(ctx context.Context, donor domain.AlumniProfile, d domain.Donation) {
	notify(ctx, s.notifier, NotifyInput{
		RecipientEmail: donor.Email,
		RecipientName:  donor.Name,
		Type:           domain.NotificationDonationReceipt,
		Title:          "Thank you for your donation",
		Message:        fmt.Sprintf("We received your gift of $%.2f to %s on %s. Receipt number: %s.", d.Amount, d.Purpose, d.Date, d.ID),
		Link:           "/donations",
	})
}

func (s *donationService) Get(ctx context.Context, id string) (*domain.Donation, error) {
	d, ok := s.donationRepo.Get(id)
	if !ok {
		return nil, domain.NotFound("donation", id)
	}
	return &d, nil
}

func (s *donationService) List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error) {
	return s.donationRepo.Filter(func(d domain.Donation) bool {
		if filter.AlumniID != "" && d.AlumniID != filter.AlumniID {
			return false
		}
		if filter.Purpose != "" && !strings.EqualFold(d.Purpose, filter.Purpose) {
			return false
		}
		return filter.Status == "" || d.Status == filter.Status
	}), nil
}

// UpdateStatus settles a donation. Moving a donation to Completed sends its receipt.
func (s *donationService) UpdateStatus(ctx context.Context, id string, status domain.DonationStatus) (*domain.Donation, error) {
	if !status.Valid() {
		return nil, domain.Violation("donation", "Status", "unknown donation status "+string(status))
	}
	var previous domain.DonationStatus
	donation, err := s.donationRepo.Update(ctx, id, func(d *domain.Donation) error {
		previous = d.Status
		if previous == domain.DonationStatusCompleted && status != domain.DonationStatusCompleted {
			return &domain.TransitionError{Entity: "donation", ID: id, Op: "reopen", From: string(previous)}
		}
		d.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == domain.DonationStatusCompleted && previous != domain.DonationStatusCompleted {
		if donor, ok := s.alumniRepo.Get(donation.AlumniID); ok {
			s.sendReceipt(ctx, donor, donation)
		}
	}
	return &donation, nil
}

func (s *donationService) Delete(ctx context.Context, id string) error {
	if !s.donationRepo.Delete(ctx, id) {
		return domain.NotFound("donation", id)
	}
	return nil
}

// Stats aggregates completed donations. Anonymous gifts count toward totals
// but are grouped under one name in the donor ranking.
func (s *donationService) Stats(ctx context.Context) (*DonationStats, error) {
	all := s.donationRepo.All()
	completed := query.Filter(all, func(d domain.Donation) bool { return d.Status == domain.DonationStatusCompleted })
	amount := func(d domain.Donation) float64 { return d.Amount }

	stats := &DonationStats{
		Count:    len(completed),
		ByStatus: query.GroupBy(all, func(d domain.Donation) string { return string(d.Status) }),
	}
	stats.TotalAmount = query.Round2(query.Sum(completed, amount))
	stats.Average = query.Round2(query.Average(stats.TotalAmount, len(completed)))
	stats.Donors = len(query.GroupBy(completed, func(d domain.Donation) string { return d.AlumniID }))
	stats.PendingAmount = query.Round2(query.Sum(query.Filter(all, func(d domain.Donation) bool {
		return d.Status == domain.DonationStatusPending
	}), amount))

	stats.ByPurpose = query.TopN(query.Group(completed, func(d domain.Donation) string { return d.Purpose }, amount), 0, query.BySum[string])
	stats.MonthlyTrend = query.SortByKey(query.Group(completed, func(d domain.Donation) string { return query.MonthKey(d.Date) }, amount))
	stats.ByYear = query.SortByKey(query.Group(completed, func(d domain.Donation) string { return query.YearKey(d.Date) }, amount))

	weekdays := query.Group(completed, func(d domain.Donation) string { return query.WeekdayKey(d.Date) }, amount)
	slices.SortStableFunc(weekdays, func(a, b query.Bucket[string]) int {
		return slices.Index(query.Weekdays, a.Key) - slices.Index(query.Weekdays, b.Key)
	})
	stats.ByWeekday = weekdays

	donorKey := func(d domain.Donation) string {
		if d.Anonymous {
			return anonymousDonor
		}
		return d.AlumniID
	}
	for _, b := range query.TopN(query.Group(completed, donorKey, amount), 5, query.BySum[string]) {
		donor := DonorTotal{Name: anonymousDonor, Total: query.Round2(b.Sum), Count: b.Count}
		if b.Key != anonymousDonor {
			donor.AlumniID = b.Key
			donor.Name = b.Key
			if p, ok := s.alumniRepo.Get(b.Key); ok {
				donor.Name = p.Name
			}
		}
		stats.TopDonors = append(stats.TopDonors, donor)
	}
	return stats, nil
}
