package service

import (
	"context"
	"fmt"
	"time"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/query"
	"alumni-connect-backend/internal/store"
)

// Dashboard is the admin overview across every part of the portal.
type Dashboard struct {
	GeneratedAt time.Time              `json:"generatedAt"`
	Alumni      *DirectoryStats        `json:"alumni"`
	Cohorts     []query.Bucket[string] `json:"cohorts"`
	Events      *EventStats            `json:"events"`
	Donations   *DonationStats         `json:"donations"`
	Mentorship  *MentorshipStats       `json:"mentorship"`
	Engagement  Engagement             `json:"engagement"`
}

// Engagement counts the social activity recorded so far.
type Engagement struct {
	Connections         int `json:"connections"`
	AcceptedConnections int `json:"acceptedConnections"`
	AcceptanceRate      int `json:"acceptanceRate"`
	Messages            int `json:"messages"`
	UnreadNotifications int `json:"unreadNotifications"`
}

type analyticsService struct {
	alumniSvc     AlumniService
	eventSvc      EventService
	donationSvc   DonationService
	mentorshipSvc MentorshipService

	alumniRepo       *store.Store[domain.AlumniProfile]
	connectionRepo   *store.Store[domain.Connection]
	messageRepo      *store.Store[domain.Message]
	notificationRepo *store.Store[domain.Notification]
	clock            func() time.Time
}

func NewAnalyticsService(
	alumniSvc AlumniService,
	eventSvc EventService,
	donationSvc DonationService,
	mentorshipSvc MentorshipService,
	alumniRepo *store.Store[domain.AlumniProfile],
	connectionRepo *store.Store[domain.Connection],
	messageRepo *store.Store[domain.Message],
	notificationRepo *store.Store[domain.Notification],
) AnalyticsService {
	return &analyticsService{
		alumniSvc:        alumniSvc,
		eventSvc:         eventSvc,
		donationSvc:      donationSvc,
		mentorshipSvc:    mentorshipSvc,
		alumniRepo:       alumniRepo,
		connectionRepo:   connectionRepo,
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		clock:            time.Now,
	}
}

func (s *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	alumni, err := s.alumniSvc.DirectoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build directory stats: %w", err)
	}
	events, err := s.eventSvc.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build event stats: %w", err)
	}
	donations, err := s.donationSvc.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build donation stats: %w", err)
	}
	mentorship, err := s.mentorshipSvc.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build mentorship stats: %w", err)
	}

	profiles := s.alumniRepo.All()
	cohorts := query.SortByKey(query.Group(
		query.Filter(profiles, func(p domain.AlumniProfile) bool { return p.GraduationYear > 0 }),
		graduationDecade, nil))

	connections := s.connectionRepo.All()
	accepted := len(query.Filter(connections, func(c domain.Connection) bool {
		return c.Status == domain.ConnectionStatusAccepted
	}))
	answered := len(query.Filter(connections, func(c domain.Connection) bool {
		return c.Status != domain.ConnectionStatusPending
	}))

	return &Dashboard{
		GeneratedAt: s.clock(),
		Alumni:      alumni,
		Cohorts:     cohorts,
		Events:      events,
		Donations:   donations,
		Mentorship:  mentorship,
		Engagement: Engagement{
			Connections:         len(connections),
			AcceptedConnections: accepted,
			AcceptanceRate:      query.Percentage(accepted, answered),
			Messages:            s.messageRepo.Count(),
			UnreadNotifications: len(s.notificationRepo.Filter(func(n domain.Notification) bool { return !n.IsRead })),
		},
	}, nil
}
