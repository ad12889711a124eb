package service

import (
	"context"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/query"
)

type AlumniService interface {
	Create(ctx context.Context, in CreateAlumniInput) (*domain.AlumniProfile, error)
	Get(ctx context.Context, id string) (*domain.AlumniProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.AlumniProfile, error)
	Update(ctx context.Context, id string, in UpdateAlumniInput) (*domain.AlumniProfile, error)
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, filter query.AlumniFilter) ([]domain.AlumniProfile, error)
	SetVerification(ctx context.Context, actor domain.Actor, id string, status domain.VerificationStatus) (*domain.AlumniProfile, error)
	DirectoryStats(ctx context.Context) (*DirectoryStats, error)
}

type EventService interface {
	Create(ctx context.Context, in CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, id string, in UpdateEventInput) (*domain.Event, error)
	Cancel(ctx context.Context, id string) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	CompletePast(ctx context.Context, today string) (int, error)

	RSVP(ctx context.Context, eventID, alumniID string, guestCount int) (*domain.RSVP, error)
	CancelRSVP(ctx context.Context, eventID, alumniID string) (*domain.RSVP, error)
	ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error)
	ListForAlumni(ctx context.Context, alumniID string) ([]domain.RSVP, error)
	SendReminders(ctx context.Context, day string) (int, error)
	Stats(ctx context.Context) (*EventStats, error)
}

type DonationService interface {
	Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error)
	Get(ctx context.Context, id string) (*domain.Donation, error)
	List(ctx context.Context, filter DonationFilter) ([]domain.Donation, error)
	UpdateStatus(ctx context.Context, id string, status domain.DonationStatus) (*domain.Donation, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*DonationStats, error)
}

type MentorApplicationService interface {
	Submit(ctx context.Context, in SubmitApplicationInput) (*domain.MentorApplication, error)
	Approve(ctx context.Context, actor domain.Actor, id string) (*domain.MentorApplication, *domain.ApprovedMentor, error)
	Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.MentorApplication, error)
	Withdraw(ctx context.Context, actor domain.Actor, id string) error
	Get(ctx context.Context, id string) (*domain.MentorApplication, error)
	List(ctx context.Context, status domain.ApplicationStatus) ([]domain.MentorApplication, error)
	ListByUser(ctx context.Context, userID string) ([]domain.MentorApplication, error)
}

type MentorService interface {
	List(ctx context.Context, filter MentorFilter) ([]domain.ApprovedMentor, error)
	Get(ctx context.Context, id string) (*domain.ApprovedMentor, error)
	GetByEmail(ctx context.Context, email string) (*domain.ApprovedMentor, error)
	Add(ctx context.Context, actor domain.Actor, in AddMentorInput) (*domain.ApprovedMentor, error)
	Update(ctx context.Context, actor domain.Actor, id string, in UpdateMentorInput) (*domain.ApprovedMentor, error)
	Remove(ctx context.Context, actor domain.Actor, id string) error
	RefreshStats(ctx context.Context) (int, error)
}

type MentorshipService interface {
	Request(ctx context.Context, in RequestMentorshipInput) (*domain.MentorshipRequest, error)
	Accept(ctx context.Context, actor domain.Actor, id string) (*domain.MentorshipRequest, error)
	Decline(ctx context.Context, actor domain.Actor, id, reason string) (*domain.MentorshipRequest, error)
	Complete(ctx context.Context, actor domain.Actor, id string) (*domain.MentorshipRequest, error)
	Rate(ctx context.Context, actor domain.Actor, id string, rating int, feedback string) (*domain.MentorshipRequest, error)
	Get(ctx context.Context, id string) (*domain.MentorshipRequest, error)
	ListForMentor(ctx context.Context, mentorID string) ([]domain.MentorshipRequest, error)
	ListForMentee(ctx context.Context, menteeID string) ([]domain.MentorshipRequest, error)
	Stats(ctx context.Context) (*MentorshipStats, error)
}

type ConnectionService interface {
	Request(ctx context.Context, requesterID, recipientID, message string) (*domain.Connection, error)
	Respond(ctx context.Context, actor domain.Actor, a, b string, status domain.ConnectionStatus) (*domain.Connection, error)
	Between(ctx context.Context, a, b string) (*domain.Connection, error)
	ListForUser(ctx context.Context, userID string, status domain.ConnectionStatus) ([]domain.Connection, error)
	Remove(ctx context.Context, actor domain.Actor, a, b string) error
}

type NotificationService interface {
	Notify(ctx context.Context, in NotifyInput) (*domain.Notification, error)
	List(ctx context.Context, email string, unreadOnly bool) ([]domain.Notification, error)
	UnreadCount(ctx context.Context, email string) (int, error)
	MarkRead(ctx context.Context, email, id string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, email string) (int, error)
	Delete(ctx context.Context, email, id string) error
	// Drain blocks until every email side-channel send started so far has finished.
	Drain()
}

type MessageService interface {
	Send(ctx context.Context, in SendMessageInput) (*domain.Message, error)
	Conversation(ctx context.Context, a, b string) ([]domain.Message, error)
	Inbox(ctx context.Context, email string) ([]domain.Message, error)
	Conversations(ctx context.Context, email string) ([]ConversationSummary, error)
	MarkRead(ctx context.Context, email, id string) (*domain.Message, error)
	MarkConversationRead(ctx context.Context, email, peer string) (int, error)
	UnreadCount(ctx context.Context, email string) (int, error)
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type EmailService interface {
	SendNotificationEmail(ctx context.Context, email, name, subject, message, link string) error
}
