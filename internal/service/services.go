package service

import "alumni-connect-backend/internal/repository"

// Services bundles every service built over one set of stores.
type Services struct {
	Notification      NotificationService
	Alumni            AlumniService
	Event             EventService
	Donation          DonationService
	MentorApplication MentorApplicationService
	Mentor            MentorService
	Mentorship        MentorshipService
	Connection        ConnectionService
	Message           MessageService
	Analytics         AnalyticsService
}

func NewServices(stores *repository.Stores, emailSvc EmailService) *Services {
	noteSvc := NewNotificationService(stores.Notifications, emailSvc)
	alumniSvc := NewAlumniService(stores.Alumni, noteSvc)
	eventSvc := NewEventService(stores.Events, stores.RSVPs, stores.Alumni, noteSvc)
	donationSvc := NewDonationService(stores.Donations, stores.Alumni, noteSvc)
	mentorshipSvc := NewMentorshipService(stores.MentorshipRequests, stores.Mentors, noteSvc)

	return &Services{
		Notification:      noteSvc,
		Alumni:            alumniSvc,
		Event:             eventSvc,
		Donation:          donationSvc,
		MentorApplication: NewMentorApplicationService(stores.MentorApplications, stores.Mentors, noteSvc),
		Mentor:            NewMentorService(stores.Mentors, stores.MentorshipRequests),
		Mentorship:        mentorshipSvc,
		Connection:        NewConnectionService(stores.Connections, stores.Alumni, noteSvc),
		Message:           NewMessageService(stores.Messages, noteSvc),
		Analytics: NewAnalyticsService(
			alumniSvc, eventSvc, donationSvc, mentorshipSvc,
			stores.Alumni, stores.Connections, stores.Messages, stores.Notifications,
		),
	}
}
