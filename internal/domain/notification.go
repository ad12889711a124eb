package domain

import "time"

type NotificationType string

const (
	NotificationConnectionRequest   NotificationType = "connection_request"
	NotificationConnectionAccepted  NotificationType = "connection_accepted"
	NotificationMentorshipRequest   NotificationType = "mentorship_request"
	NotificationMentorshipAccepted  NotificationType = "mentorship_accepted"
	NotificationMentorshipDeclined  NotificationType = "mentorship_declined"
	NotificationMentorshipCompleted NotificationType = "mentorship_completed"
	NotificationApplicationApproved NotificationType = "mentor_application_approved"
	NotificationApplicationRejected NotificationType = "mentor_application_rejected"
	NotificationEventReminder       NotificationType = "event_reminder"
	NotificationRSVPConfirmed       NotificationType = "rsvp_confirmed"
	NotificationNewMessage          NotificationType = "new_message"
	NotificationDonationReceipt     NotificationType = "donation_receipt"
	NotificationProfileVerified     NotificationType = "profile_verified"
)

var notificationTypes = map[NotificationType]struct{}{
	NotificationConnectionRequest:   {},
	NotificationConnectionAccepted:  {},
	NotificationMentorshipRequest:   {},
	NotificationMentorshipAccepted:  {},
	NotificationMentorshipDeclined:  {},
	NotificationMentorshipCompleted: {},
	NotificationApplicationApproved: {},
	NotificationApplicationRejected: {},
	NotificationEventReminder:       {},
	NotificationRSVPConfirmed:       {},
	NotificationNewMessage:          {},
	NotificationDonationReceipt:     {},
	NotificationProfileVerified:     {},
}

// Valid reports whether t is a member of the closed notification type enum.
func (t NotificationType) Valid() bool {
	_, ok := notificationTypes[t]
	return ok
}

type Notification struct {
	ID             string           `json:"id" yaml:"id"`
	RecipientEmail string           `json:"recipientEmail" yaml:"recipientEmail"`
	Type           NotificationType `json:"type" yaml:"type"`
	Title          string           `json:"title" yaml:"title"`
	Message        string           `json:"message" yaml:"message"`
	Link           string           `json:"link,omitempty" yaml:"link"`
	IsRead         bool             `json:"isRead" yaml:"isRead"`
	CreatedAt      time.Time        `json:"createdAt" yaml:"createdAt"`
	ReadAt         *time.Time       `json:"readAt,omitempty" yaml:"readAt"`
}
