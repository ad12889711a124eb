package repository

import (
	"slices"
	"strings"
	"time"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/store"
)

var alumniSchema = store.Schema[domain.AlumniProfile]{
	Name:   "alumni",
	File:   "alumni.json",
	Prefix: "alm",
	ID:     func(p *domain.AlumniProfile) *string { return &p.ID },
	Defaults: func(p *domain.AlumniProfile, now time.Time) {
		p.Email = strings.TrimSpace(p.Email)
		if p.VerificationStatus == "" {
			p.VerificationStatus = domain.VerificationPending
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	},
	Touch: func(p *domain.AlumniProfile, now time.Time) { p.UpdatedAt = now },
	Derive: func(p *domain.AlumniProfile) {
		p.ProfileCompleteness = p.Completeness()
	},
	Clone: func(p domain.AlumniProfile) domain.AlumniProfile {
		p.Skills = slices.Clone(p.Skills)
		return p
	},
}

var eventSchema = store.Schema[domain.Event]{
	Name:   "events",
	File:   "events.json",
	Prefix: "evt",
	ID:     func(e *domain.Event) *string { return &e.ID },
	Defaults: func(e *domain.Event, now time.Time) {
		if e.Status == "" {
			e.Status = domain.EventStatusUpcoming
		}
		e.CreatedAt = now
		e.UpdatedAt = now
	},
	Touch: func(e *domain.Event, now time.Time) { e.UpdatedAt = now },
}

var rsvpSchema = store.Schema[domain.RSVP]{
	Name:   "rsvps",
	File:   "rsvps.json",
	Prefix: "rsvp",
	ID:     func(r *domain.RSVP) *string { return &r.ID },
	Defaults: func(r *domain.RSVP, now time.Time) {
		if r.Status == "" {
			r.Status = domain.RSVPStatusConfirmed
		}
		r.CreatedAt = now
		r.UpdatedAt = now
	},
	Touch: func(r *domain.RSVP, now time.Time) { r.UpdatedAt = now },
}

var donationSchema = store.Schema[domain.Donation]{
	Name:   "donations",
	File:   "donations.json",
	Prefix: "don",
	ID:     func(d *domain.Donation) *string { return &d.ID },
	Defaults: func(d *domain.Donation, now time.Time) {
		if strings.TrimSpace(d.Purpose) == "" {
			d.Purpose = domain.DefaultDonationPurpose
		}
		if d.Date == "" {
			d.Date = now.Format(domain.DateLayout)
		}
		if d.Status == "" {
			d.Status = domain.DonationStatusCompleted
		}
		d.CreatedAt = now
	},
}

var mentorApplicationSchema = store.Schema[domain.MentorApplication]{
	Name:   "mentorApplications",
	File:   "mentor_applications.json",
	Prefix: "app",
	ID:     func(a *domain.MentorApplication) *string { return &a.ID },
	Defaults: func(a *domain.MentorApplication, now time.Time) {
		if a.Status == "" {
			a.Status = domain.ApplicationStatusPending
		}
		a.SubmittedAt = now
	},
	Clone: func(a domain.MentorApplication) domain.MentorApplication {
		a.MentorshipAreas = slices.Clone(a.MentorshipAreas)
		return a
	},
}

var mentorSchema = store.Schema[domain.ApprovedMentor]{
	Name:   "mentors",
	File:   "mentors.json",
	Prefix: "mnt",
	ID:     func(m *domain.ApprovedMentor) *string { return &m.ID },
	Defaults: func(m *domain.ApprovedMentor, now time.Time) {
		if m.ApprovedAt.IsZero() {
			m.ApprovedAt = now
		}
	},
	Clone: func(m domain.ApprovedMentor) domain.ApprovedMentor {
		m.MentorshipAreas = slices.Clone(m.MentorshipAreas)
		return m
	},
}

var mentorshipSchema = store.Schema[domain.MentorshipRequest]{
	Name:   "mentorshipRequests",
	File:   "mentorship_requests.json",
	Prefix: "mreq",
	ID:     func(r *domain.MentorshipRequest) *string { return &r.ID },
	Defaults: func(r *domain.MentorshipRequest, now time.Time) {
		if r.Status == "" {
			r.Status = domain.MentorshipStatusRequested
		}
		r.CreatedAt = now
	},
}

var connectionSchema = store.Schema[domain.Connection]{
	Name:   "connections",
	File:   "connections.json",
	Prefix: "conn",
	ID:     func(c *domain.Connection) *string { return &c.ID },
	Defaults: func(c *domain.Connection, now time.Time) {
		if c.Status == "" {
			c.Status = domain.ConnectionStatusPending
		}
		c.CreatedAt = now
		c.UpdatedAt = now
	},
	Touch: func(c *domain.Connection, now time.Time) { c.UpdatedAt = now },
}

var notificationSchema = store.Schema[domain.Notification]{
	Name:   "notifications",
	File:   "notifications.json",
	Prefix: "ntf",
	ID:     func(n *domain.Notification) *string { return &n.ID },
	Defaults: func(n *domain.Notification, now time.Time) {
		n.CreatedAt = now
	},
}

var messageSchema = store.Schema[domain.Message]{
	Name:   "messages",
	File:   "messages.json",
	Prefix: "msg",
	ID:     func(m *domain.Message) *string { return &m.ID },
	Defaults: func(m *domain.Message, now time.Time) {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
	},
}
