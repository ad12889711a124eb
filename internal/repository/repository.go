// Package repository wires one entity store per kind against a shared mirror
// and baseline snapshot.
package repository

import (
	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/store"
)

// Stores holds the store of every entity kind for the life of the process.
type Stores struct {
	Alumni             *store.Store[domain.AlumniProfile]
	Events             *store.Store[domain.Event]
	RSVPs              *store.Store[domain.RSVP]
	Donations          *store.Store[domain.Donation]
	MentorApplications *store.Store[domain.MentorApplication]
	Mentors            *store.Store[domain.ApprovedMentor]
	MentorshipRequests *store.Store[domain.MentorshipRequest]
	Connections        *store.Store[domain.Connection]
	Notifications      *store.Store[domain.Notification]
	Messages           *store.Store[domain.Message]
}

// NewStores builds every store. Stores are created in a fixed order, which is
// also the order cross-store critical sections take their locks in.
func NewStores(opts store.Options) *Stores {
	return &Stores{
		Alumni:             store.New(alumniSchema, opts),
		Events:             store.New(eventSchema, opts),
		RSVPs:              store.New(rsvpSchema, opts),
		Donations:          store.New(donationSchema, opts),
		MentorApplications: store.New(mentorApplicationSchema, opts),
		Mentors:            store.New(mentorSchema, opts),
		MentorshipRequests: store.New(mentorshipSchema, opts),
		Connections:        store.New(connectionSchema, opts),
		Notifications:      store.New(notificationSchema, opts),
		Messages:           store.New(messageSchema, opts),
	}
}

func (s *Stores) infos() []store.Info {
	return []store.Info{
		s.Alumni, s.Events, s.RSVPs, s.Donations, s.MentorApplications,
		s.Mentors, s.MentorshipRequests, s.Connections, s.Notifications, s.Messages,
	}
}

// StoreStats is the operational summary of one store.
type StoreStats struct {
	Name    string             `json:"name"`
	Records int                `json:"records"`
	Persist store.PersistState `json:"persist"`
}

// Stats summarizes every store. Calling it loads stores not yet accessed.
func (s *Stores) Stats() []StoreStats {
	infos := s.infos()
	out := make([]StoreStats, 0, len(infos))
	for _, info := range infos {
		out = append(out, StoreStats{
			Name:    info.Name(),
			Records: info.Count(),
			Persist: info.PersistState(),
		})
	}
	return out
}

// Dirty lists the stores whose mirror is behind memory.
func (s *Stores) Dirty() []string {
	var names []string
	for _, info := range s.infos() {
		if info.PersistState().Dirty {
			names = append(names, info.Name())
		}
	}
	return names
}
