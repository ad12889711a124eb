package domain

import "time"

type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "Upcoming"
	EventStatusCompleted EventStatus = "Completed"
	EventStatusCancelled EventStatus = "Cancelled"
)

const (
	// MaxGuests bounds the guests one RSVP may bring.
	MaxGuests = 10
	// MaxEventCapacity bounds capacity and the base registration count.
	MaxEventCapacity = 1_000_000
)

type Event struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description"`
	Date        string `json:"date" yaml:"date"` // YYYY-MM-DD
	Time        string `json:"time,omitempty" yaml:"time"`
	Location    string `json:"location,omitempty" yaml:"location"`
	Category    string `json:"category,omitempty" yaml:"category"`
	Capacity    int    `json:"capacity" yaml:"capacity"` // 0 means unlimited
	// RegisteredCount is the persisted base value. Reads through EventService
	// add the party sizes of confirmed RSVPs on top of it.
	RegisteredCount int         `json:"registeredCount" yaml:"registeredCount"`
	Status          EventStatus `json:"status" yaml:"status"`
	CreatedAt       time.Time   `json:"createdAt" yaml:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt" yaml:"updatedAt"`
}

// Day parses the event date.
func (e Event) Day() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

type RSVPStatus string

const (
	RSVPStatusConfirmed RSVPStatus = "Confirmed"
	RSVPStatusCancelled RSVPStatus = "Cancelled"
)

type RSVP struct {
	ID         string     `json:"id" yaml:"id"`
	EventID    string     `json:"eventId" yaml:"eventId"`
	AlumniID   string     `json:"alumniId" yaml:"alumniId"`
	GuestCount int        `json:"guestCount" yaml:"guestCount"`
	Status     RSVPStatus `json:"status" yaml:"status"`
	CreatedAt  time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" yaml:"updatedAt"`
}

// PartySize counts the attendee plus guests.
func (r RSVP) PartySize() int {
	return 1 + r.GuestCount
}
