package domain

import "time"

type DonationStatus string

const (
	DonationStatusCompleted DonationStatus = "Completed"
	DonationStatusPending   DonationStatus = "Pending"
	DonationStatusFailed    DonationStatus = "Failed"
)

func (s DonationStatus) Valid() bool {
	switch s {
	case DonationStatusCompleted, DonationStatusPending, DonationStatusFailed:
		return true
	}
	return false
}

// DefaultDonationPurpose is used when a donation names no purpose.
const DefaultDonationPurpose = "General Fund"

type Donation struct {
	ID            string         `json:"id" yaml:"id"`
	AlumniID      string         `json:"alumniId" yaml:"alumniId"`
	Amount        float64        `json:"amount" yaml:"amount"`
	Purpose       string         `json:"purpose" yaml:"purpose"`
	Date          string         `json:"date" yaml:"date"` // YYYY-MM-DD
	Status        DonationStatus `json:"status" yaml:"status"`
	PaymentMethod string         `json:"paymentMethod,omitempty" yaml:"paymentMethod"`
	Anonymous     bool           `json:"anonymous,omitempty" yaml:"anonymous"`
	CreatedAt     time.Time      `json:"createdAt" yaml:"createdAt"`
}
