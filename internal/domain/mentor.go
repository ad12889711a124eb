package domain

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

type MentorApplication struct {
	ID              string            `json:"id" yaml:"id"`
	UserID          string            `json:"userId" yaml:"userId"`
	Name            string            `json:"name" yaml:"name"`
	Email           string            `json:"email" yaml:"email"`
	Department      Department        `json:"department,omitempty" yaml:"department"`
	MentorshipAreas []string          `json:"mentorshipAreas" yaml:"mentorshipAreas"`
	Experience      string            `json:"experience,omitempty" yaml:"experience"`
	Motivation      string            `json:"motivation,omitempty" yaml:"motivation"`
	Status          ApplicationStatus `json:"status" yaml:"status"`
	ReviewedBy      string            `json:"reviewedBy,omitempty" yaml:"reviewedBy"`
	ReviewedAt      *time.Time        `json:"reviewedAt,omitempty" yaml:"reviewedAt"`
	RejectionReason string            `json:"rejectionReason,omitempty" yaml:"rejectionReason"`
	SubmittedAt     time.Time         `json:"submittedAt" yaml:"submittedAt"`
}

type ApprovedMentor struct {
	ID              string    `json:"id" yaml:"id"`
	ApplicationID   string    `json:"applicationId,omitempty" yaml:"applicationId"`
	UserID          string    `json:"userId,omitempty" yaml:"userId"`
	Name            string    `json:"name" yaml:"name"`
	Email           string    `json:"email" yaml:"email"`
	MentorshipAreas []string  `json:"mentorshipAreas" yaml:"mentorshipAreas"`
	Rating          float64   `json:"rating" yaml:"rating"`
	TotalMentees    int       `json:"totalMentees" yaml:"totalMentees"`
	Available       bool      `json:"available" yaml:"available"`
	AddedBy         string    `json:"addedBy,omitempty" yaml:"addedBy"`
	ApprovedAt      time.Time `json:"approvedAt" yaml:"approvedAt"`
}

// Offers reports whether the mentor lists area, ignoring case.
func (m ApprovedMentor) Offers(area string) bool {
	for _, a := range m.MentorshipAreas {
		if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(area)) {
			return true
		}
	}
	return false
}
