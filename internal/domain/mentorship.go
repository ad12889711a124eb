package domain

import "time"

type MentorshipStatus string

const (
	MentorshipStatusRequested MentorshipStatus = "REQUESTED"
	MentorshipStatusActive    MentorshipStatus = "ACTIVE"
	MentorshipStatusDeclined  MentorshipStatus = "DECLINED"
	MentorshipStatusCompleted MentorshipStatus = "COMPLETED"
)

const (
	MinRating = 1
	MaxRating = 5
)

type MentorshipRequest struct {
	ID            string           `json:"id" yaml:"id"`
	MentorID      string           `json:"mentorId" yaml:"mentorId"`
	MentorEmail   string           `json:"mentorEmail" yaml:"mentorEmail"`
	MenteeID      string           `json:"menteeId" yaml:"menteeId"`
	MenteeEmail   string           `json:"menteeEmail" yaml:"menteeEmail"`
	MenteeName    string           `json:"menteeName,omitempty" yaml:"menteeName"`
	Area          string           `json:"area" yaml:"area"`
	Message       string           `json:"message,omitempty" yaml:"message"`
	Status        MentorshipStatus `json:"status" yaml:"status"`
	Rating        int              `json:"rating,omitempty" yaml:"rating"` // 0 means unrated
	Feedback      string           `json:"feedback,omitempty" yaml:"feedback"`
	DeclineReason string           `json:"declineReason,omitempty" yaml:"declineReason"`
	CreatedAt     time.Time        `json:"createdAt" yaml:"createdAt"`
	RespondedAt   *time.Time       `json:"respondedAt,omitempty" yaml:"respondedAt"`
	CompletedAt   *time.Time       `json:"completedAt,omitempty" yaml:"completedAt"`
	RatedAt       *time.Time       `json:"ratedAt,omitempty" yaml:"ratedAt"`
}

// IsOpen reports whether the request still occupies the mentor/mentee pair.
func (r MentorshipRequest) IsOpen() bool {
	return r.Status == MentorshipStatusRequested || r.Status == MentorshipStatusActive
}

// Rateable reports whether a rating may be recorded in the current status.
func (r MentorshipRequest) Rateable() bool {
	return r.Status == MentorshipStatusActive || r.Status == MentorshipStatusCompleted
}

// CountsAsMentee reports whether the request contributes to a mentor's mentee total.
func (r MentorshipRequest) CountsAsMentee() bool {
	return r.Rateable()
}

// ClampRating bounds a rating to [MinRating, MaxRating].
func ClampRating(r int) int {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
