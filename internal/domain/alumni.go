package domain

import (
	"math"
	"time"
)

type Department string

const (
	DepartmentSTEM           Department = "STEM"
	DepartmentBusiness       Department = "BUSINESS"
	DepartmentHumanities     Department = "HUMANITIES"
	DepartmentHealthcare     Department = "HEALTHCARE"
	DepartmentSocialSciences Department = "SOCIAL_SCIENCES"
)

// Departments lists the closed department enum in display order.
var Departments = []Department{
	DepartmentSTEM,
	DepartmentBusiness,
	DepartmentHumanities,
	DepartmentHealthcare,
	DepartmentSocialSciences,
}

func (d Department) Valid() bool {
	for _, v := range Departments {
		if d == v {
			return true
		}
	}
	return false
}

type VerificationStatus string

const (
	VerificationPending    VerificationStatus = "Pending"
	VerificationVerified   VerificationStatus = "Verified"
	VerificationUnverified VerificationStatus = "Unverified"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationUnverified:
		return true
	}
	return false
}

type Location struct {
	City    string `json:"city" yaml:"city"`
	State   string `json:"state" yaml:"state"`
	Country string `json:"country" yaml:"country"`
}

type AlumniProfile struct {
	ID                  string             `json:"id" yaml:"id"`
	Name                string             `json:"name" yaml:"name"`
	Email               string             `json:"email" yaml:"email"`
	GraduationYear      int                `json:"graduationYear" yaml:"graduationYear"`
	Program             string             `json:"program" yaml:"program"`
	Department          Department         `json:"department" yaml:"department"`
	Employer            string             `json:"employer,omitempty" yaml:"employer"`
	Title               string             `json:"title,omitempty" yaml:"title"`
	Location            Location           `json:"location" yaml:"location"`
	Phone               string             `json:"phone,omitempty" yaml:"phone"`
	LinkedInURL         string             `json:"linkedinUrl,omitempty" yaml:"linkedinUrl"`
	Bio                 string             `json:"bio,omitempty" yaml:"bio"`
	Skills              []string           `json:"skills,omitempty" yaml:"skills"`
	VerificationStatus  VerificationStatus `json:"verificationStatus" yaml:"verificationStatus"`
	ProfileCompleteness int                `json:"profileCompleteness" yaml:"profileCompleteness"`
	CreatedAt           time.Time          `json:"createdAt" yaml:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" yaml:"updatedAt"`
}

// Completeness derives the 0-100 profile completeness score from the filled fields.
func (p AlumniProfile) Completeness() int {
	filled := []bool{
		p.Name != "",
		p.Email != "",
		p.GraduationYear > 0,
		p.Program != "",
		p.Department != "",
		p.Employer != "",
		p.Title != "",
		p.Location.City != "",
		p.Location.Country != "",
		p.Phone != "",
		p.LinkedInURL != "",
		p.Bio != "",
		len(p.Skills) > 0,
	}
	n := 0
	for _, ok := range filled {
		if ok {
			n++
		}
	}
	return int(math.Round(float64(n) * 100 / float64(len(filled))))
}
