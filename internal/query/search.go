package query

import (
	"strings"

	"golang.org/x/text/cases"

	"alumni-connect-backend/internal/domain"
)

// AlumniFilter is a conjunctive directory search. Zero fields are ignored.
type AlumniFilter struct {
	// Search matches name, program, employer or title.
	Search         string
	Department     domain.Department
	GraduationYear int
	// Location matches city or state.
	Location string
	// Verification is an exact verification status match.
	Verification domain.VerificationStatus
}

// IsZero reports whether the filter has no predicates.
func (f AlumniFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Department == "" && f.GraduationYear == 0 &&
		strings.TrimSpace(f.Location) == "" && f.Verification == ""
}

type folder struct {
	caser cases.Caser
}

// newFolder returns a case folder. A Caser keeps state, so each search gets its own.
func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(s)
}

func (f *folder) contains(s, folded string) bool {
	return strings.Contains(f.fold(s), folded)
}

// SearchAlumni returns the profiles matching every predicate of filter, in
// their original order. All string matching is case-insensitive.
func SearchAlumni(profiles []domain.AlumniProfile, filter AlumniFilter) []domain.AlumniProfile {
	f := newFolder()
	search := f.fold(strings.TrimSpace(filter.Search))
	location := f.fold(strings.TrimSpace(filter.Location))
	department := f.fold(string(filter.Department))

	return Filter(profiles, func(p domain.AlumniProfile) bool {
		if search != "" &&
			!f.contains(p.Name, search) &&
			!f.contains(p.Program, search) &&
			!f.contains(p.Employer, search) &&
			!f.contains(p.Title, search) {
			return false
		}
		if department != "" && f.fold(string(p.Department)) != department {
			return false
		}
		if filter.GraduationYear != 0 && p.GraduationYear != filter.GraduationYear {
			return false
		}
		if location != "" && !f.contains(p.Location.City, location) && !f.contains(p.Location.State, location) {
			return false
		}
		if filter.Verification != "" && p.VerificationStatus != filter.Verification {
			return false
		}
		return true
	})
}
