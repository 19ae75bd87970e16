package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// GradYearCutoff is the earliest graduation year a student may carry.
const GradYearCutoff = 2023

// Column widths of the registrar tables, counted in characters.
const (
	MaxNameLength       = 100
	MaxTitleLength      = 200
	MaxInstructorLength = 100
	MaxTermLength       = 50
	MaxCredits          = math.MaxInt32
)

// termPattern is searched, not fully matched: "xF2030" is accepted.
var termPattern = regexp.MustCompile(`(?P<season>[FSW])(?P<year>[0-9]{4})`)

// now is swapped in tests to pin the current calendar year.
var now = time.Now

// ValidationError reports a rejected attribute value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func tooLong(field, s string, limit int) error {
	if utf8.RuneCountInString(s) > limit {
		return invalid(field, "must be at most %d characters", limit)
	}
	return nil
}

// ValidateGradYear checks year against the cutoff and returns the value that
// gets stored. Accepted years are normalized to GradYearCutoff.
func ValidateGradYear(year int) (int, error) {
	if year < GradYearCutoff {
		return 0, invalid("grad_year", "must be %d or later", GradYearCutoff)
	}
	return GradYearCutoff, nil
}

// ValidateTerm checks that term contains a season letter (F, S or W)
// followed by a four digit year no earlier than the current one.
func ValidateTerm(term string) error {
	if err := tooLong("term", term, MaxTermLength); err != nil {
		return err
	}
	m := termPattern.FindStringSubmatch(term)
	if m == nil {
		return invalid("term", "must be formatted as F, S or W followed by a four digit year")
	}
	year, _ := strconv.Atoi(m[termPattern.SubexpIndex("year")])
	if current := now().Year(); year < current {
		return invalid("term", "year must be %d or later", current)
	}
	return nil
}

// ValidateTitle rejects an empty or overlong course title.
func ValidateTitle(title string) error {
	if title == "" {
		return invalid("title", "is required")
	}
	return tooLong("title", title, MaxTitleLength)
}

// ValidateName applies the first and last name rules to the named field.
func ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return invalid(field, "is required")
	}
	return tooLong(field, name, MaxNameLength)
}

// ValidateInstructor accepts nil; a set instructor is bounded by the column.
func ValidateInstructor(instructor *string) error {
	if instructor == nil {
		return nil
	}
	return tooLong("instructor", *instructor, MaxInstructorLength)
}

func ValidateCredits(credits int) error {
	if credits < 0 || credits > MaxCredits {
		return invalid("credits", "must be between 0 and %d", MaxCredits)
	}
	return nil
}
