package model

import "github.com/stemsi/registrar-backend/internal/serialize"

// Student is an enrolled person. Enrollments is nil until loaded.
type Student struct {
	ID          int          `json:"id"`
	FName       string       `json:"fname"`
	LName       string       `json:"lname"`
	GradYear    int          `json:"grad_year"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
}

// SetFName rejects a blank or overlong first name.
func (s *Student) SetFName(name string) error {
	if err := ValidateName("fname", name); err != nil {
		return err
	}
	s.FName = name
	return nil
}

// SetLName rejects a blank or overlong last name.
func (s *Student) SetLName(name string) error {
	if err := ValidateName("lname", name); err != nil {
		return err
	}
	s.LName = name
	return nil
}

// SetGradYear validates year and stores the normalized value.
func (s *Student) SetGradYear(year int) error {
	v, err := ValidateGradYear(year)
	if err != nil {
		return err
	}
	s.GradYear = v
	return nil
}

// Courses is the set of courses reachable through the loaded enrollments.
func (s *Student) Courses() []Course {
	courses := make([]Course, 0, len(s.Enrollments))
	seen := make(map[int]bool, len(s.Enrollments))
	for _, e := range s.Enrollments {
		if e.Course == nil || seen[e.Course.ID] {
			continue
		}
		seen[e.Course.ID] = true
		courses = append(courses, *e.Course)
	}
	return courses
}

var studentSetters = map[string]fieldSetter[Student]{
	"fname": func(s *Student, v any) error {
		str, err := requiredString("fname", v)
		if err != nil {
			return err
		}
		return s.SetFName(str)
	},
	"lname": func(s *Student, v any) error {
		str, err := requiredString("lname", v)
		if err != nil {
			return err
		}
		return s.SetLName(str)
	},
	"grad_year": func(s *Student, v any) error {
		year, err := requiredInt("grad_year", v)
		if err != nil {
			return err
		}
		return s.SetGradYear(year)
	},
}

// Apply writes every recognised key of patch onto the student.
func (s *Student) Apply(patch map[string]any) error {
	return applyPatch(s, patch, studentSetters)
}

func (s *Student) Columns() map[string]any {
	return map[string]any{
		"id":        s.ID,
		"fname":     s.FName,
		"lname":     s.LName,
		"grad_year": s.GradYear,
	}
}

func (s *Student) Relationships() map[string]serialize.Relation {
	rels := make(map[string]serialize.Relation)
	if s.Enrollments != nil {
		rels["enrollments"] = serialize.Many(s.Enrollments)
	}
	return rels
}

func (s *Student) Rules() []string {
	return []string{"-enrollments.student"}
}

// CreateStudentRequest is the payload for creating a student.
type CreateStudentRequest struct {
	FName    string `json:"fname" binding:"required,notblank,max=100"`
	LName    string `json:"lname" binding:"required,notblank,max=100"`
	GradYear int    `json:"grad_year" binding:"required"`
}
