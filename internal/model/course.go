package model

import "github.com/stemsi/registrar-backend/internal/serialize"

// Course is a class offering. Enrollments is nil until loaded.
type Course struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Instructor  *string      `json:"instructor"`
	Credits     int          `json:"credits"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
}

// SetTitle rejects an empty or overlong title.
func (c *Course) SetTitle(title string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	c.Title = title
	return nil
}

func (c *Course) SetInstructor(instructor *string) error {
	if err := ValidateInstructor(instructor); err != nil {
		return err
	}
	c.Instructor = instructor
	return nil
}

func (c *Course) SetCredits(credits int) error {
	if err := ValidateCredits(credits); err != nil {
		return err
	}
	c.Credits = credits
	return nil
}

// Students is the set of students reachable through the loaded enrollments.
func (c *Course) Students() []Student {
	students := make([]Student, 0, len(c.Enrollments))
	seen := make(map[int]bool, len(c.Enrollments))
	for _, e := range c.Enrollments {
		if e.Student == nil || seen[e.Student.ID] {
			continue
		}
		seen[e.Student.ID] = true
		students = append(students, *e.Student)
	}
	return students
}

var courseSetters = map[string]fieldSetter[Course]{
	"title": func(c *Course, v any) error {
		if v == nil {
			return invalid("title", "is required")
		}
		str, err := requiredString("title", v)
		if err != nil {
			return err
		}
		return c.SetTitle(str)
	},
	"instructor": func(c *Course, v any) error {
		str, err := optionalString("instructor", v)
		if err != nil {
			return err
		}
		return c.SetInstructor(str)
	},
	"credits": func(c *Course, v any) error {
		n, err := requiredInt("credits", v)
		if err != nil {
			return err
		}
		return c.SetCredits(n)
	},
}

// Apply writes every recognised key of patch onto the course.
func (c *Course) Apply(patch map[string]any) error {
	return applyPatch(c, patch, courseSetters)
}

func (c *Course) Columns() map[string]any {
	var instructor any
	if c.Instructor != nil {
		instructor = *c.Instructor
	}
	return map[string]any{
		"id":         c.ID,
		"title":      c.Title,
		"instructor": instructor,
		"credits":    c.Credits,
	}
}

func (c *Course) Relationships() map[string]serialize.Relation {
	rels := make(map[string]serialize.Relation)
	if c.Enrollments != nil {
		rels["enrollments"] = serialize.Many(c.Enrollments)
	}
	return rels
}

func (c *Course) Rules() []string {
	return []string{"-enrollments.course"}
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Title      string  `json:"title" binding:"required,notblank,max=200"`
	Instructor *string `json:"instructor" binding:"omitempty,max=100"`
	Credits    *int    `json:"credits" binding:"required,min=0,max=2147483647"`
}
