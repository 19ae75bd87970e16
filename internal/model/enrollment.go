package model

import "github.com/stemsi/registrar-backend/internal/serialize"

// Enrollment joins one student to one course for a term.
// Student and Course are nil unless loaded.
type Enrollment struct {
	ID        int      `json:"id"`
	StudentID int      `json:"student_id"`
	CourseID  int      `json:"course_id"`
	Term      string   `json:"term"`
	Student   *Student `json:"student,omitempty"`
	Course    *Course  `json:"course,omitempty"`
}

// SetTerm validates and stores term unchanged.
func (e *Enrollment) SetTerm(term string) error {
	if err := ValidateTerm(term); err != nil {
		return err
	}
	e.Term = term
	return nil
}

func (e *Enrollment) Columns() map[string]any {
	return map[string]any{
		"id":         e.ID,
		"student_id": e.StudentID,
		"course_id":  e.CourseID,
		"term":       e.Term,
	}
}

func (e *Enrollment) Relationships() map[string]serialize.Relation {
	rels := make(map[string]serialize.Relation)
	if e.Student != nil {
		rels["student"] = serialize.One(e.Student)
	}
	if e.Course != nil {
		rels["course"] = serialize.One(e.Course)
	}
	return rels
}

func (e *Enrollment) Rules() []string {
	return []string{"-student.enrollments", "-course.enrollments"}
}

// CreateEnrollmentRequest is the payload for enrolling a student in a course.
type CreateEnrollmentRequest struct {
	StudentID int    `json:"student_id" binding:"required,min=1,max=2147483647"`
	CourseID  int    `json:"course_id" binding:"required,min=1,max=2147483647"`
	Term      string `json:"term" binding:"required,max=50"`
}
