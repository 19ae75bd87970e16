package service

import (
	"context"

	"github.com/stemsi/registrar-backend/internal/model"
)

// Transactor runs fn as one unit of work.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StudentStore persists students.
type StudentStore interface {
	List(ctx context.Context) ([]model.Student, error)
	GetByID(ctx context.Context, id int) (*model.Student, error)
	Create(ctx context.Context, s *model.Student) error
	Update(ctx context.Context, s *model.Student) error
	Delete(ctx context.Context, id int) error
}

// CourseStore persists courses.
type CourseStore interface {
	List(ctx context.Context) ([]model.Course, error)
	GetByID(ctx context.Context, id int) (*model.Course, error)
	Create(ctx context.Context, c *model.Course) error
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id int) error
}

// EnrollmentStore persists enrollments.
type EnrollmentStore interface {
	Create(ctx context.Context, e *model.Enrollment) error
	Exists(ctx context.Context, studentID, courseID int) (bool, error)
	ListByStudent(ctx context.Context, studentID int) ([]model.Enrollment, error)
	ListByCourse(ctx context.Context, courseID int) ([]model.Enrollment, error)
	DeleteByStudent(ctx context.Context, studentID int) (int64, error)
	DeleteByCourse(ctx context.Context, courseID int) (int64, error)
}
