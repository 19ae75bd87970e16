package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/repository"
)

// EnrollmentService enrolls students in courses.
type EnrollmentService struct {
	tx          Transactor
	students    StudentStore
	courses     CourseStore
	enrollments EnrollmentStore
	log         zerolog.Logger
}

func NewEnrollmentService(
	tx Transactor,
	students StudentStore,
	courses CourseStore,
	enrollments EnrollmentStore,
	log zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		tx:          tx,
		students:    students,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With().Str("component", "enrollment_service").Logger(),
	}
}

// Enroll validates the term, then creates an enrollment after resolving both
// parents and rejecting a repeated (student, course) pair. Nothing is written
// unless every check passes.
func (s *EnrollmentService) Enroll(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	e := &model.Enrollment{StudentID: req.StudentID, CourseID: req.CourseID}
	if err := e.SetTerm(req.Term); err != nil {
		return nil, err
	}

	var created *model.Enrollment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		student, err := s.students.GetByID(ctx, req.StudentID)
		if err != nil {
			return fmt.Errorf("student id %d: %w", req.StudentID, err)
		}
		course, err := s.courses.GetByID(ctx, req.CourseID)
		if err != nil {
			return fmt.Errorf("course id %d: %w", req.CourseID, err)
		}

		exists, err := s.enrollments.Exists(ctx, student.ID, course.ID)
		if err != nil {
			return err
		}
		if exists {
			return repository.ErrDuplicateEnrollment
		}

		if err := s.enrollments.Create(ctx, e); err != nil {
			return fmt.Errorf("create enrollment: %w", err)
		}

		e.Student = student
		e.Course = course
		created = e
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("enrollment_id", created.ID).
		Int("student_id", created.StudentID).
		Int("course_id", created.CourseID).
		Str("term", created.Term).
		Msg("Student enrolled")
	return created, nil
}
