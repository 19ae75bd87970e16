package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/model"
)

// StudentService handles student business logic.
type StudentService struct {
	tx          Transactor
	students    StudentStore
	enrollments EnrollmentStore
	log         zerolog.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(tx Transactor, students StudentStore, enrollments EnrollmentStore, log zerolog.Logger) *StudentService {
	return &StudentService{
		tx:          tx,
		students:    students,
		enrollments: enrollments,
		log:         log.With().Str("component", "student_service").Logger(),
	}
}

// List returns every student without enrollments.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Get returns a student with its enrollments and their courses loaded.
func (s *StudentService) Get(ctx context.Context, id int) (*model.Student, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("student id %d: %w", id, err)
	}
	if err := s.loadEnrollments(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Create validates and inserts a new student.
func (s *StudentService) Create(ctx context.Context, req model.CreateStudentRequest) (*model.Student, error) {
	student := &model.Student{}
	if err := student.SetFName(req.FName); err != nil {
		return nil, err
	}
	if err := student.SetLName(req.LName); err != nil {
		return nil, err
	}
	if err := student.SetGradYear(req.GradYear); err != nil {
		return nil, err
	}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	student.Enrollments = []model.Enrollment{}

	s.log.Info().Int("student_id", student.ID).Msg("Student created")
	return student, nil
}

// Patch applies every recognised key of patch to the student and persists
// the result in one transaction.
func (s *StudentService) Patch(ctx context.Context, id int, patch map[string]any) (*model.Student, error) {
	var student *model.Student
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		student, err = s.students.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("student id %d: %w", id, err)
		}
		if err := student.Apply(patch); err != nil {
			return err
		}
		if err := s.students.Update(ctx, student); err != nil {
			return fmt.Errorf("update student %d: %w", id, err)
		}
		return s.loadEnrollments(ctx, student)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("student_id", id).Int("fields", len(patch)).Msg("Student patched")
	return student, nil
}

// Delete removes a student together with its enrollments.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	var removed int64
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.enrollments.DeleteByStudent(ctx, id)
		if err != nil {
			return fmt.Errorf("delete enrollments of student %d: %w", id, err)
		}
		if err := s.students.Delete(ctx, id); err != nil {
			return fmt.Errorf("student id %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int("student_id", id).Int64("enrollments_removed", removed).Msg("Student deleted")
	return nil
}

// Courses returns the courses a student is enrolled in.
func (s *StudentService) Courses(ctx context.Context, id int) ([]model.Course, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return student.Courses(), nil
}

func (s *StudentService) loadEnrollments(ctx context.Context, student *model.Student) error {
	enrollments, err := s.enrollments.ListByStudent(ctx, student.ID)
	if err != nil {
		return fmt.Errorf("load enrollments of student %d: %w", student.ID, err)
	}
	student.Enrollments = enrollments
	return nil
}
