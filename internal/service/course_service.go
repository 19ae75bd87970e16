package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/registrar-backend/internal/model"
)

// CourseService handles course business logic.
type CourseService struct {
	tx          Transactor
	courses     CourseStore
	enrollments EnrollmentStore
	log         zerolog.Logger
}

func NewCourseService(tx Transactor, courses CourseStore, enrollments EnrollmentStore, log zerolog.Logger) *CourseService {
	return &CourseService{
		tx:          tx,
		courses:     courses,
		enrollments: enrollments,
		log:         log.With().Str("component", "course_service").Logger(),
	}
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Get returns a course with its enrollments and their students loaded.
func (s *CourseService) Get(ctx context.Context, id int) (*model.Course, error) {
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("course id %d: %w", id, err)
	}
	if err := s.loadEnrollments(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Create(ctx context.Context, req model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{}
	if err := course.SetTitle(req.Title); err != nil {
		return nil, err
	}
	if err := course.SetInstructor(req.Instructor); err != nil {
		return nil, err
	}
	if req.Credits != nil {
		if err := course.SetCredits(*req.Credits); err != nil {
			return nil, err
		}
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.log.Info().Int("course_id", course.ID).Str("title", course.Title).Msg("Course created")
	return course, nil
}

// Patch applies every recognised key of patch to the course.
func (s *CourseService) Patch(ctx context.Context, id int, patch map[string]any) (*model.Course, error) {
	var course *model.Course
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		course, err = s.courses.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("course id %d: %w", id, err)
		}
		if err := course.Apply(patch); err != nil {
			return err
		}
		if err := s.courses.Update(ctx, course); err != nil {
			return fmt.Errorf("update course %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Int("course_id", id).Int("fields", len(patch)).Msg("Course patched")
	return course, nil
}

// Delete removes a course together with its enrollments.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	var removed int64
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.enrollments.DeleteByCourse(ctx, id)
		if err != nil {
			return fmt.Errorf("delete enrollments of course %d: %w", id, err)
		}
		if err := s.courses.Delete(ctx, id); err != nil {
			return fmt.Errorf("course id %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info().Int("course_id", id).Int64("enrollments_removed", removed).Msg("Course deleted")
	return nil
}

// Students returns the students enrolled in a course.
func (s *CourseService) Students(ctx context.Context, id int) ([]model.Student, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return course.Students(), nil
}

func (s *CourseService) loadEnrollments(ctx context.Context, course *model.Course) error {
	enrollments, err := s.enrollments.ListByCourse(ctx, course.ID)
	if err != nil {
		return fmt.Errorf("load enrollments of course %d: %w", course.ID, err)
	}
	course.Enrollments = enrollments
	return nil
}
