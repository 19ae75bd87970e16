package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/stemsi/registrar-backend/internal/database"
	"github.com/stemsi/registrar-backend/internal/model"
)

const enrollmentsTable = "enrollments"

var (
	uqEnrollmentPair    = database.Unique(enrollmentsTable, "student_id")
	fkEnrollmentStudent = database.ForeignKey(enrollmentsTable, "student_id", studentsTable)
	fkEnrollmentCourse  = database.ForeignKey(enrollmentsTable, "course_id", coursesTable)
)

// EnrollmentRepository handles enrollment data access.
type EnrollmentRepository struct {
	db database.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository.
func NewEnrollmentRepository(db database.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an enrollment. A repeated (student, course) pair yields
// ErrDuplicateEnrollment; a dangling parent ID yields ErrNotFound.
func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	sql, args, err := r.sb.Insert(enrollmentsTable).
		Columns("student_id", "course_id", "term").
		Values(e.StudentID, e.CourseID, e.Term).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create enrollment query: %w", err)
	}

	if err := database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&e.ID); err != nil {
		switch {
		case isConstraintViolation(err, pgUniqueViolation, uqEnrollmentPair):
			return ErrDuplicateEnrollment
		case isConstraintViolation(err, pgForeignKeyViolation, fkEnrollmentStudent),
			isConstraintViolation(err, pgForeignKeyViolation, fkEnrollmentCourse):
			return ErrNotFound
		}
		return fmt.Errorf("create enrollment: %w", mapDataError(err))
	}
	return nil
}

// Exists reports whether the student is already enrolled in the course.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID int) (bool, error) {
	sql, args, err := r.sb.Select("1").
		Prefix("SELECT EXISTS (").
		From(enrollmentsTable).
		Where(squirrel.Eq{"student_id": studentID, "course_id": courseID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build enrollment exists query: %w", err)
	}

	var exists bool
	if err := database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return exists, nil
}

// ListByStudent returns a student's enrollments with their courses loaded.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.course_id", "e.term",
		"c.id", "c.title", "c.instructor", "c.credits",
	).
		From(enrollmentsTable + " e").
		Join(coursesTable + " c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.student_id": studentID}).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list enrollments by student query: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrollments by student: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		e := model.Enrollment{Course: &model.Course{}}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Term,
			&e.Course.ID, &e.Course.Title, &e.Course.Instructor, &e.Course.Credits,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// ListByCourse returns a course's enrollments with their students loaded.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int) ([]model.Enrollment, error) {
	sql, args, err := r.sb.Select(
		"e.id", "e.student_id", "e.course_id", "e.term",
		"s.id", "s.fname", "s.lname", "s.grad_year",
	).
		From(enrollmentsTable + " e").
		Join(studentsTable + " s ON s.id = e.student_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		OrderBy("e.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list enrollments by course query: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query enrollments by course: %w", err)
	}
	defer rows.Close()

	enrollments := []model.Enrollment{}
	for rows.Next() {
		e := model.Enrollment{Student: &model.Student{}}
		if err := rows.Scan(
			&e.ID, &e.StudentID, &e.CourseID, &e.Term,
			&e.Student.ID, &e.Student.FName, &e.Student.LName, &e.Student.GradYear,
		); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// DeleteByStudent removes every enrollment of a student.
func (r *EnrollmentRepository) DeleteByStudent(ctx context.Context, studentID int) (int64, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"student_id": studentID})
}

// DeleteByCourse removes every enrollment in a course.
func (r *EnrollmentRepository) DeleteByCourse(ctx context.Context, courseID int) (int64, error) {
	return r.deleteWhere(ctx, squirrel.Eq{"course_id": courseID})
}

func (r *EnrollmentRepository) deleteWhere(ctx context.Context, pred squirrel.Eq) (int64, error) {
	sql, args, err := r.sb.Delete(enrollmentsTable).Where(pred).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete enrollments query: %w", err)
	}

	tag, err := database.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete enrollments: %w", err)
	}
	return tag.RowsAffected(), nil
}
