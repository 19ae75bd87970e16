package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/stemsi/registrar-backend/internal/database"
	"github.com/stemsi/registrar-backend/internal/model"
)

const coursesTable = "courses"

var courseColumns = []string{"id", "title", "instructor", "credits"}

var uqCourseTitle = database.Unique(coursesTable, "title")

// CourseRepository handles course data access.
type CourseRepository struct {
	db database.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db database.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).From(coursesTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list courses query: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Instructor, &c.Credits); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (*model.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From(coursesTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get course query: %w", err)
	}

	c := &model.Course{}
	err = database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&c.ID, &c.Title, &c.Instructor, &c.Credits)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return c, nil
}

// Create inserts a course. A taken title yields ErrDuplicateTitle.
func (r *CourseRepository) Create(ctx context.Context, c *model.Course) error {
	sql, args, err := r.sb.Insert(coursesTable).
		Columns("title", "instructor", "credits").
		Values(c.Title, c.Instructor, c.Credits).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create course query: %w", err)
	}

	if err := database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&c.ID); err != nil {
		if isConstraintViolation(err, pgUniqueViolation, uqCourseTitle) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("create course: %w", mapDataError(err))
	}
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, c *model.Course) error {
	sql, args, err := r.sb.Update(coursesTable).
		SetMap(map[string]interface{}{
			"title":      c.Title,
			"instructor": c.Instructor,
			"credits":    c.Credits,
		}).
		Where(squirrel.Eq{"id": c.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update course query: %w", err)
	}

	tag, err := database.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		if isConstraintViolation(err, pgUniqueViolation, uqCourseTitle) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("update course: %w", mapDataError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a course by ID. The schema cascades to its enrollments.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	sql, args, err := r.sb.Delete(coursesTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete course query: %w", err)
	}

	tag, err := database.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
