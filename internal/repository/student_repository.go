package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/stemsi/registrar-backend/internal/database"
	"github.com/stemsi/registrar-backend/internal/model"
)

const studentsTable = "students"

var studentColumns = []string{"id", "fname", "lname", "grad_year"}

// StudentRepository handles student data access.
type StudentRepository struct {
	db database.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(db database.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// List returns every student ordered by ID.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).From(studentsTable).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list students query: %w", err)
	}

	rows, err := database.Conn(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer rows.Close()

	students := []model.Student{}
	for rows.Next() {
		var s model.Student
		if err := rows.Scan(&s.ID, &s.FName, &s.LName, &s.GradYear); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// GetByID retrieves a student by ID without its enrollments.
func (r *StudentRepository) GetByID(ctx context.Context, id int) (*model.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From(studentsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get student query: %w", err)
	}

	s := &model.Student{}
	err = database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&s.ID, &s.FName, &s.LName, &s.GradYear)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

// Create inserts a new student and fills in its ID.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	sql, args, err := r.sb.Insert(studentsTable).
		Columns("fname", "lname", "grad_year").
		Values(s.FName, s.LName, s.GradYear).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create student query: %w", err)
	}

	if err := database.Conn(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&s.ID); err != nil {
		return fmt.Errorf("create student: %w", mapDataError(err))
	}
	return nil
}

// Update writes every column of s back to its row.
func (r *StudentRepository) Update(ctx context.Context, s *model.Student) error {
	sql, args, err := r.sb.Update(studentsTable).
		SetMap(map[string]interface{}{
			"fname":     s.FName,
			"lname":     s.LName,
			"grad_year": s.GradYear,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update student query: %w", err)
	}

	tag, err := database.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update student: %w", mapDataError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a student by ID. The schema cascades to its enrollments.
func (r *StudentRepository) Delete(ctx context.Context, id int) error {
	sql, args, err := r.sb.Delete(studentsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete student query: %w", err)
	}

	tag, err := database.Conn(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
