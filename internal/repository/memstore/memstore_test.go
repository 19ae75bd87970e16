package memstore

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) (model.Student, model.Course) {
	t.Helper()
	ctx := context.Background()
	st := model.Student{FName: "Ada", LName: "Lovelace", GradYear: model.GradYearCutoff}
	require.NoError(t, s.Students().Create(ctx, &st))
	c := model.Course{Title: "Algebra", Credits: 3}
	require.NoError(t, s.Courses().Create(ctx, &c))
	require.NoError(t, s.Enrollments().Create(ctx, &model.Enrollment{StudentID: st.ID, CourseID: c.ID, Term: "F2030"}))
	return st, c
}

func TestDeleteStudentCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, c := seed(t, s)

	require.NoError(t, s.Students().Delete(ctx, st.ID))

	list, err := s.Enrollments().ListByCourse(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, s.Students().Delete(ctx, st.ID), repository.ErrNotFound)
}

func TestDeleteCourseCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, c := seed(t, s)

	require.NoError(t, s.Courses().Delete(ctx, c.ID))

	list, err := s.Enrollments().ListByStudent(ctx, st.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, c := seed(t, s)

	assert.ErrorIs(t, s.Courses().Create(ctx, &model.Course{Title: "Algebra"}), repository.ErrDuplicateTitle)
	assert.ErrorIs(t,
		s.Enrollments().Create(ctx, &model.Enrollment{StudentID: st.ID, CourseID: c.ID, Term: "S2031"}),
		repository.ErrDuplicateEnrollment)
	assert.ErrorIs(t,
		s.Enrollments().Create(ctx, &model.Enrollment{StudentID: 99, CourseID: c.ID, Term: "S2031"}),
		repository.ErrNotFound)

	renamed := c
	renamed.Title = "Algebra"
	require.NoError(t, s.Courses().Update(ctx, &renamed), "keeping its own title is not a conflict")
}

func TestWithTxRestoresStateOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, _ := seed(t, s)

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.Students().Delete(ctx, st.ID))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Students().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FName)

	list, err := s.Enrollments().ListByStudent(ctx, st.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Algebra", list[0].Course.Title)
}

func TestRollbackKeepsWritesMadeOutsideTx(t *testing.T) {
	ctx := context.Background()
	s := New()

	boom := errors.New("boom")
	done := make(chan error, 1)
	err := s.WithTx(ctx, func(ctx context.Context) error {
		go func() {
			done <- s.Students().Create(context.Background(), &model.Student{FName: "Grace", LName: "Hopper", GradYear: model.GradYearCutoff})
		}()
		select {
		case <-done:
			t.Error("write outside the transaction ran before it finished")
		case <-time.After(50 * time.Millisecond):
		}
		require.NoError(t, s.Students().Create(ctx, &model.Student{FName: "Ada", LName: "Lovelace", GradYear: model.GradYearCutoff}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.NoError(t, <-done)

	list, err := s.Students().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Grace", list[0].FName)
}

func TestNestedWithTxJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(ctx context.Context) error {
		require.NoError(t, s.WithTx(ctx, func(ctx context.Context) error {
			return s.Courses().Create(ctx, &model.Course{Title: "Algebra", Credits: 3})
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Courses().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "inner work rolls back with the outer transaction")
}

func TestColumnWidths(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, c := seed(t, s)

	long := strings.Repeat("a", model.MaxNameLength+1)
	assert.ErrorIs(t, s.Students().Create(ctx, &model.Student{FName: long, LName: "x"}), repository.ErrInvalidValue)
	st.LName = long
	assert.ErrorIs(t, s.Students().Update(ctx, &st), repository.ErrInvalidValue)

	instructor := strings.Repeat("a", model.MaxInstructorLength+1)
	c.Instructor = &instructor
	assert.ErrorIs(t, s.Courses().Update(ctx, &c), repository.ErrInvalidValue)
	assert.ErrorIs(t, s.Courses().Create(ctx, &model.Course{Title: "Big", Credits: model.MaxCredits + 1}), repository.ErrInvalidValue)

	other := model.Course{Title: "Geometry"}
	require.NoError(t, s.Courses().Create(ctx, &other))
	term := "F2030" + strings.Repeat("x", model.MaxTermLength)
	assert.ErrorIs(t, s.Enrollments().Create(ctx, &model.Enrollment{StudentID: st.ID, CourseID: other.ID, Term: term}), repository.ErrInvalidValue)

	got, err := s.Students().GetByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", got.LName)
}
