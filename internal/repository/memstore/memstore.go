// Package memstore is an in-process registrar store with the same contract
// as the PostgreSQL repositories: unique course titles, unique
// (student, course) enrollment pairs and cascading parent deletes.
package memstore

import (
	"context"
	"maps"
	"slices"
	"sync"
	"unicode/utf8"

	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/repository"
)

type state struct {
	students    map[int]model.Student
	courses     map[int]model.Course
	enrollments map[int]model.Enrollment
	nextID      map[string]int
}

func (s state) clone() state {
	return state{
		students:    maps.Clone(s.students),
		courses:     maps.Clone(s.courses),
		enrollments: maps.Clone(s.enrollments),
		nextID:      maps.Clone(s.nextID),
	}
}

// Store holds all three tables. Use Students, Courses and Enrollments to
// obtain the per-table views.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data state
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: state{
		students:    make(map[int]model.Student),
		courses:     make(map[int]model.Course),
		enrollments: make(map[int]model.Enrollment),
		nextID:      make(map[string]int),
	}}
}

type txKey struct{}

// WithTx serializes units of work and restores the previous state when fn
// fails. A WithTx nested inside fn joins the outer unit of work.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, s)

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// enter makes a table call outside WithTx wait for any running unit of work,
// so a rollback never discards writes it did not make.
func (s *Store) enter(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

func (s *Store) Students() *Students       { return &Students{s} }
func (s *Store) Courses() *Courses         { return &Courses{s} }
func (s *Store) Enrollments() *Enrollments { return &Enrollments{s} }

func (s *Store) next(table string) int {
	s.data.nextID[table]++
	return s.data.nextID[table]
}

func (s *Store) deleteEnrollments(match func(model.Enrollment) bool) int64 {
	var n int64
	for id, e := range s.data.enrollments {
		if match(e) {
			delete(s.data.enrollments, id)
			n++
		}
	}
	return n
}

func sortedValues[T any](m map[int]T) []T {
	out := make([]T, 0, len(m))
	for _, id := range slices.Sorted(maps.Keys(m)) {
		out = append(out, m[id])
	}
	return out
}

// Students is the student table view.
type Students struct{ s *Store }

func (r *Students) List(ctx context.Context) ([]model.Student, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.data.students), nil
}

func (r *Students) GetByID(ctx context.Context, id int) (*model.Student, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &st, nil
}

func (r *Students) Create(ctx context.Context, st *model.Student) error {
	defer r.s.enter(ctx)()
	if err := studentFits(st); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st.ID = r.s.next("students")
	r.s.data.students[st.ID] = bareStudent(*st)
	return nil
}

func (r *Students) Update(ctx context.Context, st *model.Student) error {
	defer r.s.enter(ctx)()
	if err := studentFits(st); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.students[st.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.data.students[st.ID] = bareStudent(*st)
	return nil
}

func (r *Students) Delete(ctx context.Context, id int) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.students, id)
	r.s.deleteEnrollments(func(e model.Enrollment) bool { return e.StudentID == id })
	return nil
}

// Courses is the course table view.
type Courses struct{ s *Store }

func (r *Courses) List(ctx context.Context) ([]model.Course, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return sortedValues(r.s.data.courses), nil
}

func (r *Courses) GetByID(ctx context.Context, id int) (*model.Course, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.courses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *Courses) Create(ctx context.Context, c *model.Course) error {
	defer r.s.enter(ctx)()
	if err := courseFits(c); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.titleTaken(c.Title, 0) {
		return repository.ErrDuplicateTitle
	}
	c.ID = r.s.next("courses")
	r.s.data.courses[c.ID] = bareCourse(*c)
	return nil
}

func (r *Courses) Update(ctx context.Context, c *model.Course) error {
	defer r.s.enter(ctx)()
	if err := courseFits(c); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.courses[c.ID]; !ok {
		return repository.ErrNotFound
	}
	if r.titleTaken(c.Title, c.ID) {
		return repository.ErrDuplicateTitle
	}
	r.s.data.courses[c.ID] = bareCourse(*c)
	return nil
}

func (r *Courses) Delete(ctx context.Context, id int) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.courses[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.courses, id)
	r.s.deleteEnrollments(func(e model.Enrollment) bool { return e.CourseID == id })
	return nil
}

func (r *Courses) titleTaken(title string, exceptID int) bool {
	for id, c := range r.s.data.courses {
		if id != exceptID && c.Title == title {
			return true
		}
	}
	return false
}

// Enrollments is the enrollment table view.
type Enrollments struct{ s *Store }

func (r *Enrollments) Create(ctx context.Context, e *model.Enrollment) error {
	defer r.s.enter(ctx)()
	if utf8.RuneCountInString(e.Term) > model.MaxTermLength {
		return repository.ErrInvalidValue
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.students[e.StudentID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.data.courses[e.CourseID]; !ok {
		return repository.ErrNotFound
	}
	if r.exists(e.StudentID, e.CourseID) {
		return repository.ErrDuplicateEnrollment
	}
	e.ID = r.s.next("enrollments")
	r.s.data.enrollments[e.ID] = model.Enrollment{
		ID: e.ID, StudentID: e.StudentID, CourseID: e.CourseID, Term: e.Term,
	}
	return nil
}

func (r *Enrollments) Exists(ctx context.Context, studentID, courseID int) (bool, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.exists(studentID, courseID), nil
}

func (r *Enrollments) exists(studentID, courseID int) bool {
	for _, e := range r.s.data.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true
		}
	}
	return false
}

func (r *Enrollments) ListByStudent(ctx context.Context, studentID int) ([]model.Enrollment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Enrollment{}
	for _, e := range sortedValues(r.s.data.enrollments) {
		if e.StudentID != studentID {
			continue
		}
		c := r.s.data.courses[e.CourseID]
		e.Course = &c
		out = append(out, e)
	}
	return out, nil
}

func (r *Enrollments) ListByCourse(ctx context.Context, courseID int) ([]model.Enrollment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []model.Enrollment{}
	for _, e := range sortedValues(r.s.data.enrollments) {
		if e.CourseID != courseID {
			continue
		}
		st := r.s.data.students[e.StudentID]
		e.Student = &st
		out = append(out, e)
	}
	return out, nil
}

func (r *Enrollments) DeleteByStudent(ctx context.Context, studentID int) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteEnrollments(func(e model.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (r *Enrollments) DeleteByCourse(ctx context.Context, courseID int) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.deleteEnrollments(func(e model.Enrollment) bool { return e.CourseID == courseID }), nil
}

// studentFits and courseFits mirror the column widths of the SQL schema.
func studentFits(s *model.Student) error {
	if utf8.RuneCountInString(s.FName) > model.MaxNameLength || utf8.RuneCountInString(s.LName) > model.MaxNameLength {
		return repository.ErrInvalidValue
	}
	return nil
}

func courseFits(c *model.Course) error {
	switch {
	case utf8.RuneCountInString(c.Title) > model.MaxTitleLength,
		c.Instructor != nil && utf8.RuneCountInString(*c.Instructor) > model.MaxInstructorLength,
		c.Credits > model.MaxCredits:
		return repository.ErrInvalidValue
	}
	return nil
}

func bareStudent(s model.Student) model.Student {
	s.Enrollments = nil
	return s
}

func bareCourse(c model.Course) model.Course {
	c.Enrollments = nil
	if c.Instructor != nil {
		v := *c.Instructor
		c.Instructor = &v
	}
	return c
}
