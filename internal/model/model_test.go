package model

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stemsi/registrar-backend/internal/serialize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pinYear(t *testing.T, year int) {
	t.Helper()
	prev := now
	now = func() time.Time { return time.Date(year, time.March, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = prev })
}

func TestSetGradYearNormalizesToCutoff(t *testing.T) {
	for _, year := range []int{GradYearCutoff, 2024, 2030, 9999} {
		s := &Student{}
		require.NoError(t, s.SetGradYear(year))
		assert.Equal(t, GradYearCutoff, s.GradYear, "input %d", year)

		// Normalization is idempotent.
		require.NoError(t, s.SetGradYear(s.GradYear))
		assert.Equal(t, GradYearCutoff, s.GradYear)
	}
}

func TestSetGradYearRejectsEarlyYears(t *testing.T) {
	for _, year := range []int{GradYearCutoff - 1, 2000, 0, -5} {
		s := &Student{GradYear: 2025}
		err := s.SetGradYear(year)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve), "input %d", year)
		assert.Equal(t, "grad_year", ve.Field)
		assert.Equal(t, 2025, s.GradYear, "rejected value must not be stored")
	}
}

func TestSetTerm(t *testing.T) {
	pinYear(t, 2026)

	tests := []struct {
		term string
		ok   bool
	}{
		{"F2026", true},
		{"S2030", true},
		{"W2100", true},
		{"xxF2027", true},
		{"F20301", true},
		{"F2025", false},
		{"F2020", false},
		{"X2030", false},
		{"f2030", false},
		{"F203", false},
		{"", false},
		{"2030F", false},
		{"F2030" + strings.Repeat("x", MaxTermLength-5), true},
		{"F2030" + strings.Repeat("x", MaxTermLength-4), false},
	}
	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			e := &Enrollment{}
			err := e.SetTerm(tt.term)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.term, e.Term)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, "term", ve.Field)
			assert.Empty(t, e.Term)
		})
	}
}

func TestSetTitle(t *testing.T) {
	c := &Course{Title: "Algebra"}
	require.Error(t, c.SetTitle(""))
	assert.Equal(t, "Algebra", c.Title)

	require.NoError(t, c.SetTitle("Geometry"))
	assert.Equal(t, "Geometry", c.Title)

	require.NoError(t, c.SetTitle(strings.Repeat("é", MaxTitleLength)))
	require.Error(t, c.SetTitle(strings.Repeat("a", MaxTitleLength+1)))
}

func TestStudentApply(t *testing.T) {
	s := &Student{ID: 7, FName: "Ada", LName: "Lovelace", GradYear: GradYearCutoff}

	err := s.Apply(map[string]any{
		"fname":     "Grace",
		"grad_year": float64(2031),
		"id":        float64(99),
		"nickname":  "ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, 7, s.ID, "id is read-only")
	assert.Equal(t, "Grace", s.FName)
	assert.Equal(t, "Lovelace", s.LName)
	assert.Equal(t, GradYearCutoff, s.GradYear)
}

func TestStudentApplyFailures(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]any
		field string
	}{
		{"early grad year", map[string]any{"grad_year": float64(1999)}, "grad_year"},
		{"fractional grad year", map[string]any{"grad_year": 2024.5}, "grad_year"},
		{"non numeric grad year", map[string]any{"grad_year": "soon"}, "grad_year"},
		{"null fname", map[string]any{"fname": nil}, "fname"},
		{"object lname", map[string]any{"lname": map[string]any{"x": 1}}, "lname"},
		{"empty fname", map[string]any{"fname": ""}, "fname"},
		{"blank lname", map[string]any{"lname": "   "}, "lname"},
		{"overlong fname", map[string]any{"fname": strings.Repeat("a", MaxNameLength+1)}, "fname"},
		{"hex grad year", map[string]any{"grad_year": "0x7E8"}, "grad_year"},
		{"underscored grad year", map[string]any{"grad_year": "2_030"}, "grad_year"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Student{FName: "Ada", LName: "Lovelace", GradYear: GradYearCutoff}
			err := s.Apply(tt.patch)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCourseApply(t *testing.T) {
	instructor := "Hopper"
	c := &Course{ID: 3, Title: "Compilers", Instructor: &instructor, Credits: 3}

	require.NoError(t, c.Apply(map[string]any{"instructor": nil, "credits": "4"}))
	assert.Nil(t, c.Instructor)
	assert.Equal(t, 4, c.Credits)

	err := c.Apply(map[string]any{"title": ""})
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)
	assert.Equal(t, "Compilers", c.Title)

	require.Error(t, c.Apply(map[string]any{"title": nil}))
	require.Error(t, c.Apply(map[string]any{"credits": nil}))
}

func TestCourseApplyFailures(t *testing.T) {
	tests := []struct {
		name  string
		patch map[string]any
		field string
	}{
		{"negative credits", map[string]any{"credits": float64(-1)}, "credits"},
		{"credits beyond int32", map[string]any{"credits": float64(MaxCredits) + 1}, "credits"},
		{"hex credits", map[string]any{"credits": "0x10"}, "credits"},
		{"overlong title", map[string]any{"title": strings.Repeat("a", MaxTitleLength+1)}, "title"},
		{"overlong instructor", map[string]any{"instructor": strings.Repeat("a", MaxInstructorLength+1)}, "instructor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{Title: "Compilers", Credits: 3}
			err := c.Apply(tt.patch)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, "Compilers", c.Title)
			assert.Equal(t, 3, c.Credits)
			assert.Nil(t, c.Instructor)
		})
	}
}

func TestRequiredIntReadsDecimalStrings(t *testing.T) {
	for in, want := range map[string]int{"010": 10, "4": 4, "-7": -7, "+12": 12} {
		got, err := requiredInt("credits", in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, in := range []string{"0x10", "1_0", "0b11", " 4", "4.0", ""} {
		_, err := requiredInt("credits", in)
		assert.Error(t, err, in)
	}
}

func fixtureGraph() (*Student, *Course) {
	student := &Student{ID: 1, FName: "Ada", LName: "Lovelace", GradYear: GradYearCutoff}
	course := &Course{ID: 2, Title: "Analytical Engines", Credits: 4}
	enrollment := Enrollment{ID: 10, StudentID: 1, CourseID: 2, Term: "F2030", Student: student, Course: course}
	student.Enrollments = []Enrollment{enrollment}
	course.Enrollments = []Enrollment{enrollment}
	return student, course
}

func TestStudentSerializationCutsBackEdge(t *testing.T) {
	student, _ := fixtureGraph()

	out := serialize.ToMap(student)
	assert.Equal(t, "Ada", out["fname"])

	enrollments, ok := out["enrollments"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, enrollments, 1)
	assert.NotContains(t, enrollments[0], "student")
	assert.Equal(t, "F2030", enrollments[0]["term"])

	course, ok := enrollments[0]["course"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Analytical Engines", course["title"])
	assert.Nil(t, course["instructor"])
	assert.NotContains(t, course, "enrollments")
}

func TestCourseSerializationCutsBackEdge(t *testing.T) {
	_, course := fixtureGraph()

	out := serialize.ToMap(course)
	enrollments, ok := out["enrollments"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, enrollments, 1)
	assert.NotContains(t, enrollments[0], "course")

	student, ok := enrollments[0]["student"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Lovelace", student["lname"])
	assert.NotContains(t, student, "enrollments")
}

func TestEndpointOverrides(t *testing.T) {
	student, course := fixtureGraph()

	assert.NotContains(t, serialize.ToMap(student, "-enrollments"), "enrollments")
	assert.NotContains(t, serialize.ToMap(course, "-enrollments"), "enrollments")

	e := student.Enrollments[0]
	full := serialize.ToMap(&e)
	assert.Contains(t, full, "student")
	assert.Contains(t, full, "course")
	assert.NotContains(t, full["student"].(map[string]any), "enrollments")

	bare := serialize.ToMap(&e, "-student", "-course")
	assert.Equal(t, map[string]any{"id": 10, "student_id": 1, "course_id": 2, "term": "F2030"}, bare)
}

func TestDerivedViews(t *testing.T) {
	student, course := fixtureGraph()

	courses := student.Courses()
	require.Len(t, courses, 1)
	assert.Equal(t, 2, courses[0].ID)

	students := course.Students()
	require.Len(t, students, 1)
	assert.Equal(t, 1, students[0].ID)

	assert.Empty(t, (&Student{}).Courses())
}
