package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stemsi/registrar-backend/internal/config"
	"github.com/stemsi/registrar-backend/internal/database"
	"github.com/stemsi/registrar-backend/internal/logger"
	"github.com/stemsi/registrar-backend/internal/model"
	"github.com/stemsi/registrar-backend/internal/repository"
	"github.com/stemsi/registrar-backend/internal/service"
)

type seedCourse struct {
	title      string
	instructor string
	credits    int
}

var courses = []seedCourse{
	{"Calculus I", "Katherine Johnson", 4},
	{"Linear Algebra", "Emmy Noether", 3},
	{"Data Structures", "Barbara Liskov", 4},
	{"Compilers", "Grace Hopper", 4},
	{"Operating Systems", "", 3},
	{"Technical Writing", "", 2},
}

var names = []string{
	"Ada Lovelace", "Alan Turing", "Edsger Dijkstra", "Margaret Hamilton",
	"Donald Knuth", "Frances Allen", "John Backus", "Radia Perlman",
	"Ken Thompson", "Shafi Goldwasser", "Leslie Lamport", "Adele Goldberg",
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	tx := database.NewTxManager(pool, log)
	studentRepo := repository.NewStudentRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	studentService := service.NewStudentService(tx, studentRepo, enrollmentRepo, log)
	courseService := service.NewCourseService(tx, courseRepo, enrollmentRepo, log)
	enrollmentService := service.NewEnrollmentService(tx, studentRepo, courseRepo, enrollmentRepo, log)

	fmt.Printf("=== Seeding %d courses ===\n", len(courses))
	courseIDs := make([]int, 0, len(courses))
	existing, err := courseService.List(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list courses")
	}
	byTitle := make(map[string]int, len(existing))
	for _, c := range existing {
		byTitle[c.Title] = c.ID
	}
	for _, sc := range courses {
		if id, ok := byTitle[sc.title]; ok {
			fmt.Printf("Found existing course %q with ID: %d\n", sc.title, id)
			courseIDs = append(courseIDs, id)
			continue
		}
		req := model.CreateCourseRequest{Title: sc.title, Credits: &sc.credits}
		if sc.instructor != "" {
			req.Instructor = &sc.instructor
		}
		course, err := courseService.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Str("title", sc.title).Msg("Failed to create course")
		}
		courseIDs = append(courseIDs, course.ID)
	}

	fmt.Printf("=== Seeding %d students ===\n", len(names))
	now := time.Now()
	res := seedStudents(ctx, studentService, enrollmentService, names, courseIDs, "F"+strconv.Itoa(now.Year()), now.Year()+4)

	fmt.Printf("\nSeed completed! %d courses, %d students, %d enrollments (%d already present).\n",
		len(courseIDs), res.students, res.enrollments, res.duplicates)
}

type seedResult struct {
	students    int
	enrollments int
	duplicates  int
}

// seedStudents creates one student per name and enrolls each in three
// consecutive courses, wrapping around courseIDs. Only rows actually written
// are counted; failed creates are reported and skipped.
func seedStudents(ctx context.Context, students *service.StudentService, enrollments *service.EnrollmentService,
	names []string, courseIDs []int, term string, gradYear int) seedResult {
	var res seedResult
	for i, name := range names {
		first, last, _ := strings.Cut(name, " ")
		student, err := students.Create(ctx, model.CreateStudentRequest{
			FName: first, LName: last, GradYear: gradYear,
		})
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		res.students++

		for j := 0; j < 3 && len(courseIDs) > 0; j++ {
			courseID := courseIDs[(i+j)%len(courseIDs)]
			_, err := enrollments.Enroll(ctx, model.CreateEnrollmentRequest{
				StudentID: student.ID, CourseID: courseID, Term: term,
			})
			switch {
			case errors.Is(err, repository.ErrDuplicateEnrollment):
				res.duplicates++
			case err != nil:
				fmt.Printf("Error enrolling %s in course %d: %v\n", name, courseID, err)
			default:
				res.enrollments++
			}
		}
	}
	return res
}
