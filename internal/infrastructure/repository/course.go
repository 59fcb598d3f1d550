package repository

import (
	"context"

	"github.com/tutormeet/signaling/internal/domain"
)

// courseRepository serves a fixed catalog. Read-only: the list is set once
// at construction and never mutated.
type courseRepository struct {
	courses []domain.Course
	byID    map[string]*domain.Course
}

func NewCourseRepository(courses []domain.Course) domain.CourseRepository {
	if courses == nil {
		courses = DefaultCatalog()
	}

	byID := make(map[string]*domain.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}

	return &courseRepository{
		courses: courses,
		byID:    byID,
	}
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, len(r.courses))
	copy(out, r.courses)
	return out, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	course, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}

	cpy := *course
	return &cpy, nil
}

func DefaultCatalog() []domain.Course {
	return []domain.Course{
		{ID: "go-basics", Title: "Go Programming Basics", Instructor: "Ahmet Yilmaz", Level: "beginner",
			Description: "Syntax, tooling and the standard library."},
		{ID: "web-dev", Title: "Web Development", Instructor: "Elif Kaya", Level: "intermediate",
			Description: "HTTP services, templating and deployment."},
		{ID: "databases", Title: "Database Design", Instructor: "Zeynep Demir", Level: "intermediate",
			Description: "Modeling, indexing and query tuning."},
		{ID: "networking", Title: "Computer Networking", Instructor: "Mehmet Celik", Level: "advanced",
			Description: "Transport protocols, NAT and real-time media."},
		{ID: "algorithms", Title: "Algorithms and Data Structures", Instructor: "Ayse Korkmaz", Level: "advanced",
			Description: "Complexity analysis and classic algorithms."},
	}
}
