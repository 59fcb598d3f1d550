package domain

import (
	"context"
	"errors"
)

var ErrCourseNotFound = errors.New("course not found")

// Course is a read-only catalog entry. The catalog is static: there are no
// create or update paths anywhere in the service.
type Course struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Instructor  string `json:"instructor"`
	Description string `json:"description,omitempty"`
	Level       string `json:"level,omitempty"`
}

type CourseRepository interface {
	List(ctx context.Context) ([]Course, error)
	GetByID(ctx context.Context, id string) (*Course, error)
}
