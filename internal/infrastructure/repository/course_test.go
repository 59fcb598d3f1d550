package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/tutormeet/signaling/internal/domain"
)

func TestCourseCatalog(t *testing.T) {
	repo := NewCourseRepository(nil)
	ctx := context.Background()

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("default catalog is empty")
	}

	got, err := repo.GetByID(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get %s: %v", all[0].ID, err)
	}
	if got.Title != all[0].Title {
		t.Fatalf("unexpected course: %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}

	// List hands out copies; mutation must not reach the catalog.
	all[0].Title = "mutated"
	again, _ := repo.List(ctx)
	if again[0].Title == "mutated" {
		t.Fatal("catalog mutated through List result")
	}
}

func TestCourseCustomCatalog(t *testing.T) {
	repo := NewCourseRepository([]domain.Course{
		{ID: "x", Title: "X", Instructor: "Y"},
	})

	got, err := repo.GetByID(context.Background(), "x")
	if err != nil || got.Title != "X" {
		t.Fatalf("custom catalog lookup: %+v, %v", got, err)
	}
}
