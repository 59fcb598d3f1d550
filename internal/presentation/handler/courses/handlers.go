package courses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tutormeet/signaling/internal/domain"
	"github.com/tutormeet/signaling/internal/infrastructure/json"
)

type Handler struct {
	courseRepository domain.CourseRepository
}

func NewHandler(courseRepository domain.CourseRepository) *Handler {
	return &Handler{
		courseRepository: courseRepository,
	}
}

func (h *Handler) ListCoursesHandler(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courseRepository.List(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, courses)
}

func (h *Handler) GetCourseHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "courseId")
	if id == "" {
		json.WriteValidationError(w, errors.New("course ID is missing"))
		return
	}

	course, err := h.courseRepository.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCourseNotFound):
			json.WriteNotFoundError(w, "Course not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusOK, course)
}
