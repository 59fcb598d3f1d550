package meetings

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tutormeet/signaling/internal/domain"
	"github.com/tutormeet/signaling/internal/infrastructure/json"
)

type Handler struct {
	meetingRepository domain.MeetingRepository
}

func NewHandler(meetingRepository domain.MeetingRepository) *Handler {
	return &Handler{
		meetingRepository: meetingRepository,
	}
}

func (h *Handler) CreateMeetingHandler(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	meeting, err := domain.NewMeeting(req.Instructor, req.Date, req.Time, req.User)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.meetingRepository.Create(r.Context(), meeting); err != nil {
		switch {
		case errors.Is(err, domain.ErrInstructorUnavailable):
			json.WriteError(w, http.StatusConflict, err, "Instructor is not available at that time")
		case errors.Is(err, domain.ErrMeetingAlreadyExists):
			json.WriteError(w, http.StatusConflict, err, "Meeting already exists")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	resp := meetingResponse{
		ID:         meeting.ID,
		Instructor: meeting.Instructor,
		Date:       meeting.Date,
		Time:       meeting.Time,
		User:       meeting.User,
		Status:     meeting.Status,
		RoomID:     meeting.RoomID(),
		CreatedAt:  meeting.CreatedAt,
	}

	json.Write(w, http.StatusCreated, resp)
}

func (h *Handler) ListMeetingsHandler(w http.ResponseWriter, r *http.Request) {
	var (
		meetings []domain.Meeting
		err      error
	)

	if user := r.URL.Query().Get("user"); user != "" {
		meetings, err = h.meetingRepository.ListByUser(r.Context(), user)
	} else {
		meetings, err = h.meetingRepository.List(r.Context())
	}
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	out := make([]meetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, meetingResponse{
			ID:         m.ID,
			Instructor: m.Instructor,
			Date:       m.Date,
			Time:       m.Time,
			User:       m.User,
			Status:     m.Status,
			RoomID:     m.RoomID(),
			CreatedAt:  m.CreatedAt,
		})
	}

	json.Write(w, http.StatusOK, out)
}

func (h *Handler) GetMeetingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "meetingId")
	if id == "" {
		json.WriteValidationError(w, errors.New("meeting ID is missing"))
		return
	}

	meeting, err := h.meetingRepository.GetByID(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMeetingNotFound):
			json.WriteNotFoundError(w, "Meeting not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	resp := meetingResponse{
		ID:         meeting.ID,
		Instructor: meeting.Instructor,
		Date:       meeting.Date,
		Time:       meeting.Time,
		User:       meeting.User,
		Status:     meeting.Status,
		RoomID:     meeting.RoomID(),
		CreatedAt:  meeting.CreatedAt,
	}

	json.Write(w, http.StatusOK, resp)
}

func (h *Handler) DeleteMeetingHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "meetingId")
	if id == "" {
		json.WriteValidationError(w, errors.New("meeting ID is missing"))
		return
	}

	if _, err := h.meetingRepository.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrMeetingNotFound):
			json.WriteNotFoundError(w, "Meeting not found")
		default:
			json.WriteInternalError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
