package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MeetingStatusPending   = "pending"
	MeetingStatusConfirmed = "confirmed"
	MeetingStatusCancelled = "cancelled"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrMeetingNotFound       = errors.New("meeting not found")
	ErrMeetingAlreadyExists  = errors.New("meeting already exists")
	ErrInstructorUnavailable = errors.New("instructor is not available at that time")
)

type Meeting struct {
	ID         string    `json:"id"`
	Instructor string    `json:"instructor"`
	Date       string    `json:"date"`
	Time       string    `json:"time"`
	User       string    `json:"user"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *Meeting) error
	GetByID(ctx context.Context, id string) (*Meeting, error)
	ListByUser(ctx context.Context, user string) ([]Meeting, error)
	List(ctx context.Context) ([]Meeting, error)
	Delete(ctx context.Context, id string) (*Meeting, error)
}

func NewMeeting(instructor, date, meetingTime, user string) (*Meeting, error) {
	instructor = strings.TrimSpace(instructor)
	user = strings.TrimSpace(user)

	if instructor == "" || user == "" {
		return nil, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidInput
	}
	if _, err := time.Parse("15:04", meetingTime); err != nil {
		return nil, ErrInvalidInput
	}

	return &Meeting{
		ID:         uuid.NewString(),
		Instructor: instructor,
		Date:       date,
		Time:       meetingTime,
		User:       user,
		Status:     MeetingStatusPending,
		CreatedAt:  time.Now(),
	}, nil
}

// RoomID is the identifier the signaling layer sees when the participants
// start the call for this meeting.
func (m *Meeting) RoomID() string {
	return m.ID
}
