package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tutormeet/signaling/internal/domain"
)

type meetingRepository struct {
	meetings   map[string]*domain.Meeting // ID -> Meeting
	lastAccess map[string]time.Time       // ID -> last access time
	capacity   uint
	idleExpiry time.Duration
	mu         *sync.RWMutex
}

func NewMeetingRepository(capacity uint, idleExpiry time.Duration) domain.MeetingRepository {
	if capacity == 0 {
		capacity = 100
	}
	if idleExpiry == 0 {
		idleExpiry = 24 * time.Hour
	}

	return &meetingRepository{
		meetings:   make(map[string]*domain.Meeting),
		lastAccess: make(map[string]time.Time),
		capacity:   capacity,
		idleExpiry: idleExpiry,
		mu:         &sync.RWMutex{},
	}
}

func (r *meetingRepository) touch(id string) {
	r.lastAccess[id] = time.Now()
}

func (r *meetingRepository) evictIdle() {
	cutoff := time.Now().Add(-r.idleExpiry)
	for id, last := range r.lastAccess {
		if last.Before(cutoff) {
			delete(r.meetings, id)
			delete(r.lastAccess, id)
		}
	}
}

// enforceCapacity drops the oldest-accessed meetings when over capacity.
func (r *meetingRepository) enforceCapacity() {
	if uint(len(r.meetings)) <= r.capacity {
		return
	}

	type entry struct {
		id   string
		time time.Time
	}
	entries := make([]entry, 0, len(r.lastAccess))
	for id, t := range r.lastAccess {
		entries = append(entries, entry{id, t})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].time.Before(entries[j].time) })

	for i := 0; i < len(entries)-int(r.capacity); i++ {
		delete(r.meetings, entries[i].id)
		delete(r.lastAccess, entries[i].id)
	}
}

func (r *meetingRepository) Create(ctx context.Context, meeting *domain.Meeting) error {
	if meeting == nil || meeting.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictIdle()

	if _, exists := r.meetings[meeting.ID]; exists {
		return domain.ErrMeetingAlreadyExists
	}

	// Same instructor, same slot -> refuse
	for _, m := range r.meetings {
		if m.Instructor == meeting.Instructor && m.Date == meeting.Date && m.Time == meeting.Time &&
			m.Status != domain.MeetingStatusCancelled {
			return domain.ErrInstructorUnavailable
		}
	}

	r.meetings[meeting.ID] = meeting
	r.touch(meeting.ID)

	r.enforceCapacity()

	return nil
}

func (r *meetingRepository) GetByID(ctx context.Context, id string) (*domain.Meeting, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	// Lookup and touch under one lock so a concurrent Delete cannot leave
	// a lastAccess entry behind for a removed meeting.
	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, exists := r.meetings[id]
	if !exists {
		return nil, domain.ErrMeetingNotFound
	}
	r.touch(id)

	return meeting, nil
}

func (r *meetingRepository) List(ctx context.Context) ([]domain.Meeting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Meeting, 0, len(r.meetings))
	for _, m := range r.meetings {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *meetingRepository) ListByUser(ctx context.Context, user string) ([]domain.Meeting, error) {
	if user == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Meeting, 0)
	for _, m := range r.meetings {
		if m.User == user || m.Instructor == user {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	return out, nil
}

func (r *meetingRepository) Delete(ctx context.Context, id string) (*domain.Meeting, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	meeting, exists := r.meetings[id]
	if !exists {
		return nil, domain.ErrMeetingNotFound
	}

	delete(r.meetings, id)
	delete(r.lastAccess, id)

	return meeting, nil
}
