package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/standupbot/internal/domain/standup"
	"github.com/geocoder89/standupbot/internal/domain/user"
)

type dayKey struct {
	userID int64
	day    string
}

// StandupsRepo keeps standups in process. A single mutex serializes writes,
// so the duplicate check and the insert cannot interleave.
type StandupsRepo struct {
	mu     sync.RWMutex
	dir    *Directory
	items  map[int64]standup.Standup
	byDay  map[dayKey]int64
	nextID int64
}

func NewStandupsRepo(dir *Directory) *StandupsRepo {
	return &StandupsRepo{
		dir:   dir,
		items: make(map[int64]standup.Standup),
		byDay: make(map[dayKey]int64),
	}
}

func keyOf(userID int64, day standup.Day) dayKey {
	return dayKey{userID: userID, day: day.String()}
}

func clone(s standup.Standup) standup.Standup {
	if s.BlockerDescription != nil {
		d := *s.BlockerDescription
		s.BlockerDescription = &d
	}
	if s.BlockerStatus != nil {
		st := *s.BlockerStatus
		s.BlockerStatus = &st
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		s.UpdatedAt = &t
	}
	return s
}

func (r *StandupsRepo) Create(_ context.Context, s standup.Standup) (standup.Standup, error) {
	u, ok := r.dir.user(s.UserID)
	if !ok {
		return standup.Standup{}, user.ErrNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	k := keyOf(s.UserID, s.Date)
	if _, exists := r.byDay[k]; exists {
		return standup.Standup{}, standup.ErrConflict
	}

	r.nextID++
	s = clone(s)
	s.ID = r.nextID
	s.UserName = u.Name
	s.TeamID = u.TeamID
	s.UpdatedAt = nil

	r.items[s.ID] = s
	r.byDay[k] = s.ID

	return clone(s), nil
}

func (r *StandupsRepo) GetByUserAndDate(_ context.Context, userID int64, day standup.Day) (standup.Standup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byDay[keyOf(userID, day)]
	if !ok {
		return standup.Standup{}, standup.ErrNotFound
	}
	return clone(r.items[id]), nil
}

func (r *StandupsRepo) Exists(_ context.Context, userID int64, day standup.Day) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byDay[keyOf(userID, day)]
	return ok, nil
}

func (r *StandupsRepo) ListByUser(_ context.Context, userID int64, limit int) ([]standup.Standup, error) {
	r.mu.RLock()
	out := make([]standup.Standup, 0)
	for _, s := range r.items {
		if s.UserID == userID {
			out = append(out, clone(s))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *StandupsRepo) ListByTeamAndDate(_ context.Context, teamID int64, day standup.Day) ([]standup.Standup, error) {
	r.mu.RLock()
	out := make([]standup.Standup, 0)
	for _, s := range r.items {
		if !s.Date.Equal(day) {
			continue
		}
		if u, ok := r.dir.user(s.UserID); ok && u.TeamID == teamID {
			out = append(out, clone(s))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UserName != out[j].UserName {
			return out[i].UserName < out[j].UserName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Mutate applies fn to a copy of the (user, day) standup and stores the copy
// only when fn succeeds.
func (r *StandupsRepo) Mutate(_ context.Context, userID int64, day standup.Day, fn func(*standup.Standup) error) (standup.Standup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byDay[keyOf(userID, day)]
	if !ok {
		return standup.Standup{}, standup.ErrNotFound
	}
	return r.mutateLocked(id, fn)
}

func (r *StandupsRepo) MutateByID(_ context.Context, id int64, fn func(*standup.Standup) error) (standup.Standup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return standup.Standup{}, standup.ErrNotFound
	}
	return r.mutateLocked(id, fn)
}

func (r *StandupsRepo) mutateLocked(id int64, fn func(*standup.Standup) error) (standup.Standup, error) {
	s := clone(r.items[id])
	if err := fn(&s); err != nil {
		return standup.Standup{}, err
	}

	// identity columns are not writable
	cur := r.items[id]
	s.ID, s.UserID, s.UserName, s.TeamID = cur.ID, cur.UserID, cur.UserName, cur.TeamID
	s.Date, s.CreatedAt = cur.Date, cur.CreatedAt

	r.items[id] = s
	return clone(s), nil
}
