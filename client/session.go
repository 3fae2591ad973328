package client

import (
	"context"
	"sync"

	"github.com/geocoder89/standupbot/internal/domain/standup"
)

// State is a snapshot of what a Session last fetched.
type State struct {
	UserID    int64
	Loading   bool
	LastError error
	Today     *standup.Standup
	History   []standup.Summary
}

// Session tracks one selected user and the data shown for them. Every state
// change is pushed to subscribers as a snapshot, outside the lock.
type Session struct {
	client       *Client
	historyCount int

	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

func NewSession(c *Client, userID int64) *Session {
	return &Session{
		client:       c,
		historyCount: 10,
		state:        State{UserID: userID},
		subs:         make(map[int]func(State)),
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() State {
	st := s.state
	if st.Today != nil {
		t := *st.Today
		st.Today = &t
	}
	st.History = append([]standup.Summary(nil), st.History...)
	return st
}

// Subscribe registers fn for future state changes and returns a function
// that removes it.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Session) update(mut func(*State)) {
	s.mu.Lock()
	mut(&s.state)
	snap := s.snapshotLocked()
	fns := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Session) userID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UserID
}

// SelectUser switches the session to another user and drops cached data.
func (s *Session) SelectUser(userID int64) {
	s.update(func(st *State) {
		*st = State{UserID: userID}
	})
}

// Refresh reloads today's standup and the history. A missing standup for
// today is not an error; Today is simply nil.
func (s *Session) Refresh(ctx context.Context) error {
	uid := s.userID()
	s.update(func(st *State) { st.Loading = true })

	today, err := s.client.GetTodayStandup(ctx, uid)
	var todayPtr *standup.Standup
	switch {
	case err == nil:
		todayPtr = &today
	case IsNotFound(err):
		err = nil
	}

	var history []standup.Summary
	if err == nil {
		history, err = s.client.GetUserHistory(ctx, uid, s.historyCount)
	}

	s.update(func(st *State) {
		st.Loading = false
		st.LastError = err
		if err == nil && st.UserID == uid {
			st.Today = todayPtr
			st.History = history
		}
	})
	return err
}

// Submit creates today's standup for the selected user.
func (s *Session) Submit(ctx context.Context, req standup.CreateRequest) (standup.Standup, error) {
	return s.write(func(uid int64) (standup.Standup, error) {
		return s.client.CreateStandup(ctx, uid, req)
	})
}

// Update patches today's standup for the selected user.
func (s *Session) Update(ctx context.Context, req standup.UpdateRequest) (standup.Standup, error) {
	return s.write(func(uid int64) (standup.Standup, error) {
		return s.client.UpdateStandup(ctx, uid, req)
	})
}

func (s *Session) write(call func(uid int64) (standup.Standup, error)) (standup.Standup, error) {
	uid := s.userID()
	s.update(func(st *State) { st.Loading = true })

	out, err := call(uid)

	s.update(func(st *State) {
		st.Loading = false
		st.LastError = err
		if err == nil && st.UserID == uid {
			saved := out
			st.Today = &saved
		}
	})
	return out, err
}
