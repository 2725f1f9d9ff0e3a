package memory

import (
	"context"
	"sync"

	"github.com/jeyoh/moneyball/internal/model"
	"github.com/jeyoh/moneyball/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	balances map[pairKey]int64
	events   []model.Event
	nextID   int64
	sessions map[string]*model.BaseballSession
}

type pairKey struct {
	nameA string
	nameB string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		balances: make(map[pairKey]int64),
		nextID:   1,
		sessions: make(map[string]*model.BaseballSession),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Balance operations

func (s *Storage) AddToBalance(ctx context.Context, nameA, nameB string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[pairKey{nameA, nameB}] += delta
	return nil
}

func (s *Storage) GetBalance(ctx context.Context, nameA, nameB string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[pairKey{nameA, nameB}], nil
}

func (s *Storage) ListBalances(ctx context.Context, name string) ([]model.BalanceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var entries []model.BalanceEntry
	for key, debt := range s.balances {
		if name != "" && key.nameA != name && key.nameB != name {
			continue
		}
		entries = append(entries, model.BalanceEntry{NameA: key.nameA, NameB: key.nameB, Debt: debt})
	}
	return entries, nil
}

// Event log operations

func (s *Storage) AppendEvent(ctx context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ev.ID = s.nextID
	s.nextID++
	s.events = append(s.events, *ev)
	return nil
}

func (s *Storage) LatestEvent(ctx context.Context) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) == 0 {
		return nil, model.ErrNoEvents
	}
	ev := s.events[len(s.events)-1]
	return &ev, nil
}

func (s *Storage) DeleteEvent(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, ev := range s.events {
		if ev.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *Storage) ListEvents(ctx context.Context, limit int, names ...string) ([]model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Event
	for i := len(s.events) - 1; i >= 0 && len(out) < limit; i-- {
		ev := s.events[i]
		matched := true
		for _, name := range names {
			if !ev.Involves(name) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Baseball session operations

func (s *Storage) SaveSession(ctx context.Context, sess *model.BaseballSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *sess
	copied.Log = append([]string(nil), sess.Log...)
	s.sessions[sess.UserID] = &copied
	return nil
}

func (s *Storage) GetSession(ctx context.Context, userID string) (*model.BaseballSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, model.ErrNoSession
	}
	copied := *sess
	copied.Log = append([]string(nil), sess.Log...)
	return &copied, nil
}

func (s *Storage) DeleteSession(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// Close is a no-op for the in-memory backend
func (s *Storage) Close() error {
	return nil
}
