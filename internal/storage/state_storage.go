package storage

import (
	"sync"
	"time"
)

// RenderStateStore tracks which chats have a render in flight so a chat
// cannot queue a second image while the first is still being composed.
type RenderStateStore struct {
	started map[int64]time.Time
	mu      sync.RWMutex
	now     func() time.Time
}

func NewRenderStateStore() *RenderStateStore {
	return &RenderStateStore{
		started: make(map[int64]time.Time),
		now:     time.Now,
	}
}

// TryStart marks chatID as busy. It returns false if it already was.
func (s *RenderStateStore) TryStart(chatID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.started[chatID]; busy {
		return false
	}

	s.started[chatID] = s.now()
	return true
}

// Finish releases chatID and reports how long its render took.
func (s *RenderStateStore) Finish(chatID int64) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	start, ok := s.started[chatID]
	delete(s.started, chatID)
	if !ok {
		return 0
	}
	return s.now().Sub(start)
}

func (s *RenderStateStore) IsProcessing(chatID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, busy := s.started[chatID]
	return busy
}

// Active is the number of chats currently rendering.
func (s *RenderStateStore) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.started)
}
