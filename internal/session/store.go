package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"PaperRAG/internal/domain"
	"PaperRAG/internal/ports"
)

// ProgressNotFound is returned verbatim to pollers asking about sessions
// the store does not know.
const ProgressNotFound = "Not found"

var errChunksAlreadySet = errors.New("session chunks already set")

type entry struct {
	chunks    []string
	chunksSet bool
	progress  string
	touched   time.Time
}

// Store is an in-memory session map with TTL and max-size eviction.
// Reads hand out snapshot copies so progress pollers never observe a
// partially written chunk sequence.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	ttl         time.Duration
	maxSessions int
	logger      *slog.Logger
}

var _ ports.SessionStore = (*Store)(nil)

// NewStore builds a bounded store. ttl <= 0 disables expiry; maxSessions
// <= 0 disables the size cap.
func NewStore(ttl time.Duration, maxSessions int, logger *slog.Logger) *Store {
	return &Store{
		sessions:    map[string]*entry{},
		ttl:         ttl,
		maxSessions: maxSessions,
		logger:      logger,
	}
}

// Create registers a fresh session and returns its identifier.
func (s *Store) Create() string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(time.Now())
	s.sessions[id] = &entry{touched: time.Now()}
	return id
}

// SetChunks stores the chunk sequence exactly once per session.
func (s *Store) SetChunks(sessionID string, chunks []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	if e.chunksSet {
		return errChunksAlreadySet
	}

	copied := make([]string, len(chunks))
	copy(copied, chunks)
	e.chunks = copied
	e.chunksSet = true
	e.touched = time.Now()
	return nil
}

// GetChunks returns a copy of the session's chunk sequence.
func (s *Store) GetChunks(sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok || !e.chunksSet {
		return nil, domain.ErrSessionNotFound
	}

	copied := make([]string, len(e.chunks))
	copy(copied, e.chunks)
	return copied, nil
}

// SetProgress updates the human-readable ingestion narrative.
func (s *Store) SetProgress(sessionID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	e.progress = message
	e.touched = time.Now()
}

// GetProgress returns the last progress message, or ProgressNotFound for
// unknown sessions.
func (s *Store) GetProgress(sessionID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return ProgressNotFound
	}
	return e.progress
}

// Len reports the current number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor sweeps expired sessions until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.ttl <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				s.mu.Lock()
				removed := s.evictExpiredLocked(now)
				s.mu.Unlock()
				if removed > 0 && s.logger != nil {
					s.logger.Debug("evicted expired sessions", "count", removed)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// evictLocked enforces TTL first, then the size cap by dropping the
// stalest sessions. Callers must hold the write lock.
func (s *Store) evictLocked(now time.Time) {
	s.evictExpiredLocked(now)

	if s.maxSessions <= 0 {
		return
	}
	for len(s.sessions) >= s.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, e := range s.sessions {
			if oldestID == "" || e.touched.Before(oldest) {
				oldestID = id
				oldest = e.touched
			}
		}
		if oldestID == "" {
			return
		}
		delete(s.sessions, oldestID)
		if s.logger != nil {
			s.logger.Warn("session store full, evicted oldest session", "session_id", oldestID)
		}
	}
}

func (s *Store) evictExpiredLocked(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	removed := 0
	for id, e := range s.sessions {
		if now.Sub(e.touched) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
