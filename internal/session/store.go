// Package session keeps per-user conversation state in process memory.
// Sessions are evicted after an idle timeout by a periodic sweep; nothing is
// persisted across restarts.
package session

import (
	"sync"
	"time"

	"github.com/sahabat-berbagi/donasibot/internal/domain"
)

type Store struct {
	mu       sync.RWMutex
	timeout  time.Duration
	sessions map[int64]*domain.Session
}

func NewStore(timeout time.Duration) *Store {
	return &Store{
		timeout:  timeout,
		sessions: make(map[int64]*domain.Session),
	}
}

// Get returns the session for a user, or nil if none exists.
func (s *Store) Get(userID int64) *domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions[userID]
}

// GetOrCreate returns the existing session for a user, creating a fresh idle
// one when the user is unseen.
func (s *Store) GetOrCreate(userID int64) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.Session{LastActivity: time.Now()}
		s.sessions[userID] = sess
	}
	return sess
}

// Reset replaces the user's session with a fresh idle one.
func (s *Store) Reset(userID int64) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &domain.Session{LastActivity: time.Now()}
	s.sessions[userID] = sess
	return sess
}

// Touch updates the user's last-activity timestamp. Called on every inbound
// message so active conversations are not swept.
func (s *Store) Touch(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.LastActivity = time.Now()
	}
}

// SetAmount records the selected donation amount and leaves the
// awaiting-custom-input state.
func (s *Store) SetAmount(userID int64, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.Session{LastActivity: time.Now()}
		s.sessions[userID] = sess
	}
	sess.SelectedAmount = amount
	sess.AwaitingCustomAmount = false
}

// SetAwaitingCustom marks whether the next free-form message should be
// treated as a custom donation amount.
func (s *Store) SetAwaitingCustom(userID int64, awaiting bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &domain.Session{LastActivity: time.Now()}
		s.sessions[userID] = sess
	}
	sess.AwaitingCustomAmount = awaiting
}

// Clear resets the selection state after a payment is initiated, keeping the
// session alive.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[userID]; ok {
		sess.SelectedAmount = 0
		sess.AwaitingCustomAmount = false
	}
}

// SweepExpired removes every session idle for longer than the store timeout
// and returns how many were evicted.
func (s *Store) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for userID, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.timeout {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
