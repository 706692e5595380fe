package domain

import "time"

// Session is the ephemeral per-user conversation state. It lives only in
// process memory; a restart loses all sessions, which is acceptable since a
// user resumes by sending /start again.
type Session struct {
	SelectedAmount       int64
	AwaitingCustomAmount bool
	LastActivity         time.Time
}

// HasAmount reports whether the user has picked a donation amount.
func (s *Session) HasAmount() bool {
	return s.SelectedAmount > 0
}
