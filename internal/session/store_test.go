package session

import (
	"testing"
	"time"
)

func TestGetOrCreate(t *testing.T) {
	s := NewStore(10 * time.Minute)

	if s.Get(1) != nil {
		t.Fatal("expected no session for unseen user")
	}

	sess := s.GetOrCreate(1)
	if sess == nil {
		t.Fatal("expected session to be created")
	}
	if sess.SelectedAmount != 0 || sess.AwaitingCustomAmount {
		t.Errorf("fresh session should be idle, got %+v", sess)
	}

	if s.GetOrCreate(1) != sess {
		t.Error("second GetOrCreate should return the same session")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSetAmountClearsAwaiting(t *testing.T) {
	s := NewStore(10 * time.Minute)
	s.GetOrCreate(7)
	s.SetAwaitingCustom(7, true)
	s.SetAmount(7, 50000)

	sess := s.Get(7)
	if sess.SelectedAmount != 50000 {
		t.Errorf("SelectedAmount = %d, want 50000", sess.SelectedAmount)
	}
	if sess.AwaitingCustomAmount {
		t.Error("SetAmount should leave the awaiting-custom state")
	}
}

func TestClear(t *testing.T) {
	s := NewStore(10 * time.Minute)
	s.SetAmount(7, 25000)
	s.Clear(7)

	sess := s.Get(7)
	if sess == nil {
		t.Fatal("Clear should keep the session alive")
	}
	if sess.HasAmount() || sess.AwaitingCustomAmount {
		t.Errorf("cleared session should be idle, got %+v", sess)
	}
}

func TestSweepExpired(t *testing.T) {
	timeout := 10 * time.Minute
	s := NewStore(timeout)

	stale := s.GetOrCreate(1)
	stale.LastActivity = time.Now().Add(-timeout - time.Second)
	s.GetOrCreate(2)

	now := time.Now()
	if n := s.SweepExpired(now); n != 1 {
		t.Errorf("SweepExpired() = %d, want 1", n)
	}
	if s.Get(1) != nil {
		t.Error("stale session should be evicted")
	}
	if s.Get(2) == nil {
		t.Error("fresh session should survive the sweep")
	}

	// Invariant: nothing older than the timeout remains.
	for _, id := range []int64{1, 2} {
		if sess := s.Get(id); sess != nil && now.Sub(sess.LastActivity) > timeout {
			t.Errorf("session %d survived sweep with idle time %v", id, now.Sub(sess.LastActivity))
		}
	}
}

func TestTouchKeepsSessionAlive(t *testing.T) {
	timeout := 10 * time.Minute
	s := NewStore(timeout)

	sess := s.GetOrCreate(1)
	sess.LastActivity = time.Now().Add(-timeout - time.Second)
	s.Touch(1)

	if n := s.SweepExpired(time.Now()); n != 0 {
		t.Errorf("SweepExpired() = %d after Touch, want 0", n)
	}
}
