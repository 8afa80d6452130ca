package mem

import (
	"testing"
	"time"
)

func TestResetTokens_SingleUse(t *testing.T) {
	s := NewResetTokens()
	s.Set("ana@example.com", "123456", time.Minute)

	if !s.pending("ana@example.com") {
		t.Fatal("pending() = false, want live code")
	}
	if !s.Consume("ana@example.com", "123456") {
		t.Fatal("first Consume() should succeed")
	}
	if s.Consume("ana@example.com", "123456") {
		t.Fatal("second Consume() should fail")
	}
}

func TestResetTokens_Expiry(t *testing.T) {
	now := time.Now()
	s := NewResetTokens()
	s.now = func() time.Time { return now }
	s.Set("ana@example.com", "123456", time.Minute)

	now = now.Add(2 * time.Minute)
	if s.pending("ana@example.com") {
		t.Error("pending() should report expired code as missing")
	}
	if s.Consume("ana@example.com", "123456") {
		t.Error("expired code must not be accepted")
	}
}

func TestResetTokens_AttemptLimit(t *testing.T) {
	s := NewResetTokens()
	s.Set("ana@example.com", "123456", time.Minute)

	for i := 0; i < MaxResetAttempts; i++ {
		if s.Consume("ana@example.com", "000000") {
			t.Fatal("wrong code accepted")
		}
	}
	if s.Consume("ana@example.com", "123456") {
		t.Error("code should be discarded after too many wrong guesses")
	}
}

func TestResetTokens_Sweep(t *testing.T) {
	now := time.Now()
	s := NewResetTokens()
	s.now = func() time.Time { return now }
	s.Set("a@example.com", "1", time.Minute)
	s.Set("b@example.com", "2", time.Hour)

	now = now.Add(10 * time.Minute)
	if removed := s.Sweep(); removed != 1 {
		t.Errorf("Sweep() = %d, want 1", removed)
	}
	if !s.pending("b@example.com") {
		t.Error("unexpired code was swept")
	}
}
