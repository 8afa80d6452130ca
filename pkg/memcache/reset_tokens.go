package mem

import (
	"crypto/subtle"
	"sync"
	"time"
)

// MaxResetAttempts bounds guesses per issued code.
const MaxResetAttempts = 5

type ResetTokenStore interface {
	// Set replaces any pending code for email.
	Set(email string, code string, ttl time.Duration)

	// Consume reports whether code matches the pending code for email and
	// removes it on success (single use). Wrong guesses count against
	// MaxResetAttempts, after which the code is discarded.
	Consume(email string, code string) bool
}

type entry struct {
	code      string
	attempts  int
	expiresAt time.Time
}

type ResetTokens struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

func NewResetTokens() *ResetTokens {
	return &ResetTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *ResetTokens) Set(email string, code string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[email] = entry{
		code:      code,
		expiresAt: s.now().Add(ttl),
	}
}

func (s *ResetTokens) Consume(email string, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[email]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, email)
		return false
	}
	if subtle.ConstantTimeCompare([]byte(e.code), []byte(code)) != 1 {
		e.attempts++
		if e.attempts >= MaxResetAttempts {
			delete(s.data, email)
		} else {
			s.data[email] = e
		}
		return false
	}
	delete(s.data, email)
	return true
}

// pending reports whether a live code exists for email.
func (s *ResetTokens) pending(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[email]
	return ok && !s.now().After(e.expiresAt)
}

// Sweep drops expired codes and returns how many were removed.
func (s *ResetTokens) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until stop is closed.
func (s *ResetTokens) RunJanitor(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-stop:
			return
		}
	}
}
