package identity

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SecondFactorMethod selects how the demo code is presented.
type SecondFactorMethod string

const (
	MethodOTP SecondFactorMethod = "otp"
	MethodMFA SecondFactorMethod = "mfa"
)

// Valid reports whether the method is one of the simulated channels.
func (m SecondFactorMethod) Valid() bool {
	return m == MethodOTP || m == MethodMFA
}

// Challenge is a staged login awaiting its second factor. The code is only
// populated once a method is selected, and a wrong verification attempt
// leaves the challenge intact for retry.
type Challenge struct {
	ID        string
	User      domain.User
	Method    SecondFactorMethod
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// generateCode returns a uniformly random 6-digit code in [100000, 999999].
func generateCode() string {
	return fmt.Sprintf("%06d", 100000+rand.IntN(900000))
}

// ChallengeStore holds pending second-factor challenges in memory. Login
// state is transient and owned by the presentation layer; it never reaches
// the persisted store.
type ChallengeStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
	ttl        time.Duration
	now        func() time.Time
}

// NewChallengeStore creates a store with the given challenge lifetime.
func NewChallengeStore(ttl time.Duration) *ChallengeStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ChallengeStore{
		challenges: make(map[string]*Challenge),
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create stages a challenge for the user.
func (s *ChallengeStore) Create(user domain.User) *Challenge {
	now := s.now()
	challenge := &Challenge{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[challenge.ID] = challenge
	return challenge
}

// Get returns the challenge if it exists and has not expired.
func (s *ChallengeStore) Get(id string) (*Challenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	challenge, ok := s.challenges[id]
	if !ok {
		return nil, false
	}
	if s.now().After(challenge.ExpiresAt) {
		delete(s.challenges, id)
		return nil, false
	}
	return challenge, true
}

// Remove discards the challenge, whether verified or abandoned.
func (s *ChallengeStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.challenges, id)
}
