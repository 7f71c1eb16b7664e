// Package identity covers registration, password login, and the simulated
// second-factor flow. A login never establishes a session directly: it stages
// a challenge, and only a correct code commits the user.
package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Service coordinates registration and the two-step login flow.
type Service struct {
	users      repository.UserRepository
	challenges *ChallengeStore
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewService builds the service. dispatcher may be nil.
func NewService(users repository.UserRepository, challenges *ChallengeStore, dispatcher events.Dispatcher, bcryptCost int) *Service {
	return &Service{users: users, challenges: challenges, dispatcher: dispatcher, bcryptCost: bcryptCost}
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Role            domain.Role
	UserID          string
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Register validates and persists a new account. The user ID must match the
// role's pattern, the passwords must match, and the ID must be unused.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
	}
	if !input.Role.MatchesUserID(input.UserID) {
		return nil, apperrors.NewValidationError("invalid user ID format for selected role", map[string]any{
			"userId": input.UserID,
			"role":   input.Role,
		})
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("passwords do not match", nil)
	}

	existing, err := s.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if existing != nil {
		return nil, apperrors.NewValidationError("user ID already exists", map[string]any{"userId": input.UserID})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := domain.User{
		UserID:       input.UserID,
		PasswordHash: hash,
		Role:         input.Role,
		FullName:     input.FullName,
		Email:        input.Email,
	}
	if err := s.users.Append(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventUserRegistered,
			ActorID:   user.UserID,
			Timestamp: time.Now(),
			Payload:   events.UserRegisteredPayload{UserID: user.UserID, Role: user.Role},
		})
	}
	return &user, nil
}

// Login checks the credentials for the (userID, role) pair and stages a
// second-factor challenge. It does not establish a session.
func (s *Service) Login(ctx context.Context, role domain.Role, userID, password string) (*Challenge, error) {
	if !role.Valid() {
		return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}
	if !role.MatchesUserID(userID) {
		return nil, apperrors.NewValidationError("invalid user ID format for selected role", map[string]any{
			"userId": userID,
			"role":   role,
		})
	}

	user, err := s.users.GetByIDAndRole(ctx, userID, role)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if user == nil {
		return nil, apperrors.NewAuthError("user not found")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewAuthError("incorrect password")
	}

	return s.challenges.Create(*user), nil
}

// BeginSecondFactor generates the demo code for the staged challenge and
// returns it for display. Demo mode: the code is shown to the caller rather
// than delivered out of band.
func (s *Service) BeginSecondFactor(challengeID string, method SecondFactorMethod) (string, error) {
	if !method.Valid() {
		return "", apperrors.NewValidationError("unknown second-factor method", map[string]any{"method": method})
	}
	challenge, ok := s.challenges.Get(challengeID)
	if !ok {
		return "", apperrors.NewAuthError("challenge expired or not found")
	}
	challenge.Method = method
	challenge.Code = generateCode()
	return challenge.Code, nil
}

// VerifySecondFactor compares the entered code with the pending one. Success
// commits the user and discards the challenge; failure leaves the challenge
// intact so the caller may retry.
func (s *Service) VerifySecondFactor(challengeID, enteredCode string) (*domain.User, error) {
	challenge, ok := s.challenges.Get(challengeID)
	if !ok {
		return nil, apperrors.NewAuthError("challenge expired or not found")
	}
	if challenge.Code == "" {
		return nil, apperrors.NewAuthError("second factor not started")
	}
	if enteredCode != challenge.Code {
		return nil, apperrors.NewAuthError("invalid authentication code")
	}

	user := challenge.User
	s.challenges.Remove(challengeID)
	return &user, nil
}

// CancelChallenge discards a staged login, clearing pending state.
func (s *Service) CancelChallenge(challengeID string) {
	s.challenges.Remove(challengeID)
}
