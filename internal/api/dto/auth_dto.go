package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Role            domain.Role `json:"role"`
	UserID          string      `json:"userId"`
	FullName        string      `json:"fullName"`
	Email           string      `json:"email"`
	Password        string      `json:"password"`
	ConfirmPassword string      `json:"confirmPassword"`
}

// LoginRequest payload for the first login step.
type LoginRequest struct {
	Role     domain.Role `json:"role"`
	UserID   string      `json:"userId"`
	Password string      `json:"password"`
}

// ChallengeResponse points the client at its pending second factor.
type ChallengeResponse struct {
	ChallengeID string `json:"challengeId"`
}

// BeginChallengeRequest selects the simulated delivery channel.
type BeginChallengeRequest struct {
	Method string `json:"method"`
}

// BeginChallengeResponse carries the demo code back to the caller. Demo-mode
// in-band delivery, intentionally not a real channel.
type BeginChallengeResponse struct {
	Method   string `json:"method"`
	DemoCode string `json:"demoCode"`
}

// VerifyChallengeRequest payload for the final login step.
type VerifyChallengeRequest struct {
	Code string `json:"code"`
}

// SessionResponse is returned once the second factor verifies.
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	UserID   string      `json:"userId"`
	Role     domain.Role `json:"role"`
	FullName string      `json:"fullName"`
	Email    string      `json:"email"`
}

// NewUserResponse maps a domain user, dropping the password hash.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:   user.UserID,
		Role:     user.Role,
		FullName: user.FullName,
		Email:    user.Email,
	}
}
