package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/identity"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AuthHandler exposes registration and the two-step login flow.
type AuthHandler struct {
	identity *identity.Service
	tokens   *auth.TokenManager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identityService *identity.Service, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{identity: identityService, tokens: tokens}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("userId and password required", nil)
	}

	user, err := h.identity.Register(c.UserContext(), identity.RegisterInput{
		Role:            req.Role,
		UserID:          req.UserID,
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Login handles POST /auth/login: credentials in, pending challenge out.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("userId and password required", nil)
	}

	challenge, err := h.identity.Login(c.UserContext(), req.Role, req.UserID, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.ChallengeResponse{ChallengeID: challenge.ID}})
}

// BeginChallenge handles POST /auth/challenge/:id/begin.
func (h *AuthHandler) BeginChallenge(c *fiber.Ctx) error {
	var req dto.BeginChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	code, err := h.identity.BeginSecondFactor(c.Params("id"), identity.SecondFactorMethod(req.Method))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.BeginChallengeResponse{
		Method:   req.Method,
		DemoCode: code,
	}})
}

// VerifyChallenge handles POST /auth/challenge/:id/verify, minting the
// session token on success.
func (h *AuthHandler) VerifyChallenge(c *fiber.Ctx) error {
	var req dto.VerifyChallengeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.identity.VerifySecondFactor(c.Params("id"), req.Code)
	if err != nil {
		return err
	}

	token, expiresAt, err := h.tokens.GenerateToken(user)
	if err != nil {
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.NewUserResponse(user),
	}})
}

// CancelChallenge handles DELETE /auth/challenge/:id (modal closed).
func (h *AuthHandler) CancelChallenge(c *fiber.Ctx) error {
	h.identity.CancelChallenge(c.Params("id"))
	return c.SendStatus(http.StatusNoContent)
}

// Logout handles POST /auth/logout. Sessions are stateless tokens, so the
// server side has nothing to clear; the endpoint exists so clients have an
// explicit end-of-session signal.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(http.StatusNoContent)
}

// Me handles GET /me, returning the session user.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return apperrors.NewAuthError("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
