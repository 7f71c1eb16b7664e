package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apihttp "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/identity"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/seed"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/sla"
	"github.com/spec-kit/helpdesk/internal/store"
)

// newTestApp assembles the full route surface over an in-memory store with
// the demo seed applied.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	kv := store.NewMemory()
	users := repository.NewUserRepository(kv)
	tickets := repository.NewTicketRepository(kv)
	reference := repository.NewReferenceRepository(kv)

	logger := zap.NewNop()
	if err := seed.Initialize(context.Background(), users, tickets, reference, bcrypt.MinCost, logger); err != nil {
		t.Fatalf("seed: %v", err)
	}

	challenges := identity.NewChallengeStore(5 * time.Minute)
	identityService := identity.NewService(users, challenges, nil, bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	calculator := sla.NewCalculator()
	assigner := service.NewAssignmentService(tickets, reference)
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:    tickets,
		ReferenceRepo: reference,
		Assigner:      assigner,
		Calculator:    calculator,
	})
	searchService := service.NewSearchService(tickets, reference)
	statsService := service.NewStatsService(tickets, reference, calculator)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	apihttp.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	apihttp.RegisterRoutes(app, apihttp.RouteConfig{
		Health:         handlers.NewHealthHandler("helpdesk", "test", kv),
		Auth:           handlers.NewAuthHandler(identityService, tokens),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Search:         handlers.NewSearchHandler(searchService),
		Stats:          handlers.NewStatsHandler(statsService),
		Reference:      handlers.NewReferenceHandler(reference),
		AuthMiddleware: auth.NewMiddleware(tokens, users),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return resp, nil
	}
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil && err != io.EOF {
		t.Fatalf("%s %s: decode response: %v", method, path, err)
	}
	return resp, decoded
}

// loginAs drives the full two-step flow for a seeded demo account and
// returns the bearer token.
func loginAs(t *testing.T, app *fiber.App, role, userID, password string) string {
	t.Helper()
	resp, body := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"role":     role,
		"userId":   userID,
		"password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", userID, resp.StatusCode, body)
	}
	challengeID := body["data"].(map[string]any)["challengeId"].(string)

	resp, body = doRequest(t, app, http.MethodPost, "/auth/challenge/"+challengeID+"/begin", "", map[string]any{"method": "otp"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("begin challenge: status %d body %v", resp.StatusCode, body)
	}
	code := body["data"].(map[string]any)["demoCode"].(string)

	resp, body = doRequest(t, app, http.MethodPost, "/auth/challenge/"+challengeID+"/verify", "", map[string]any{"code": code})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify challenge: status %d body %v", resp.StatusCode, body)
	}
	return body["data"].(map[string]any)["token"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("live: status %d", resp.StatusCode)
	}
	resp, _ = doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ready: status %d", resp.StatusCode)
	}
}

func TestLoginFlowMintsUsableToken(t *testing.T) {
	app := newTestApp(t)
	token := loginAs(t, app, "enduser", "Cust1001", "Cust@123")

	resp, body := doRequest(t, app, http.MethodGet, "/me", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d body %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["userId"] != "Cust1001" {
		t.Fatalf("me userId = %v", data["userId"])
	}
	if _, exposed := data["passwordHash"]; exposed {
		t.Fatalf("password hash leaked in /me response")
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/tickets", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "AUTH_FAILED" {
		t.Fatalf("error code = %v", errObj["code"])
	}
}

func TestWrongSecondFactorCodeReturns401(t *testing.T) {
	app := newTestApp(t)

	_, body := doRequest(t, app, http.MethodPost, "/auth/login", "", map[string]any{
		"role": "enduser", "userId": "Cust1001", "password": "Cust@123",
	})
	challengeID := body["data"].(map[string]any)["challengeId"].(string)
	doRequest(t, app, http.MethodPost, "/auth/challenge/"+challengeID+"/begin", "", map[string]any{"method": "mfa"})

	resp, _ := doRequest(t, app, http.MethodPost, "/auth/challenge/"+challengeID+"/verify", "", map[string]any{"code": "bogus"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestTicketLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	customer := loginAs(t, app, "enduser", "Cust1001", "Cust@123")
	agent := loginAs(t, app, "support", "Emp101", "Emp@123")

	resp, body := doRequest(t, app, http.MethodPost, "/tickets", customer, map[string]any{
		"category":         "Cards",
		"subCategory":      "Card Activation",
		"shortDescription": "New card not activating",
		"priority":         "High",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d body %v", resp.StatusCode, body)
	}
	created := body["data"].(map[string]any)
	ticketID := created["ticketId"].(string)
	if created["status"] != "New" || created["assignmentGroup"] != "Support Team" {
		t.Fatalf("created = %v", created)
	}
	if created["slaMinutes"].(float64) != 240 {
		t.Fatalf("slaMinutes = %v, want 240", created["slaMinutes"])
	}

	// Support moves it along; the audit comment lands on the ticket.
	resp, body = doRequest(t, app, http.MethodPatch, "/tickets/"+ticketID+"/status", agent, map[string]any{
		"status": "In Progress",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status: status %d body %v", resp.StatusCode, body)
	}
	updated := body["data"].(map[string]any)
	comments := updated["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("comments = %d, want 1", len(comments))
	}

	// The customer cannot drive the lifecycle.
	resp, _ = doRequest(t, app, http.MethodPatch, "/tickets/"+ticketID+"/status", customer, map[string]any{
		"status": "Closed",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("end user status update: status %d, want 403", resp.StatusCode)
	}

	resp, body = doRequest(t, app, http.MethodGet, "/tickets/"+ticketID+"/sla", customer, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sla: status %d", resp.StatusCode)
	}
	report := body["data"].(map[string]any)
	if report["slaMinutes"].(float64) != 240 {
		t.Fatalf("sla report = %v", report)
	}
}

func TestVendorReassignmentOverHTTP(t *testing.T) {
	app := newTestApp(t)
	agent := loginAs(t, app, "support", "Emp101", "Emp@123")

	resp, body := doRequest(t, app, http.MethodPost, "/tickets/TKT-001/reassign", agent, map[string]any{
		"vendorId": "Ven2001",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reassign: status %d body %v", resp.StatusCode, body)
	}
	data := body["data"].(map[string]any)
	if data["assignmentGroup"] != "Vendor Team" || data["status"] != "Assigned to Vendor" {
		t.Fatalf("reassigned = %v", data)
	}

	resp, body = doRequest(t, app, http.MethodPost, "/tickets/TKT-002/reassign", agent, map[string]any{
		"vendorId": "Ven9999",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("off-roster vendor: status %d body %v", resp.StatusCode, body)
	}
}

func TestSearchAndStatsOverHTTP(t *testing.T) {
	app := newTestApp(t)
	agent := loginAs(t, app, "support", "Emp101", "Emp@123")

	resp, body := doRequest(t, app, http.MethodGet, "/search/tickets?q=atm", agent, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: status %d", resp.StatusCode)
	}
	results := body["data"].([]any)
	if len(results) != 1 {
		t.Fatalf("search results = %d, want the seeded ATM ticket", len(results))
	}

	resp, body = doRequest(t, app, http.MethodGet, "/search/kb?q=password", agent, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("kb search: status %d", resp.StatusCode)
	}
	if len(body["data"].([]any)) == 0 {
		t.Fatalf("kb search returned nothing for password")
	}

	resp, body = doRequest(t, app, http.MethodGet, "/stats?scope=all", agent, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats: status %d", resp.StatusCode)
	}
	stats := body["data"].(map[string]any)
	if stats["total"].(float64) != 2 {
		t.Fatalf("stats total = %v, want the 2 seeded tickets", stats["total"])
	}

	resp, body = doRequest(t, app, http.MethodGet, "/stats/team", agent, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("team stats: status %d", resp.StatusCode)
	}
	if len(body["data"].([]any)) != 3 {
		t.Fatalf("team workload = %v, want 3 roster members", body["data"])
	}
}

func TestStatsAllScopeForbiddenForEndUsers(t *testing.T) {
	app := newTestApp(t)
	customer := loginAs(t, app, "enduser", "Cust1001", "Cust@123")

	resp, _ := doRequest(t, app, http.MethodGet, "/stats?scope=all", customer, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRegisterOverHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"role":            "enduser",
		"userId":          "Cust2001",
		"fullName":        "New Customer",
		"email":           "new@bank.com",
		"password":        "New@1234",
		"confirmPassword": "New@1234",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d body %v", resp.StatusCode, body)
	}

	token := loginAs(t, app, "enduser", "Cust2001", "New@1234")
	if token == "" {
		t.Fatalf("registered user could not log in")
	}

	// Reusing the ID must fail validation.
	resp, body = doRequest(t, app, http.MethodPost, "/auth/register", "", map[string]any{
		"role":            "enduser",
		"userId":          "Cust2001",
		"password":        "New@1234",
		"confirmPassword": "New@1234",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d body %v", resp.StatusCode, body)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != "VALIDATION_FAILED" {
		t.Fatalf("error code = %v", errObj["code"])
	}
}
