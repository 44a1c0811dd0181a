package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/localtable/recipedb/internal/handlers"
	"github.com/localtable/recipedb/internal/middleware"
	"github.com/localtable/recipedb/internal/types"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupUserApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db := setupTestDB(t)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if custom, ok := err.(*types.CustomError); ok {
				return c.Status(custom.Code).JSON(fiber.Map{"message": custom.Message})
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	handler := &handlers.UserHandler{DB: db, BcryptCost: bcrypt.MinCost}
	authUser := middleware.AuthUser(db)

	app.Post("/api/signup", handler.Signup)
	app.Post("/api/signin", handler.Signin)
	app.Post("/api/signout", authUser, handler.Signout)
	app.Put("/api/users/:id", authUser, handler.UpdateUser)
	app.Delete("/api/users/:id", authUser, handler.DeleteUser)

	return app, db
}

type userEnvelope struct {
	User struct {
		ID       uint64  `json:"id"`
		Username string  `json:"username"`
		Token    *string `json:"token"`
	} `json:"user"`
}

func signupUser(t *testing.T, app *fiber.App, username, email string) userEnvelope {
	t.Helper()
	payload, _ := json.Marshal(map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"username":   username,
		"email":      email,
		"password":   "Sup3r$ecret",
	})
	req := httptest.NewRequest("POST", "/api/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var account userEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if account.User.Token == nil {
		t.Fatal("Expected a token in the signup response")
	}
	return account
}

// TestSignupEndpoint tests POST /api/signup
func TestSignupEndpoint(t *testing.T) {
	app, _ := setupUserApp(t)

	account := signupUser(t, app, "pat", "pat@example.com")
	if account.User.Username != "pat" {
		t.Errorf("Expected username in response, got %q", account.User.Username)
	}
}

// TestSignupDuplicateEndpoint tests the 422 conflict path
func TestSignupDuplicateEndpoint(t *testing.T) {
	app, _ := setupUserApp(t)
	signupUser(t, app, "pat", "pat@example.com")

	payload, _ := json.Marshal(map[string]string{
		"username": "pat",
		"email":    "other@example.com",
		"password": "Sup3r$ecret",
	})
	req := httptest.NewRequest("POST", "/api/signup", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Errorf("Expected status 422, got %d", resp.StatusCode)
	}
}

// TestSigninEndpoint tests POST /api/signin including the failure path
func TestSigninEndpoint(t *testing.T) {
	app, _ := setupUserApp(t)
	signupUser(t, app, "pat", "pat@example.com")

	payload, _ := json.Marshal(map[string]string{"username": "pat", "password": "Sup3r$ecret"})
	req := httptest.NewRequest("POST", "/api/signin", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	payload, _ = json.Marshal(map[string]string{"username": "pat", "password": "wrong"})
	req = httptest.NewRequest("POST", "/api/signin", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

// TestSignoutEndpoint tests POST /api/signout and that the token dies with it
func TestSignoutEndpoint(t *testing.T) {
	app, _ := setupUserApp(t)
	account := signupUser(t, app, "pat", "pat@example.com")
	token := *account.User.Token

	req := httptest.NewRequest("POST", "/api/signout", nil)
	req.Header.Set("Token", token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["message"] != "User successfully signed out." {
		t.Errorf("Unexpected message: %v", result["message"])
	}

	// Token no longer authenticates
	req = httptest.NewRequest("POST", "/api/signout", nil)
	req.Header.Set("Token", token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401 after signout, got %d", resp.StatusCode)
	}
}

// TestAuthMiddlewareRejectsMissingToken tests the no-token path
func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	app, _ := setupUserApp(t)

	req := httptest.NewRequest("POST", "/api/signout", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

// TestUpdateUserSelfOnly tests that accounts can only be modified by their owner
func TestUpdateUserSelfOnly(t *testing.T) {
	app, _ := setupUserApp(t)
	account := signupUser(t, app, "pat", "pat@example.com")
	other := signupUser(t, app, "sam", "sam@example.com")
	token := *account.User.Token

	payload, _ := json.Marshal(map[string]string{"first_name": "Patricia"})

	// Own account: allowed
	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/users/%d", account.User.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// Someone else's account: rejected
	req = httptest.NewRequest("PUT", fmt.Sprintf("/api/users/%d", other.User.ID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401, got %d", resp.StatusCode)
	}
}

// TestDeleteUserEndpoint tests DELETE /api/users/:id
func TestDeleteUserEndpoint(t *testing.T) {
	app, _ := setupUserApp(t)
	account := signupUser(t, app, "pat", "pat@example.com")
	token := *account.User.Token

	req := httptest.NewRequest("DELETE", fmt.Sprintf("/api/users/%d", account.User.ID), nil)
	req.Header.Set("Token", token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// The deleted user's token no longer authenticates
	req = httptest.NewRequest("DELETE", fmt.Sprintf("/api/users/%d", account.User.ID), nil)
	req.Header.Set("Token", token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("Expected status 401 after delete, got %d", resp.StatusCode)
	}
}
