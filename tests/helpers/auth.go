package helpers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"testing"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

type accountResponse struct {
	User struct {
		ID    uint64  `json:"id"`
		Token *string `json:"token"`
	} `json:"user"`
}

// AcquireAccount signs up (or signs in, if the account exists) against a
// running server and returns the user id and session token.
func AcquireAccount(t *testing.T, baseURL, username, email, password string) (uint64, string) {
	t.Helper()

	signup := map[string]string{
		"first_name": "Test",
		"last_name":  "User",
		"username":   username,
		"email":      email,
		"password":   password,
	}
	resp := postJSON(t, baseURL+"/api/signup", signup)
	if resp.StatusCode == http.StatusCreated {
		var account accountResponse
		ParseJSON(t, resp, &account)
		if account.User.Token == nil {
			t.Fatal("Signup returned no token")
		}
		return account.User.ID, *account.User.Token
	}
	resp.Body.Close()
	t.Logf("Signup failed (might already exist), trying signin")

	signin := map[string]string{
		"username": username,
		"password": password,
	}
	resp = postJSON(t, baseURL+"/api/signin", signin)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Signin failed with status %d", resp.StatusCode)
	}
	var account accountResponse
	ParseJSON(t, resp, &account)
	if account.User.Token == nil {
		t.Fatal("Signin returned no token")
	}
	return account.User.ID, *account.User.Token
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to POST %s: %v", url, err)
	}
	return resp
}

// DoAuthenticated performs an HTTP request with the Token header set.
func DoAuthenticated(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("Failed to create %s %s: %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Token", token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to %s %s: %v", method, url, err)
	}
	return resp
}

// BaseURL resolves the server base URL for e2e tests.
func BaseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return fmt.Sprintf("http://localhost:%s", port)
}
