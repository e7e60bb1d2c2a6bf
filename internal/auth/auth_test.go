package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func protected(t *testing.T) (http.Handler, *string) {
	t.Helper()

	var seenUser string
	gate := NewGate(testSecret)
	h := gate.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("identity missing from context inside protected handler")
		}
		seenUser = id
		w.WriteHeader(http.StatusOK)
	}))
	return h, &seenUser
}

func do(t *testing.T, h http.Handler, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequire_ValidToken(t *testing.T) {
	h, seenUser := protected(t)

	token, err := SignToken(testSecret, "user-42", time.Minute)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	rec := do(t, h, "Bearer "+token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if *seenUser != "user-42" {
		t.Errorf("expected identity user-42, got %q", *seenUser)
	}
}

func TestRequire_RejectsBadCredentials(t *testing.T) {
	expired, err := SignToken(testSecret, "user-42", -time.Minute)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}
	wrongKey, err := SignToken("other-secret", "user-42", time.Minute)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
		{"wrong signing key", "Bearer " + wrongKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, seenUser := protected(t)
			rec := do(t, h, tc.header)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
			if *seenUser != "" {
				t.Error("protected handler must not run without a valid session")
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error.Code != "UNAUTHENTICATED" {
				t.Errorf("expected UNAUTHENTICATED, got %q", body.Error.Code)
			}
		})
	}
}

func TestRequire_RejectsTokenWithoutIdentity(t *testing.T) {
	h, _ := protected(t)

	// A validly signed token that carries no user_id claim.
	token, err := SignToken(testSecret, "", time.Minute)
	if err != nil {
		t.Fatalf("SignToken failed: %v", err)
	}

	rec := do(t, h, "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for token without identity, got %d", rec.Code)
	}
}

func TestUserIDFromContext_Absent(t *testing.T) {
	if _, ok := UserIDFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context()); ok {
		t.Error("expected no identity on a bare context")
	}
}
