package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/shared/auth"
)

func TestAuth_MissingHeader(t *testing.T) {
	handler := Auth(auth.NewJWT("secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called without credentials")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/goals", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	handler := Auth(auth.NewJWT("secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with malformed header")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	j := auth.NewJWT("secret")
	token, err := j.Generate(42, "ravi")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	var gotID int64
	handler := Auth(j)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("user ID missing from context")
		}
		gotID = id
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if gotID != 42 {
		t.Errorf("user ID = %d, want 42", gotID)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	handler := Auth(auth.NewJWT("secret"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called with a bad token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/goals", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
