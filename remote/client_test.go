package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSignInStoresIdentityAndTokens(t *testing.T) {
	userID := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode login request: %v", err)
		}
		if req.Email != "ada@example.com" || req.Password == "" {
			t.Errorf("unexpected credentials: %+v", req)
		}
		writeJSON(w, http.StatusOK, authResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			User:         Identity{UserID: userID, Email: req.Email},
		})
	})

	c := newTestClient(t, mux)
	id, err := c.SignIn(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if id.UserID != userID {
		t.Fatalf("identity user = %s, want %s", id.UserID, userID)
	}
	got, ok := c.CurrentIdentity()
	if !ok || got.Email != "ada@example.com" {
		t.Fatalf("CurrentIdentity = %+v, %v", got, ok)
	}
	access, refresh := c.Tokens()
	if access != "access-1" || refresh != "refresh-1" {
		t.Fatalf("tokens = %q, %q", access, refresh)
	}
}

func TestDataCallsCarryBearerToken(t *testing.T) {
	var gotAuth atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exercises", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []any{})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New(), Email: "ada@example.com"}, "access-7", "refresh-7")
	if _, err := c.ActiveExercises(context.Background()); err != nil {
		t.Fatalf("ActiveExercises: %v", err)
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer access-7" {
		t.Fatalf("Authorization = %q, want bearer token", auth)
	}
}

func TestSignOutRevokesAndClears(t *testing.T) {
	var gotAuth, gotToken atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		var req refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotToken.Store(req.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New(), Email: "ada@example.com"}, "access-3", "refresh-3")
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if auth, _ := gotAuth.Load().(string); auth != "Bearer access-3" {
		t.Fatalf("Authorization = %q, want bearer token", auth)
	}
	if tok, _ := gotToken.Load().(string); tok != "refresh-3" {
		t.Fatalf("revoked token = %q, want refresh-3", tok)
	}
	if _, ok := c.CurrentIdentity(); ok {
		t.Fatal("identity survived sign-out")
	}
	if access, refresh := c.Tokens(); access != "" || refresh != "" {
		t.Fatalf("tokens = %q, %q after sign-out", access, refresh)
	}
}

func TestSignOutClearsLocallyWhenServerFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, apiError{Error: true, Message: "Internal server error"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New()}, "access", "refresh")
	if err := c.SignOut(context.Background()); err == nil {
		t.Fatal("expected the server failure to surface")
	}
	if _, ok := c.CurrentIdentity(); ok {
		t.Fatal("identity survived sign-out")
	}
	if access, refresh := c.Tokens(); access != "" || refresh != "" {
		t.Fatalf("tokens = %q, %q after sign-out", access, refresh)
	}
}

func TestNotFoundBodyMapsToSentinel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/workouts/date/2024-01-01", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, apiError{Error: true, Code: CodeNotFound, Message: "no workout on that date"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New()}, "access", "refresh")
	_, err := c.WorkoutByDate(context.Background(), "2024-01-01")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound = false for %v", err)
	}
	if CodeOf(err) != CodeNotFound {
		t.Fatalf("CodeOf = %q, want %q", CodeOf(err), CodeNotFound)
	}
}

func TestCodedErrorSurvivesTransport(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, apiError{Error: true, Code: CodeDuplicateName, Message: "exercise already exists"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New()}, "access", "refresh")
	_, err := c.CreateExercise(context.Background(), NewExercise{Name: "Bench Press"})
	if err == nil {
		t.Fatal("expected an error")
	}
	var se *Error
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T", err)
	}
	if se.Code != CodeDuplicateName || se.Status != http.StatusConflict {
		t.Fatalf("error = %+v", se)
	}
	if !IsDuplicate(err) {
		t.Fatalf("IsDuplicate = false for %v", err)
	}
}

func TestUnparseableErrorBodyFallsBackToTransportCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New()}, "access", "refresh")
	_, err := c.Profile(context.Background())
	if CodeOf(err) != CodeTransport {
		t.Fatalf("CodeOf = %q, want %q", CodeOf(err), CodeTransport)
	}
}

func TestUnauthorizedTriggersOneRefreshAndRetry(t *testing.T) {
	var dataCalls, refreshCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exercises", func(w http.ResponseWriter, r *http.Request) {
		if dataCalls.Add(1) == 1 {
			writeJSON(w, http.StatusUnauthorized, apiError{Error: true, Code: CodeUnauthorized, Message: "token expired"})
			return
		}
		if r.Header.Get("Authorization") != "Bearer access-2" {
			t.Errorf("retry Authorization = %q, want refreshed token", r.Header.Get("Authorization"))
		}
		writeJSON(w, http.StatusOK, []any{})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshCalls.Add(1)
		var req refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "refresh-1" {
			t.Errorf("refresh token = %q", req.RefreshToken)
		}
		writeJSON(w, http.StatusOK, authResponse{AccessToken: "access-2", RefreshToken: "refresh-2"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New(), Email: "ada@example.com"}, "access-1", "refresh-1")
	if _, err := c.ActiveExercises(context.Background()); err != nil {
		t.Fatalf("ActiveExercises after refresh: %v", err)
	}
	if dataCalls.Load() != 2 || refreshCalls.Load() != 1 {
		t.Fatalf("calls = %d data, %d refresh; want 2 and 1", dataCalls.Load(), refreshCalls.Load())
	}
	if _, refresh := c.Tokens(); refresh != "refresh-2" {
		t.Fatalf("refresh token after rotation = %q", refresh)
	}
}

func TestAuthFailureSurfacesWhenRefreshFails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: true, Code: CodeUnauthorized, Message: "token expired"})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: true, Code: CodeUnauthorized, Message: "refresh revoked"})
	})

	c := newTestClient(t, mux)
	c.Restore(Identity{UserID: uuid.New()}, "access-stale", "refresh-stale")
	_, err := c.ActiveExercises(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized = false for %v", err)
	}
}

func TestInjectedLoggerSeesRefreshFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/exercises", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: true, Code: CodeUnauthorized, Message: "token expired"})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: true, Code: CodeUnauthorized, Message: "refresh revoked"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c, err := NewClient(srv.URL, Options{Logger: logger})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.Restore(Identity{UserID: uuid.New()}, "access-stale", "refresh-stale")

	if _, err := c.ActiveExercises(context.Background()); !IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized = false for %v", err)
	}
	if !strings.Contains(logs.String(), "token refresh failed") {
		t.Fatalf("injected logger saw no refresh failure, logs:\n%s", logs.String())
	}
}

func TestParseBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:8080", "http://localhost:8080"},
		{"localhost:8080", "http://localhost:8080"},
		{"https://lift.example.com/", "https://lift.example.com"},
	}
	for _, tc := range cases {
		u, err := parseBaseURL(tc.in)
		if err != nil {
			t.Fatalf("parseBaseURL(%q): %v", tc.in, err)
		}
		if u.String() != tc.want {
			t.Fatalf("parseBaseURL(%q) = %q, want %q", tc.in, u.String(), tc.want)
		}
	}
	if _, err := parseBaseURL("  "); err == nil {
		t.Fatal("expected error for empty url")
	}
}
