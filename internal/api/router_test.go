package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vollmed/api/internal/infrastructure/db/sqlite"
	"github.com/vollmed/api/internal/pkg/config"
)

// TestAPI_EndToEnd exercises the whole surface against an in-memory database
// and redis: sign-up, login, bad login, authenticated update, and re-login
// with old and new passwords.
//
// The router registers prometheus collectors with the default registry, so it
// is built exactly once per test binary.
func TestAPI_EndToEnd(t *testing.T) {
	db, err := sqlite.Connect(":memory:")
	if err != nil {
		t.Fatalf("sqlite connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	srv := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  2 * time.Hour,
		Login:     config.LoginConfig{MaxAttempts: 10, Window: time.Minute},
	}
	e := NewRouter(db, rdb, cfg, zerolog.Nop())

	do := func(method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		var resp map[string]any
		if rec.Body.Len() > 0 {
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("%s %s: decode body %q: %v", method, path, rec.Body.String(), err)
			}
		}
		return rec, resp
	}

	// Sign-up is public.
	rec, resp := do(http.MethodPost, "/usuarios", `{"login":"alice","senha":"secret1"}`, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp["id"] != float64(1) || resp["login"] != "alice" {
		t.Fatalf("create: unexpected body %v", resp)
	}
	if loc := rec.Header().Get("Location"); loc != "/usuarios/1" {
		t.Fatalf("create: unexpected location %q", loc)
	}

	// Blank fields are rejected with a field list and persist nothing.
	rec, resp = do(http.MethodPost, "/usuarios", `{"login":"","senha":""}`, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank create: expected 400, got %d", rec.Code)
	}
	if fields, ok := resp["fields"].([]any); !ok || len(fields) != 2 {
		t.Fatalf("blank create: expected 2 field errors, got %v", resp)
	}

	// Login issues a token.
	rec, resp = do(http.MethodPost, "/login", `{"login":"alice","senha":"secret1"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	token, _ := resp["token"].(string)
	if token == "" {
		t.Fatalf("login: expected token, got %v", resp)
	}

	// Wrong password is a generic 401.
	rec, resp = do(http.MethodPost, "/login", `{"login":"alice","senha":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: expected 401, got %d", rec.Code)
	}
	if resp["error"] != "invalid credentials" {
		t.Fatalf("bad login: unexpected message %v", resp["error"])
	}

	// Update requires a bearer token.
	rec, _ = do(http.MethodPut, "/usuarios", `{"id":1,"login":"alice2","senha":"secret2"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated update: expected 401, got %d", rec.Code)
	}

	// Unknown id is a 404.
	rec, _ = do(http.MethodPut, "/usuarios", `{"id":99,"login":"ghost","senha":"secret2"}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing update: expected 404, got %d", rec.Code)
	}

	rec, resp = do(http.MethodPut, "/usuarios", `{"id":1,"login":"alice2","senha":"secret2"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if resp["id"] != float64(1) || resp["login"] != "alice2" {
		t.Fatalf("update: unexpected body %v", resp)
	}

	// The rename invalidates the old token: its subject no longer resolves.
	rec, _ = do(http.MethodPut, "/usuarios", `{"id":1,"login":"alice2","senha":"secret2"}`, token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token: expected 401, got %d", rec.Code)
	}

	// The old password no longer works, the new one does.
	rec, _ = do(http.MethodPost, "/login", `{"login":"alice2","senha":"secret1"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old password: expected 401, got %d", rec.Code)
	}
	rec, _ = do(http.MethodPost, "/login", `{"login":"alice2","senha":"secret2"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("new password: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	// A tampered token is rejected even though sign-up is public.
	rec, _ = do(http.MethodPost, "/usuarios", `{"login":"bob","senha":"secret1"}`, token+"x")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", rec.Code)
	}

	// Health and metrics are served without auth.
	rec, _ = do(http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}
	rec, _ = do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("readiness: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
