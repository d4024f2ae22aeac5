package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vollmed/api/internal/core/domain"
)

func render(t *testing.T, err error) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec, body
}

func TestErrorHandler_ValidationError(t *testing.T) {
	rec, body := render(t, domain.ValidationError{
		{Field: "login", Message: "login is required"},
		{Field: "senha", Message: "senha is required"},
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	fields, ok := body["fields"].([]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %v", body)
	}
	first, _ := fields[0].(map[string]any)
	if first["field"] != "login" || first["message"] != "login is required" {
		t.Fatalf("unexpected first field error: %v", first)
	}
}

func TestErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrLoginTaken, http.StatusConflict},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrInvalidToken, http.StatusUnauthorized},
		{domain.ErrTooManyAttempts, http.StatusTooManyRequests},
	}

	for _, tc := range cases {
		rec, body := render(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.code, rec.Code)
		}
		if _, ok := body["fields"]; ok {
			t.Fatalf("%v: unexpected fields in body", tc.err)
		}
	}
}

// Credential failures must not reveal which factor was wrong.
func TestErrorHandler_CredentialMessageIsGeneric(t *testing.T) {
	_, body := render(t, domain.ErrInvalidCredentials)
	if body["error"] != "invalid credentials" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}

func TestErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec, body := render(t, echo.NewHTTPError(http.StatusUnauthorized, "authentication required"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body["error"] != "authentication required" {
		t.Fatalf("unexpected message: %v", body["error"])
	}
}

func TestErrorHandler_UnexpectedError(t *testing.T) {
	rec, body := render(t, errors.New("disk on fire"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body["error"])
	}
}
