package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, Internal},
		{"plain error", errors.New("boom"), Internal},
		{"not found", NotFoundf("missing"), NotFound},
		{"wrapped conflict", fmt.Errorf("create: %w", Conflictf("dup")), Conflict},
		{"forbidden", Forbiddenf("no"), Forbidden},
		{"bad request", Invalid(map[string]string{"email": "required"}), BadRequest},
		{"unauthorized", Unauthorizedf("token"), Unauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := map[Kind]int{
		Internal:        http.StatusInternalServerError,
		NotFound:        http.StatusNotFound,
		Conflict:        http.StatusConflict,
		Forbidden:       http.StatusForbidden,
		BadRequest:      http.StatusBadRequest,
		Unauthorized:    http.StatusUnauthorized,
		TooManyRequests: http.StatusTooManyRequests,
	}
	for kind, want := range tests {
		if got := kind.Status(); got != want {
			t.Errorf("Kind(%d).Status() = %d, want %d", kind, got, want)
		}
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("E11000 duplicate key")
	err := Wrap(Conflict, "already shared", cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable with errors.Is")
	}
	if err.Error() != "already shared: E11000 duplicate key" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestWrite_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("connection refused to 10.0.0.5"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "internal server error" {
		t.Errorf("message = %q, want generic text", body.Message)
	}
}

func TestWrite_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, Invalid(map[string]string{"mood": "must be at most 10"}))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Fields["mood"] == "" {
		t.Error("expected field message for mood")
	}
	if body.StatusCode != http.StatusBadRequest {
		t.Errorf("statusCode = %d, want 400", body.StatusCode)
	}
}
