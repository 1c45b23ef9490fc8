package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected json content type, got %q", ct)
	}

	var payload SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	data, ok := payload.Data.(map[string]any)
	if !ok || data["hello"] != "world" {
		t.Fatalf("unexpected data payload: %#v", payload.Data)
	}
}

func TestWriteErrorMapsCodesToStatuses(t *testing.T) {
	cases := []struct {
		code   pkgerrors.Code
		status int
	}{
		{pkgerrors.CodeValidation, http.StatusBadRequest},
		{pkgerrors.CodeUnauthorized, http.StatusUnauthorized},
		{pkgerrors.CodeNotFound, http.StatusNotFound},
		{pkgerrors.CodeConflict, http.StatusConflict},
		{pkgerrors.CodeConfig, http.StatusInternalServerError},
		{pkgerrors.CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tc.code, "boom"))
		if rec.Code != tc.status {
			t.Fatalf("code %s: expected %d, got %d", tc.code, tc.status, rec.Code)
		}

		var payload ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("code %s: decode: %v", tc.code, err)
		}
		if payload.Error.Code != string(tc.code) {
			t.Fatalf("expected code %s in body, got %s", tc.code, payload.Error.Code)
		}
		if payload.Error.Message != "boom" {
			t.Fatalf("expected message surfaced, got %q", payload.Error.Message)
		}
	}
}

func TestWriteErrorSurfacesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	cause := fmt.Errorf("disk full")
	WriteError(context.Background(), nil, rec, pkgerrors.Wrap(pkgerrors.CodeInternal, cause, "store original file"))

	var payload ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Message != "store original file: disk full" {
		t.Fatalf("expected cause appended, got %q", payload.Error.Message)
	}
}

func TestWriteErrorWrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, fmt.Errorf("something odd"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain error, got %d", rec.Code)
	}
	var payload ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("expected internal code, got %s", payload.Error.Code)
	}
}
