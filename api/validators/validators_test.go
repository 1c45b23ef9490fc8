package validators

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
)

type registerBody struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyValidates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana","email":"not-an-email","password":"x"}`))

	var body registerBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().(map[string]string)
	if !ok || details["email"] == "" {
		t.Fatalf("expected email detail, got %#v", typed.Details())
	}
}

func TestDecodeJSONBodyIgnoresUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"ana","email":"ana@example.com","password":"x","extra":"ignored"}`))

	var body registerBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}
	if body.Username != "ana" {
		t.Fatalf("expected decoded username, got %q", body.Username)
	}
}

func TestDecodeJSONBodyRejectsMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":`))

	var body registerBody
	err := DecodeJSONBody(req, &body)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPathID(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	req := httptest.NewRequest(http.MethodGet, "/42", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := PathID(req, "id")
	if err != nil {
		t.Fatalf("path id: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected 42, got %d", id)
	}

	rctx.URLParams.Add("bad", "abc")
	if _, err := PathID(req, "bad"); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for non-numeric id")
	}
}

func TestOptionalQueryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	id, err := OptionalQueryID(req, "userId")
	if err != nil || id != nil {
		t.Fatalf("expected nil for absent param, got %v / %v", id, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/images?userId=7", nil)
	id, err = OptionalQueryID(req, "userId")
	if err != nil || id == nil || *id != 7 {
		t.Fatalf("expected 7, got %v / %v", id, err)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/images?userId=abc", nil)
	if _, err := OptionalQueryID(req, "userId"); pkgerrors.As(err) == nil {
		t.Fatalf("expected validation error for non-numeric param")
	}
}

func buildMultipartRequest(t *testing.T, fields map[string]string, fileField, fileName, fileBody string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(fileBody)); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/images/pending", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestMultipartFieldHelpers(t *testing.T) {
	req := buildMultipartRequest(t, map[string]string{
		"userId":      "3",
		"scaleOption": "",
	}, "originalFile", "cat.png", "pixels")

	if err := ParseMultipart(req, 1<<20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}

	userID, err := FormInt64(req, "userId")
	if err != nil || userID != 3 {
		t.Fatalf("expected userId 3, got %d / %v", userID, err)
	}

	if _, err := FormInt64(req, "missing"); pkgerrors.As(err) == nil {
		t.Fatalf("expected error for missing numeric field")
	}

	// Submitted-but-empty and absent are different things for optional fields.
	if v := OptionalFormValue(req, "scaleOption"); v == nil || *v != "" {
		t.Fatalf("expected empty submitted value, got %v", v)
	}
	if v := OptionalFormValue(req, "metadata"); v != nil {
		t.Fatalf("expected nil for absent field, got %q", *v)
	}

	file, header, err := FormFile(req, "originalFile")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	if file == nil || header.Filename != "cat.png" || header.Size != 6 {
		t.Fatalf("unexpected file part: %v %v", file, header)
	}
	file.Close()

	missing, _, err := FormFile(req, "processedFile")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for absent file, got %v / %v", missing, err)
	}
}
