package validators

import (
	"mime/multipart"
	"net/http"
	"strconv"

	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
)

// ParseMultipart parses the request body as a multipart form bounded by
// maxBytes.
func ParseMultipart(r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

// FormInt64 parses a required numeric form field.
func FormInt64(r *http.Request, name string) (int64, error) {
	raw := r.FormValue(name)
	if raw == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return v, nil
}

// OptionalFormValue returns a pointer to the form value, nil when the field
// was not submitted at all. An empty submitted value still counts as set.
func OptionalFormValue(r *http.Request, name string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// FormFile returns the uploaded file for the field, or nil when absent.
func FormFile(r *http.Request, name string) (multipart.File, *multipart.FileHeader, error) {
	file, header, err := r.FormFile(name)
	if err == http.ErrMissingFile {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading "+name)
	}
	return file, header, nil
}
