package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/mvalverde/imageflow-backend/api/middleware"
	"github.com/mvalverde/imageflow-backend/api/responses"
	"github.com/mvalverde/imageflow-backend/api/validators"
	"github.com/mvalverde/imageflow-backend/internal/images"
	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
	"github.com/mvalverde/imageflow-backend/pkg/logger"
)

// ImageList returns every image, or only one owner's when ?userId= is given.
// This path intentionally does not compare the filter against the caller's
// token; the per-user route below is the strict variant.
func ImageList(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.OptionalQueryID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// ImageListForUser serves a user's images only when the token was issued for
// that same user.
func ImageListForUser(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := validators.PathID(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims := middleware.ClaimsFromContext(r.Context())
		out, err := svc.ListForUser(r.Context(), claims, userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

func ImageGet(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		img, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, img)
	}
}

func ImageCreate(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body models.Image
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), &body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func ImageUpdate(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body models.Image
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), id, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ImageCreatePending accepts the multipart original upload and records the
// row in "pendiente" state.
func ImageCreatePending(svc images.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		userID, err := validators.FormInt64(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.FormFile(r, "originalFile")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in := images.CreatePendingInput{
			UserID:      userID,
			ScaleOption: r.FormValue("scaleOption"),
			Metadata:    r.FormValue("metadata"),
		}
		if file != nil {
			defer file.Close()
			in.File = file
			in.FileName = header.Filename
			in.Size = header.Size
		}

		created, err := svc.CreatePending(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// ImageUploadProcessed completes a pending image with its processed file.
// scaleOption and metadata only replace the stored values when the fields are
// present in the form.
func ImageUploadProcessed(svc images.Service, maxUploadBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := validators.ParseMultipart(r, maxUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		imageID, err := validators.FormInt64(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := validators.FormFile(r, "processedFile")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		in := images.UploadProcessedInput{
			ImageID:     imageID,
			ScaleOption: validators.OptionalFormValue(r, "scaleOption"),
			Metadata:    validators.OptionalFormValue(r, "metadata"),
		}
		if file != nil {
			defer file.Close()
			in.File = file
			in.FileName = header.Filename
			in.Size = header.Size
		}

		updated, err := svc.UploadProcessed(r.Context(), in)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func ImageDelete(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.PathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// ImageSetError marks an image as failed. The body is a bare JSON integer.
func ImageSetError(svc images.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer io.Copy(io.Discard, r.Body)

		var imageID int64
		if err := json.NewDecoder(r.Body).Decode(&imageID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		updated, err := svc.SetError(r.Context(), imageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
