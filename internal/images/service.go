package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	pkgAuth "github.com/mvalverde/imageflow-backend/pkg/auth"
	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	"github.com/mvalverde/imageflow-backend/pkg/enums"
	pkgerrors "github.com/mvalverde/imageflow-backend/pkg/errors"
	"github.com/mvalverde/imageflow-backend/pkg/metrics"
)

// Service orchestrates the image lifecycle: pending creation, processed
// upload, error marking, and coupled blob-and-row deletion.
type Service interface {
	List(ctx context.Context, userID *int64) ([]models.Image, error)
	ListForUser(ctx context.Context, claims *pkgAuth.Claims, userID int64) ([]models.Image, error)
	Get(ctx context.Context, id int64) (*models.Image, error)
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	Update(ctx context.Context, id int64, image *models.Image) error
	CreatePending(ctx context.Context, in CreatePendingInput) (*models.Image, error)
	UploadProcessed(ctx context.Context, in UploadProcessedInput) (*models.Image, error)
	Delete(ctx context.Context, id int64) error
	SetError(ctx context.Context, imageID int64) (*models.Image, error)
}

type imageRepository interface {
	Create(ctx context.Context, image *models.Image) (*models.Image, error)
	FindByID(ctx context.Context, id int64) (*models.Image, error)
	List(ctx context.Context, userID *int64) ([]models.Image, error)
	Save(ctx context.Context, image *models.Image) error
	Replace(ctx context.Context, image *models.Image) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type blobStore interface {
	Save(ctx context.Context, fileName string, src io.Reader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

type service struct {
	repo    imageRepository
	blobs   blobStore
	metrics *metrics.WorkflowMetrics
	now     func() time.Time
}

// ServiceParams bundles the dependencies required to build an images service.
type ServiceParams struct {
	Repo    imageRepository
	Blobs   blobStore
	Metrics *metrics.WorkflowMetrics
	Now     func() time.Time
}

// NewService constructs an image workflow service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("image repository is required")
	}
	if params.Blobs == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:    params.Repo,
		blobs:   params.Blobs,
		metrics: params.Metrics,
		now:     params.Now,
	}, nil
}

func (s *service) List(ctx context.Context, userID *int64) ([]models.Image, error) {
	out, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list images")
	}
	return out, nil
}

// ListForUser only serves images when the token was issued for the requested
// owner. The unfiltered List path deliberately skips this check; both
// behaviors are inherited from the API contract this service replaces.
func (s *service) ListForUser(ctx context.Context, claims *pkgAuth.Claims, userID int64) ([]models.Image, error) {
	if claims == nil || !claims.BelongsTo(userID) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token does not match the requested user")
	}
	return s.List(ctx, &userID)
}

func (s *service) Get(ctx context.Context, id int64) (*models.Image, error) {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find image")
	}
	return img, nil
}

// Create is the raw insert path. It bypasses the pending/processed protocol;
// callers own the row contents.
func (s *service) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if image.Status == "" {
		image.Status = enums.ImageStatusPending
	}
	if !image.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", image.Status))
	}
	created, err := s.repo.Create(ctx, image)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create image")
	}
	return created, nil
}

// Update is a full replace. A write that touches no rows re-checks existence:
// the conflict only downgrades to not-found when the row is actually gone.
func (s *service) Update(ctx context.Context, id int64, image *models.Image) error {
	if id != image.ID {
		return pkgerrors.New(pkgerrors.CodeValidation, "path id and payload id do not match")
	}
	if !image.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", image.Status))
	}

	affected, err := s.repo.Replace(ctx, image)
	if err != nil || affected == 0 {
		exists, checkErr := s.repo.Exists(ctx, id)
		if checkErr == nil && !exists {
			return pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update image")
	}
	return nil
}

// CreatePending stores the original blob first and only then inserts the row,
// so a failed write never leaves a record pointing at nothing.
func (s *service) CreatePending(ctx context.Context, in CreatePendingInput) (*models.Image, error) {
	if in.File == nil || in.Size == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "original file is missing or empty")
	}

	originalPath, err := s.blobs.Save(ctx, in.FileName, in.File)
	if err != nil {
		s.metrics.IncBlobError()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store original file")
	}

	img := &models.Image{
		UserID:        in.UserID,
		OriginalPath:  originalPath,
		ProcessedPath: "",
		Status:        enums.ImageStatusPending,
		Metadata:      in.Metadata,
		ScaleOption:   in.ScaleOption,
		ProcessedAt:   s.now().UTC(),
	}

	created, err := s.repo.Create(ctx, img)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record pending image")
	}

	s.metrics.IncTransition(enums.ImageStatusPending.String())
	s.metrics.ObserveBlobBytes("original", in.Size)
	return created, nil
}

// UploadProcessed completes the workflow for an existing row. The row lookup
// happens before any blob write so a bad id costs no I/O.
func (s *service) UploadProcessed(ctx context.Context, in UploadProcessedInput) (*models.Image, error) {
	img, err := s.repo.FindByID(ctx, in.ImageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no image with id %d", in.ImageID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find image")
	}

	if in.File == nil || in.Size == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "processed file is missing or empty")
	}

	processedPath, err := s.blobs.Save(ctx, in.FileName, in.File)
	if err != nil {
		s.metrics.IncBlobError()
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store processed file")
	}

	img.ProcessedPath = processedPath
	if in.ScaleOption != nil {
		img.ScaleOption = *in.ScaleOption
	}
	if in.Metadata != nil {
		img.Metadata = *in.Metadata
	}
	img.Status = enums.ImageStatusProcessed
	img.ProcessedAt = s.now().UTC()

	if err := s.repo.Save(ctx, img); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record processed image")
	}

	s.metrics.IncTransition(enums.ImageStatusProcessed.String())
	s.metrics.ObserveBlobBytes("processed", in.Size)
	return img, nil
}

// Delete removes both blobs before the row. A blob that is already gone is
// fine; any other blob error keeps the row so nothing dangles. The reverse
// gap — a crash after blob deletion but before row deletion — leaves orphaned
// rows-free blobs and is accepted.
func (s *service) Delete(ctx context.Context, id int64) error {
	img, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no image with id %d", id))
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find image")
	}

	blobErr := multierr.Append(
		s.blobs.Remove(ctx, img.OriginalPath),
		s.blobs.Remove(ctx, img.ProcessedPath),
	)
	if blobErr != nil {
		s.metrics.IncBlobError()
		return pkgerrors.Wrap(pkgerrors.CodeInternal, blobErr, "delete image files")
	}

	if _, err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete image row")
	}

	s.metrics.IncTransition("deleted")
	return nil
}

// SetError marks the row as failed, from any state.
func (s *service) SetError(ctx context.Context, imageID int64) (*models.Image, error) {
	img, err := s.repo.FindByID(ctx, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no image with id %d", imageID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find image")
	}

	img.Status = enums.ImageStatusError
	img.ProcessedAt = s.now().UTC()

	if err := s.repo.Save(ctx, img); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record image error")
	}

	s.metrics.IncTransition(enums.ImageStatusError.String())
	return img, nil
}
