package images

import (
	"context"

	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes image record persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an images repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new image row and returns the persisted model.
func (r *Repository) Create(ctx context.Context, image *models.Image) (*models.Image, error) {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

// FindByID retrieves an image row by ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// List returns all image rows, filtered by owner when userID is non-nil.
func (r *Repository) List(ctx context.Context, userID *int64) ([]models.Image, error) {
	q := r.db.WithContext(ctx).Model(&models.Image{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	var out []models.Image
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Save persists every field of an already-loaded image row.
func (r *Repository) Save(ctx context.Context, image *models.Image) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// Replace overwrites every column of the row matching image.ID. The returned
// count is the number of rows touched; zero means the row is gone.
func (r *Repository) Replace(ctx context.Context, image *models.Image) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Image{}).
		Where("id = ?", image.ID).
		Select("user_id", "original_path", "processed_path", "status", "metadata", "scale_option", "processed_at").
		Updates(image)
	return res.RowsAffected, res.Error
}

// Delete removes the image row.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Image{})
	return res.RowsAffected, res.Error
}

// Exists reports whether an image row with the id is present.
func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Image{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
