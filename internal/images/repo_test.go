package images

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mvalverde/imageflow-backend/pkg/db/models"
	"github.com/mvalverde/imageflow-backend/pkg/enums"
)

func setupImagesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS images (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  original_path TEXT NOT NULL,
  processed_path TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  metadata TEXT,
  scale_option TEXT,
  processed_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedImage(t *testing.T, repo *Repository, userID int64, status enums.ImageStatus) *models.Image {
	t.Helper()
	img, err := repo.Create(context.Background(), &models.Image{
		UserID:       userID,
		OriginalPath: fmt.Sprintf("/images/original-%d.png", userID),
		Status:       status,
		ProcessedAt:  time.Now().UTC(),
	})
	require.NoError(t, err)
	return img
}

func TestImageRepoListFiltersByUser(t *testing.T) {
	repo := NewRepository(setupImagesTestDB(t))

	seedImage(t, repo, 1, enums.ImageStatusPending)
	seedImage(t, repo, 1, enums.ImageStatusProcessed)
	seedImage(t, repo, 2, enums.ImageStatusPending)

	all, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	owner := int64(1)
	mine, err := repo.List(context.Background(), &owner)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, img := range mine {
		assert.Equal(t, owner, img.UserID)
	}
}

func TestImageRepoReplaceReportsAffectedRows(t *testing.T) {
	repo := NewRepository(setupImagesTestDB(t))

	img := seedImage(t, repo, 1, enums.ImageStatusPending)

	img.Status = enums.ImageStatusProcessed
	img.ProcessedPath = "/images/done.png"
	affected, err := repo.Replace(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ImageStatusProcessed, got.Status)
	assert.Equal(t, "/images/done.png", got.ProcessedPath)

	ghost := &models.Image{ID: 999, UserID: 1, OriginalPath: "x", Status: enums.ImageStatusPending}
	affected, err = repo.Replace(context.Background(), ghost)
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestImageRepoDeleteAndExists(t *testing.T) {
	repo := NewRepository(setupImagesTestDB(t))

	img := seedImage(t, repo, 1, enums.ImageStatusPending)

	exists, err := repo.Exists(context.Background(), img.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	affected, err := repo.Delete(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	exists, err = repo.Exists(context.Background(), img.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	affected, err = repo.Delete(context.Background(), img.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)
}
