package models

import (
	"time"

	"github.com/mvalverde/imageflow-backend/pkg/enums"
)

// Image captures one upload moving through the processing workflow. While
// Status is "pendiente" the ProcessedPath stays empty; it is only filled when
// the processed file lands.
type Image struct {
	ID            int64             `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID        int64             `gorm:"column:user_id;not null;index" json:"userId"`
	OriginalPath  string            `gorm:"column:original_path;not null" json:"originalPath"`
	ProcessedPath string            `gorm:"column:processed_path;not null;default:''" json:"processedPath"`
	Status        enums.ImageStatus `gorm:"column:status;type:text;not null" json:"status"`
	Metadata      string            `gorm:"column:metadata" json:"metadata"`
	ScaleOption   string            `gorm:"column:scale_option" json:"scaleOption"`
	ProcessedAt   time.Time         `gorm:"column:processed_at" json:"processedAt"`
}
