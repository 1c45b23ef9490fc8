package models

import "time"

// User represents the canonical identity entity. PasswordHash is never
// serialized; only a one-way hash of the password is stored.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username" json:"username"`
	Email        string    `gorm:"column:email;type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null" json:"-"`
	RegisteredAt time.Time `gorm:"column:registered_at;autoCreateTime" json:"registeredAt"`
	Images       []Image   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}
