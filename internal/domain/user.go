// Package domain defines the persisted data models.
package domain

import "time"

// User is a registered account. Never updated or deleted after creation.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"type:varchar(191);uniqueIndex:idx_username;not null"`
	Password  string    `gorm:"type:text;not null"` // bcrypt hash, never plaintext
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
