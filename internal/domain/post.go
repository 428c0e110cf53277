package domain

import "time"

// Post is one entry on the shared feed. Author is the username at posting
// time; there is no foreign key back to users.
type Post struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"type:text;not null"`
	Author    string    `gorm:"type:varchar(191);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created_at"`
}
