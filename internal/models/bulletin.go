package models

import (
	"time"
)

type Bulletin struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	Status      string     `gorm:"size:20;not null;index;default:'draft'" json:"status"` // draft, published
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Bulletin) TableName() string {
	return "bulletins"
}

// BulletinVersion is an append-only snapshot written on every state change so
// a bulletin can be reverted to any prior version.
type BulletinVersion struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BulletinID uint      `gorm:"not null;uniqueIndex:idx_bulletin_version" json:"bulletin_id"`
	Version    int       `gorm:"not null;uniqueIndex:idx_bulletin_version" json:"version"`
	Title      string    `gorm:"size:200;not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Status     string    `gorm:"size:20;not null" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (BulletinVersion) TableName() string {
	return "bulletin_versions"
}
