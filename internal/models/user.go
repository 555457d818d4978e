package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Email        string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Name         string         `gorm:"size:120" json:"name"`
	Status       string         `gorm:"size:20;not null;default:'active';index" json:"status"` // active, suspended
	TierID       *uint          `json:"tier_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Roles []UserRole     `gorm:"foreignKey:UserID" json:"roles,omitempty"`
	Tier  *MembershipTier `gorm:"foreignKey:TierID" json:"tier,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserRole grants one named role to a user. A user may hold several.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      string    `gorm:"size:30;not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

type MembershipTier struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Priority int    `gorm:"not null" json:"priority"`
}

func (MembershipTier) TableName() string {
	return "membership_tiers"
}

// RefreshToken stores only the SHA-256 hash of the opaque token string.
type RefreshToken struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	TokenHash   string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt   time.Time  `gorm:"not null" json:"expires_at"`
	RevokedAt   *time.Time `json:"revoked_at"`
	CreatedByIP string     `gorm:"size:45" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}
