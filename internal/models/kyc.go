package models

import (
	"time"
)

type KycApplication struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Status    string    `gorm:"size:20;not null;index;default:'pending'" json:"status"` // pending, approved, rejected
	Notes     string    `gorm:"type:text" json:"notes"`                                 // AES-GCM envelope, decrypted on read
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Documents []KycDocument `gorm:"foreignKey:ApplicationID" json:"documents,omitempty"`
}

func (KycApplication) TableName() string {
	return "kyc_applications"
}

type KycDocument struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Type          string    `gorm:"size:50;not null" json:"type"` // passport, national_id, proof_of_address
	FileRef       string    `gorm:"size:255;not null" json:"file_ref"`
	CreatedAt     time.Time `json:"created_at"`
}

func (KycDocument) TableName() string {
	return "kyc_documents"
}

// KycDecisionLog is append-only; every status change leaves a row.
type KycDecisionLog struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ApplicationID  uint      `gorm:"not null;index" json:"application_id"`
	ReviewerUserID *uint     `json:"reviewer_user_id"`
	Decision       string    `gorm:"size:20;not null" json:"decision"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}

func (KycDecisionLog) TableName() string {
	return "kyc_decision_logs"
}
