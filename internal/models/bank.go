package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Bank struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Config *BankConfig `gorm:"foreignKey:BankCode;references:Code" json:"config,omitempty"`
}

func (Bank) TableName() string {
	return "banks"
}

// BankConfig holds the admin-mutable knobs for a bank. A DailyLimit of zero
// means unlimited. No column defaults: Enabled must be written explicitly so
// an insert of false is stored as false.
type BankConfig struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	BankCode   string          `gorm:"size:20;uniqueIndex;not null" json:"bank_code"`
	Enabled    bool            `gorm:"not null" json:"enabled"`
	DailyLimit decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"daily_limit"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (BankConfig) TableName() string {
	return "bank_configs"
}

type ManualPaymentRequest struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	BankCode  string          `gorm:"size:20;not null;index" json:"bank_code"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Status    string          `gorm:"size:20;not null;index" json:"status"` // submitted, under_review, approved, rejected
	Notes     string          `gorm:"type:text" json:"notes"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (ManualPaymentRequest) TableName() string {
	return "manual_payment_requests"
}
