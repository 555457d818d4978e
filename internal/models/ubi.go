package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UbiProgram pays a fixed amount per cycle to every actively enrolled user.
type UbiProgram struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:120;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (UbiProgram) TableName() string {
	return "ubi_programs"
}

type UbiEnrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProgramID uint      `gorm:"not null;uniqueIndex:idx_ubi_enrollment" json:"program_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ubi_enrollment" json:"user_id"`
	Status    string    `gorm:"size:20;not null;default:'active'" json:"status"` // active, inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (UbiEnrollment) TableName() string {
	return "ubi_enrollments"
}

type UbiCycle struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProgramID   uint      `gorm:"not null;index" json:"program_id"`
	PeriodStart time.Time `gorm:"not null" json:"period_start"`
	PeriodEnd   time.Time `gorm:"not null" json:"period_end"`
	Status      string    `gorm:"size:20;not null;index;default:'draft'" json:"status"` // draft, computed, pending_approval, approved
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UbiCycle) TableName() string {
	return "ubi_cycles"
}

// UbiPayout is one user's share of a cycle. The unique (cycle, user) index is
// what makes recomputing a cycle idempotent.
type UbiPayout struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	CycleID   uint            `gorm:"not null;uniqueIndex:idx_ubi_payout" json:"cycle_id"`
	UserID    uint            `gorm:"not null;uniqueIndex:idx_ubi_payout" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	Status    string          `gorm:"size:20;not null;index" json:"status"` // pending, approved
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (UbiPayout) TableName() string {
	return "ubi_payouts"
}
