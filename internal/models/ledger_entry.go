package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable signed monetary fact. Balance is always derived
// by summing entries for a (user, currency) pair; no running balance column
// exists anywhere. The composite unique index on (user_id, currency, ref) is
// what makes retried settlements safe: the write is attempted unconditionally
// and a duplicate-key error means the business event was already recorded.
type LedgerEntry struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	UserID   uint            `gorm:"not null;index;uniqueIndex:idx_ledger_user_currency_ref" json:"user_id"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency string          `gorm:"size:3;not null;uniqueIndex:idx_ledger_user_currency_ref" json:"currency"`
	Type     string          `gorm:"size:10;not null" json:"type"` // credit, debit
	Ref      string          `gorm:"size:128;not null;uniqueIndex:idx_ledger_user_currency_ref" json:"ref"`

	ManualRequestID *uint `json:"manual_request_id,omitempty"`
	OrderID         *uint `json:"order_id,omitempty"`
	UbiPayoutID     *uint `json:"ubi_payout_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
