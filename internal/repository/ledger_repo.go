package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerRepository owns the append-only entry log. Entries are never updated
// or deleted; a balance is always recomputed from the log.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// ErrDuplicateRef reports that an entry with the same (user, currency, ref)
// already exists. Callers treat it as "already recorded", not a failure.
var ErrDuplicateRef = errors.New("ledger ref already recorded")

// Append writes one immutable entry using the given handle, which may be a
// transaction. The unique index on (user_id, currency, ref) turns a retried
// write into ErrDuplicateRef instead of a second entry.
func (r *LedgerRepository) Append(tx *gorm.DB, e *models.LedgerEntry) error {
	if err := tx.Create(e).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRef
		}
		return err
	}
	return nil
}

// Balance returns sum(credits) - sum(debits) for the (user, currency) pair.
// O(n) over the user's entries; the log is the sole source of truth.
func (r *LedgerRepository) Balance(userID uint, currency string) (decimal.Decimal, error) {
	var entries []models.LedgerEntry
	if err := r.db.Where("user_id = ? AND currency = ?", userID, currency).Find(&entries).Error; err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	for _, e := range entries {
		if e.Type == domain.LedgerCredit {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
	}
	return balance, nil
}

// FindByRef is the idempotency point lookup used before emitting a new entry
// tied to a retryable business event.
func (r *LedgerRepository) FindByRef(userID uint, currency, ref string) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := r.db.Where("user_id = ? AND currency = ? AND ref = ?", userID, currency, ref).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *LedgerRepository) ListByUser(userID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// ListUbiByUser returns only entries that originate from UBI payouts.
func (r *LedgerRepository) ListUbiByUser(userID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.Where("user_id = ? AND ubi_payout_id IS NOT NULL", userID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}
