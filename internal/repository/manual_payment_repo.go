package repository

import (
	"errors"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ManualPaymentRepository struct {
	db *gorm.DB
}

func NewManualPaymentRepository(db *gorm.DB) *ManualPaymentRepository {
	return &ManualPaymentRepository{db: db}
}

func (r *ManualPaymentRepository) Create(req *models.ManualPaymentRequest) error {
	return r.db.Create(req).Error
}

func (r *ManualPaymentRepository) GetByID(id uint) (*models.ManualPaymentRequest, error) {
	var req models.ManualPaymentRequest
	err := r.db.First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *ManualPaymentRepository) ListPending() ([]models.ManualPaymentRequest, error) {
	var reqs []models.ManualPaymentRequest
	err := r.db.Where("status IN ?", []string{domain.ManualSubmitted, domain.ManualUnderReview}).
		Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *ManualPaymentRepository) ListByUser(userID uint) ([]models.ManualPaymentRequest, error) {
	var reqs []models.ManualPaymentRequest
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

// SumForDay totals the user's requests against one bank for the calendar day
// containing at, counting only statuses that still hold or consumed limit
// (submitted, under_review, approved). Rejected requests release their slice.
// It runs on the given handle so the caller can keep the read inside the
// transaction that acts on it, like LedgerRepository.Append.
func (r *ManualPaymentRepository) SumForDay(tx *gorm.DB, userID uint, bankCode string, at time.Time) (decimal.Decimal, error) {
	start := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	end := start.Add(24 * time.Hour)
	var reqs []models.ManualPaymentRequest
	err := tx.Where(
		"user_id = ? AND bank_code = ? AND created_at >= ? AND created_at < ? AND status IN ?",
		userID, bankCode, start, end,
		[]string{domain.ManualSubmitted, domain.ManualUnderReview, domain.ManualApproved},
	).Find(&reqs).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, req := range reqs {
		total = total.Add(req.Amount)
	}
	return total, nil
}
