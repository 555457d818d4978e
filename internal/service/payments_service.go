package service

import (
	"errors"
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentsService owns bank configuration and the manual payment request
// lifecycle. Approving a request is the only path that credits the ledger
// from manual payments, and it does so in the same transaction that flips
// the request status.
type PaymentsService struct {
	db         *gorm.DB
	bankRepo   *repository.BankRepository
	manualRepo *repository.ManualPaymentRepository
	ledgerRepo *repository.LedgerRepository
}

func NewPaymentsService(
	db *gorm.DB,
	bankRepo *repository.BankRepository,
	manualRepo *repository.ManualPaymentRepository,
	ledgerRepo *repository.LedgerRepository,
) *PaymentsService {
	return &PaymentsService{db: db, bankRepo: bankRepo, manualRepo: manualRepo, ledgerRepo: ledgerRepo}
}

// BankView is the normalized bank + config projection returned to clients.
type BankView struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Enabled    bool            `json:"enabled"`
	DailyLimit decimal.Decimal `json:"daily_limit"`
}

func bankView(b *models.Bank) BankView {
	v := BankView{Code: b.Code, Name: b.Name, Enabled: true, DailyLimit: decimal.Zero}
	if b.Config != nil {
		v.Enabled = b.Config.Enabled
		v.DailyLimit = b.Config.DailyLimit
	}
	return v
}

func (s *PaymentsService) ListBanks() ([]BankView, error) {
	banks, err := s.bankRepo.List()
	if err != nil {
		return nil, err
	}
	views := make([]BankView, 0, len(banks))
	for i := range banks {
		views = append(views, bankView(&banks[i]))
	}
	return views, nil
}

func (s *PaymentsService) GetBank(code string) (*BankView, error) {
	bank, err := s.bankRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: unknown bank code", domain.ErrNotFound)
	}
	v := bankView(bank)
	return &v, nil
}

// SetBankConfig upserts the enabled flag and daily limit for one bank.
// Nil fields leave the current value untouched.
func (s *PaymentsService) SetBankConfig(code string, enabled *bool, dailyLimit *decimal.Decimal) (*BankView, error) {
	bank, err := s.bankRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: unknown bank code", domain.ErrNotFound)
	}
	cfg := bank.Config
	if cfg == nil {
		cfg = &models.BankConfig{BankCode: code, Enabled: true, DailyLimit: decimal.Zero}
	}
	if enabled != nil {
		cfg.Enabled = *enabled
	}
	if dailyLimit != nil {
		cfg.DailyLimit = *dailyLimit
	}
	if err := s.bankRepo.SaveConfig(cfg); err != nil {
		return nil, err
	}
	bank.Config = cfg
	v := bankView(bank)
	return &v, nil
}

// SetBankConfigBulk applies several config upserts atomically. All codes must
// be known before anything is written.
func (s *PaymentsService) SetBankConfigBulk(items []BankConfigItem) ([]BankView, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrBadRequest)
	}
	for _, item := range items {
		bank, err := s.bankRepo.GetByCode(item.Code)
		if err != nil {
			return nil, err
		}
		if bank == nil {
			return nil, fmt.Errorf("%w: unknown bank code(s): %s", domain.ErrNotFound, item.Code)
		}
	}
	views := make([]BankView, 0, len(items))
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			var bank models.Bank
			if err := tx.Preload("Config").Where("code = ?", item.Code).First(&bank).Error; err != nil {
				return err
			}
			cfg := bank.Config
			if cfg == nil {
				cfg = &models.BankConfig{BankCode: item.Code, Enabled: true, DailyLimit: decimal.Zero}
			}
			if item.Enabled != nil {
				cfg.Enabled = *item.Enabled
			}
			if item.DailyLimit != nil {
				cfg.DailyLimit = *item.DailyLimit
			}
			if err := tx.Save(cfg).Error; err != nil {
				return err
			}
			bank.Config = cfg
			views = append(views, bankView(&bank))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

type BankConfigItem struct {
	Code       string           `json:"code" binding:"required"`
	Enabled    *bool            `json:"enabled"`
	DailyLimit *decimal.Decimal `json:"daily_limit"`
}

// CreateManualRequest validates the bank and the per-user per-bank daily cap,
// then inserts a submitted request. No ledger entry is written here; credits
// happen only at approval.
func (s *PaymentsService) CreateManualRequest(userID uint, bankCode string, amount decimal.Decimal, currency, notes string) (*models.ManualPaymentRequest, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", domain.ErrBadRequest)
	}
	bank, err := s.bankRepo.GetByCode(bankCode)
	if err != nil {
		return nil, err
	}
	if bank == nil {
		return nil, fmt.Errorf("%w: unknown bank code", domain.ErrNotFound)
	}
	// Snapshot the config once; it is not re-read mid-decision.
	cfg := bank.Config
	if cfg != nil && !cfg.Enabled {
		return nil, fmt.Errorf("%w: bank disabled", domain.ErrBadRequest)
	}

	req := &models.ManualPaymentRequest{
		UserID:   userID,
		BankCode: bankCode,
		Amount:   amount,
		Currency: currency,
		Status:   domain.ManualSubmitted,
		Notes:    notes,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if cfg != nil && cfg.DailyLimit.IsPositive() {
			current, err := s.manualRepo.SumForDay(tx, userID, bankCode, time.Now())
			if err != nil {
				return err
			}
			if current.Add(amount).GreaterThan(cfg.DailyLimit) {
				return fmt.Errorf("%w: daily limit exceeded for this bank", domain.ErrBadRequest)
			}
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *PaymentsService) ListPendingRequests() ([]models.ManualPaymentRequest, error) {
	return s.manualRepo.ListPending()
}

func (s *PaymentsService) ListUserRequests(userID uint) ([]models.ManualPaymentRequest, error) {
	return s.manualRepo.ListByUser(userID)
}

// terminalGuard rejects any transition out of approved or rejected.
func terminalGuard(req *models.ManualPaymentRequest) error {
	switch req.Status {
	case domain.ManualApproved:
		return fmt.Errorf("%w: already approved", domain.ErrBadRequest)
	case domain.ManualRejected:
		return fmt.Errorf("%w: already rejected", domain.ErrBadRequest)
	}
	return nil
}

// ReviewRequest moves a submitted request to under_review. Reviewing a
// request already under review is a no-op success.
func (s *PaymentsService) ReviewRequest(id uint, notes string) (*models.ManualPaymentRequest, error) {
	req, err := s.manualRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: manual request", domain.ErrNotFound)
	}
	if err := terminalGuard(req); err != nil {
		return nil, err
	}
	if req.Status == domain.ManualUnderReview {
		return req, nil
	}
	req.Status = domain.ManualUnderReview
	if notes != "" {
		req.Notes = notes
	}
	if err := s.db.Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// ApproveRequest flips the request to approved and credits the user's ledger
// for the full amount, both inside one transaction. The credit carries the
// deterministic ref manual:<id> unless the caller supplies one, so a retried
// approval can never produce a second credit.
func (s *PaymentsService) ApproveRequest(id uint, ref, notes string) (*models.ManualPaymentRequest, error) {
	req, err := s.manualRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: manual request", domain.ErrNotFound)
	}
	if err := terminalGuard(req); err != nil {
		return nil, err
	}
	if ref == "" {
		ref = fmt.Sprintf("manual:%d", req.ID)
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		req.Status = domain.ManualApproved
		if notes != "" {
			req.Notes = notes
		}
		if err := tx.Save(req).Error; err != nil {
			return err
		}
		entry := &models.LedgerEntry{
			UserID:          req.UserID,
			Amount:          req.Amount,
			Currency:        req.Currency,
			Type:            domain.LedgerCredit,
			Ref:             ref,
			ManualRequestID: &req.ID,
		}
		if err := s.ledgerRepo.Append(tx, entry); err != nil {
			if errors.Is(err, repository.ErrDuplicateRef) {
				// A concurrent approval already credited this request.
				return fmt.Errorf("%w: already approved", domain.ErrBadRequest)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// RejectRequest marks the request rejected. No ledger entry is written.
func (s *PaymentsService) RejectRequest(id uint, notes string) (*models.ManualPaymentRequest, error) {
	req, err := s.manualRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: manual request", domain.ErrNotFound)
	}
	if err := terminalGuard(req); err != nil {
		return nil, err
	}
	req.Status = domain.ManualRejected
	if notes != "" {
		req.Notes = notes
	}
	if err := s.db.Save(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}
