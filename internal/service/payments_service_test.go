package service

import (
	"errors"
	"testing"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func newPaymentsService(t *testing.T) (*PaymentsService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewPaymentsService(
		db,
		repository.NewBankRepository(db),
		repository.NewManualPaymentRepository(db),
		repository.NewLedgerRepository(db),
	)
	return svc, db
}

func TestCreateManualRequestValidation(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	createTestBank(t, db, "BDO", true, decimal.Zero)
	createTestBank(t, db, "GCASH", false, decimal.Zero)

	cases := []struct {
		name    string
		bank    string
		amount  string
		wantErr error
	}{
		{"zero amount", "BDO", "0", domain.ErrBadRequest},
		{"negative amount", "BDO", "-10", domain.ErrBadRequest},
		{"unknown bank", "HSBC", "100", domain.ErrNotFound},
		{"disabled bank", "GCASH", "100", domain.ErrBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateManualRequest(user.ID, tc.bank, mustDecimal(t, tc.amount), "PHP", "")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("got %v, want %v", err, tc.wantErr)
			}
		})
	}

	req, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "250.00"), "PHP", "deposit slip 123")
	if err != nil {
		t.Fatalf("valid request: %v", err)
	}
	if req.Status != domain.ManualSubmitted {
		t.Fatalf("status = %q, want submitted", req.Status)
	}
}

func TestCreateManualRequestDailyLimit(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	other := createTestUser(t, db, "other@example.com")
	createTestBank(t, db, "BDO", true, mustDecimal(t, "1000"))
	createTestBank(t, db, "BPI", true, mustDecimal(t, "1000"))

	if _, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "600"), "PHP", ""); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "500"), "PHP", "")
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("over-limit request: got %v, want bad request", err)
	}
	// Exactly filling the remaining headroom is allowed.
	if _, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "400"), "PHP", ""); err != nil {
		t.Fatalf("exact-fit request: %v", err)
	}
	// The cap is per user per bank.
	if _, err := svc.CreateManualRequest(user.ID, "BPI", mustDecimal(t, "900"), "PHP", ""); err != nil {
		t.Fatalf("other bank: %v", err)
	}
	if _, err := svc.CreateManualRequest(other.ID, "BDO", mustDecimal(t, "900"), "PHP", ""); err != nil {
		t.Fatalf("other user: %v", err)
	}
}

func TestRejectedRequestsReleaseDailyLimit(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	createTestBank(t, db, "BDO", true, mustDecimal(t, "1000"))

	req, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "800"), "PHP", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.RejectRequest(req.ID, "illegible slip"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "800"), "PHP", ""); err != nil {
		t.Fatalf("request after rejection should fit the limit again: %v", err)
	}
}

func TestApproveRequestCreditsExactlyOnce(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	createTestBank(t, db, "BDO", true, decimal.Zero)
	ledgerRepo := repository.NewLedgerRepository(db)

	req, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "250.00"), "PHP", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	approved, err := svc.ApproveRequest(req.ID, "", "verified")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.ManualApproved {
		t.Fatalf("status = %q, want approved", approved.Status)
	}

	balance, err := ledgerRepo.Balance(user.ID, "PHP")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(mustDecimal(t, "250.00")) {
		t.Fatalf("balance = %s, want 250.00", balance)
	}

	// A second approval is rejected by the terminal guard and writes nothing.
	if _, err := svc.ApproveRequest(req.ID, "", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("double approve: got %v, want bad request", err)
	}
	var count int64
	if err := db.Model(&models.LedgerEntry{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 1 {
		t.Fatalf("ledger entries = %d, want 1", count)
	}
}

func TestApproveStoppedByExistingRef(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	createTestBank(t, db, "BDO", true, decimal.Zero)

	req, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "100"), "PHP", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Simulate a concurrent approval that already wrote the credit.
	creditLedger(t, db, user.ID, mustDecimal(t, "100"), "manual:"+itoa(req.ID))

	if _, err := svc.ApproveRequest(req.ID, "", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("got %v, want bad request from duplicate ref", err)
	}
	// The status flip rolled back with the failed credit.
	fresh := &models.ManualPaymentRequest{}
	if err := db.First(fresh, req.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Status != domain.ManualSubmitted {
		t.Fatalf("status = %q, want submitted after rollback", fresh.Status)
	}
}

func TestReviewIsIdempotentAndTerminalGuardHolds(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	createTestBank(t, db, "BDO", true, decimal.Zero)

	req, err := svc.CreateManualRequest(user.ID, "BDO", mustDecimal(t, "50"), "PHP", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	first, err := svc.ReviewRequest(req.ID, "checking")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if first.Status != domain.ManualUnderReview {
		t.Fatalf("status = %q, want under_review", first.Status)
	}
	second, err := svc.ReviewRequest(req.ID, "")
	if err != nil {
		t.Fatalf("second review should be a no-op: %v", err)
	}
	if second.Status != domain.ManualUnderReview {
		t.Fatalf("status = %q, want under_review", second.Status)
	}

	if _, err := svc.RejectRequest(req.ID, "no match"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := svc.ReviewRequest(req.ID, ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("review after reject: got %v, want bad request", err)
	}
	if _, err := svc.ApproveRequest(req.ID, "", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("approve after reject: got %v, want bad request", err)
	}
}

func TestSetBankConfig(t *testing.T) {
	svc, db := newPaymentsService(t)
	createTestBank(t, db, "BDO", true, decimal.Zero)

	disabled := false
	limit := mustDecimal(t, "1500")
	view, err := svc.SetBankConfig("BDO", &disabled, &limit)
	if err != nil {
		t.Fatalf("set config: %v", err)
	}
	if view.Enabled || !view.DailyLimit.Equal(limit) {
		t.Fatalf("view = %+v, want disabled with limit 1500", view)
	}

	// Nil fields leave values untouched.
	view, err = svc.SetBankConfig("BDO", nil, nil)
	if err != nil {
		t.Fatalf("no-op set: %v", err)
	}
	if view.Enabled || !view.DailyLimit.Equal(limit) {
		t.Fatalf("view changed on nil fields: %+v", view)
	}

	if _, err := svc.SetBankConfig("HSBC", nil, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown bank: got %v, want not found", err)
	}
}

func TestFirstConfigWriteDisablePersists(t *testing.T) {
	svc, db := newPaymentsService(t)
	user := createTestUser(t, db, "member@example.com")
	// Bank with no config row yet: the disable is the first write.
	if err := db.Create(&models.Bank{Code: "MAYA", Name: "MAYA"}).Error; err != nil {
		t.Fatalf("create bank: %v", err)
	}

	disabled := false
	if _, err := svc.SetBankConfig("MAYA", &disabled, nil); err != nil {
		t.Fatalf("set config: %v", err)
	}

	// The stored row, not just the returned view, must carry the flag.
	var cfg models.BankConfig
	if err := db.Where("bank_code = ?", "MAYA").First(&cfg).Error; err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("freshly inserted disable was stored as enabled")
	}
	view, err := svc.GetBank("MAYA")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if view.Enabled {
		t.Fatal("GetBank reports the bank enabled after a first-write disable")
	}
	if _, err := svc.CreateManualRequest(user.ID, "MAYA", mustDecimal(t, "100"), "PHP", ""); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("request against disabled bank: got %v, want bad request", err)
	}
}

func TestSetBankConfigBulkAtomic(t *testing.T) {
	svc, db := newPaymentsService(t)
	createTestBank(t, db, "BDO", true, decimal.Zero)
	createTestBank(t, db, "BPI", true, decimal.Zero)

	disabled := false
	_, err := svc.SetBankConfigBulk([]BankConfigItem{
		{Code: "BDO", Enabled: &disabled},
		{Code: "HSBC", Enabled: &disabled},
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("bulk with unknown code: got %v, want not found", err)
	}
	view, err := svc.GetBank("BDO")
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if !view.Enabled {
		t.Fatal("BDO was modified despite failed bulk update")
	}

	limit := mustDecimal(t, "2000")
	views, err := svc.SetBankConfigBulk([]BankConfigItem{
		{Code: "BDO", Enabled: &disabled},
		{Code: "BPI", DailyLimit: &limit},
	})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views = %d, want 2", len(views))
	}
}
