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

func newStoreService(t *testing.T, stripeReady func() bool) (*StoreService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewStoreService(
		db,
		repository.NewProductRepository(db),
		repository.NewOrderRepository(db),
		repository.NewLedgerRepository(db),
		repository.NewBankRepository(db),
		stripeReady,
	)
	return svc, db
}

func TestCreateOrderCapturesPriceAndTax(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "100.00"), mustDecimal(t, "12"))

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Status != domain.OrderAwaitingPayment {
		t.Fatalf("status = %q, want awaiting_payment", order.Status)
	}
	if !order.Subtotal.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("subtotal = %s, want 100.00", order.Subtotal)
	}
	if !order.Tax.Equal(mustDecimal(t, "12.00")) {
		t.Fatalf("tax = %s, want 12.00", order.Tax)
	}
	if !order.Total.Equal(mustDecimal(t, "112.00")) {
		t.Fatalf("total = %s, want 112.00", order.Total)
	}

	// A later price change never affects the captured line.
	if err := db.Model(&models.Product{}).Where("id = ?", p.ID).Update("price", "999").Error; err != nil {
		t.Fatalf("reprice: %v", err)
	}
	var line models.OrderItem
	if err := db.Where("order_id = ?", order.ID).First(&line).Error; err != nil {
		t.Fatalf("load line: %v", err)
	}
	if !line.UnitPrice.Equal(mustDecimal(t, "100.00")) {
		t.Fatalf("unit price = %s, want 100.00", line.UnitPrice)
	}
}

func TestCreateOrderRejections(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	php := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "100"), decimal.Zero)
	draft := &models.Product{SKU: "DRAFT", Name: "Draft", Price: mustDecimal(t, "10"), Currency: "PHP", Status: "draft"}
	if err := db.Create(draft).Error; err != nil {
		t.Fatalf("create draft product: %v", err)
	}
	usd := &models.Product{SKU: "USD1", Name: "USD item", Price: mustDecimal(t, "5"), Currency: "USD", Status: "published"}
	if err := db.Create(usd).Error; err != nil {
		t.Fatalf("create usd product: %v", err)
	}

	if _, err := svc.CreateOrder(user.ID, nil); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("empty items: got %v", err)
	}
	if _, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: draft.ID, Quantity: 1}}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("draft product: got %v", err)
	}
	_, err := svc.CreateOrder(user.ID, []OrderItemInput{
		{ProductID: php.ID, Quantity: 1},
		{ProductID: usd.ID, Quantity: 1},
	})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("mixed currencies: got %v", err)
	}
}

func TestSettleDebitsToZero(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "100.00"), mustDecimal(t, "12"))
	creditLedger(t, db, user.ID, mustDecimal(t, "112.00"), "manual:seed")
	ledgerRepo := repository.NewLedgerRepository(db)

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	settled, err := svc.Settle(user.ID, order.ID)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	if settled.Status != domain.OrderPaid {
		t.Fatalf("status = %q, want paid", settled.Status)
	}
	balance, err := ledgerRepo.Balance(user.ID, "PHP")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("balance = %s, want 0", balance)
	}
}

func TestSettleIsIdempotent(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "50"), decimal.Zero)
	creditLedger(t, db, user.ID, mustDecimal(t, "500"), "manual:seed")

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.Settle(user.ID, order.ID); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	again, err := svc.Settle(user.ID, order.ID)
	if err != nil {
		t.Fatalf("second settle should succeed idempotently: %v", err)
	}
	if again.Status != domain.OrderPaid {
		t.Fatalf("status = %q, want paid", again.Status)
	}

	var debits int64
	if err := db.Model(&models.LedgerEntry{}).
		Where("user_id = ? AND type = ?", user.ID, domain.LedgerDebit).Count(&debits).Error; err != nil {
		t.Fatalf("count debits: %v", err)
	}
	if debits != 1 {
		t.Fatalf("debits = %d, want exactly 1", debits)
	}
}

func TestSettleInsufficientBalance(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "100"), decimal.Zero)
	creditLedger(t, db, user.ID, mustDecimal(t, "99.99"), "manual:seed")

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.Settle(user.ID, order.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("got %v, want insufficient balance", err)
	}
	var entries int64
	if err := db.Model(&models.LedgerEntry{}).
		Where("user_id = ? AND type = ?", user.ID, domain.LedgerDebit).Count(&entries).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if entries != 0 {
		t.Fatalf("debits = %d, want 0", entries)
	}
}

func TestSettleOwnershipReadsAsNotFound(t *testing.T) {
	svc, db := newStoreService(t, nil)
	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "10"), decimal.Zero)

	order, err := svc.CreateOrder(owner.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.Settle(stranger.ID, order.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestCheckoutRecommendations(t *testing.T) {
	svc, db := newStoreService(t, func() bool { return true })
	user := createTestUser(t, db, "buyer@example.com")
	createTestBank(t, db, "BDO", true, decimal.Zero)
	createTestBank(t, db, "GCASH", false, decimal.Zero)
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "10"), decimal.Zero)

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	view, err := svc.Checkout(user.ID, order.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(view.Recommended.Banks) != 1 || view.Recommended.Banks[0] != "BDO" {
		t.Fatalf("recommended banks = %v, want [BDO]", view.Recommended.Banks)
	}
	if len(view.Recommended.Methods) != 0 {
		t.Fatalf("PHP order should not recommend stripe, got %v", view.Recommended.Methods)
	}
	if len(view.PaymentOptions) != 2 {
		t.Fatalf("payment options = %d, want 2", len(view.PaymentOptions))
	}
}

func TestCheckoutNormalizesPendingOrder(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	order := &models.Order{
		UserID: user.ID, Status: domain.OrderPending,
		Subtotal: mustDecimal(t, "10"), Tax: decimal.Zero, Total: mustDecimal(t, "10"), Currency: "PHP",
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("create legacy order: %v", err)
	}
	view, err := svc.Checkout(user.ID, order.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if view.Order.Status != domain.OrderAwaitingPayment {
		t.Fatalf("status = %q, want awaiting_payment", view.Order.Status)
	}
}

func TestFulfillRequiresPaid(t *testing.T) {
	svc, db := newStoreService(t, nil)
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "10"), decimal.Zero)
	creditLedger(t, db, user.ID, mustDecimal(t, "10"), "manual:seed")

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.Fulfill(order.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("fulfill unpaid: got %v, want bad request", err)
	}
	if _, err := svc.Settle(user.ID, order.ID); err != nil {
		t.Fatalf("settle: %v", err)
	}
	fulfilled, err := svc.Fulfill(order.ID)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if fulfilled.Status != domain.OrderFulfilled {
		t.Fatalf("status = %q, want fulfilled", fulfilled.Status)
	}
}

func TestConfirmProviderPaidLeavesLedgerAlone(t *testing.T) {
	svc, db := newStoreService(t, func() bool { return true })
	user := createTestUser(t, db, "buyer@example.com")
	p := createPublishedProduct(t, db, "SHIRT", mustDecimal(t, "10"), decimal.Zero)

	order, err := svc.CreateOrder(user.ID, []OrderItemInput{{ProductID: p.ID, Quantity: 1}})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	paid, err := svc.ConfirmProviderPaid(order.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if paid.Status != domain.OrderPaid {
		t.Fatalf("status = %q, want paid", paid.Status)
	}
	// Re-confirming an already paid order is a no-op.
	if _, err := svc.ConfirmProviderPaid(order.ID); err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	var entries int64
	if err := db.Model(&models.LedgerEntry{}).Where("user_id = ?", user.ID).Count(&entries).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if entries != 0 {
		t.Fatalf("ledger entries = %d, want 0 on the card rail", entries)
	}
}
