package service

import (
	"strconv"
	"testing"

	"bayanihan/internal/database"
	"bayanihan/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database per test. Max one open
// connection so the pool cannot hand out a second, empty memory db.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:        email,
		PasswordHash: "x",
		Name:         "Test User",
		Status:       "active",
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func createTestBank(t *testing.T, db *gorm.DB, code string, enabled bool, dailyLimit decimal.Decimal) {
	t.Helper()
	if err := db.Create(&models.Bank{Code: code, Name: code}).Error; err != nil {
		t.Fatalf("create bank: %v", err)
	}
	if err := db.Create(&models.BankConfig{BankCode: code, Enabled: enabled, DailyLimit: dailyLimit}).Error; err != nil {
		t.Fatalf("create bank config: %v", err)
	}
}

func createPublishedProduct(t *testing.T, db *gorm.DB, sku string, price, taxPct decimal.Decimal) *models.Product {
	t.Helper()
	p := &models.Product{
		SKU:        sku,
		Name:       "Product " + sku,
		Price:      price,
		Currency:   "PHP",
		TaxRatePct: taxPct,
		Status:     "published",
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return p
}

func creditLedger(t *testing.T, db *gorm.DB, userID uint, amount decimal.Decimal, ref string) {
	t.Helper()
	e := &models.LedgerEntry{
		UserID:   userID,
		Amount:   amount,
		Currency: "PHP",
		Type:     "credit",
		Ref:      ref,
	}
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("credit ledger: %v", err)
	}
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}
