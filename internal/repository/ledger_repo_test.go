package repository

import (
	"errors"
	"testing"

	"bayanihan/internal/database"
	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, PasswordHash: "x", Name: "Test User"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestBalanceIsCreditsMinusDebits(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	user := createUser(t, db, "maria@example.com")

	entries := []models.LedgerEntry{
		{UserID: user.ID, Amount: dec(t, "500.00"), Currency: "PHP", Type: domain.LedgerCredit, Ref: "manual:1"},
		{UserID: user.ID, Amount: dec(t, "112.00"), Currency: "PHP", Type: domain.LedgerDebit, Ref: "order:1"},
		{UserID: user.ID, Amount: dec(t, "250.50"), Currency: "PHP", Type: domain.LedgerCredit, Ref: "ubi:1:1"},
		{UserID: user.ID, Amount: dec(t, "100.00"), Currency: "USD", Type: domain.LedgerCredit, Ref: "manual:2"},
	}
	for i := range entries {
		if err := repo.Append(db, &entries[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	php, err := repo.Balance(user.ID, "PHP")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !php.Equal(dec(t, "638.50")) {
		t.Fatalf("PHP balance = %s, want 638.50", php)
	}
	usd, err := repo.Balance(user.ID, "USD")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !usd.Equal(dec(t, "100.00")) {
		t.Fatalf("USD balance = %s, want 100.00", usd)
	}
	empty, err := repo.Balance(user.ID, "EUR")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("EUR balance = %s, want 0", empty)
	}
}

func TestAppendRejectsDuplicateRef(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	user := createUser(t, db, "maria@example.com")

	first := models.LedgerEntry{UserID: user.ID, Amount: dec(t, "100.00"), Currency: "PHP", Type: domain.LedgerCredit, Ref: "manual:7"}
	if err := repo.Append(db, &first); err != nil {
		t.Fatalf("append: %v", err)
	}
	dup := models.LedgerEntry{UserID: user.ID, Amount: dec(t, "999.00"), Currency: "PHP", Type: domain.LedgerCredit, Ref: "manual:7"}
	if err := repo.Append(db, &dup); !errors.Is(err, ErrDuplicateRef) {
		t.Fatalf("got %v, want ErrDuplicateRef", err)
	}

	// Same ref under another currency or user is a different event.
	other := createUser(t, db, "juan@example.com")
	usd := models.LedgerEntry{UserID: user.ID, Amount: dec(t, "5.00"), Currency: "USD", Type: domain.LedgerCredit, Ref: "manual:7"}
	if err := repo.Append(db, &usd); err != nil {
		t.Fatalf("other currency: %v", err)
	}
	theirs := models.LedgerEntry{UserID: other.ID, Amount: dec(t, "5.00"), Currency: "PHP", Type: domain.LedgerCredit, Ref: "manual:7"}
	if err := repo.Append(db, &theirs); err != nil {
		t.Fatalf("other user: %v", err)
	}

	balance, err := repo.Balance(user.ID, "PHP")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(dec(t, "100.00")) {
		t.Fatalf("balance = %s, the duplicate must not have landed", balance)
	}
}

func TestFindByRef(t *testing.T) {
	db := newTestDB(t)
	repo := NewLedgerRepository(db)
	user := createUser(t, db, "maria@example.com")

	found, err := repo.FindByRef(user.ID, "PHP", "order:9")
	if err != nil {
		t.Fatalf("find absent: %v", err)
	}
	if found != nil {
		t.Fatalf("got %+v, want nil for absent ref", found)
	}

	entry := models.LedgerEntry{UserID: user.ID, Amount: dec(t, "112.00"), Currency: "PHP", Type: domain.LedgerDebit, Ref: "order:9"}
	if err := repo.Append(db, &entry); err != nil {
		t.Fatalf("append: %v", err)
	}
	found, err = repo.FindByRef(user.ID, "PHP", "order:9")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found == nil || found.ID != entry.ID {
		t.Fatalf("found = %+v, want entry %d", found, entry.ID)
	}
}
