package database

import (
	"bayanihan/config"
	"bayanihan/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
		// Duplicate-key errors must surface as gorm.ErrDuplicatedKey: the
		// ledger relies on the (user, currency, ref) unique index to make
		// retried settlements a no-op instead of a double entry.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.MembershipTier{},
		&models.RefreshToken{},
		&models.Bank{},
		&models.BankConfig{},
		&models.ManualPaymentRequest{},
		&models.LedgerEntry{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.UbiProgram{},
		&models.UbiEnrollment{},
		&models.UbiCycle{},
		&models.UbiPayout{},
		&models.Bulletin{},
		&models.BulletinVersion{},
		&models.Course{},
		&models.Cohort{},
		&models.AcademyEnrollment{},
		&models.Certificate{},
		&models.Event{},
		&models.Registration{},
		&models.KycApplication{},
		&models.KycDocument{},
		&models.KycDecisionLog{},
		&models.Shipment{},
		&models.ShipmentEvent{},
		&models.NotificationTemplate{},
		&models.NotificationMessage{},
	)
}
