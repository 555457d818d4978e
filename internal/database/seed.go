package database

import (
	"log"

	"bayanihan/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seed loads membership tiers and the Philippine bank roster. Safe to run on
// every boot: existing rows are updated, not duplicated.
func Seed(db *gorm.DB) {
	tiers := []models.MembershipTier{
		{Name: "Black", Priority: 1},
		{Name: "Titanium", Priority: 2},
		{Name: "Platinum", Priority: 3},
		{Name: "Gold", Priority: 4},
	}
	for _, t := range tiers {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"priority"}),
		}).Create(&t).Error; err != nil {
			log.Printf("[Seed] tier %s: %v", t.Name, err)
		}
	}

	banks := []models.Bank{
		{Code: "BDO", Name: "Banco de Oro"},
		{Code: "GCASH", Name: "GCash"},
		{Code: "MAYA", Name: "Maya"},
		{Code: "BPI", Name: "Bank of the Philippine Islands"},
		{Code: "UNIONBANK", Name: "UnionBank"},
	}
	for _, b := range banks {
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{"name"}),
		}).Create(&b).Error; err != nil {
			log.Printf("[Seed] bank %s: %v", b.Code, err)
			continue
		}
		cfg := models.BankConfig{BankCode: b.Code, Enabled: true, DailyLimit: decimal.Zero}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bank_code"}},
			DoNothing: true,
		}).Create(&cfg).Error; err != nil {
			log.Printf("[Seed] bank config %s: %v", b.Code, err)
		}
	}
}
