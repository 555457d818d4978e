package repository

import (
	"errors"

	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type BankRepository struct {
	db *gorm.DB
}

func NewBankRepository(db *gorm.DB) *BankRepository {
	return &BankRepository{db: db}
}

func (r *BankRepository) GetByCode(code string) (*models.Bank, error) {
	var b models.Bank
	err := r.db.Preload("Config").Where("code = ?", code).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BankRepository) List() ([]models.Bank, error) {
	var banks []models.Bank
	err := r.db.Preload("Config").Order("code ASC").Find(&banks).Error
	return banks, err
}

func (r *BankRepository) GetConfig(code string) (*models.BankConfig, error) {
	var cfg models.BankConfig
	err := r.db.Where("bank_code = ?", code).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *BankRepository) SaveConfig(cfg *models.BankConfig) error {
	return r.db.Save(cfg).Error
}
