package repository

import (
	"errors"

	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type KycRepository struct {
	db *gorm.DB
}

func NewKycRepository(db *gorm.DB) *KycRepository {
	return &KycRepository{db: db}
}

func (r *KycRepository) CreateApplication(app *models.KycApplication) error {
	return r.db.Create(app).Error
}

func (r *KycRepository) GetApplication(id uint) (*models.KycApplication, error) {
	var app models.KycApplication
	err := r.db.Preload("Documents").First(&app, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *KycRepository) ListApplications() ([]models.KycApplication, error) {
	var apps []models.KycApplication
	err := r.db.Preload("Documents").Order("created_at DESC").Find(&apps).Error
	return apps, err
}

func (r *KycRepository) SaveApplication(app *models.KycApplication) error {
	return r.db.Save(app).Error
}

func (r *KycRepository) AppendDecision(d *models.KycDecisionLog) error {
	return r.db.Create(d).Error
}

func (r *KycRepository) ListDecisions(applicationID uint) ([]models.KycDecisionLog, error) {
	var decisions []models.KycDecisionLog
	err := r.db.Where("application_id = ?", applicationID).Order("created_at DESC").Find(&decisions).Error
	return decisions, err
}
