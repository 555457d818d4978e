package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UbiRepository struct {
	db *gorm.DB
}

func NewUbiRepository(db *gorm.DB) *UbiRepository {
	return &UbiRepository{db: db}
}

func (r *UbiRepository) CreateProgram(p *models.UbiProgram) error {
	return r.db.Create(p).Error
}

func (r *UbiRepository) GetProgram(id uint) (*models.UbiProgram, error) {
	var p models.UbiProgram
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *UbiRepository) ListPrograms() ([]models.UbiProgram, error) {
	var programs []models.UbiProgram
	err := r.db.Order("created_at DESC").Find(&programs).Error
	return programs, err
}

// Enroll upserts the (program, user) enrollment back to active.
func (r *UbiRepository) Enroll(programID, userID uint) (*models.UbiEnrollment, error) {
	e := models.UbiEnrollment{ProgramID: programID, UserID: userID, Status: domain.EnrollmentActive}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "program_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status"}),
	}).Create(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *UbiRepository) ActiveEnrollments(programID uint) ([]models.UbiEnrollment, error) {
	var enrollments []models.UbiEnrollment
	err := r.db.Where("program_id = ? AND status = ?", programID, domain.EnrollmentActive).Find(&enrollments).Error
	return enrollments, err
}

func (r *UbiRepository) CreateCycle(c *models.UbiCycle) error {
	return r.db.Create(c).Error
}

func (r *UbiRepository) GetCycle(id uint) (*models.UbiCycle, error) {
	var c models.UbiCycle
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *UbiRepository) UpdateCycleStatus(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&models.UbiCycle{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UbiRepository) PayoutExists(tx *gorm.DB, cycleID, userID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.UbiPayout{}).Where("cycle_id = ? AND user_id = ?", cycleID, userID).Count(&count).Error
	return count > 0, err
}

func (r *UbiRepository) PendingPayouts(cycleID uint) ([]models.UbiPayout, error) {
	var payouts []models.UbiPayout
	err := r.db.Where("cycle_id = ? AND status = ?", cycleID, domain.PayoutPending).Find(&payouts).Error
	return payouts, err
}

func (r *UbiRepository) ListPayouts(cycleID uint) ([]models.UbiPayout, error) {
	var payouts []models.UbiPayout
	err := r.db.Where("cycle_id = ?", cycleID).Order("user_id ASC").Find(&payouts).Error
	return payouts, err
}
