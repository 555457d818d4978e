package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type BulletinRepository struct {
	db *gorm.DB
}

func NewBulletinRepository(db *gorm.DB) *BulletinRepository {
	return &BulletinRepository{db: db}
}

func (r *BulletinRepository) GetByID(id uint) (*models.Bulletin, error) {
	var b models.Bulletin
	err := r.db.First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BulletinRepository) ListPublished(page, limit int, q string) ([]models.Bulletin, int64, error) {
	query := r.db.Model(&models.Bulletin{}).Where("status = ?", domain.StatusPublished)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR body LIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Bulletin
	err := query.Order("published_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *BulletinRepository) ListVersions(bulletinID uint) ([]models.BulletinVersion, error) {
	var versions []models.BulletinVersion
	err := r.db.Where("bulletin_id = ?", bulletinID).Order("version DESC").Find(&versions).Error
	return versions, err
}

func (r *BulletinRepository) GetVersion(bulletinID uint, version int) (*models.BulletinVersion, error) {
	var v models.BulletinVersion
	err := r.db.Where("bulletin_id = ? AND version = ?", bulletinID, version).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// NextVersion returns the next version number for a bulletin within the
// caller's transaction.
func (r *BulletinRepository) NextVersion(tx *gorm.DB, bulletinID uint) (int, error) {
	var last models.BulletinVersion
	err := tx.Where("bulletin_id = ?", bulletinID).Order("version DESC").First(&last).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Version + 1, nil
}
