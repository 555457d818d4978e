package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Save(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPublishedByIDs returns only published products among the given ids.
func (r *ProductRepository) GetPublishedByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("id IN ? AND status = ?", ids, domain.ProductPublished).Find(&products).Error
	return products, err
}

// ListPublished pages through published products, optionally filtered by a
// case-insensitive substring over name, description, and sku.
func (r *ProductRepository) ListPublished(page, limit int, q string) ([]models.Product, int64, error) {
	query := r.db.Model(&models.Product{}).Where("status = ?", domain.ProductPublished)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR description LIKE ? OR sku LIKE ?", like, like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Product
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}
