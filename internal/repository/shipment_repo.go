package repository

import (
	"errors"

	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(s *models.Shipment) error {
	return r.db.Create(s).Error
}

func (r *ShipmentRepository) GetByID(id uint) (*models.Shipment, error) {
	var s models.Shipment
	err := r.db.Preload("Order").First(&s, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *ShipmentRepository) Save(s *models.Shipment) error {
	return r.db.Save(s).Error
}

func (r *ShipmentRepository) AppendEvent(e *models.ShipmentEvent) error {
	return r.db.Create(e).Error
}

func (r *ShipmentRepository) ListEvents(shipmentID uint) ([]models.ShipmentEvent, error) {
	var events []models.ShipmentEvent
	err := r.db.Where("shipment_id = ?", shipmentID).Order("occurred_at ASC").Find(&events).Error
	return events, err
}
