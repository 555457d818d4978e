package models

import (
	"time"
)

type Shipment struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	Provider       string    `gorm:"size:20;not null" json:"provider"` // manual, ninjavan
	Status         string    `gorm:"size:20;not null;index;default:'pending'" json:"status"`
	CarrierName    string    `gorm:"size:120" json:"carrier_name"`
	TrackingNumber string    `gorm:"size:64;index" json:"tracking_number"`
	LabelRef       string    `gorm:"size:255" json:"label_ref"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

func (Shipment) TableName() string {
	return "shipments"
}

type ShipmentEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ShipmentID  uint      `gorm:"not null;index" json:"shipment_id"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Description string    `gorm:"size:255" json:"description"`
	OccurredAt  time.Time `gorm:"index" json:"occurred_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ShipmentEvent) TableName() string {
	return "shipment_events"
}
