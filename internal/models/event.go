package models

import (
	"time"
)

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"size:200" json:"location"`
	StartAt     time.Time `gorm:"index" json:"start_at"`
	EndAt       time.Time `json:"end_at"`
	Status      string    `gorm:"size:20;not null;index;default:'draft'" json:"status"` // draft, published
	Capacity    *int      `json:"capacity"`                                             // nil = unlimited
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

type Registration struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EventID     uint       `gorm:"not null;uniqueIndex:idx_event_registration" json:"event_id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_event_registration" json:"user_id"`
	Status      string     `gorm:"size:20;not null;index" json:"status"` // registered, waitlisted, checked_in, canceled
	CheckedInAt *time.Time `json:"checked_in_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Registration) TableName() string {
	return "registrations"
}
