package models

import (
	"time"
)

// NotificationTemplate is keyed by (key, channel); the same template key may
// exist once per channel.
type NotificationTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:100;not null;uniqueIndex:idx_template_key_channel" json:"key"`
	Channel   string    `gorm:"size:10;not null;uniqueIndex:idx_template_key_channel" json:"channel"` // email, sms
	Subject   string    `gorm:"size:200" json:"subject"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (NotificationTemplate) TableName() string {
	return "notification_templates"
}

type NotificationMessage struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        *uint      `gorm:"index" json:"user_id"`
	Channel       string     `gorm:"size:10;not null;index" json:"channel"`
	To            string     `gorm:"size:255;not null;index" json:"to"`
	Subject       string     `gorm:"size:200" json:"subject"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	TemplateKey   string     `gorm:"size:100" json:"template_key"`
	Variables     string     `gorm:"type:text" json:"variables"` // JSON
	Status        string     `gorm:"size:10;not null;index" json:"status"` // pending, sent, failed
	Provider      string     `gorm:"size:20" json:"provider"`
	Attempts      int        `gorm:"not null;default:0" json:"attempts"`
	LastError     string     `gorm:"type:text" json:"last_error"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
	SentAt        *time.Time `json:"sent_at"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (NotificationMessage) TableName() string {
	return "notification_messages"
}
