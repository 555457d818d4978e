package repository

import (
	"errors"

	"bayanihan/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// UpsertTemplate creates or replaces the template for (key, channel).
func (r *NotificationRepository) UpsertTemplate(t *models.NotificationTemplate) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}, {Name: "channel"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "body"}),
	}).Create(t).Error
}

func (r *NotificationRepository) GetTemplate(key, channel string) (*models.NotificationTemplate, error) {
	var t models.NotificationTemplate
	err := r.db.Where("`key` = ? AND channel = ?", key, channel).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *NotificationRepository) ListTemplates(channel string) ([]models.NotificationTemplate, error) {
	q := r.db.Model(&models.NotificationTemplate{})
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}
	var templates []models.NotificationTemplate
	err := q.Order("`key` ASC").Find(&templates).Error
	return templates, err
}

func (r *NotificationRepository) CreateMessage(m *models.NotificationMessage) error {
	return r.db.Create(m).Error
}

func (r *NotificationRepository) SaveMessage(m *models.NotificationMessage) error {
	return r.db.Save(m).Error
}

func (r *NotificationRepository) GetMessage(id uint) (*models.NotificationMessage, error) {
	var m models.NotificationMessage
	err := r.db.First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMessages returns up to 200 most recent messages matching the filters.
func (r *NotificationRepository) ListMessages(status, channel, to string) ([]models.NotificationMessage, error) {
	q := r.db.Model(&models.NotificationMessage{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if channel != "" {
		q = q.Where("channel = ?", channel)
	}
	if to != "" {
		q = q.Where("`to` = ?", to)
	}
	var messages []models.NotificationMessage
	err := q.Order("created_at DESC").Limit(200).Find(&messages).Error
	return messages, err
}
