package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(e *models.Event) error {
	return r.db.Create(e).Error
}

func (r *EventRepository) Save(e *models.Event) error {
	return r.db.Save(e).Error
}

func (r *EventRepository) ListRegistrationsForUser(userID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&regs).Error
	return regs, err
}

func (r *EventRepository) GetByID(id uint) (*models.Event, error) {
	var e models.Event
	err := r.db.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) ListPublished(page, limit int, q string) ([]models.Event, int64, error) {
	query := r.db.Model(&models.Event{}).Where("status = ?", domain.StatusPublished)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR location LIKE ?", like, like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Event
	err := query.Order("start_at ASC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *EventRepository) CountRegistered(eventID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, domain.RegistrationRegistered).Count(&count).Error
	return count, err
}

func (r *EventRepository) GetRegistration(eventID, userID uint) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.Where("event_id = ? AND user_id = ?", eventID, userID).First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// OldestWaitlisted returns the longest-waiting waitlisted registration, or
// nil when the waitlist is empty.
func (r *EventRepository) OldestWaitlisted(eventID uint) (*models.Registration, error) {
	var reg models.Registration
	err := r.db.Where("event_id = ? AND status = ?", eventID, domain.RegistrationWaitlisted).
		Order("created_at ASC, id ASC").First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *EventRepository) SaveRegistration(reg *models.Registration) error {
	return r.db.Save(reg).Error
}

func (r *EventRepository) CreateRegistration(reg *models.Registration) error {
	return r.db.Create(reg).Error
}
