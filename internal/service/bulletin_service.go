package service

import (
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"gorm.io/gorm"
)

// BulletinService manages community bulletins. Every mutation writes a
// version snapshot in the same transaction, so Revert can restore any prior
// state.
type BulletinService struct {
	db           *gorm.DB
	bulletinRepo *repository.BulletinRepository
}

func NewBulletinService(db *gorm.DB, bulletinRepo *repository.BulletinRepository) *BulletinService {
	return &BulletinService{db: db, bulletinRepo: bulletinRepo}
}

func (s *BulletinService) snapshot(tx *gorm.DB, b *models.Bulletin) error {
	version, err := s.bulletinRepo.NextVersion(tx, b.ID)
	if err != nil {
		return err
	}
	return tx.Create(&models.BulletinVersion{
		BulletinID: b.ID,
		Version:    version,
		Title:      b.Title,
		Body:       b.Body,
		Status:     b.Status,
	}).Error
}

func (s *BulletinService) Create(title, body string) (*models.Bulletin, error) {
	if title == "" || body == "" {
		return nil, fmt.Errorf("%w: title and body are required", domain.ErrBadRequest)
	}
	bulletin := &models.Bulletin{Title: title, Body: body, Status: domain.StatusDraft}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(bulletin).Error; err != nil {
			return err
		}
		return s.snapshot(tx, bulletin)
	})
	if err != nil {
		return nil, err
	}
	return bulletin, nil
}

func (s *BulletinService) Update(id uint, title, body *string) (*models.Bulletin, error) {
	bulletin, err := s.bulletinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bulletin == nil {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	if title != nil {
		bulletin.Title = *title
	}
	if body != nil {
		bulletin.Body = *body
	}
	if bulletin.Title == "" || bulletin.Body == "" {
		return nil, fmt.Errorf("%w: title and body are required", domain.ErrBadRequest)
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bulletin).Error; err != nil {
			return err
		}
		return s.snapshot(tx, bulletin)
	})
	if err != nil {
		return nil, err
	}
	return bulletin, nil
}

func (s *BulletinService) Publish(id uint) (*models.Bulletin, error) {
	return s.setStatus(id, domain.StatusPublished)
}

func (s *BulletinService) Unpublish(id uint) (*models.Bulletin, error) {
	return s.setStatus(id, domain.StatusDraft)
}

func (s *BulletinService) setStatus(id uint, status string) (*models.Bulletin, error) {
	bulletin, err := s.bulletinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bulletin == nil {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	if bulletin.Status == status {
		return bulletin, nil
	}
	bulletin.Status = status
	if status == domain.StatusPublished {
		now := time.Now()
		bulletin.PublishedAt = &now
	} else {
		bulletin.PublishedAt = nil
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bulletin).Error; err != nil {
			return err
		}
		return s.snapshot(tx, bulletin)
	})
	if err != nil {
		return nil, err
	}
	return bulletin, nil
}

// Revert restores a prior version's title, body and status, recorded as a new
// version on top of the history.
func (s *BulletinService) Revert(id uint, version int) (*models.Bulletin, error) {
	bulletin, err := s.bulletinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bulletin == nil {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	target, err := s.bulletinRepo.GetVersion(id, version)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, fmt.Errorf("%w: version", domain.ErrNotFound)
	}
	bulletin.Title = target.Title
	bulletin.Body = target.Body
	bulletin.Status = target.Status
	if target.Status == domain.StatusPublished {
		if bulletin.PublishedAt == nil {
			now := time.Now()
			bulletin.PublishedAt = &now
		}
	} else {
		bulletin.PublishedAt = nil
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bulletin).Error; err != nil {
			return err
		}
		return s.snapshot(tx, bulletin)
	})
	if err != nil {
		return nil, err
	}
	return bulletin, nil
}

func (s *BulletinService) Get(id uint, includeDraft bool) (*models.Bulletin, error) {
	bulletin, err := s.bulletinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bulletin == nil {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	if !includeDraft && bulletin.Status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	return bulletin, nil
}

func (s *BulletinService) ListPublished(page, limit int, q string) ([]models.Bulletin, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.bulletinRepo.ListPublished(page, limit, q)
}

func (s *BulletinService) Versions(id uint) ([]models.BulletinVersion, error) {
	bulletin, err := s.bulletinRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if bulletin == nil {
		return nil, fmt.Errorf("%w: bulletin", domain.ErrNotFound)
	}
	return s.bulletinRepo.ListVersions(id)
}
