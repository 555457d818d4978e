package repository

import (
	"errors"
	"time"

	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var u models.User
	err := r.db.Preload("Roles").Preload("Tier").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.Preload("Roles").Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List pages through users with optional email substring and status filters.
func (r *UserRepository) List(query, status string, skip, take int) ([]models.User, int64, error) {
	q := r.db.Model(&models.User{})
	if query != "" {
		q = q.Where("email LIKE ?", "%"+query+"%")
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []models.User
	err := q.Preload("Roles").Order("created_at DESC").Offset(skip).Limit(take).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) SetStatus(id uint, status string) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UserRepository) AddRole(userID uint, role string) error {
	err := r.db.Create(&models.UserRole{UserID: userID, Role: role}).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // already granted
	}
	return err
}

func (r *UserRepository) RemoveRole(userID uint, role string) error {
	return r.db.Where("user_id = ? AND role = ?", userID, role).Delete(&models.UserRole{}).Error
}

func (r *UserRepository) Roles(userID uint) ([]string, error) {
	var rows []models.UserRole
	if err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}
	return roles, nil
}

func (r *UserRepository) SetTier(id uint, tierID *uint) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("tier_id", tierID).Error
}

func (r *UserRepository) ListTiers() ([]models.MembershipTier, error) {
	var tiers []models.MembershipTier
	err := r.db.Order("id ASC").Find(&tiers).Error
	return tiers, err
}

func (r *UserRepository) GetTier(id uint) (*models.MembershipTier, error) {
	var t models.MembershipTier
	err := r.db.First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *UserRepository) CreateRefreshToken(t *models.RefreshToken) error {
	return r.db.Create(t).Error
}

func (r *UserRepository) GetRefreshToken(tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.Where("token_hash = ?", tokenHash).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *UserRepository) RevokeRefreshToken(tokenHash string) error {
	now := time.Now()
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", &now).Error
}
