package repository

import (
	"errors"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"

	"gorm.io/gorm"
)

type AcademyRepository struct {
	db *gorm.DB
}

func NewAcademyRepository(db *gorm.DB) *AcademyRepository {
	return &AcademyRepository{db: db}
}

func (r *AcademyRepository) ListPublishedCourses(page, limit int, q string) ([]models.Course, int64, error) {
	query := r.db.Model(&models.Course{}).Where("status = ?", domain.StatusPublished)
	if q != "" {
		like := "%" + q + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Course
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *AcademyRepository) GetCourse(id uint) (*models.Course, error) {
	var c models.Course
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AcademyRepository) CreateCourse(c *models.Course) error {
	return r.db.Create(c).Error
}

func (r *AcademyRepository) SaveCourse(c *models.Course) error {
	return r.db.Save(c).Error
}

func (r *AcademyRepository) CreateCohort(c *models.Cohort) error {
	return r.db.Create(c).Error
}

func (r *AcademyRepository) SaveCohort(c *models.Cohort) error {
	return r.db.Save(c).Error
}

func (r *AcademyRepository) ListEnrollmentsForUser(userID uint) ([]models.AcademyEnrollment, error) {
	var enrollments []models.AcademyEnrollment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&enrollments).Error
	return enrollments, err
}

func (r *AcademyRepository) ListCohorts(courseID uint) ([]models.Cohort, error) {
	var cohorts []models.Cohort
	err := r.db.Where("course_id = ?", courseID).Order("start_at ASC").Find(&cohorts).Error
	return cohorts, err
}

func (r *AcademyRepository) GetCohort(id uint) (*models.Cohort, error) {
	var c models.Cohort
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AcademyRepository) CountEnrolled(cohortID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AcademyEnrollment{}).
		Where("cohort_id = ? AND status = ?", cohortID, domain.AcademyEnrolled).Count(&count).Error
	return count, err
}

// UpsertEnrollment creates the (cohort, user) enrollment, or returns the
// existing one unchanged. A member never loses a seat by re-enrolling.
func (r *AcademyRepository) UpsertEnrollment(cohortID, userID uint, status string) (*models.AcademyEnrollment, error) {
	var existing models.AcademyEnrollment
	err := r.db.Where("cohort_id = ? AND user_id = ?", cohortID, userID).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	e := models.AcademyEnrollment{CohortID: cohortID, UserID: userID, Status: status}
	if err := r.db.Create(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AcademyRepository) GetEnrollment(id uint) (*models.AcademyEnrollment, error) {
	var e models.AcademyEnrollment
	err := r.db.First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *AcademyRepository) SaveEnrollment(e *models.AcademyEnrollment) error {
	return r.db.Save(e).Error
}

func (r *AcademyRepository) GetCertificateByEnrollment(enrollmentID uint) (*models.Certificate, error) {
	var c models.Certificate
	err := r.db.Where("enrollment_id = ?", enrollmentID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *AcademyRepository) CreateCertificate(c *models.Certificate) error {
	return r.db.Create(c).Error
}
