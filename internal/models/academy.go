package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"size:200;not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:20;not null;index;default:'draft'" json:"status"` // draft, published
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Course) TableName() string {
	return "courses"
}

type Cohort struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CourseID uint      `gorm:"not null;index" json:"course_id"`
	Name     string    `gorm:"size:120;not null" json:"name"`
	StartAt  time.Time `json:"start_at"`
	EndAt    time.Time `json:"end_at"`
	Status   string    `gorm:"size:20;not null;default:'planned'" json:"status"` // planned, active, finished
	Capacity *int      `json:"capacity"`                                         // nil = unlimited

	Course Course `gorm:"foreignKey:CourseID" json:"-"`
}

func (Cohort) TableName() string {
	return "cohorts"
}

type AcademyEnrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CohortID  uint      `gorm:"not null;uniqueIndex:idx_academy_enrollment" json:"cohort_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_academy_enrollment" json:"user_id"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // enrolled, waitlisted, completed
	Progress  int       `gorm:"not null;default:0" json:"progress"`   // 0..100
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AcademyEnrollment) TableName() string {
	return "academy_enrollments"
}

type Certificate struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EnrollmentID uint      `gorm:"uniqueIndex;not null" json:"enrollment_id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	Format       string    `gorm:"size:10;not null" json:"format"`
	FileRef      string    `gorm:"size:255;not null" json:"file_ref"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Certificate) TableName() string {
	return "certificates"
}
