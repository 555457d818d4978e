package service

import (
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
)

// Uploader stores a file with a remote provider and returns a stable
// reference (URL or public id) for it.
type Uploader interface {
	UploadBytes(folder, name string, data []byte) (string, error)
}

// AcademyService covers courses, cohorts, enrollment with capacity-based
// waitlisting, member progress and certificate issuance.
type AcademyService struct {
	repo     *repository.AcademyRepository
	uploader Uploader
}

func NewAcademyService(repo *repository.AcademyRepository, uploader Uploader) *AcademyService {
	return &AcademyService{repo: repo, uploader: uploader}
}

func (s *AcademyService) CreateCourse(title, description string) (*models.Course, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrBadRequest)
	}
	course := &models.Course{Title: title, Description: description, Status: domain.StatusDraft}
	if err := s.repo.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AcademyService) UpdateCourse(id uint, title, description *string) (*models.Course, error) {
	course, err := s.repo.GetCourse(id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course", domain.ErrNotFound)
	}
	if title != nil {
		if *title == "" {
			return nil, fmt.Errorf("%w: title is required", domain.ErrBadRequest)
		}
		course.Title = *title
	}
	if description != nil {
		course.Description = *description
	}
	if err := s.repo.SaveCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AcademyService) SetCourseStatus(id uint, status string) (*models.Course, error) {
	if status != domain.StatusDraft && status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	course, err := s.repo.GetCourse(id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course", domain.ErrNotFound)
	}
	course.Status = status
	if err := s.repo.SaveCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *AcademyService) ListCourses(page, limit int, q string) ([]models.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListPublishedCourses(page, limit, q)
}

func (s *AcademyService) CreateCohort(courseID uint, name string, startAt, endAt time.Time, capacity *int) (*models.Cohort, error) {
	course, err := s.repo.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course", domain.ErrNotFound)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrBadRequest)
	}
	if !endAt.After(startAt) {
		return nil, fmt.Errorf("%w: end must be after start", domain.ErrBadRequest)
	}
	if capacity != nil && *capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrBadRequest)
	}
	cohort := &models.Cohort{
		CourseID: courseID,
		Name:     name,
		StartAt:  startAt,
		EndAt:    endAt,
		Status:   "planned",
		Capacity: capacity,
	}
	if err := s.repo.CreateCohort(cohort); err != nil {
		return nil, err
	}
	return cohort, nil
}

func (s *AcademyService) ListCohorts(courseID uint) ([]models.Cohort, error) {
	course, err := s.repo.GetCourse(courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("%w: course", domain.ErrNotFound)
	}
	return s.repo.ListCohorts(courseID)
}

// Enroll places the member in the cohort, falling back to the waitlist when
// the cohort is at capacity. Re-enrolling an already enrolled member returns
// the existing record unchanged.
func (s *AcademyService) Enroll(cohortID, userID uint) (*models.AcademyEnrollment, error) {
	cohort, err := s.repo.GetCohort(cohortID)
	if err != nil {
		return nil, err
	}
	if cohort == nil {
		return nil, fmt.Errorf("%w: cohort", domain.ErrNotFound)
	}
	course, err := s.repo.GetCourse(cohort.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil || course.Status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: course is not open for enrollment", domain.ErrBadRequest)
	}

	status := domain.AcademyEnrolled
	if cohort.Capacity != nil {
		enrolled, err := s.repo.CountEnrolled(cohortID)
		if err != nil {
			return nil, err
		}
		if enrolled >= int64(*cohort.Capacity) {
			status = domain.AcademyWaitlisted
		}
	}
	return s.repo.UpsertEnrollment(cohortID, userID, status)
}

// UpdateProgress sets the member's progress percentage. Reaching 100 marks
// the enrollment completed.
func (s *AcademyService) UpdateProgress(enrollmentID, userID uint, progress int, asAdmin bool) (*models.AcademyEnrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf("%w: progress must be between 0 and 100", domain.ErrBadRequest)
	}
	enrollment, err := s.repo.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, fmt.Errorf("%w: enrollment", domain.ErrNotFound)
	}
	if !asAdmin && enrollment.UserID != userID {
		return nil, fmt.Errorf("%w: not allowed", domain.ErrForbidden)
	}
	if enrollment.Status == domain.AcademyWaitlisted {
		return nil, fmt.Errorf("%w: enrollment is waitlisted", domain.ErrBadRequest)
	}
	enrollment.Progress = progress
	if progress == 100 {
		enrollment.Status = domain.AcademyCompleted
	}
	if err := s.repo.SaveEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// IssueCertificate uploads a completion certificate for a finished
// enrollment. A second call returns the existing certificate.
func (s *AcademyService) IssueCertificate(enrollmentID uint) (*models.Certificate, error) {
	enrollment, err := s.repo.GetEnrollment(enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil {
		return nil, fmt.Errorf("%w: enrollment", domain.ErrNotFound)
	}
	if enrollment.Status != domain.AcademyCompleted {
		return nil, fmt.Errorf("%w: enrollment is not completed", domain.ErrBadRequest)
	}
	if existing, err := s.repo.GetCertificateByEnrollment(enrollmentID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	cohort, err := s.repo.GetCohort(enrollment.CohortID)
	if err != nil {
		return nil, err
	}
	var courseTitle string
	if cohort != nil {
		if course, err := s.repo.GetCourse(cohort.CourseID); err == nil && course != nil {
			courseTitle = course.Title
		}
	}
	body := fmt.Sprintf(
		"Certificate of Completion\n\nCourse: %s\nEnrollment: %d\nIssued: %s\n",
		courseTitle, enrollmentID, time.Now().Format("2006-01-02"),
	)
	name := fmt.Sprintf("certificate-%d", enrollmentID)
	fileRef, err := s.uploader.UploadBytes("certificates", name, []byte(body))
	if err != nil {
		return nil, fmt.Errorf("certificate upload: %w", err)
	}
	cert := &models.Certificate{
		EnrollmentID: enrollmentID,
		UserID:       enrollment.UserID,
		Format:       "txt",
		FileRef:      fileRef,
	}
	if err := s.repo.CreateCertificate(cert); err != nil {
		return nil, err
	}
	return cert, nil
}

func (s *AcademyService) MyEnrollments(userID uint) ([]models.AcademyEnrollment, error) {
	return s.repo.ListEnrollmentsForUser(userID)
}
