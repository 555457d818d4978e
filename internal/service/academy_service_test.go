package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
	"bayanihan/pkg/cloudinary"

	"gorm.io/gorm"
)

func newAcademyService(t *testing.T) (*AcademyService, *gorm.DB) {
	db := newTestDB(t)
	return NewAcademyService(repository.NewAcademyRepository(db), cloudinary.NoopUploader{}), db
}

func createOpenCohort(t *testing.T, svc *AcademyService, capacity *int) *models.Cohort {
	t.Helper()
	course, err := svc.CreateCourse("Financial literacy", "Budgeting basics.")
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	if _, err := svc.SetCourseStatus(course.ID, domain.StatusPublished); err != nil {
		t.Fatalf("publish course: %v", err)
	}
	cohort, err := svc.CreateCohort(course.ID, "Batch 1", time.Now(), time.Now().AddDate(0, 0, 30), capacity)
	if err != nil {
		t.Fatalf("create cohort: %v", err)
	}
	return cohort
}

func TestAcademyEnrollRequiresPublishedCourse(t *testing.T) {
	svc, db := newAcademyService(t)
	user := createTestUser(t, db, "student@example.com")

	course, err := svc.CreateCourse("Draft course", "")
	if err != nil {
		t.Fatalf("create course: %v", err)
	}
	cohort, err := svc.CreateCohort(course.ID, "Batch 1", time.Now(), time.Now().AddDate(0, 0, 30), nil)
	if err != nil {
		t.Fatalf("create cohort: %v", err)
	}
	if _, err := svc.Enroll(cohort.ID, user.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("enroll in draft course: got %v, want bad request", err)
	}
}

func TestAcademyCapacityWaitlistsOverflow(t *testing.T) {
	svc, db := newAcademyService(t)
	first := createTestUser(t, db, "first@example.com")
	second := createTestUser(t, db, "second@example.com")
	cohort := createOpenCohort(t, svc, intptr(1))

	e1, err := svc.Enroll(cohort.ID, first.ID)
	if err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	if e1.Status != domain.AcademyEnrolled {
		t.Fatalf("first status = %q, want enrolled", e1.Status)
	}
	e2, err := svc.Enroll(cohort.ID, second.ID)
	if err != nil {
		t.Fatalf("second enroll: %v", err)
	}
	if e2.Status != domain.AcademyWaitlisted {
		t.Fatalf("second status = %q, want waitlisted", e2.Status)
	}

	// Re-enrolling keeps the existing record.
	again, err := svc.Enroll(cohort.ID, first.ID)
	if err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	if again.ID != e1.ID || again.Status != domain.AcademyEnrolled {
		t.Fatalf("re-enroll got id=%d status=%q, want existing enrollment", again.ID, again.Status)
	}
}

func TestAcademyProgressCompletesAtHundred(t *testing.T) {
	svc, db := newAcademyService(t)
	user := createTestUser(t, db, "student@example.com")
	cohort := createOpenCohort(t, svc, nil)

	enrollment, err := svc.Enroll(cohort.ID, user.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	updated, err := svc.UpdateProgress(enrollment.ID, user.ID, 40, false)
	if err != nil {
		t.Fatalf("progress 40: %v", err)
	}
	if updated.Status != domain.AcademyEnrolled || updated.Progress != 40 {
		t.Fatalf("got status=%q progress=%d", updated.Status, updated.Progress)
	}
	updated, err = svc.UpdateProgress(enrollment.ID, user.ID, 100, false)
	if err != nil {
		t.Fatalf("progress 100: %v", err)
	}
	if updated.Status != domain.AcademyCompleted {
		t.Fatalf("status = %q, want completed", updated.Status)
	}
}

func TestAcademyProgressGuards(t *testing.T) {
	svc, db := newAcademyService(t)
	owner := createTestUser(t, db, "owner@example.com")
	other := createTestUser(t, db, "other@example.com")
	waitlisted := createTestUser(t, db, "late@example.com")
	cohort := createOpenCohort(t, svc, intptr(1))

	enrollment, err := svc.Enroll(cohort.ID, owner.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	waiting, err := svc.Enroll(cohort.ID, waitlisted.ID)
	if err != nil {
		t.Fatalf("waitlist enroll: %v", err)
	}

	if _, err := svc.UpdateProgress(enrollment.ID, owner.ID, 101, false); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("progress 101: got %v, want bad request", err)
	}
	if _, err := svc.UpdateProgress(enrollment.ID, other.ID, 50, false); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-owner: got %v, want forbidden", err)
	}
	if _, err := svc.UpdateProgress(enrollment.ID, other.ID, 50, true); err != nil {
		t.Fatalf("admin override: %v", err)
	}
	if _, err := svc.UpdateProgress(waiting.ID, waitlisted.ID, 10, false); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("waitlisted progress: got %v, want bad request", err)
	}
}

func TestAcademyCertificateIssuedOnceAfterCompletion(t *testing.T) {
	svc, db := newAcademyService(t)
	user := createTestUser(t, db, "student@example.com")
	cohort := createOpenCohort(t, svc, nil)

	enrollment, err := svc.Enroll(cohort.ID, user.ID)
	if err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if _, err := svc.IssueCertificate(enrollment.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("certificate before completion: got %v, want bad request", err)
	}
	if _, err := svc.UpdateProgress(enrollment.ID, user.ID, 100, false); err != nil {
		t.Fatalf("complete: %v", err)
	}

	cert, err := svc.IssueCertificate(enrollment.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.UserID != user.ID || cert.Format != "txt" {
		t.Fatalf("cert = %+v", cert)
	}
	if !strings.Contains(cert.FileRef, "certificates/") {
		t.Fatalf("file ref %q not under certificates folder", cert.FileRef)
	}

	again, err := svc.IssueCertificate(enrollment.ID)
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}
	if again.ID != cert.ID {
		t.Fatalf("reissue created certificate %d, want existing %d", again.ID, cert.ID)
	}
	var count int64
	if err := db.Model(&models.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("certificates = %d, want 1", count)
	}
}
