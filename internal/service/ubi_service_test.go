package service

import (
	"errors"
	"testing"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"gorm.io/gorm"
)

func newUbiService(t *testing.T) (*UbiService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewUbiService(db, repository.NewUbiRepository(db), repository.NewLedgerRepository(db))
	return svc, db
}

func setupProgramWithMembers(t *testing.T, svc *UbiService, db *gorm.DB, memberCount int) (*models.UbiProgram, []*models.User) {
	t.Helper()
	program, err := svc.CreateProgram("Community UBI", "", mustDecimal(t, "500.00"), "PHP")
	if err != nil {
		t.Fatalf("create program: %v", err)
	}
	users := make([]*models.User, 0, memberCount)
	for i := 0; i < memberCount; i++ {
		u := createTestUser(t, db, "member"+itoa(uint(i))+"@example.com")
		if _, err := svc.Enroll(program.ID, u.ID); err != nil {
			t.Fatalf("enroll: %v", err)
		}
		users = append(users, u)
	}
	return program, users
}

func TestCreateProgramRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newUbiService(t)
	if _, err := svc.CreateProgram("Bad", "", mustDecimal(t, "0"), "PHP"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("got %v, want bad request", err)
	}
}

func TestCreateCycleValidation(t *testing.T) {
	svc, db := newUbiService(t)
	program, _ := setupProgramWithMembers(t, svc, db, 1)
	now := time.Now()

	if _, err := svc.CreateCycle(program.ID, now, now); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("empty period: got %v, want bad request", err)
	}
	if _, err := svc.CreateCycle(9999, now, now.Add(time.Hour)); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown program: got %v, want not found", err)
	}
	cycle, err := svc.CreateCycle(program.ID, now, now.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	if cycle.Status != domain.CycleDraft {
		t.Fatalf("status = %q, want draft", cycle.Status)
	}
}

func TestApproveCycleCreditsEveryMemberOnce(t *testing.T) {
	svc, db := newUbiService(t)
	program, users := setupProgramWithMembers(t, svc, db, 2)
	ledgerRepo := repository.NewLedgerRepository(db)

	cycle, err := svc.CreateCycle(program.ID, time.Now(), time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	if _, err := svc.ComputeCycle(cycle.ID); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if _, err := svc.SubmitCycle(cycle.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	approved, err := svc.ApproveCycle(cycle.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.CycleApproved {
		t.Fatalf("status = %q, want approved", approved.Status)
	}

	total := mustDecimal(t, "0")
	for _, u := range users {
		balance, err := ledgerRepo.Balance(u.ID, "PHP")
		if err != nil {
			t.Fatalf("balance: %v", err)
		}
		if !balance.Equal(mustDecimal(t, "500.00")) {
			t.Fatalf("user %d balance = %s, want 500.00", u.ID, balance)
		}
		total = total.Add(balance)
	}
	if !total.Equal(mustDecimal(t, "1000.00")) {
		t.Fatalf("cycle total = %s, want 1000.00", total)
	}

	// Approving again fails before any write.
	if _, err := svc.ApproveCycle(cycle.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("double approve: got %v, want bad request", err)
	}
	var credits int64
	if err := db.Model(&models.LedgerEntry{}).Where("ubi_payout_id IS NOT NULL").Count(&credits).Error; err != nil {
		t.Fatalf("count credits: %v", err)
	}
	if credits != 2 {
		t.Fatalf("credits = %d, want 2", credits)
	}
}

func TestComputeCycleIsIdempotentAndPicksUpNewEnrollees(t *testing.T) {
	svc, db := newUbiService(t)
	program, _ := setupProgramWithMembers(t, svc, db, 2)

	cycle, err := svc.CreateCycle(program.ID, time.Now(), time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	if _, err := svc.ComputeCycle(cycle.ID); err != nil {
		t.Fatalf("first compute: %v", err)
	}
	payouts, err := svc.ListPayouts(cycle.ID)
	if err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	if len(payouts) != 2 {
		t.Fatalf("payouts = %d, want 2", len(payouts))
	}

	late := createTestUser(t, db, "late@example.com")
	if _, err := svc.Enroll(program.ID, late.ID); err != nil {
		t.Fatalf("late enroll: %v", err)
	}
	if _, err := svc.ComputeCycle(cycle.ID); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	payouts, err = svc.ListPayouts(cycle.ID)
	if err != nil {
		t.Fatalf("list payouts: %v", err)
	}
	if len(payouts) != 3 {
		t.Fatalf("payouts after recompute = %d, want 3 (no duplicates)", len(payouts))
	}
}

func TestCycleTransitionsAreStrict(t *testing.T) {
	svc, db := newUbiService(t)
	program, _ := setupProgramWithMembers(t, svc, db, 1)

	cycle, err := svc.CreateCycle(program.ID, time.Now(), time.Now().AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	if _, err := svc.SubmitCycle(cycle.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("submit draft: got %v, want bad request", err)
	}
	if _, err := svc.ApproveCycle(cycle.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("approve draft: got %v, want bad request", err)
	}
	if _, err := svc.ComputeCycle(cycle.ID); err != nil {
		t.Fatalf("compute: %v", err)
	}
	if _, err := svc.ApproveCycle(cycle.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("approve computed: got %v, want bad request", err)
	}
	if _, err := svc.SubmitCycle(cycle.ID); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitCycle(cycle.ID); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("double submit: got %v, want bad request", err)
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	svc, db := newUbiService(t)
	program, users := setupProgramWithMembers(t, svc, db, 1)

	if _, err := svc.Enroll(program.ID, users[0].ID); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}
	var count int64
	if err := db.Model(&models.UbiEnrollment{}).Where("program_id = ?", program.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("enrollments = %d, want 1", count)
	}
}
