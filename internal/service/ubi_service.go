package service

import (
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UbiService runs the cycle state machine:
// draft --compute--> computed --submit--> pending_approval --approve--> approved.
// Every transition validates the current state strictly; there is no way back.
type UbiService struct {
	db         *gorm.DB
	ubiRepo    *repository.UbiRepository
	ledgerRepo *repository.LedgerRepository
}

func NewUbiService(db *gorm.DB, ubiRepo *repository.UbiRepository, ledgerRepo *repository.LedgerRepository) *UbiService {
	return &UbiService{db: db, ubiRepo: ubiRepo, ledgerRepo: ledgerRepo}
}

func payoutRef(cycleID, payoutID uint) string {
	return fmt.Sprintf("ubi:%d:%d", cycleID, payoutID)
}

func (s *UbiService) CreateProgram(name, description string, amount decimal.Decimal, currency string) (*models.UbiProgram, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be > 0", domain.ErrBadRequest)
	}
	p := &models.UbiProgram{Name: name, Description: description, Amount: amount, Currency: currency}
	if err := s.ubiRepo.CreateProgram(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *UbiService) ListPrograms() ([]models.UbiProgram, error) {
	return s.ubiRepo.ListPrograms()
}

func (s *UbiService) Enroll(programID, userID uint) (*models.UbiEnrollment, error) {
	program, err := s.ubiRepo.GetProgram(programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, fmt.Errorf("%w: program", domain.ErrNotFound)
	}
	return s.ubiRepo.Enroll(programID, userID)
}

func (s *UbiService) CreateCycle(programID uint, periodStart, periodEnd time.Time) (*models.UbiCycle, error) {
	if !periodEnd.After(periodStart) {
		return nil, fmt.Errorf("%w: period end must be after period start", domain.ErrBadRequest)
	}
	program, err := s.ubiRepo.GetProgram(programID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, fmt.Errorf("%w: program", domain.ErrNotFound)
	}
	c := &models.UbiCycle{
		ProgramID:   programID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      domain.CycleDraft,
	}
	if err := s.ubiRepo.CreateCycle(c); err != nil {
		return nil, err
	}
	return c, nil
}

// ComputeCycle creates one pending payout per actively enrolled user, skipping
// users who already have one in this cycle, then marks the cycle computed.
// Re-running it only fills in payouts for users enrolled since the last run.
func (s *UbiService) ComputeCycle(cycleID uint) (*models.UbiCycle, error) {
	cycle, err := s.ubiRepo.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, fmt.Errorf("%w: cycle", domain.ErrNotFound)
	}
	program, err := s.ubiRepo.GetProgram(cycle.ProgramID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, fmt.Errorf("%w: program", domain.ErrNotFound)
	}
	if !program.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: program payout amount must be positive", domain.ErrBadRequest)
	}
	enrollments, err := s.ubiRepo.ActiveEnrollments(cycle.ProgramID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, e := range enrollments {
			exists, err := s.ubiRepo.PayoutExists(tx, cycle.ID, e.UserID)
			if err != nil {
				return err
			}
			if exists {
				continue
			}
			payout := &models.UbiPayout{
				CycleID:  cycle.ID,
				UserID:   e.UserID,
				Amount:   program.Amount,
				Currency: program.Currency,
				Status:   domain.PayoutPending,
			}
			if err := tx.Create(payout).Error; err != nil {
				return err
			}
		}
		return s.ubiRepo.UpdateCycleStatus(tx, cycle.ID, domain.CycleComputed)
	})
	if err != nil {
		return nil, err
	}
	cycle.Status = domain.CycleComputed
	return cycle, nil
}

// SubmitCycle moves a computed cycle to pending_approval.
func (s *UbiService) SubmitCycle(cycleID uint) (*models.UbiCycle, error) {
	cycle, err := s.ubiRepo.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, fmt.Errorf("%w: cycle", domain.ErrNotFound)
	}
	if cycle.Status != domain.CycleComputed {
		return nil, fmt.Errorf("%w: cycle must be computed first", domain.ErrBadRequest)
	}
	if err := s.ubiRepo.UpdateCycleStatus(s.db, cycle.ID, domain.CyclePendingApproval); err != nil {
		return nil, err
	}
	cycle.Status = domain.CyclePendingApproval
	return cycle, nil
}

// ApproveCycle flips every pending payout to approved and credits each user's
// ledger with ref ubi:<cycleId>:<payoutId>, then marks the cycle approved,
// all in one transaction. The pending_approval guard is what keeps approval
// at most once per cycle; a second call fails before any write.
func (s *UbiService) ApproveCycle(cycleID uint) (*models.UbiCycle, error) {
	cycle, err := s.ubiRepo.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, fmt.Errorf("%w: cycle", domain.ErrNotFound)
	}
	if cycle.Status != domain.CyclePendingApproval {
		return nil, fmt.Errorf("%w: cycle is not pending approval", domain.ErrBadRequest)
	}
	payouts, err := s.ubiRepo.PendingPayouts(cycle.ID)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for i := range payouts {
			p := &payouts[i]
			if err := tx.Model(&models.UbiPayout{}).Where("id = ?", p.ID).
				Update("status", domain.PayoutApproved).Error; err != nil {
				return err
			}
			entry := &models.LedgerEntry{
				UserID:      p.UserID,
				Amount:      p.Amount,
				Currency:    p.Currency,
				Type:        domain.LedgerCredit,
				Ref:         payoutRef(cycle.ID, p.ID),
				UbiPayoutID: &p.ID,
			}
			if err := s.ledgerRepo.Append(tx, entry); err != nil {
				return err
			}
		}
		return s.ubiRepo.UpdateCycleStatus(tx, cycle.ID, domain.CycleApproved)
	})
	if err != nil {
		return nil, err
	}
	cycle.Status = domain.CycleApproved
	return cycle, nil
}

func (s *UbiService) ListPayouts(cycleID uint) ([]models.UbiPayout, error) {
	cycle, err := s.ubiRepo.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, fmt.Errorf("%w: cycle", domain.ErrNotFound)
	}
	return s.ubiRepo.ListPayouts(cycleID)
}

// MemberLedger returns the member's UBI-originated ledger entries.
func (s *UbiService) MemberLedger(userID uint) ([]models.LedgerEntry, error) {
	return s.ledgerRepo.ListUbiByUser(userID)
}
