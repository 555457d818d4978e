package service

import (
	"fmt"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
	"bayanihan/internal/security"
)

// KycService manages applications and the append-only decision log. Reviewer
// notes are encrypted at rest and decrypted on the way out.
type KycService struct {
	repo   *repository.KycRepository
	crypto *security.Crypto
}

func NewKycService(repo *repository.KycRepository, crypto *security.Crypto) *KycService {
	return &KycService{repo: repo, crypto: crypto}
}

type KycDocumentInput struct {
	Type    string `json:"type" binding:"required"`
	FileRef string `json:"file_ref" binding:"required"`
}

func (s *KycService) Apply(userID uint, documents []KycDocumentInput) (*models.KycApplication, error) {
	app := &models.KycApplication{UserID: userID, Status: domain.KycPending}
	for _, d := range documents {
		app.Documents = append(app.Documents, models.KycDocument{Type: d.Type, FileRef: d.FileRef})
	}
	if err := s.repo.CreateApplication(app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *KycService) List() ([]models.KycApplication, error) {
	apps, err := s.repo.ListApplications()
	if err != nil {
		return nil, err
	}
	for i := range apps {
		apps[i].Notes = s.crypto.DecryptString(apps[i].Notes)
	}
	return apps, nil
}

func (s *KycService) ListDecisions(applicationID uint) ([]models.KycDecisionLog, error) {
	app, err := s.repo.GetApplication(applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application", domain.ErrNotFound)
	}
	decisions, err := s.repo.ListDecisions(applicationID)
	if err != nil {
		return nil, err
	}
	for i := range decisions {
		decisions[i].Notes = s.crypto.DecryptString(decisions[i].Notes)
	}
	return decisions, nil
}

// SetStatus updates the application status and appends a decision log row.
func (s *KycService) SetStatus(id uint, status, notes string, reviewerUserID *uint) (*models.KycApplication, error) {
	switch status {
	case domain.KycPending, domain.KycApproved, domain.KycRejected:
	default:
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	app, err := s.repo.GetApplication(id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, fmt.Errorf("%w: application", domain.ErrNotFound)
	}
	encrypted, err := s.crypto.EncryptString(notes)
	if err != nil {
		return nil, err
	}
	app.Status = status
	app.Notes = encrypted
	if err := s.repo.SaveApplication(app); err != nil {
		return nil, err
	}
	if err := s.repo.AppendDecision(&models.KycDecisionLog{
		ApplicationID:  id,
		ReviewerUserID: reviewerUserID,
		Decision:       status,
		Notes:          encrypted,
	}); err != nil {
		return nil, err
	}
	app.Notes = notes
	return app, nil
}
