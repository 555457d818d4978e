package service

import (
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
)

// EventService handles community events: publication, registration with
// capacity-based waitlisting, cancellation with waitlist promotion, and
// check-in.
type EventService struct {
	repo *repository.EventRepository
}

func NewEventService(repo *repository.EventRepository) *EventService {
	return &EventService{repo: repo}
}

type EventInput struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartAt     time.Time `json:"start_at" binding:"required"`
	EndAt       time.Time `json:"end_at" binding:"required"`
	Capacity    *int      `json:"capacity"`
}

func (s *EventService) Create(in EventInput) (*models.Event, error) {
	if !in.EndAt.After(in.StartAt) {
		return nil, fmt.Errorf("%w: end must be after start", domain.ErrBadRequest)
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return nil, fmt.Errorf("%w: capacity must be positive", domain.ErrBadRequest)
	}
	event := &models.Event{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		StartAt:     in.StartAt,
		EndAt:       in.EndAt,
		Status:      domain.StatusDraft,
		Capacity:    in.Capacity,
	}
	if err := s.repo.Create(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) SetStatus(id uint, status string) (*models.Event, error) {
	if status != domain.StatusDraft && status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	event, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: event", domain.ErrNotFound)
	}
	event.Status = status
	if err := s.repo.Save(event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *EventService) List(page, limit int, q string) ([]models.Event, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListPublished(page, limit, q)
}

// Register puts the member on the event, waitlisting when full. Registering
// twice returns the existing registration; a canceled registration is
// reactivated subject to capacity.
func (s *EventService) Register(eventID, userID uint) (*models.Registration, error) {
	event, err := s.repo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, fmt.Errorf("%w: event", domain.ErrNotFound)
	}
	if event.Status != domain.StatusPublished {
		return nil, fmt.Errorf("%w: event is not open for registration", domain.ErrBadRequest)
	}
	if time.Now().After(event.EndAt) {
		return nil, fmt.Errorf("%w: event has ended", domain.ErrBadRequest)
	}

	existing, err := s.repo.GetRegistration(eventID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.Status != domain.RegistrationCanceled {
		return existing, nil
	}

	status := domain.RegistrationRegistered
	if event.Capacity != nil {
		registered, err := s.repo.CountRegistered(eventID)
		if err != nil {
			return nil, err
		}
		if registered >= int64(*event.Capacity) {
			status = domain.RegistrationWaitlisted
		}
	}
	if existing != nil {
		existing.Status = status
		existing.CheckedInAt = nil
		if err := s.repo.SaveRegistration(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	reg := &models.Registration{EventID: eventID, UserID: userID, Status: status}
	if err := s.repo.CreateRegistration(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// Cancel frees the member's spot. When a registered spot opens up, the
// oldest waitlisted member is promoted.
func (s *EventService) Cancel(eventID, userID uint) (*models.Registration, error) {
	reg, err := s.repo.GetRegistration(eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: registration", domain.ErrNotFound)
	}
	if reg.Status == domain.RegistrationCanceled {
		return reg, nil
	}
	wasRegistered := reg.Status == domain.RegistrationRegistered
	reg.Status = domain.RegistrationCanceled
	reg.CheckedInAt = nil
	if err := s.repo.SaveRegistration(reg); err != nil {
		return nil, err
	}
	if wasRegistered {
		if err := s.promoteOldestWaitlisted(eventID); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (s *EventService) promoteOldestWaitlisted(eventID uint) error {
	next, err := s.repo.OldestWaitlisted(eventID)
	if err != nil {
		return err
	}
	if next == nil {
		return nil
	}
	next.Status = domain.RegistrationRegistered
	return s.repo.SaveRegistration(next)
}

// CheckIn marks attendance for a registered member.
func (s *EventService) CheckIn(eventID, userID uint) (*models.Registration, error) {
	reg, err := s.repo.GetRegistration(eventID, userID)
	if err != nil {
		return nil, err
	}
	if reg == nil {
		return nil, fmt.Errorf("%w: registration", domain.ErrNotFound)
	}
	switch reg.Status {
	case domain.RegistrationCheckedIn:
		return reg, nil
	case domain.RegistrationRegistered:
	default:
		return nil, fmt.Errorf("%w: registration is %s", domain.ErrBadRequest, reg.Status)
	}
	now := time.Now()
	reg.Status = domain.RegistrationCheckedIn
	reg.CheckedInAt = &now
	if err := s.repo.SaveRegistration(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *EventService) MyRegistrations(userID uint) ([]models.Registration, error) {
	return s.repo.ListRegistrationsForUser(userID)
}
