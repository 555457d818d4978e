package service

import (
	"context"
	"fmt"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
	"bayanihan/pkg/ninjavan"
)

// ShippingService covers shipments attached to orders, an event trail, and a
// member tracking view gated by order ownership. Manual shipments are driven
// entirely by admin actions; carrier shipments go through Ninja Van.
type ShippingService struct {
	shipmentRepo *repository.ShipmentRepository
	orderRepo    *repository.OrderRepository
	carrier      *ninjavan.Client
}

func NewShippingService(shipmentRepo *repository.ShipmentRepository, orderRepo *repository.OrderRepository, carrier *ninjavan.Client) *ShippingService {
	return &ShippingService{shipmentRepo: shipmentRepo, orderRepo: orderRepo, carrier: carrier}
}

func (s *ShippingService) CreateShipment(orderID uint, carrierName, trackingNumber string) (*models.Shipment, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	shipment := &models.Shipment{
		OrderID:        orderID,
		Provider:       "manual",
		Status:         domain.ShipmentPending,
		CarrierName:    carrierName,
		TrackingNumber: trackingNumber,
	}
	if err := s.shipmentRepo.Create(shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

// CreateCarrierShipment books a Ninja Van order and records the returned
// tracking number.
func (s *ShippingService) CreateCarrierShipment(ctx context.Context, orderID uint, from, to ninjavan.Address) (*models.Shipment, error) {
	if s.carrier == nil || !s.carrier.IsConfigured() {
		return nil, fmt.Errorf("%w: carrier shipping is not available", domain.ErrBadRequest)
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	carrierOrder, err := s.carrier.CreateOrder(ctx, ninjavan.CreateOrderRequest{
		ServiceType:  "Parcel",
		ServiceLevel: "Standard",
		Reference:    fmt.Sprintf("order-%d", orderID),
		From:         from,
		To:           to,
	})
	if err != nil {
		return nil, fmt.Errorf("carrier booking: %w", err)
	}
	shipment := &models.Shipment{
		OrderID:        orderID,
		Provider:       "ninjavan",
		Status:         domain.ShipmentPending,
		CarrierName:    "Ninja Van",
		TrackingNumber: carrierOrder.TrackingNumber,
	}
	if err := s.shipmentRepo.Create(shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

// RefreshTracking pulls the carrier's event feed into the local trail.
// Events already recorded at the same timestamp and status are skipped.
func (s *ShippingService) RefreshTracking(ctx context.Context, shipmentID uint) (*TrackingView, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment", domain.ErrNotFound)
	}
	if shipment.Provider != "ninjavan" {
		return nil, fmt.Errorf("%w: shipment is not carrier managed", domain.ErrBadRequest)
	}
	if s.carrier == nil || !s.carrier.IsConfigured() {
		return nil, fmt.Errorf("%w: carrier shipping is not available", domain.ErrBadRequest)
	}
	carrierEvents, err := s.carrier.Track(ctx, shipment.TrackingNumber)
	if err != nil {
		return nil, fmt.Errorf("carrier tracking: %w", err)
	}
	existing, err := s.shipmentRepo.ListEvents(shipmentID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.Status+"|"+e.OccurredAt.UTC().Format(time.RFC3339)] = true
	}
	for _, ce := range carrierEvents {
		status := mapCarrierStatus(ce.Status)
		if seen[status+"|"+ce.Timestamp.UTC().Format(time.RFC3339)] {
			continue
		}
		if err := s.shipmentRepo.AppendEvent(&models.ShipmentEvent{
			ShipmentID:  shipmentID,
			Status:      status,
			Description: ce.Description,
			OccurredAt:  ce.Timestamp,
		}); err != nil {
			return nil, err
		}
	}
	if len(carrierEvents) > 0 {
		latest := mapCarrierStatus(carrierEvents[len(carrierEvents)-1].Status)
		if latest != shipment.Status {
			shipment.Status = latest
			if err := s.shipmentRepo.Save(shipment); err != nil {
				return nil, err
			}
		}
	}
	events, err := s.shipmentRepo.ListEvents(shipmentID)
	if err != nil {
		return nil, err
	}
	return &TrackingView{Shipment: shipment, Events: events}, nil
}

func mapCarrierStatus(carrierStatus string) string {
	switch carrierStatus {
	case "Completed", "Delivered":
		return domain.ShipmentDelivered
	case "Cancelled":
		return domain.ShipmentCanceled
	case "Pending Pickup", "Staging":
		return domain.ShipmentLabeled
	default:
		return domain.ShipmentInTransit
	}
}

func validShipmentStatus(status string) bool {
	switch status {
	case domain.ShipmentPending, domain.ShipmentLabeled, domain.ShipmentInTransit,
		domain.ShipmentDelivered, domain.ShipmentCanceled:
		return true
	}
	return false
}

// UpdateStatus sets the shipment status and appends a matching event.
func (s *ShippingService) UpdateStatus(shipmentID uint, status string) (*models.Shipment, error) {
	if !validShipmentStatus(status) {
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment", domain.ErrNotFound)
	}
	shipment.Status = status
	if err := s.shipmentRepo.Save(shipment); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.AppendEvent(&models.ShipmentEvent{
		ShipmentID:  shipmentID,
		Status:      status,
		Description: "Status set to " + status,
		OccurredAt:  time.Now(),
	}); err != nil {
		return nil, err
	}
	return shipment, nil
}

// AddEvent appends a manual tracking event. Status defaults to the shipment's
// current one, occurredAt to now.
func (s *ShippingService) AddEvent(shipmentID uint, status, description string, occurredAt *time.Time) (*models.ShipmentEvent, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment", domain.ErrNotFound)
	}
	if status == "" {
		status = shipment.Status
	} else if !validShipmentStatus(status) {
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	at := time.Now()
	if occurredAt != nil {
		at = *occurredAt
	}
	event := &models.ShipmentEvent{
		ShipmentID:  shipmentID,
		Status:      status,
		Description: description,
		OccurredAt:  at,
	}
	if err := s.shipmentRepo.AppendEvent(event); err != nil {
		return nil, err
	}
	return event, nil
}

// SetLabelRef stores the uploaded label's file reference.
func (s *ShippingService) SetLabelRef(shipmentID uint, labelRef string) (*models.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment", domain.ErrNotFound)
	}
	shipment.LabelRef = labelRef
	if shipment.Status == domain.ShipmentPending {
		shipment.Status = domain.ShipmentLabeled
	}
	if err := s.shipmentRepo.Save(shipment); err != nil {
		return nil, err
	}
	return shipment, nil
}

type TrackingView struct {
	Shipment *models.Shipment       `json:"shipment"`
	Events   []models.ShipmentEvent `json:"events"`
}

// Track returns the shipment and its event trail. Non-admin callers must own
// the underlying order.
func (s *ShippingService) Track(shipmentID, userID uint, asAdmin bool) (*TrackingView, error) {
	shipment, err := s.shipmentRepo.GetByID(shipmentID)
	if err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, fmt.Errorf("%w: shipment", domain.ErrNotFound)
	}
	if !asAdmin && shipment.Order.UserID != userID {
		return nil, fmt.Errorf("%w: not allowed", domain.ErrForbidden)
	}
	events, err := s.shipmentRepo.ListEvents(shipmentID)
	if err != nil {
		return nil, err
	}
	return &TrackingView{Shipment: shipment, Events: events}, nil
}
