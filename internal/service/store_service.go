package service

import (
	"errors"
	"fmt"
	"strings"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StoreService owns products, orders, and ledger-funded settlement. Settling
// an order debits the member's derived balance and marks the order paid in
// one transaction; the debit's order:<id> ref is the idempotency guard.
type StoreService struct {
	db          *gorm.DB
	productRepo *repository.ProductRepository
	orderRepo   *repository.OrderRepository
	ledgerRepo  *repository.LedgerRepository
	bankRepo    *repository.BankRepository
	stripeReady func() bool
}

func NewStoreService(
	db *gorm.DB,
	productRepo *repository.ProductRepository,
	orderRepo *repository.OrderRepository,
	ledgerRepo *repository.LedgerRepository,
	bankRepo *repository.BankRepository,
	stripeReady func() bool,
) *StoreService {
	if stripeReady == nil {
		stripeReady = func() bool { return false }
	}
	return &StoreService{
		db:          db,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		ledgerRepo:  ledgerRepo,
		bankRepo:    bankRepo,
		stripeReady: stripeReady,
	}
}

func orderRef(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

type OrderItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// CreateOrder builds an order in awaiting_payment. Unit price and tax rate
// are captured per line from each product's current values; the totals are
// fixed from this moment on.
func (s *StoreService) CreateOrder(userID uint, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items required", domain.ErrBadRequest)
	}
	seen := make(map[uint]bool)
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: invalid quantity", domain.ErrBadRequest)
		}
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	products, err := s.productRepo.GetPublishedByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(ids) {
		return nil, fmt.Errorf("%w: one or more products not found", domain.ErrNotFound)
	}
	byID := make(map[uint]*models.Product, len(products))
	currency := products[0].Currency
	for i := range products {
		if products[i].Currency != currency {
			return nil, fmt.Errorf("%w: products must share the same currency", domain.ErrBadRequest)
		}
		byID[products[i].ID] = &products[i]
	}

	subtotal, tax := decimal.Zero, decimal.Zero
	lines := make([]models.OrderItem, 0, len(items))
	hundred := decimal.NewFromInt(100)
	for _, item := range items {
		p := byID[item.ProductID]
		qty := decimal.NewFromInt(int64(item.Quantity))
		lineSubtotal := p.Price.Mul(qty)
		lineTax := lineSubtotal.Mul(p.TaxRatePct.Div(hundred))
		lines = append(lines, models.OrderItem{
			ProductID:    p.ID,
			Quantity:     item.Quantity,
			UnitPrice:    p.Price,
			Currency:     currency,
			TaxRatePct:   p.TaxRatePct,
			LineSubtotal: lineSubtotal,
			LineTax:      lineTax,
			LineTotal:    lineSubtotal.Add(lineTax),
		})
		subtotal = subtotal.Add(lineSubtotal)
		tax = tax.Add(lineTax)
	}

	order := &models.Order{
		UserID:   userID,
		Status:   domain.OrderAwaitingPayment,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
		Currency: currency,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		return tx.Create(&lines).Error
	})
	if err != nil {
		return nil, err
	}
	order.Items = lines
	return order, nil
}

func (s *StoreService) ListMyOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.ListForUser(userID)
}

// CheckoutView projects the order plus available payment rails. Checkout is
// read-mostly: the only write is normalizing a pending order forward.
type CheckoutView struct {
	Order          *models.Order `json:"order"`
	PaymentOptions []BankView    `json:"payment_options"`
	Recommended    Recommended   `json:"recommended"`
	Instructions   string        `json:"instructions"`
}

type Recommended struct {
	Methods []string `json:"methods"`
	Banks   []string `json:"banks"`
}

func (s *StoreService) Checkout(userID, orderID uint) (*CheckoutView, error) {
	order, err := s.orderRepo.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	if order.Status == domain.OrderPending {
		if err := s.orderRepo.UpdateStatus(s.db, order.ID, domain.OrderAwaitingPayment); err != nil {
			return nil, err
		}
		order.Status = domain.OrderAwaitingPayment
	}

	banks, err := s.bankRepo.List()
	if err != nil {
		return nil, err
	}
	options := make([]BankView, 0, len(banks))
	enabledCodes := make([]string, 0, len(banks))
	for i := range banks {
		v := bankView(&banks[i])
		options = append(options, v)
		if v.Enabled {
			enabledCodes = append(enabledCodes, v.Code)
		}
	}

	rec := Recommended{Methods: []string{}, Banks: []string{}}
	switch strings.ToUpper(order.Currency) {
	case "USD", "EUR", "MYR":
		if s.stripeReady() {
			rec.Methods = append(rec.Methods, "stripe")
		}
	case "PHP":
		rec.Banks = enabledCodes
	}

	return &CheckoutView{
		Order:          order,
		PaymentOptions: options,
		Recommended:    rec,
		Instructions: "Submit a manual payment for the total amount and currency, then provide reference to finance. Banks: " +
			strings.Join(enabledCodes, ", "),
	}, nil
}

// Settle pays an order from the member's ledger balance. Ownership failures
// read as NotFound so order ids are not probeable. A repeated settle finds
// the existing order:<id> debit and returns the current order unchanged; the
// unique ledger index closes the window between that check and the write.
func (s *StoreService) Settle(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetForUser(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}

	// Idempotency first: a prior debit means this settle already happened.
	existing, err := s.ledgerRepo.FindByRef(userID, order.Currency, orderRef(order.ID))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return s.orderRepo.GetForUser(userID, orderID)
	}

	if order.Status != domain.OrderAwaitingPayment && order.Status != domain.OrderPending {
		return nil, fmt.Errorf("%w: order not awaiting payment", domain.ErrBadRequest)
	}

	balance, err := s.ledgerRepo.Balance(userID, order.Currency)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(order.Total) {
		return nil, fmt.Errorf("%w: insufficient balance", domain.ErrBadRequest)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		entry := &models.LedgerEntry{
			UserID:   userID,
			Amount:   order.Total,
			Currency: order.Currency,
			Type:     domain.LedgerDebit,
			Ref:      orderRef(order.ID),
			OrderID:  &order.ID,
		}
		if err := s.ledgerRepo.Append(tx, entry); err != nil {
			if errors.Is(err, repository.ErrDuplicateRef) {
				// Concurrent duplicate settle lost the race; the order is
				// already paid by the winner.
				return nil
			}
			return err
		}
		return s.orderRepo.UpdateStatus(tx, order.ID, domain.OrderPaid)
	})
	if err != nil {
		return nil, err
	}
	return s.orderRepo.GetForUser(userID, orderID)
}

// Fulfill is the admin-only paid -> fulfilled transition.
func (s *StoreService) Fulfill(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	if order.Status != domain.OrderPaid {
		return nil, fmt.Errorf("%w: order is not paid", domain.ErrBadRequest)
	}
	if err := s.orderRepo.UpdateStatus(s.db, order.ID, domain.OrderFulfilled); err != nil {
		return nil, err
	}
	order.Status = domain.OrderFulfilled
	return order, nil
}

// ConfirmProviderPaid is the card-rail confirmation path: it marks the order
// paid on an unambiguous provider signal without touching the ledger. Orders
// already paid or fulfilled are left alone, whichever rail got there first.
func (s *StoreService) ConfirmProviderPaid(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("%w: order", domain.ErrNotFound)
	}
	if order.Status == domain.OrderPaid || order.Status == domain.OrderFulfilled {
		return order, nil
	}
	if err := s.orderRepo.UpdateStatus(s.db, order.ID, domain.OrderPaid); err != nil {
		return nil, err
	}
	order.Status = domain.OrderPaid
	return order, nil
}

// --- admin product management ---

type ProductInput struct {
	SKU         string           `json:"sku" binding:"required"`
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price" binding:"required"`
	Currency    string           `json:"currency" binding:"required,len=3"`
	TaxRatePct  decimal.Decimal  `json:"tax_rate_pct"`
	Stock       *int             `json:"stock"`
}

func (s *StoreService) CreateProduct(in ProductInput) (*models.Product, error) {
	if !in.Price.IsPositive() {
		return nil, fmt.Errorf("%w: price must be > 0", domain.ErrBadRequest)
	}
	p := &models.Product{
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Currency:    strings.ToUpper(in.Currency),
		TaxRatePct:  in.TaxRatePct,
		Status:      domain.ProductDraft,
		Stock:       in.Stock,
	}
	if err := s.productRepo.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: sku already exists", domain.ErrBadRequest)
		}
		return nil, err
	}
	return p, nil
}

func (s *StoreService) UpdateProduct(id uint, in ProductUpdate) (*models.Product, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	if in.SKU != nil {
		p.SKU = *in.SKU
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Currency != nil {
		p.Currency = strings.ToUpper(*in.Currency)
	}
	if in.TaxRatePct != nil {
		p.TaxRatePct = *in.TaxRatePct
	}
	if in.StockSet {
		p.Stock = in.Stock
	}
	if err := s.productRepo.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

type ProductUpdate struct {
	SKU         *string          `json:"sku"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Currency    *string          `json:"currency"`
	TaxRatePct  *decimal.Decimal `json:"tax_rate_pct"`
	Stock       *int             `json:"stock"`
	StockSet    bool             `json:"-"`
}

func (s *StoreService) SetProductStatus(id uint, status string) (*models.Product, error) {
	switch status {
	case domain.ProductDraft, domain.ProductPublished, domain.ProductArchived:
	default:
		return nil, fmt.Errorf("%w: invalid status", domain.ErrBadRequest)
	}
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	p.Status = status
	if err := s.productRepo.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StoreService) SetProductStock(id uint, stock *int) (*models.Product, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: product", domain.ErrNotFound)
	}
	p.Stock = stock
	if err := s.productRepo.Save(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *StoreService) ListProducts(page, limit int, q string) ([]models.Product, int64, error) {
	return s.productRepo.ListPublished(page, limit, q)
}
