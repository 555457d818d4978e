package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	SKU         string          `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	Currency    string          `gorm:"size:3;not null" json:"currency"`
	TaxRatePct  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"tax_rate_pct"`
	Status      string          `gorm:"size:20;not null;index;default:'draft'" json:"status"` // draft, published, archived
	Stock       *int            `json:"stock"`                                                // nil = untracked
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

type Order struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	Status    string          `gorm:"size:20;not null;index" json:"status"` // pending, awaiting_payment, paid, fulfilled
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	Tax       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax"`
	Total     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Currency  string          `gorm:"size:3;not null" json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User  User        `gorm:"foreignKey:UserID" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem captures unit price and tax rate at order time; totals are never
// re-derived from the product afterwards.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	ProductID    uint            `gorm:"not null" json:"product_id"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Currency     string          `gorm:"size:3;not null" json:"currency"`
	TaxRatePct   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"tax_rate_pct"`
	LineSubtotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_subtotal"`
	LineTax      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_tax"`
	LineTotal    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
