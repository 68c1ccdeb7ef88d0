package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order references its customer by external key. TotalAmount is a stored
// historical value: ingestion back-fills it from the order's items before
// commit, but the read path never assumes it matches the item lines.
type Order struct {
	ID            int             `gorm:"primary_key" json:"id"`
	OrderId       string          `gorm:"size:20;uniqueIndex;not null" json:"order_id"`
	CustomerId    string          `gorm:"size:20;index;not null" json:"customer_id"`
	OrderDate     time.Time       `gorm:"index" json:"order_date"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Status        OrderStatus     `gorm:"size:20" json:"status"`
	PaymentMethod PaymentMethod   `gorm:"size:20" json:"payment_method"`
	DeliveryType  DeliveryType    `gorm:"size:20" json:"delivery_type"`
	OrderItems    []*OrderItem    `gorm:"foreignKey:OrderId;references:OrderId" json:"order_items"`
}

// OrderItem snapshots unit_price at order time; it may differ from the
// product's current price.
type OrderItem struct {
	ID        int             `gorm:"primary_key" json:"id"`
	OrderId   string          `gorm:"size:20;index;not null" json:"order_id"`
	ProductId string          `gorm:"size:40;index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"unit_price"`
	Toppings  string          `gorm:"size:255" json:"toppings"`
}
