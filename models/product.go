package models

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/shopspring/decimal"
)

// Product is static reference data seeded at ingestion and read-only
// afterwards. Size is only populated by the pizza catalog.
type Product struct {
	ID          int             `gorm:"primary_key" json:"id"`
	ProductId   string          `gorm:"size:40;uniqueIndex;not null" json:"product_id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Category    string          `gorm:"size:100;index" json:"category"`
	Size        string          `gorm:"size:20" json:"size"`
}

// Topping is pizza-variant reference data. Selected toppings are stored
// on order items as a comma-joined list of topping ids, not as a relation.
type Topping struct {
	ID        int             `gorm:"primary_key" json:"id"`
	ToppingId string          `gorm:"size:20;uniqueIndex;not null" json:"topping_id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	Category  string          `gorm:"size:100" json:"category"`
}

func ListProducts(ctx context.Context) ([]*Product, error) {
	db := config.GetDB()
	var products []*Product
	if err := db.WithContext(ctx).Order("product_id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func ListToppings(ctx context.Context) ([]*Topping, error) {
	db := config.GetDB()
	var toppings []*Topping
	if err := db.WithContext(ctx).Order("topping_id").Find(&toppings).Error; err != nil {
		return nil, err
	}
	return toppings, nil
}
