package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/utils"
	"gorm.io/gorm"
)

// Customer identity is the external opaque customer_id (CUST_xxxxxxxx),
// generated once at ingestion. The surrogate id stays internal.
type Customer struct {
	ID         int       `gorm:"primary_key" json:"id"`
	CustomerId string    `gorm:"size:20;uniqueIndex;not null" json:"customer_id"`
	FirstName  string    `gorm:"size:100" json:"first_name"`
	LastName   string    `gorm:"size:100" json:"last_name"`
	Email      string    `gorm:"size:100" json:"email"`
	Phone      string    `gorm:"size:30" json:"phone"`
	Address    string    `gorm:"size:200" json:"address"`
	City       string    `gorm:"size:100" json:"city"`
	State      string    `gorm:"size:100" json:"state"`
	ZipCode    string    `gorm:"size:20" json:"zip_code"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func GetCustomerByCustomerId(ctx context.Context, customerId string) (*Customer, error) {
	db := config.GetDB()
	var customer Customer
	if err := db.WithContext(ctx).Where("customer_id = ?", customerId).First(&customer).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &customer, nil
}

func CountCustomers(ctx context.Context) (int64, error) {
	db := config.GetDB()
	var count int64
	err := db.WithContext(ctx).Model(&Customer{}).Count(&count).Error
	return count, err
}
