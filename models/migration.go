package models

import (
	"github.com/mmdatafocus/farm_backend/config"
)

// MigrateTable provisions the store schema. The analytics layer assumes
// these tables already exist; run once via cmd/init-db.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Customer{},
		&Product{},
		&Topping{},
		&Order{},
		&OrderItem{},
	)
}
