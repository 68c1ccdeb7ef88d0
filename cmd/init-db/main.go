package main

import (
	"fmt"
	"os"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
)

// Creates (or upgrades) the database schema. Safe to run repeatedly.
func main() {
	config.ConnectDatabase()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("database schema is up to date")
}
