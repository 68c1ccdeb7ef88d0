package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
)

// Dumps every table as pretty-printed JSON, one file per table, for
// quick inspection of a database without a SQL client.
func main() {
	outDir := flag.String("out", "export", "Directory to write JSON files into")
	table := flag.String("table", "", "Optional: export only one table (customers, products, toppings, orders, order_items)")
	flag.Parse()

	config.ConnectDatabase()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "cannot create %s: %v\n", *outDir, err)
		os.Exit(1)
	}

	ctx := context.Background()
	exports := map[string]func() (any, int, error){
		"customers": func() (any, int, error) {
			var rows []*models.Customer
			err := db.WithContext(ctx).Find(&rows).Error
			return rows, len(rows), err
		},
		"products": func() (any, int, error) {
			var rows []*models.Product
			err := db.WithContext(ctx).Find(&rows).Error
			return rows, len(rows), err
		},
		"toppings": func() (any, int, error) {
			var rows []*models.Topping
			err := db.WithContext(ctx).Find(&rows).Error
			return rows, len(rows), err
		},
		"orders": func() (any, int, error) {
			var rows []*models.Order
			err := db.WithContext(ctx).Find(&rows).Error
			return rows, len(rows), err
		},
		"order_items": func() (any, int, error) {
			var rows []*models.OrderItem
			err := db.WithContext(ctx).Find(&rows).Error
			return rows, len(rows), err
		},
	}

	if *table != "" {
		load, ok := exports[*table]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown table %q\n", *table)
			os.Exit(1)
		}
		exports = map[string]func() (any, int, error){*table: load}
	}

	for name, load := range exports {
		rows, count, err := load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", name, err)
			os.Exit(1)
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode %s: %v\n", name, err)
			os.Exit(1)
		}
		path := filepath.Join(*outDir, name+".json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("%-12s %6d rows -> %s\n", name, count, path)
	}
}
