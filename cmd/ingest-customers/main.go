package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
)

func main() {
	csvPath := flag.String("csv", "", "Path to the customer CSV file (required)")
	variant := flag.String("variant", "farm", "Ingestion variant: farm (order per purchase row) or pizza (synthetic order history)")
	seed := flag.Int64("seed", 0, "Optional: seed for fabricated values; 0 uses a time-based seed")
	flag.Parse()

	if *csvPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest-customers -csv <file> [-variant farm|pizza] [-seed N]")
		os.Exit(1)
	}

	opts := models.IngestOptions{Variant: models.IngestVariant(*variant)}
	if opts.Variant != models.IngestVariantFarm && opts.Variant != models.IngestVariantPizza {
		fmt.Fprintf(os.Stderr, "unknown variant %q (want farm or pizza)\n", *variant)
		os.Exit(1)
	}
	if *seed != 0 {
		opts.Rand = rand.New(rand.NewSource(*seed))
	}

	config.ConnectDatabase()
	config.ConnectRedis()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	if err := models.MigrateTable(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	file, err := os.Open(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open %s: %v\n", *csvPath, err)
		os.Exit(1)
	}
	defer file.Close()

	ctx := context.Background()
	summary, err := models.LoadCustomerCSV(ctx, file, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ingestion failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("loaded %d customers, %d products, %d toppings, %d orders, %d order items\n",
		summary.Customers, summary.Products, summary.Toppings, summary.Orders, summary.OrderItems)
	if total, cerr := models.CountCustomers(ctx); cerr == nil {
		fmt.Printf("database now holds %d customers\n", total)
	}
}
