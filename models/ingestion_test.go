package models_test

import (
	"context"
	"math/rand"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

var ingestSetupOnce sync.Once

func setupIngestDB(t *testing.T) {
	t.Helper()
	ingestSetupOnce.Do(func() {
		os.Setenv("DB_DRIVER", "sqlite")
		os.Setenv("DB_PATH", "file:ingesttest?mode=memory&cache=shared")
		config.ConnectDatabase()
		if err := models.MigrateTable(); err != nil {
			t.Fatalf("MigrateTable: %v", err)
		}
	})
	if config.GetDB() == nil {
		t.Fatal("database not initialized")
	}
}

const farmCSV = `First Name,Last Name,Street Address,Zip Code,City,State,Purchase Date,Purchase Item,Purchase Quantity
Alice,Smith,1 Main St,62701,Springfield,IL,10-03-2024,Apples,3
Bob,Jones,2 Oak Ave,97201,Portland,OR,20-03-2024,Carrots,2
Carol,Smithson,3 Elm Rd,62702,Springfield,IL,05-04-2024,Apples,1
`

func TestLoadCustomerCSV_Farm(t *testing.T) {
	setupIngestDB(t)
	ctx := context.Background()

	summary, err := models.LoadCustomerCSV(ctx, strings.NewReader(farmCSV), models.IngestOptions{
		Variant: models.IngestVariantFarm,
		Rand:    rand.New(rand.NewSource(42)),
	})
	if err != nil {
		t.Fatalf("LoadCustomerCSV: %v", err)
	}
	if summary.Customers != 3 || summary.Orders != 3 || summary.OrderItems != 3 {
		t.Fatalf("summary expected 3/3/3, got %+v", summary)
	}
	// Apples appears twice but seeds one product.
	if summary.Products != 2 {
		t.Fatalf("expected 2 products, got %d", summary.Products)
	}

	db := config.GetDB()

	var customers []*models.Customer
	if err := db.WithContext(ctx).Find(&customers).Error; err != nil {
		t.Fatalf("read customers: %v", err)
	}
	for _, c := range customers {
		if !strings.HasPrefix(c.CustomerId, "CUST_") || len(c.CustomerId) != len("CUST_")+8 {
			t.Fatalf("customer id %q not CUST_ plus 8 chars", c.CustomerId)
		}
		if !strings.HasSuffix(c.Email, "@example.com") || c.Email != strings.ToLower(c.Email) {
			t.Fatalf("fabricated email %q wrong shape", c.Email)
		}
		if c.Phone == "" {
			t.Fatalf("customer %s has empty phone", c.CustomerId)
		}
	}

	var apples models.Product
	if err := db.WithContext(ctx).Where("product_id = ?", "PROD_apples").First(&apples).Error; err != nil {
		t.Fatalf("read product: %v", err)
	}
	if apples.Category != "Organic" || !apples.Price.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("apples product wrong: %+v", apples)
	}

	// Totals are recomputed from items: 3 Apples at 10 is 30.
	var orders []*models.Order
	if err := db.WithContext(ctx).Order("order_date").Find(&orders).Error; err != nil {
		t.Fatalf("read orders: %v", err)
	}
	if len(orders) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(orders))
	}
	if !orders[0].TotalAmount.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("first order total expected 30, got %s", orders[0].TotalAmount)
	}
	if got := orders[0].OrderDate.UTC().Format("2006-01-02"); got != "2024-03-10" {
		t.Fatalf("first order date expected 2024-03-10 (DD-MM-YYYY parsed), got %s", got)
	}
}

func TestLoadCustomerCSV_MissingColumn(t *testing.T) {
	setupIngestDB(t)
	csv := "First Name,Last Name,Street Address,Zip Code,City,State\nAlice,Smith,1 Main St,62701,Springfield,IL\n"

	_, err := models.LoadCustomerCSV(context.Background(), strings.NewReader(csv), models.IngestOptions{
		Variant: models.IngestVariantFarm,
	})
	if err == nil {
		t.Fatal("expected missing-column error")
	}
	if !utils.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Purchase Date") {
		t.Fatalf("error should name the missing column, got %q", err)
	}
}

func TestLoadCustomerCSV_BadQuantity(t *testing.T) {
	setupIngestDB(t)
	csv := farmCSV[:strings.Index(farmCSV, "\n")+1] +
		"Alice,Smith,1 Main St,62701,Springfield,IL,10-03-2024,Apples,many\n"

	_, err := models.LoadCustomerCSV(context.Background(), strings.NewReader(csv), models.IngestOptions{
		Variant: models.IngestVariantFarm,
	})
	if err == nil || !utils.IsValidationError(err) {
		t.Fatalf("expected validation error for bad quantity, got %v", err)
	}
}

func TestLoadCustomerCSV_Pizza(t *testing.T) {
	setupIngestDB(t)
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	// Pizza variant only needs the identity columns.
	csv := "First Name,Last Name,Street Address,Zip Code,City,State\n" +
		"Dan,Miller,4 Pine St,10001,New York,NY\n" +
		"Erin,Garcia,5 Cedar Ct,73301,Austin,TX\n"

	summary, err := models.LoadCustomerCSV(ctx, strings.NewReader(csv), models.IngestOptions{
		Variant: models.IngestVariantPizza,
		Rand:    rand.New(rand.NewSource(7)),
		Now:     now,
	})
	if err != nil {
		t.Fatalf("LoadCustomerCSV: %v", err)
	}
	if summary.Customers != 2 {
		t.Fatalf("expected 2 customers, got %d", summary.Customers)
	}
	if summary.Products != 10 || summary.Toppings != 8 {
		t.Fatalf("expected seeded catalog 10 products / 8 toppings, got %d/%d", summary.Products, summary.Toppings)
	}
	if summary.Orders < 2 || summary.Orders > 6 {
		t.Fatalf("expected 1-3 orders per customer, got %d total", summary.Orders)
	}

	db := config.GetDB()
	toppingPrices := map[string]decimal.Decimal{}
	var toppings []*models.Topping
	if err := db.WithContext(ctx).Find(&toppings).Error; err != nil {
		t.Fatalf("read toppings: %v", err)
	}
	for _, tp := range toppings {
		toppingPrices[tp.ToppingId] = tp.Price
	}

	var orders []*models.Order
	if err := db.WithContext(ctx).Where("customer_id IN (SELECT customer_id FROM customers WHERE city IN ('New York','Austin'))").
		Find(&orders).Error; err != nil {
		t.Fatalf("read orders: %v", err)
	}
	if len(orders) != summary.Orders {
		t.Fatalf("order count mismatch: summary %d, table %d", summary.Orders, len(orders))
	}

	for _, order := range orders {
		if order.OrderDate.After(now) || order.OrderDate.Before(now.AddDate(0, 0, -365)) {
			t.Fatalf("order %s dated %v outside the last year", order.OrderId, order.OrderDate)
		}

		var items []*models.OrderItem
		if err := db.WithContext(ctx).Where("order_id = ?", order.OrderId).Find(&items).Error; err != nil {
			t.Fatalf("read items for %s: %v", order.OrderId, err)
		}
		if len(items) < 1 || len(items) > 3 {
			t.Fatalf("order %s has %d items, want 1-3", order.OrderId, len(items))
		}

		// Stored total must equal the recomputed sum of its lines.
		want := decimal.Zero
		for _, item := range items {
			line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
			if item.Toppings != "" {
				for _, id := range strings.Split(item.Toppings, ",") {
					line = line.Add(toppingPrices[id])
				}
			}
			want = want.Add(line)
		}
		if !order.TotalAmount.Equal(want) {
			t.Fatalf("order %s total %s does not match recomputed %s", order.OrderId, order.TotalAmount, want)
		}
	}
}
