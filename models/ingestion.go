package models

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/ttacon/libphonenumber"
	"gorm.io/gorm"
)

type IngestVariant string

const (
	IngestVariantFarm  IngestVariant = "farm"
	IngestVariantPizza IngestVariant = "pizza"
)

type IngestOptions struct {
	Variant IngestVariant
	// Rand drives every fabricated value (CUST_/ORD_ ids, phones, pizza
	// order history) so a seeded source reproduces an identical load.
	Rand *rand.Rand
	// Now anchors synthetic pizza order dates.
	Now   time.Time
	Retry utils.RetryConfig
}

type IngestSummary struct {
	Customers  int `json:"customers"`
	Products   int `json:"products"`
	Toppings   int `json:"toppings"`
	Orders     int `json:"orders"`
	OrderItems int `json:"order_items"`
}

// Column headers expected in the source CSV. The farm variant derives an
// order per row from the purchase columns; the pizza variant only reads
// the identity columns and synthesizes order history.
var (
	ingestIdentityColumns = []string{"First Name", "Last Name", "Street Address", "Zip Code", "City", "State"}
	ingestPurchaseColumns = []string{"Purchase Date", "Purchase Item", "Purchase Quantity"}
)

type ingestRow struct {
	firstName, lastName, address, zipCode, city, state string
	purchaseDate, purchaseItem                         string
	purchaseQuantity                                   int
}

// LoadCustomerCSV bulk-loads a customer CSV: fabricates customer
// identities, seeds the product (and topping) catalog, creates order
// history, and back-fills each order's total from its items before
// commit. The whole load is one transaction inside a bounded lock-retry
// loop; when redis is configured a distributed lock keeps concurrent
// ingestions out of each other's way.
func LoadCustomerCSV(ctx context.Context, r io.Reader, opts IngestOptions) (*IngestSummary, error) {
	if opts.Variant == "" {
		opts.Variant = IngestVariantFarm
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().UTC()
	}
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = utils.DefaultRetryConfig()
	}

	rows, err := readIngestCSV(r, opts.Variant)
	if err != nil {
		return nil, err
	}

	if locker := config.GetRedisLock(); locker != nil {
		lock, lockErr := locker.Obtain(ctx, "lock:ingest_customers", 5*time.Minute, nil)
		if lockErr == redislock.ErrNotObtained {
			return nil, fmt.Errorf("another ingestion is already running")
		}
		if lockErr == nil {
			defer lock.Release(context.Background())
		}
	}

	customers := buildCustomers(rows, opts.Rand)

	var products []*Product
	var toppings []*Topping
	var orders []*Order
	var items []*OrderItem
	orderTotals := map[string]decimal.Decimal{}

	switch opts.Variant {
	case IngestVariantPizza:
		products = pizzaProducts()
		toppings = pizzaToppings()
		orders, items = buildPizzaOrders(customers, products, toppings, orderTotals, opts)
	default:
		products = farmProducts(rows)
		orders, items, err = buildFarmOrders(customers, rows, orderTotals, opts.Rand)
		if err != nil {
			return nil, err
		}
	}

	db := config.GetDB()
	err = utils.WithLockRetry(ctx, "load customer data", opts.Retry, func() error {
		return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.CreateInBatches(customers, 200).Error; err != nil {
				return err
			}
			if len(products) > 0 {
				if err := tx.CreateInBatches(products, 200).Error; err != nil {
					return err
				}
			}
			if len(toppings) > 0 {
				if err := tx.CreateInBatches(toppings, 200).Error; err != nil {
					return err
				}
			}
			if err := tx.CreateInBatches(orders, 200).Error; err != nil {
				return err
			}
			if err := tx.CreateInBatches(items, 200).Error; err != nil {
				return err
			}
			// Back-fill each order's total from its inserted items.
			for orderId, total := range orderTotals {
				if err := tx.Model(&Order{}).Where("order_id = ?", orderId).
					Update("total_amount", total).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		config.LogError(config.GetLogger(), "ingestion.go", "LoadCustomerCSV", "WithLockRetry", string(opts.Variant), err)
		return nil, err
	}

	// The load changed every aggregate; drop cached report entries
	// rather than serving stale ones until their TTL runs out.
	if cerr := config.RemoveRedisKeysByPattern("report:*"); cerr != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"module": "ingestion.go",
		}).Warn("report cache invalidation failed: " + cerr.Error())
	}

	summary := &IngestSummary{
		Customers:  len(customers),
		Products:   len(products),
		Toppings:   len(toppings),
		Orders:     len(orders),
		OrderItems: len(items),
	}
	config.GetLogger().WithFields(logrus.Fields{
		"module":    "ingestion.go",
		"variant":   opts.Variant,
		"customers": summary.Customers,
		"orders":    summary.Orders,
		"items":     summary.OrderItems,
	}).Info("customer csv loaded")
	return summary, nil
}

func readIngestCSV(r io.Reader, variant IngestVariant) ([]*ingestRow, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, utils.ValidationError("csv is empty or unreadable: " + fmt.Sprint(err))
	}

	index := map[string]int{}
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}

	required := ingestIdentityColumns
	if variant == IngestVariantFarm {
		required = append(append([]string{}, ingestIdentityColumns...), ingestPurchaseColumns...)
	}
	for _, col := range required {
		if _, ok := index[col]; !ok {
			return nil, utils.ValidationError(fmt.Sprintf("missing required column %q", col))
		}
	}

	at := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []*ingestRow
	line := 1
	for {
		record, rerr := reader.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
		line++

		row := &ingestRow{
			firstName: at(record, "First Name"),
			lastName:  at(record, "Last Name"),
			address:   at(record, "Street Address"),
			zipCode:   at(record, "Zip Code"),
			city:      at(record, "City"),
			state:     at(record, "State"),
		}
		if variant == IngestVariantFarm {
			row.purchaseDate = at(record, "Purchase Date")
			row.purchaseItem = at(record, "Purchase Item")
			qty, qerr := strconv.Atoi(at(record, "Purchase Quantity"))
			if qerr != nil {
				return nil, utils.ValidationError(fmt.Sprintf("line %d: invalid Purchase Quantity %q", line, at(record, "Purchase Quantity")))
			}
			row.purchaseQuantity = qty
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func buildCustomers(rows []*ingestRow, rng *rand.Rand) []*Customer {
	customers := make([]*Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, &Customer{
			CustomerId: "CUST_" + shortId(rng),
			FirstName:  row.firstName,
			LastName:   row.lastName,
			Email:      strings.ToLower(row.firstName) + "." + strings.ToLower(row.lastName) + "@example.com",
			Phone:      fabricatePhone(rng),
			Address:    row.address,
			City:       row.city,
			State:      row.state,
			ZipCode:    row.zipCode,
		})
	}
	return customers
}

// shortId draws 8 hex chars from the injected source so a fixed seed
// reproduces the same CUST_/ORD_ ids on a fresh database.
func shortId(rng *rand.Rand) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 8)
	for i := range b {
		b[i] = hexDigits[rng.Intn(len(hexDigits))]
	}
	return string(b)
}

// fabricatePhone generates a +1-555 number and normalizes it to E.164
// when it parses as a plausible US number; otherwise the raw form is
// kept as-is.
func fabricatePhone(rng *rand.Rand) string {
	raw := fmt.Sprintf("+1-555-%d-%d", 100+rng.Intn(900), 1000+rng.Intn(9000))
	num, err := libphonenumber.Parse(raw, "US")
	if err != nil {
		return raw
	}
	if !libphonenumber.IsPossibleNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}

func farmProducts(rows []*ingestRow) []*Product {
	seen := map[string]bool{}
	var products []*Product
	for _, row := range rows {
		if row.purchaseItem == "" || seen[row.purchaseItem] {
			continue
		}
		seen[row.purchaseItem] = true
		products = append(products, &Product{
			ProductId:   farmProductId(row.purchaseItem),
			Name:        row.purchaseItem,
			Description: "Organic " + row.purchaseItem,
			Price:       decimal.NewFromInt(10),
			Category:    "Organic",
		})
	}
	return products
}

func farmProductId(item string) string {
	return "PROD_" + strings.ReplaceAll(strings.ToLower(item), " ", "_")
}

// buildFarmOrders derives one completed order per CSV row. The order
// total is recomputed from the item line rather than copied from the
// sheet, so stored totals always match quantity * unit_price.
func buildFarmOrders(customers []*Customer, rows []*ingestRow, orderTotals map[string]decimal.Decimal, rng *rand.Rand) ([]*Order, []*OrderItem, error) {
	unitPrice := decimal.NewFromInt(10)
	var orders []*Order
	var items []*OrderItem
	for i, row := range rows {
		orderDate, err := time.Parse("02-01-2006", row.purchaseDate)
		if err != nil {
			return nil, nil, utils.ValidationError(fmt.Sprintf("invalid Purchase Date %q, expected DD-MM-YYYY", row.purchaseDate))
		}
		orderId := "ORD_" + shortId(rng)
		orders = append(orders, &Order{
			OrderId:    orderId,
			CustomerId: customers[i].CustomerId,
			OrderDate:  orderDate.UTC(),
			Status:     OrderStatusCompleted,
		})
		items = append(items, &OrderItem{
			OrderId:   orderId,
			ProductId: farmProductId(row.purchaseItem),
			Quantity:  row.purchaseQuantity,
			UnitPrice: unitPrice,
		})
		orderTotals[orderId] = unitPrice.Mul(decimal.NewFromInt(int64(row.purchaseQuantity)))
	}
	return orders, items, nil
}

func pizzaProducts() []*Product {
	type p struct {
		id, name, desc string
		price          float64
		category, size string
	}
	catalog := []p{
		{"P001", "Margherita", "Classic tomato and mozzarella", 10.99, "Pizza", "Medium"},
		{"P002", "Pepperoni", "Classic pepperoni pizza", 12.99, "Pizza", "Medium"},
		{"P003", "Vegetarian", "Mixed vegetable pizza", 11.99, "Pizza", "Medium"},
		{"P004", "Hawaiian", "Ham and pineapple pizza", 13.99, "Pizza", "Medium"},
		{"P005", "BBQ Chicken", "BBQ sauce and chicken pizza", 14.99, "Pizza", "Medium"},
		{"D001", "Garlic Bread", "Fresh baked garlic bread", 4.99, "Side", "Regular"},
		{"D002", "Caesar Salad", "Fresh Caesar salad", 6.99, "Side", "Regular"},
		{"D003", "Chicken Wings", "Spicy chicken wings", 8.99, "Side", "Regular"},
		{"B001", "Coke", "Regular Coke", 2.99, "Beverage", "Regular"},
		{"B002", "Sprite", "Regular Sprite", 2.99, "Beverage", "Regular"},
	}
	products := make([]*Product, 0, len(catalog))
	for _, c := range catalog {
		products = append(products, &Product{
			ProductId:   c.id,
			Name:        c.name,
			Description: c.desc,
			Price:       decimal.NewFromFloat(c.price),
			Category:    c.category,
			Size:        c.size,
		})
	}
	return products
}

func pizzaToppings() []*Topping {
	type t struct {
		id, name string
		price    float64
		category string
	}
	catalog := []t{
		{"T001", "Extra Cheese", 1.99, "Cheese"},
		{"T002", "Pepperoni", 1.99, "Meat"},
		{"T003", "Mushrooms", 1.49, "Vegetable"},
		{"T004", "Onions", 1.49, "Vegetable"},
		{"T005", "Sausage", 1.99, "Meat"},
		{"T006", "Bell Peppers", 1.49, "Vegetable"},
		{"T007", "Olives", 1.49, "Vegetable"},
		{"T008", "Bacon", 1.99, "Meat"},
	}
	toppings := make([]*Topping, 0, len(catalog))
	for _, c := range catalog {
		toppings = append(toppings, &Topping{
			ToppingId: c.id,
			Name:      c.name,
			Price:     decimal.NewFromFloat(c.price),
			Category:  c.category,
		})
	}
	return toppings
}

var (
	pizzaPaymentMethods = []PaymentMethod{PaymentMethodCreditCard, PaymentMethodCash, PaymentMethodDebitCard}
	pizzaDeliveryTypes  = []DeliveryType{DeliveryTypeDelivery, DeliveryTypePickup}
)

// buildPizzaOrders synthesizes 1-3 orders per customer spread over the
// last year, each with 1-3 item lines and 0-3 toppings per line. The
// order total is the sum of its lines (quantity * unit_price plus the
// line's topping prices).
func buildPizzaOrders(customers []*Customer, products []*Product, toppings []*Topping, orderTotals map[string]decimal.Decimal, opts IngestOptions) ([]*Order, []*OrderItem) {
	rng := opts.Rand
	var orders []*Order
	var items []*OrderItem

	for _, customer := range customers {
		numOrders := 1 + rng.Intn(3)
		for o := 0; o < numOrders; o++ {
			orderId := "ORD_" + shortId(rng)
			orderDate := opts.Now.AddDate(0, 0, -rng.Intn(365))

			orders = append(orders, &Order{
				OrderId:       orderId,
				CustomerId:    customer.CustomerId,
				OrderDate:     orderDate,
				Status:        OrderStatusCompleted,
				PaymentMethod: pizzaPaymentMethods[rng.Intn(len(pizzaPaymentMethods))],
				DeliveryType:  pizzaDeliveryTypes[rng.Intn(len(pizzaDeliveryTypes))],
			})

			total := decimal.Zero
			numItems := 1 + rng.Intn(3)
			for i := 0; i < numItems; i++ {
				product := products[rng.Intn(len(products))]
				quantity := 1 + rng.Intn(2)
				selected := pickToppings(rng, toppings)

				lineTotal := product.Price.Mul(decimal.NewFromInt(int64(quantity)))
				ids := make([]string, 0, len(selected))
				for _, t := range selected {
					ids = append(ids, t.ToppingId)
					lineTotal = lineTotal.Add(t.Price)
				}
				total = total.Add(lineTotal)

				items = append(items, &OrderItem{
					OrderId:   orderId,
					ProductId: product.ProductId,
					Quantity:  quantity,
					UnitPrice: product.Price,
					Toppings:  strings.Join(ids, ","),
				})
			}
			orderTotals[orderId] = total
		}
	}
	return orders, items
}

func pickToppings(rng *rand.Rand, toppings []*Topping) []*Topping {
	n := rng.Intn(4)
	if n == 0 {
		return nil
	}
	perm := rng.Perm(len(toppings))
	selected := make([]*Topping, 0, n)
	for _, idx := range perm[:n] {
		selected = append(selected, toppings[idx])
	}
	return selected
}
