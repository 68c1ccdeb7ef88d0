package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

// OrderLineResponse is one order item joined onto its order; an order
// with three items produces three rows.
type OrderLineResponse struct {
	OrderId       string          `json:"order_id"`
	CustomerId    string          `json:"customer_id"`
	OrderDate     models.DateTime `json:"order_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	DeliveryType  string          `json:"delivery_type"`
	ProductId     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Toppings      string          `json:"toppings,omitempty"`
}

func GetAllOrders(ctx context.Context, dateRange DateRange) ([]*OrderLineResponse, error) {
	sqlT := `
SELECT
    o.order_id,
    o.customer_id,
    o.order_date,
    o.total_amount,
    o.status,
    o.payment_method,
    o.delivery_type,
    oi.product_id,
    oi.quantity,
    oi.unit_price,
    oi.toppings
FROM
    orders o
        JOIN
    order_items oi ON o.order_id = oi.order_id
WHERE
    1 = 1` + orderDateFilter + `
ORDER BY o.order_date , o.order_id
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*OrderLineResponse
	if err := db.WithContext(ctx).Raw(sql, rawArgs(dateRange.bindParams(nil))...).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

type CustomerOrderResponse struct {
	OrderId     string          `json:"order_id"`
	OrderDate   models.DateTime `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      string          `json:"status"`
	ProductId   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Toppings    string          `json:"toppings,omitempty"`
}

// GetCustomerOrders lists one customer's order history, newest first. A
// customer with no orders yields an empty set, not an error.
func GetCustomerOrders(ctx context.Context, customerId string, dateRange DateRange) ([]*CustomerOrderResponse, error) {
	sqlT := `
SELECT
    o.order_id,
    o.order_date,
    o.total_amount,
    o.status,
    oi.product_id,
    p.name AS product_name,
    oi.quantity,
    oi.unit_price,
    oi.toppings
FROM
    orders o
        JOIN
    order_items oi ON o.order_id = oi.order_id
        JOIN
    products p ON oi.product_id = p.product_id
WHERE
    o.customer_id = @customerId` + orderDateFilter + `
ORDER BY o.order_date DESC
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*CustomerOrderResponse
	if err := db.WithContext(ctx).Raw(sql, dateRange.bindParams(map[string]interface{}{
		"customerId": customerId,
	})).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
