package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

type TopCustomerResponse struct {
	CustomerId    string           `json:"customer_id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	TotalOrders   int              `json:"total_orders"`
	TotalSpent    decimal.Decimal  `json:"total_spent"`
	LastOrderDate *models.DateTime `json:"last_order_date,omitempty"`
}

// GetTopCustomers ranks customers by in-range spend. The date filter sits
// in the join condition, so customers with no orders in range still rank
// (at zero) rather than vanish.
func GetTopCustomers(ctx context.Context, dateRange DateRange, limit int) ([]*TopCustomerResponse, error) {
	sqlT := `
SELECT
    c.customer_id,
    c.first_name,
    c.last_name,
    COUNT(o.order_id) AS total_orders,
    COALESCE(SUM(o.total_amount), 0) AS total_spent,
    MAX(o.order_date) AS last_order_date
FROM
    customers c
        LEFT JOIN
    orders o ON c.customer_id = o.customer_id` + orderDateFilter + `
GROUP BY c.customer_id , c.first_name , c.last_name
ORDER BY total_spent DESC
LIMIT @limit
`
	if limit <= 0 {
		limit = config.DefaultTopCustomersLimit
	}

	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*TopCustomerResponse
	if err := db.WithContext(ctx).Raw(sql, dateRange.bindParams(map[string]interface{}{
		"limit": limit,
	})).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
