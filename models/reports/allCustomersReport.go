package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

type CustomerAggregateResponse struct {
	CustomerId    string           `json:"customer_id"`
	FirstName     string           `json:"first_name"`
	LastName      string           `json:"last_name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	State         string           `json:"state"`
	ZipCode       string           `json:"zip_code"`
	TotalOrders   int              `json:"total_orders"`
	TotalSpent    decimal.Decimal  `json:"total_spent"`
	LastOrderDate *models.DateTime `json:"last_order_date,omitempty"`
}

// GetAllCustomers returns every customer with derived order aggregates.
// The aggregates are computed fresh on each call from the orders table,
// never stored, so they cannot drift from the source rows. This result
// set feeds segmentation.
func GetAllCustomers(ctx context.Context, dateRange DateRange) ([]*CustomerAggregateResponse, error) {
	started := time.Now()
	sqlT := `
SELECT
    c.customer_id,
    c.first_name,
    c.last_name,
    c.email,
    c.phone,
    c.address,
    c.city,
    c.state,
    c.zip_code,
    COUNT(o.order_id) AS total_orders,
    COALESCE(SUM(o.total_amount), 0) AS total_spent,
    MAX(o.order_date) AS last_order_date
FROM
    customers c
        LEFT JOIN
    orders o ON c.customer_id = o.customer_id` + orderDateFilter + `
GROUP BY c.customer_id , c.first_name , c.last_name , c.email , c.phone , c.address , c.city , c.state , c.zip_code
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*CustomerAggregateResponse
	if err := db.WithContext(ctx).Raw(sql, rawArgs(dateRange.bindParams(nil))...).Scan(&results).Error; err != nil {
		return nil, err
	}

	logSlowReport(ctx, "all_customers", started, map[string]any{"rows": len(results)})
	return results, nil
}
