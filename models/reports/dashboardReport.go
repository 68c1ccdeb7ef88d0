package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

type DashboardSummaryResponse struct {
	TotalCustomers       int             `json:"total_customers"`
	TotalOrders          int             `json:"total_orders"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	AverageOrderValue    decimal.Decimal `json:"average_order_value"`
	AvgOrdersPerCustomer float64         `json:"avg_orders_per_customer"`
}

// GetDashboardSummary collects the headline metrics in one round trip.
// The customer count is deliberately unfiltered (customers exist
// regardless of the order window); order metrics honor the range.
func GetDashboardSummary(ctx context.Context, dateRange DateRange) (*DashboardSummaryResponse, error) {
	started := time.Now()
	sqlT := `
SELECT
    (SELECT COUNT(*) FROM customers) AS total_customers,
    COUNT(o.order_id) AS total_orders,
    COALESCE(SUM(o.total_amount), 0) AS total_revenue,
    COALESCE(AVG(o.total_amount), 0) AS average_order_value
FROM
    orders o
WHERE
    1 = 1` + orderDateFilter + `
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	cacheKey := "report:dashboard:" + dateRange.cacheKey()
	var result DashboardSummaryResponse
	if ok, _ := cacheGet(cacheKey, &result); ok {
		return &result, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, rawArgs(dateRange.bindParams(nil))...).Scan(&result).Error; err != nil {
		return nil, err
	}

	if result.TotalCustomers > 0 {
		result.AvgOrdersPerCustomer = float64(result.TotalOrders) / float64(result.TotalCustomers)
	}

	_ = cacheSet(cacheKey, &result, reportCacheTTL())
	logSlowReport(ctx, "dashboard", started, nil)
	return &result, nil
}
