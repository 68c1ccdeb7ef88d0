package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

type ProductSalesResponse struct {
	ProductId     string          `json:"product_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	TimesOrdered  int             `json:"times_ordered"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

// GetProductSales aggregates revenue per product from the item lines
// (quantity * captured unit_price), not from orders.total_amount, which
// is a historical field the read path does not trust.
func GetProductSales(ctx context.Context, dateRange DateRange) ([]*ProductSalesResponse, error) {
	sqlT := `
SELECT
    p.product_id,
    p.name,
    p.category,
    COUNT(DISTINCT o.order_id) AS times_ordered,
    SUM(oi.quantity) AS total_quantity,
    SUM(oi.quantity * oi.unit_price) AS total_revenue
FROM
    products p
        JOIN
    order_items oi ON p.product_id = oi.product_id
        JOIN
    orders o ON oi.order_id = o.order_id
WHERE
    1 = 1` + orderDateFilter + `
GROUP BY p.product_id , p.name , p.category
ORDER BY total_revenue DESC
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	cacheKey := "report:product_sales:" + dateRange.cacheKey()
	var results []*ProductSalesResponse
	if ok, _ := cacheGet(cacheKey, &results); ok {
		return results, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, rawArgs(dateRange.bindParams(nil))...).Scan(&results).Error; err != nil {
		return nil, err
	}

	_ = cacheSet(cacheKey, results, reportCacheTTL())
	return results, nil
}
