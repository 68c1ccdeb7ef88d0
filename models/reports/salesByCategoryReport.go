package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

type SalesByCategoryResponse struct {
	Category      string          `json:"category"`
	TotalOrders   int             `json:"total_orders"`
	TotalQuantity int             `json:"total_quantity"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
}

func GetSalesByCategory(ctx context.Context, dateRange DateRange) ([]*SalesByCategoryResponse, error) {
	sqlT := `
SELECT
    p.category,
    COUNT(DISTINCT o.order_id) AS total_orders,
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
GROUP BY p.category
ORDER BY total_revenue DESC
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	cacheKey := "report:sales_by_category:" + dateRange.cacheKey()
	var results []*SalesByCategoryResponse
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
