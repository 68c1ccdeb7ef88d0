package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
	"github.com/shopspring/decimal"
)

const DefaultTrendDays = 30

type SalesTrendResponse struct {
	Date    models.DateTime `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// GetSalesTrends sums stored order totals per calendar day, ascending.
// An explicit range start takes precedence over the lookback window; with
// neither, the window defaults to the last `days` days (30 when days<=0).
// The cutoff is computed here and bound as a parameter so the same filter
// fragment serves both drivers.
func GetSalesTrends(ctx context.Context, dateRange DateRange, days int) ([]*SalesTrendResponse, error) {
	if dateRange.Start == nil {
		if days <= 0 {
			days = DefaultTrendDays
		}
		cutoff := models.DateString(time.Now().UTC().AddDate(0, 0, -days))
		dateRange.Start = &cutoff
	}

	sqlT := `
SELECT
    DATE(o.order_date) AS date,
    SUM(o.total_amount) AS revenue
FROM
    orders o
WHERE
    1 = 1` + orderDateFilter + `
GROUP BY DATE(o.order_date)
ORDER BY date
`
	sql, err := utils.ExecTemplate(sqlT, dateRange.templateData())
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*SalesTrendResponse
	if err := db.WithContext(ctx).Raw(sql, rawArgs(dateRange.bindParams(nil))...).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
