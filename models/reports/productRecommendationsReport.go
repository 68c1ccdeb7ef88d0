package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/shopspring/decimal"
)

type RecommendedProductResponse struct {
	ProductId   string          `json:"product_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
}

// GetCategoryRecommendations lists the catalog for one category.
func GetCategoryRecommendations(ctx context.Context, category string) ([]*RecommendedProductResponse, error) {
	sql := `
SELECT
    p.product_id,
    p.name,
    p.description,
    p.price,
    p.category
FROM
    products p
WHERE
    p.category = @category
ORDER BY p.name
`
	db := config.GetDB()
	var results []*RecommendedProductResponse
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"category": category,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetCustomerRecommendations suggests products from the categories the
// customer has bought from, minus products already purchased. Category
// co-occurrence only; the whole order history counts, no date window.
func GetCustomerRecommendations(ctx context.Context, customerId string) ([]*RecommendedProductResponse, error) {
	sql := `
SELECT
    p.product_id,
    p.name,
    p.description,
    p.price,
    p.category
FROM
    products p
WHERE
    p.category IN (SELECT DISTINCT
            p2.category
        FROM
            products p2
                JOIN
            order_items oi ON p2.product_id = oi.product_id
                JOIN
            orders o ON oi.order_id = o.order_id
        WHERE
            o.customer_id = @customerId)
        AND p.product_id NOT IN (SELECT
            oi2.product_id
        FROM
            order_items oi2
                JOIN
            orders o2 ON oi2.order_id = o2.order_id
        WHERE
            o2.customer_id = @customerId)
ORDER BY p.category , p.name
`
	db := config.GetDB()
	var results []*RecommendedProductResponse
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"customerId": customerId,
	}).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
