package reports

import (
	"context"

	"github.com/mmdatafocus/farm_backend/config"
	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/utils"
)

var searchFieldClauses = map[models.SearchField]string{
	models.SearchFieldName:    "(first_name LIKE @pattern OR last_name LIKE @pattern)",
	models.SearchFieldEmail:   "email LIKE @pattern",
	models.SearchFieldPhone:   "phone LIKE @pattern",
	models.SearchFieldAddress: "address LIKE @pattern",
	models.SearchFieldCity:    "city LIKE @pattern",
	models.SearchFieldState:   "state LIKE @pattern",
}

const searchAllFieldsClause = `first_name LIKE @pattern
        OR last_name LIKE @pattern
        OR email LIKE @pattern
        OR phone LIKE @pattern
        OR address LIKE @pattern
        OR city LIKE @pattern
        OR state LIKE @pattern`

// SearchCustomers matches term as a substring (wildcard-wrapped on both
// sides) against one field group, or against all seven text columns when
// searchField is nil. An unknown field is rejected before any query runs.
// Case sensitivity follows the store's LIKE collation.
func SearchCustomers(ctx context.Context, searchTerm string, searchField *models.SearchField) ([]*models.Customer, error) {
	clause := searchAllFieldsClause
	if searchField != nil {
		fieldClause, ok := searchFieldClauses[*searchField]
		if !ok {
			return nil, utils.ValidationError("invalid search field: must be one of Name, Email, Phone, Address, City, State")
		}
		clause = fieldClause
	}

	sql := `
SELECT
    *
FROM
    customers
WHERE
    ` + clause + `
ORDER BY last_name , first_name
`
	db := config.GetDB()
	var results []*models.Customer
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"pattern": "%" + searchTerm + "%",
	}).Scan(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}
