package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteCustomerAggregatesXlsx streams the all-customers aggregate view as
// a spreadsheet, one row per customer.
func WriteCustomerAggregatesXlsx(w io.Writer, rows []*CustomerAggregateResponse) error {
	f := excelize.NewFile()
	_, err := f.NewSheet("Sheet1")
	if err != nil {
		return err
	}

	// Add headers
	f.SetCellValue("Sheet1", "A1", "CustomerId")
	f.SetCellValue("Sheet1", "B1", "FirstName")
	f.SetCellValue("Sheet1", "C1", "LastName")
	f.SetCellValue("Sheet1", "D1", "Email")
	f.SetCellValue("Sheet1", "E1", "City")
	f.SetCellValue("Sheet1", "F1", "State")
	f.SetCellValue("Sheet1", "G1", "TotalOrders")
	f.SetCellValue("Sheet1", "H1", "TotalSpent")
	f.SetCellValue("Sheet1", "I1", "LastOrderDate")

	// Add data
	for i, r := range rows {
		lastOrder := ""
		if r.LastOrderDate != nil {
			lastOrder = r.LastOrderDate.Time().UTC().Format(time.DateTime)
		}
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(i+2), r.CustomerId)
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(i+2), r.FirstName)
		f.SetCellValue("Sheet1", "C"+fmt.Sprint(i+2), r.LastName)
		f.SetCellValue("Sheet1", "D"+fmt.Sprint(i+2), r.Email)
		f.SetCellValue("Sheet1", "E"+fmt.Sprint(i+2), r.City)
		f.SetCellValue("Sheet1", "F"+fmt.Sprint(i+2), r.State)
		f.SetCellValue("Sheet1", "G"+fmt.Sprint(i+2), r.TotalOrders)
		f.SetCellValue("Sheet1", "H"+fmt.Sprint(i+2), r.TotalSpent.String())
		f.SetCellValue("Sheet1", "I"+fmt.Sprint(i+2), lastOrder)
	}

	return f.Write(w)
}

// WriteProductSalesXlsx exports the product performance report.
func WriteProductSalesXlsx(w io.Writer, rows []*ProductSalesResponse) error {
	f := excelize.NewFile()
	_, err := f.NewSheet("Sheet1")
	if err != nil {
		return err
	}

	f.SetCellValue("Sheet1", "A1", "ProductId")
	f.SetCellValue("Sheet1", "B1", "Name")
	f.SetCellValue("Sheet1", "C1", "Category")
	f.SetCellValue("Sheet1", "D1", "TimesOrdered")
	f.SetCellValue("Sheet1", "E1", "TotalQuantity")
	f.SetCellValue("Sheet1", "F1", "TotalRevenue")

	for i, r := range rows {
		f.SetCellValue("Sheet1", "A"+fmt.Sprint(i+2), r.ProductId)
		f.SetCellValue("Sheet1", "B"+fmt.Sprint(i+2), r.Name)
		f.SetCellValue("Sheet1", "C"+fmt.Sprint(i+2), r.Category)
		f.SetCellValue("Sheet1", "D"+fmt.Sprint(i+2), r.TimesOrdered)
		f.SetCellValue("Sheet1", "E"+fmt.Sprint(i+2), r.TotalQuantity)
		f.SetCellValue("Sheet1", "F"+fmt.Sprint(i+2), r.TotalRevenue.String())
	}

	return f.Write(w)
}
