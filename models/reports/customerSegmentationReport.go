package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/farm_backend/models"
	"github.com/shopspring/decimal"
)

type CustomerSegment string

const (
	SegmentChampions CustomerSegment = "Champions"
	SegmentLoyal     CustomerSegment = "Loyal Customers"
	SegmentAtRisk    CustomerSegment = "At Risk"
	SegmentLost      CustomerSegment = "Lost"
)

// segmentThresholds are evaluated high to low, first match wins, so a
// score sitting exactly on a boundary always takes the higher label.
var segmentThresholds = []struct {
	minScore int
	segment  CustomerSegment
}{
	{13, SegmentChampions},
	{10, SegmentLoyal},
	{7, SegmentAtRisk},
}

type SegmentedCustomerResponse struct {
	*CustomerAggregateResponse
	RecencyScore   int             `json:"recency_score"`
	FrequencyScore int             `json:"frequency_score"`
	MonetaryScore  int             `json:"monetary_score"`
	RfmScore       int             `json:"rfm_score"`
	Segment        CustomerSegment `json:"segment"`
}

type SegmentSummaryResponse struct {
	Segment   CustomerSegment `json:"segment"`
	Count     int             `json:"count"`
	AvgSpent  decimal.Decimal `json:"avg_spent"`
	AvgOrders float64         `json:"avg_orders"`
}

type SegmentationReport struct {
	Customers []*SegmentedCustomerResponse `json:"customers"`
	Summary   []*SegmentSummaryResponse    `json:"summary"`
}

// GetCustomerSegmentation scores every customer on recency, frequency
// and monetary value and labels a segment per score band.
func GetCustomerSegmentation(ctx context.Context, dateRange DateRange) (*SegmentationReport, error) {
	customers, err := GetAllCustomers(ctx, dateRange)
	if err != nil {
		return nil, err
	}
	return BuildSegmentation(customers, time.Now().UTC()), nil
}

// BuildSegmentation is pure: the same rows and asOf clock always produce
// the same report.
func BuildSegmentation(customers []*CustomerAggregateResponse, asOf time.Time) *SegmentationReport {
	report := &SegmentationReport{
		Customers: make([]*SegmentedCustomerResponse, 0, len(customers)),
	}

	type segmentAccum struct {
		count  int
		spent  decimal.Decimal
		orders int
	}
	accums := map[CustomerSegment]*segmentAccum{}

	for _, c := range customers {
		recency := scoreRecency(asOf, c.LastOrderDate)
		frequency := scoreFrequency(c.TotalOrders)
		monetary := scoreMonetary(c.TotalSpent)
		rfm := recency + frequency + monetary

		row := &SegmentedCustomerResponse{
			CustomerAggregateResponse: c,
			RecencyScore:              recency,
			FrequencyScore:            frequency,
			MonetaryScore:             monetary,
			RfmScore:                  rfm,
			Segment:                   SegmentForScore(rfm),
		}
		report.Customers = append(report.Customers, row)

		acc := accums[row.Segment]
		if acc == nil {
			acc = &segmentAccum{}
			accums[row.Segment] = acc
		}
		acc.count++
		acc.spent = acc.spent.Add(c.TotalSpent)
		acc.orders += c.TotalOrders
	}

	for _, segment := range []CustomerSegment{SegmentChampions, SegmentLoyal, SegmentAtRisk, SegmentLost} {
		acc := accums[segment]
		if acc == nil {
			continue
		}
		count := decimal.NewFromInt(int64(acc.count))
		report.Summary = append(report.Summary, &SegmentSummaryResponse{
			Segment:   segment,
			Count:     acc.count,
			AvgSpent:  acc.spent.Div(count).Round(4),
			AvgOrders: float64(acc.orders) / float64(acc.count),
		})
	}

	return report
}

// scoreRecency buckets days since the last order; never having ordered,
// or more than a year ago, is the worst bucket.
func scoreRecency(asOf time.Time, lastOrderDate *models.DateTime) int {
	if lastOrderDate == nil {
		return 1
	}
	days := int(asOf.Sub(lastOrderDate.Time()) / (24 * time.Hour))
	switch {
	case days > 365:
		return 1
	case days > 180:
		return 2
	case days > 90:
		return 3
	case days > 30:
		return 4
	default:
		return 5
	}
}

func scoreFrequency(totalOrders int) int {
	switch {
	case totalOrders <= 0:
		return 1
	case totalOrders == 1:
		return 2
	case totalOrders <= 3:
		return 3
	case totalOrders <= 5:
		return 4
	default:
		return 5
	}
}

func scoreMonetary(totalSpent decimal.Decimal) int {
	switch {
	case totalSpent.LessThanOrEqual(decimal.Zero):
		return 1
	case totalSpent.LessThan(decimal.NewFromInt(100)):
		return 2
	case totalSpent.LessThan(decimal.NewFromInt(500)):
		return 3
	case totalSpent.LessThan(decimal.NewFromInt(1000)):
		return 4
	default:
		return 5
	}
}

func SegmentForScore(rfmScore int) CustomerSegment {
	for _, t := range segmentThresholds {
		if rfmScore >= t.minScore {
			return t.segment
		}
	}
	return SegmentLost
}
