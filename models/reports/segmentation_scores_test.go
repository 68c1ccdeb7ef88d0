package reports

import (
	"testing"
	"time"

	"github.com/mmdatafocus/farm_backend/models"
	"github.com/shopspring/decimal"
)

func dateTimePtr(t time.Time) *models.DateTime {
	d := models.DateTime(t)
	return &d
}

func TestScoreRecency(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		daysAgo  int
		expected int
	}{
		{10, 5},
		{30, 5},
		{31, 4},
		{90, 4},
		{91, 3},
		{180, 3},
		{181, 2},
		{365, 2},
		{366, 1},
		{1000, 1},
	}
	for _, tc := range cases {
		last := dateTimePtr(asOf.AddDate(0, 0, -tc.daysAgo))
		if got := scoreRecency(asOf, last); got != tc.expected {
			t.Fatalf("scoreRecency(%d days ago) expected %d, got %d", tc.daysAgo, tc.expected, got)
		}
	}
	if got := scoreRecency(asOf, nil); got != 1 {
		t.Fatalf("scoreRecency(never ordered) expected 1, got %d", got)
	}
}

func TestScoreFrequency(t *testing.T) {
	cases := []struct{ orders, expected int }{
		{0, 1}, {1, 2}, {2, 3}, {3, 3}, {4, 4}, {5, 4}, {6, 5}, {50, 5},
	}
	for _, tc := range cases {
		if got := scoreFrequency(tc.orders); got != tc.expected {
			t.Fatalf("scoreFrequency(%d) expected %d, got %d", tc.orders, tc.expected, got)
		}
	}
}

func TestScoreMonetary(t *testing.T) {
	cases := []struct {
		spent    string
		expected int
	}{
		{"0", 1}, {"0.01", 2}, {"99.99", 2}, {"100", 3}, {"499.99", 3}, {"500", 4}, {"999.99", 4}, {"1000", 5}, {"25000", 5},
	}
	for _, tc := range cases {
		if got := scoreMonetary(decimal.RequireFromString(tc.spent)); got != tc.expected {
			t.Fatalf("scoreMonetary(%s) expected %d, got %d", tc.spent, tc.expected, got)
		}
	}
}

func TestSegmentForScore_Boundaries(t *testing.T) {
	cases := []struct {
		score    int
		expected CustomerSegment
	}{
		{15, SegmentChampions},
		{13, SegmentChampions},
		{12, SegmentLoyal},
		{10, SegmentLoyal},
		{9, SegmentAtRisk},
		{7, SegmentAtRisk},
		{6, SegmentLost},
		{3, SegmentLost},
	}
	for _, tc := range cases {
		if got := SegmentForScore(tc.score); got != tc.expected {
			t.Fatalf("SegmentForScore(%d) expected %s, got %s", tc.score, tc.expected, got)
		}
	}
}

func TestBuildSegmentation(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []*CustomerAggregateResponse{
		{
			CustomerId:    "CUST_whale",
			TotalOrders:   8,
			TotalSpent:    decimal.NewFromInt(2000),
			LastOrderDate: dateTimePtr(asOf.AddDate(0, 0, -5)),
		},
		{
			CustomerId:  "CUST_ghost",
			TotalOrders: 0,
			TotalSpent:  decimal.Zero,
		},
	}

	report := BuildSegmentation(rows, asOf)
	if len(report.Customers) != 2 {
		t.Fatalf("expected 2 segmented customers, got %d", len(report.Customers))
	}

	whale := report.Customers[0]
	if whale.RecencyScore != 5 || whale.FrequencyScore != 5 || whale.MonetaryScore != 5 {
		t.Fatalf("whale scores expected 5/5/5, got %d/%d/%d", whale.RecencyScore, whale.FrequencyScore, whale.MonetaryScore)
	}
	if whale.RfmScore != 15 || whale.Segment != SegmentChampions {
		t.Fatalf("whale expected rfm 15 Champions, got %d %s", whale.RfmScore, whale.Segment)
	}

	ghost := report.Customers[1]
	if ghost.RfmScore != 3 || ghost.Segment != SegmentLost {
		t.Fatalf("ghost expected rfm 3 Lost, got %d %s", ghost.RfmScore, ghost.Segment)
	}

	// Summary covers each observed segment exactly once.
	bySegment := map[CustomerSegment]*SegmentSummaryResponse{}
	for _, s := range report.Summary {
		bySegment[s.Segment] = s
	}
	champ := bySegment[SegmentChampions]
	if champ == nil || champ.Count != 1 || !champ.AvgSpent.Equal(decimal.NewFromInt(2000)) || champ.AvgOrders != 8 {
		t.Fatalf("champions summary wrong: %+v", champ)
	}
	lost := bySegment[SegmentLost]
	if lost == nil || lost.Count != 1 {
		t.Fatalf("lost summary wrong: %+v", lost)
	}
}

func TestBuildSegmentation_Deterministic(t *testing.T) {
	asOf := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	rows := []*CustomerAggregateResponse{
		{
			CustomerId:    "CUST_x",
			TotalOrders:   3,
			TotalSpent:    decimal.NewFromInt(250),
			LastOrderDate: dateTimePtr(asOf.AddDate(0, 0, -45)),
		},
	}
	first := BuildSegmentation(rows, asOf)
	second := BuildSegmentation(rows, asOf)
	if first.Customers[0].RfmScore != second.Customers[0].RfmScore ||
		first.Customers[0].Segment != second.Customers[0].Segment {
		t.Fatal("same rows and clock must produce identical segmentation")
	}
}
