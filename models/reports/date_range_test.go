package reports_test

import (
	"testing"
	"time"

	"github.com/mmdatafocus/farm_backend/models"
	"github.com/mmdatafocus/farm_backend/models/reports"
	"github.com/mmdatafocus/farm_backend/utils"
)

func TestParseDateRange_WidensToDayBoundaries(t *testing.T) {
	r, err := reports.ParseDateRange("2024-03-01", "2024-03-31", "")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if r.Start == nil || r.End == nil {
		t.Fatal("expected both bounds set")
	}
	start := time.Time(*r.Start)
	if start.Hour() != 0 || start.Minute() != 0 || start.Second() != 0 {
		t.Fatalf("start not widened to start of day: %v", start)
	}
	end := time.Time(*r.End)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end not widened to end of day: %v", end)
	}
	if !end.After(start) {
		t.Fatalf("expected end after start, got %v..%v", start, end)
	}
}

func TestParseDateRange_OpenEnded(t *testing.T) {
	r, err := reports.ParseDateRange("", "2024-03-31", "")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if r.Start != nil {
		t.Fatalf("start expected nil, got %v", r.Start)
	}
	if r.End == nil {
		t.Fatal("end expected set")
	}

	r, err = reports.ParseDateRange("", "", "")
	if err != nil {
		t.Fatalf("ParseDateRange: %v", err)
	}
	if r.Start != nil || r.End != nil {
		t.Fatal("empty inputs expected unbounded range")
	}
}

func TestParseDateRange_MalformedInput(t *testing.T) {
	for _, bad := range []string{"03-01-2024", "2024/03/01", "notadate"} {
		_, err := reports.ParseDateRange(bad, "", "")
		if err == nil {
			t.Fatalf("ParseDateRange(%q) expected error", bad)
		}
		if !utils.IsValidationError(err) {
			t.Fatalf("ParseDateRange(%q) expected validation error, got %v", bad, err)
		}
	}
}

func TestParseDateRange_InvertedRangeIsLegal(t *testing.T) {
	r, err := reports.ParseDateRange("2024-04-30", "2024-03-01", "")
	if err != nil {
		t.Fatalf("inverted range should parse, got %v", err)
	}
	if r.Start == nil || r.End == nil {
		t.Fatal("expected both bounds set")
	}
}

func TestParseDateString_AcceptedLayouts(t *testing.T) {
	for _, in := range []string{"2024-03-10", "2024-03-10T14:30:00", "2024-03-10 14:30:00"} {
		d, err := models.ParseDateString(in)
		if err != nil {
			t.Fatalf("ParseDateString(%q): %v", in, err)
		}
		if y, m, _ := time.Time(*d).Date(); y != 2024 || m != time.March {
			t.Fatalf("ParseDateString(%q) parsed wrong date: %v", in, time.Time(*d))
		}
	}
}
