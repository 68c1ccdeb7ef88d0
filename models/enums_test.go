package models_test

import (
	"testing"
	"time"

	"github.com/mmdatafocus/farm_backend/models"
)

func TestParseSearchField(t *testing.T) {
	for _, valid := range []string{"Name", "Email", "Phone", "Address", "City", "State"} {
		if _, err := models.ParseSearchField(valid); err != nil {
			t.Fatalf("ParseSearchField(%q): %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "zip", "name ", "SSN"} {
		if _, err := models.ParseSearchField(invalid); err == nil {
			t.Fatalf("ParseSearchField(%q) expected error", invalid)
		}
	}
}

func TestDateTimeScan(t *testing.T) {
	cases := []string{
		"2024-03-10 12:30:45",
		"2024-03-10 12:30:45.123456789+00:00",
		"2024-03-10",
	}
	for _, in := range cases {
		var d models.DateTime
		if err := d.Scan(in); err != nil {
			t.Fatalf("Scan(%q): %v", in, err)
		}
		if d.Time().Year() != 2024 || d.Time().Month() != time.March || d.Time().Day() != 10 {
			t.Fatalf("Scan(%q) parsed wrong date: %v", in, d.Time())
		}
	}

	var d models.DateTime
	if err := d.Scan([]byte("2024-03-10 12:30:45")); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if err := d.Scan(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Scan(time.Time): %v", err)
	}
	if err := d.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatal("Scan(int) expected error")
	}
}

func TestDateStringDayBoundaries(t *testing.T) {
	d, err := models.ParseDateString("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	if err := d.EndOfDayUTCTime(""); err != nil {
		t.Fatalf("EndOfDayUTCTime: %v", err)
	}
	end := time.Time(*d)
	if end.Hour() != 23 || end.Minute() != 59 || end.Second() != 59 {
		t.Fatalf("end of day wrong: %v", end)
	}

	d, err = models.ParseDateString("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	// A named zone shifts the UTC instant of the boundary.
	if err := d.StartOfDayUTCTime("America/Chicago"); err != nil {
		t.Fatalf("StartOfDayUTCTime: %v", err)
	}
	start := time.Time(*d)
	if start.Equal(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected zone-shifted boundary, got %v", start)
	}
}
