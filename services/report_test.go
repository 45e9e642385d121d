package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jgl02/sharedlist-scraper/models"
	"github.com/jgl02/sharedlist-scraper/utils"
)

func samplePlaces() []models.Place {
	r1, r2, r3 := 4.9, 4.5, 4.9
	n1, n3 := 120, 3400
	return []models.Place{
		{Name: "Kasama", Rating: &r1, ReviewCount: &n1, Category: "Restaurant", Note: "brunch only"},
		{Name: "Quiet Bar", Rating: &r2, Category: "Bar"},
		{Name: "Girl & the Goat", Rating: &r3, ReviewCount: &n3, Category: "Restaurant"},
		{Name: "Unrated Deli", Category: "Deli"},
	}
}

func TestBuildSuccessEnvelope(t *testing.T) {
	svc := NewReportService(utils.NewLogger(false))
	report := svc.Build(samplePlaces(), "https://maps.app.goo.gl/x", "Chicago", 12343*time.Millisecond, nil)

	if !report.Success {
		t.Error("Success = false for a clean harvest")
	}
	if report.Count != 4 {
		t.Errorf("Count = %d, want 4", report.Count)
	}
	if len(report.Data) != 4 {
		t.Errorf("Data holds %d places, want 4", len(report.Data))
	}
	if report.Message != "Successfully scraped 4 places" {
		t.Errorf("Message = %q", report.Message)
	}
	if report.ExecutionTime != 12.34 {
		t.Errorf("ExecutionTime = %v, want 12.34", report.ExecutionTime)
	}
	if report.URL != "https://maps.app.goo.gl/x" || report.City != "Chicago" {
		t.Errorf("URL/City = %q/%q", report.URL, report.City)
	}
}

func TestBuildFailureEnvelope(t *testing.T) {
	svc := NewReportService(utils.NewLogger(false))
	report := svc.Build(nil, "https://maps.app.goo.gl/x", "", time.Second, errors.New("navigate to x: timeout"))

	if report.Success {
		t.Error("Success = true for a failed harvest")
	}
	if report.Data == nil || len(report.Data) != 0 {
		t.Errorf("failure envelope Data = %v, want empty array", report.Data)
	}
	if report.Count != 0 {
		t.Errorf("Count = %d, want 0", report.Count)
	}
	if !strings.HasPrefix(report.Message, "Error: ") {
		t.Errorf("Message = %q, want Error: prefix", report.Message)
	}
}

func TestBuildNilPlacesBecomesEmptyArray(t *testing.T) {
	svc := NewReportService(utils.NewLogger(false))
	report := svc.Build(nil, "https://maps.app.goo.gl/x", "", time.Second, nil)

	if report.Data == nil {
		t.Error("Data = nil, want empty array")
	}
	if !report.Success {
		t.Error("an empty harvest is still a success")
	}
}

func TestSummarizeAggregates(t *testing.T) {
	stats := summarize(samplePlaces())

	if stats.total != 4 {
		t.Errorf("total = %d, want 4", stats.total)
	}
	if stats.rated != 3 {
		t.Errorf("rated = %d, want 3", stats.rated)
	}
	if stats.noted != 1 {
		t.Errorf("noted = %d, want 1", stats.noted)
	}
	wantAvg := round2((4.9 + 4.5 + 4.9) / 3)
	if stats.avgRating != wantAvg {
		t.Errorf("avgRating = %v, want %v", stats.avgRating, wantAvg)
	}
	if stats.byCategory["Restaurant"] != 2 {
		t.Errorf("Restaurant count = %d, want 2", stats.byCategory["Restaurant"])
	}
}

func TestSummarizeTopRatedOrder(t *testing.T) {
	stats := summarize(samplePlaces())

	if len(stats.topRated) != 3 {
		t.Fatalf("topRated holds %d places, want 3", len(stats.topRated))
	}
	// 4.9 with 3400 reviews outranks 4.9 with 120
	if stats.topRated[0].Name != "Girl & the Goat" {
		t.Errorf("topRated[0] = %q, want review count to break the tie", stats.topRated[0].Name)
	}
	if stats.topRated[2].Name != "Quiet Bar" {
		t.Errorf("topRated[2] = %q", stats.topRated[2].Name)
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	stats := summarize(nil)
	if stats.total != 0 || stats.rated != 0 || len(stats.topRated) != 0 {
		t.Errorf("empty input produced %+v", stats)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{12.345, 12.35},
		{12.344, 12.34},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
