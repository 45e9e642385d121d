package gmaps

import (
	"testing"

	"github.com/jgl02/sharedlist-scraper/models"
)

func TestDeduplicatorKeepsFirstSighting(t *testing.T) {
	d := newDeduplicator()

	first := models.Place{Name: "Starbucks", Address: "1 Main St"}
	rating := 4.1
	later := models.Place{Name: "Starbucks", Address: "1 Main St", Rating: &rating}

	if !d.Offer(first) {
		t.Fatal("first sighting rejected")
	}
	if d.Offer(later) {
		t.Fatal("duplicate sighting accepted")
	}

	records := d.Records()
	if len(records) != 1 {
		t.Fatalf("kept %d records, want 1", len(records))
	}
	if records[0].Rating != nil {
		t.Error("fields from a later sighting were merged into the kept record")
	}
}

func TestDeduplicatorPreservesSightingOrder(t *testing.T) {
	d := newDeduplicator()
	names := []string{"Alpha", "Beta", "Gamma", "Beta", "Delta", "Alpha"}
	for _, n := range names {
		d.Offer(models.Place{Name: n, Address: "1 Main St"})
	}

	records := d.Records()
	want := []string{"Alpha", "Beta", "Gamma", "Delta"}
	if len(records) != len(want) {
		t.Fatalf("kept %d records, want %d", len(records), len(want))
	}
	for i, n := range want {
		if records[i].Name != n {
			t.Errorf("records[%d].Name = %q, want %q", i, records[i].Name, n)
		}
	}
}

func TestDeduplicatorSameNameDifferentAddress(t *testing.T) {
	d := newDeduplicator()
	d.Offer(models.Place{Name: "Starbucks", Address: "1 Main St"})
	d.Offer(models.Place{Name: "Starbucks", Address: "9 Elm St"})

	if d.Len() != 2 {
		t.Errorf("kept %d records, want 2 distinct branches", d.Len())
	}
}

func TestDeduplicatorIgnoresKeylessRecords(t *testing.T) {
	d := newDeduplicator()
	if d.Offer(models.Place{Address: "1 Main St"}) {
		t.Error("record without a name was kept")
	}
	if d.Len() != 0 {
		t.Errorf("Len() = %d, want 0", d.Len())
	}
}

func TestDeduplicatorRecordsNeverNil(t *testing.T) {
	d := newDeduplicator()
	if d.Records() == nil {
		t.Error("Records() returned nil for an empty deduplicator")
	}
}
