package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jgl02/sharedlist-scraper/models"
)

// csvHeader mirrors the field order of the JSON artifact.
var csvHeader = []string{
	"name", "rating", "reviewCount", "category", "address",
	"url", "note", "city", "lat", "lng",
}

// CSVWriter writes places to a CSV file for spreadsheet consumers. Like the
// JSON writer it stages the whole document and installs it atomically.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer targeting path. Intermediate directories are
// created on Write.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write renders the header and one row per place. Absent optional fields
// become empty cells.
func (w *CSVWriter) Write(places []models.Place) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, p := range places {
		row := []string{
			p.Name,
			formatFloat(p.Rating),
			formatInt(p.ReviewCount),
			p.Category,
			p.Address,
			p.URL,
			p.Note,
			p.City,
			formatFloat(p.Lat),
			formatFloat(p.Lng),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}

	return writeFileAtomic(w.path, buf.Bytes())
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
