package storage

import (
	"path/filepath"
	"strings"

	"github.com/jgl02/sharedlist-scraper/models"
)

// PlaceWriter is the interface any output backend must satisfy.
type PlaceWriter interface {
	Write(places []models.Place) error
}

// NewPlaceWriter picks the output backend from the path extension: ".csv"
// selects the CSV writer, everything else gets the JSON artifact writer.
func NewPlaceWriter(path string) PlaceWriter {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return NewCSVWriter(path)
	}
	return NewJSONWriter(path)
}
