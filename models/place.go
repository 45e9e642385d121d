package models

import "strings"

// Place is one harvested entry from a shared map list. Numeric fields that
// may legitimately be missing use pointers so absent values are omitted from
// the JSON artifact instead of being rendered as zero.
type Place struct {
	Name        string   `json:"name"`
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"reviewCount,omitempty"`
	Category    string   `json:"category,omitempty"`
	Address     string   `json:"address,omitempty"`
	URL         string   `json:"url,omitempty"`
	Note        string   `json:"note,omitempty"`
	City        string   `json:"city,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
}

// IdentityKey returns the deduplication key for the place: the normalized
// name joined with the normalized address. When no address was parsed the
// detail URL stands in, so two distinct "Starbucks" entries with different
// links still count as different places. The key is derived on demand and
// never serialized.
func (p *Place) IdentityKey() string {
	name := normalizeKeyPart(p.Name)
	if name == "" {
		return ""
	}
	loc := normalizeKeyPart(p.Address)
	if loc == "" {
		loc = normalizeKeyPart(p.URL)
	}
	return name + "|" + loc
}

func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// RunReport is the machine-readable summary of one harvest run, printed to
// stdout when -json-output is set so a dispatching workflow can pick it up.
type RunReport struct {
	Success       bool    `json:"success"`
	Message       string  `json:"message"`
	Data          []Place `json:"data"`
	Count         int     `json:"count"`
	ExecutionTime float64 `json:"execution_time"`
	URL           string  `json:"url"`
	City          string  `json:"city,omitempty"`
}
