package gmaps

import "github.com/jgl02/sharedlist-scraper/models"

// deduplicator keeps the first sighting of each identity key, in sighting
// order. Every scan re-reads the whole panel, so most offers after the first
// scan are repeats; they hit the seen set and are discarded without merging
// any fields from later sightings.
type deduplicator struct {
	seen map[string]struct{}
	kept []models.Place
}

func newDeduplicator() *deduplicator {
	return &deduplicator{seen: make(map[string]struct{})}
}

// Offer inserts the record if its identity key is unseen and reports whether
// it was kept.
func (d *deduplicator) Offer(p models.Place) bool {
	key := p.IdentityKey()
	if key == "" {
		return false
	}
	if _, dup := d.seen[key]; dup {
		return false
	}
	d.seen[key] = struct{}{}
	d.kept = append(d.kept, p)
	return true
}

// Len reports how many records are kept so far.
func (d *deduplicator) Len() int { return len(d.kept) }

// Records returns the kept records in first-sighting order, never nil. The
// slice is the deduplicator's backing store; the harvest takes ownership of
// it once scanning ends.
func (d *deduplicator) Records() []models.Place {
	if d.kept == nil {
		return []models.Place{}
	}
	return d.kept
}
