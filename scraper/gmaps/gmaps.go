package gmaps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jgl02/sharedlist-scraper/config"
	"github.com/jgl02/sharedlist-scraper/models"
	"github.com/jgl02/sharedlist-scraper/utils"
)

// listSession is the capability surface the harvest loop needs from a
// browser session. *Session implements it with chromedp; tests implement it
// with scripted snapshots.
type listSession interface {
	Open(ctx context.Context, url string) error
	ItemCount(ctx context.Context) (int, error)
	ScrollList(ctx context.Context) error
	CaptureHTML(ctx context.Context) (string, error)
	CollectNotes(ctx context.Context) (map[string]string, error)
	Close() error
}

// Harvester drives one complete scroll, extract and dedup run against a
// single shared list page.
type Harvester struct {
	cfg    *config.Config
	logger *utils.Logger
	retry  *utils.RetryConfig

	newSession func(ctx context.Context) listSession
}

// New creates a ready-to-use Harvester.
func New(cfg *config.Config, logger *utils.Logger) *Harvester {
	h := &Harvester{
		cfg:    cfg,
		logger: logger,
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
	h.newSession = func(ctx context.Context) listSession {
		return NewSession(ctx, cfg, logger)
	}
	return h
}

// Harvest runs the full loop and returns the ordered, deduplicated records.
// The slice is never nil on success: an empty list harvests to an empty
// slice. Once at least one record is in hand every later failure degrades to
// a partial result instead of an error.
func (h *Harvester) Harvest(ctx context.Context) ([]models.Place, error) {
	start := time.Now()

	sess := h.newSession(ctx)
	defer func() {
		if err := sess.Close(); err != nil {
			h.logger.Warn("[gmaps] Session teardown failed: %v", err)
		}
	}()

	h.logger.Info("[gmaps] Opening list page: %s", h.cfg.ListURL)
	if err := h.retry.Do(ctx, "open list page", func() error {
		return sess.Open(ctx, h.cfg.ListURL)
	}); err != nil {
		return nil, err
	}

	budgetCtx, cancelBudget := context.WithTimeout(ctx, h.cfg.HarvestBudget)
	defer cancelBudget()

	dedup := newDeduplicator()
	ex := newExtractor(h.logger, h.cfg.ListURL, h.cfg.City)
	ctrl := newScrollController(h.logger, h.cfg.ScrollPause, h.cfg.StagnationThreshold, h.cfg.MaxScrolls)

	budgetHit := false
	for {
		if err := h.scan(budgetCtx, sess, ex, dedup); err != nil {
			if budgetCtx.Err() != nil {
				budgetHit = true
				break
			}
			if dedup.Len() == 0 {
				return nil, fmt.Errorf("scanning list page: %w", err)
			}
			h.logger.Error("[gmaps] Scan failed mid-harvest, keeping %d records: %v", dedup.Len(), err)
			break
		}

		cont, err := ctrl.advance(budgetCtx, sess)
		if err != nil {
			if budgetCtx.Err() != nil {
				budgetHit = true
				break
			}
			if dedup.Len() == 0 {
				return nil, fmt.Errorf("scrolling list page: %w", err)
			}
			h.logger.Error("[gmaps] Scroll failed mid-harvest, keeping %d records: %v", dedup.Len(), err)
			break
		}
		if !cont {
			break
		}
	}

	// A final capped or stagnant scroll may still have loaded items the last
	// scan never saw; rescanning costs one snapshot and dedup absorbs the
	// overlap.
	if !budgetHit {
		if err := h.scan(budgetCtx, sess, ex, dedup); err != nil {
			if budgetCtx.Err() != nil {
				budgetHit = true
			} else {
				h.logger.Warn("[gmaps] Final scan failed: %v", err)
			}
		}
	}

	records := dedup.Records()

	if !budgetHit {
		h.mergeNotes(budgetCtx, sess, records)
	}

	if budgetHit {
		ctrl.reason = stopBudget
		if len(records) == 0 {
			return nil, &BudgetExceededError{Budget: h.cfg.HarvestBudget, Iterations: ctrl.iterations}
		}
		if errors.Is(budgetCtx.Err(), context.Canceled) {
			h.logger.Warn("[gmaps] Harvest interrupted after %d iterations, keeping %d records",
				ctrl.iterations, len(records))
		} else {
			h.logger.Warn("[gmaps] Budget %s exhausted after %d iterations, keeping %d records",
				h.cfg.HarvestBudget, ctrl.iterations, len(records))
		}
	}

	h.logger.Info("[gmaps] Harvest complete: %d unique places in %s (%s)",
		len(records), time.Since(start).Truncate(time.Millisecond), ctrl.reason)
	return records, nil
}

// scan snapshots the page, extracts every visible container and offers the
// results to the deduplicator.
func (h *Harvester) scan(ctx context.Context, sess listSession, ex *extractor, dedup *deduplicator) error {
	html, err := sess.CaptureHTML(ctx)
	if err != nil {
		return err
	}
	places, err := ex.extract(html)
	if err != nil {
		return err
	}

	kept := 0
	for _, p := range places {
		if dedup.Offer(p) {
			kept++
		}
	}
	if kept > 0 {
		h.logger.Debug("[gmaps] Scan kept %d new records, %d total", kept, dedup.Len())
	}
	return nil
}

// mergeNotes overlays live textarea values onto the harvested records. The
// live value wins over whatever the snapshot carried; a note the user just
// edited shows its current text, not the server-rendered one.
func (h *Harvester) mergeNotes(ctx context.Context, sess listSession, records []models.Place) {
	notes, err := sess.CollectNotes(ctx)
	if err != nil {
		h.logger.Warn("[gmaps] Note collection failed: %v", err)
		return
	}
	if len(notes) == 0 {
		return
	}

	merged := 0
	for i := range records {
		if note, ok := notes[records[i].Name]; ok && note != "" {
			records[i].Note = note
			merged++
		}
	}
	if merged > 0 {
		h.logger.Info("[gmaps] Attached %d notes", merged)
	}
}
