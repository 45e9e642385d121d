package gmaps

import (
	"context"
	"time"

	"github.com/jgl02/sharedlist-scraper/utils"
)

// stopReason records why the scroll loop ended.
type stopReason int

const (
	stopNone stopReason = iota
	stopStagnation
	stopMaxScrolls
	stopBudget
)

func (r stopReason) String() string {
	switch r {
	case stopStagnation:
		return "item count stagnated"
	case stopMaxScrolls:
		return "scroll cap reached"
	case stopBudget:
		return "budget exhausted"
	default:
		return "still scrolling"
	}
}

// scrollController decides, one iteration at a time, whether the list is
// worth scrolling again. Growth is measured purely by container count; what
// the containers hold is the extractor's business.
type scrollController struct {
	logger     *utils.Logger
	pause      time.Duration
	threshold  int
	maxScrolls int

	iterations int
	noGrowth   int
	reason     stopReason
}

func newScrollController(logger *utils.Logger, pause time.Duration, threshold, maxScrolls int) *scrollController {
	if threshold <= 0 {
		threshold = 3
	}
	if maxScrolls <= 0 {
		maxScrolls = 50
	}
	return &scrollController{
		logger:     logger,
		pause:      pause,
		threshold:  threshold,
		maxScrolls: maxScrolls,
	}
}

// advance runs one scroll iteration: count, scroll, pause, recount. It
// returns false once the loop should stop. ctx carries the harvest budget;
// its expiry cancels the pause immediately.
//
// Any growth resets the stagnation counter. Lists that load in bursts pause
// for a few iterations and then resume, so a stale streak is only trusted
// once it reaches the threshold uninterrupted.
func (c *scrollController) advance(ctx context.Context, sess listSession) (bool, error) {
	if c.iterations >= c.maxScrolls {
		c.reason = stopMaxScrolls
		c.logger.Info("[scroll] Scroll cap of %d reached, stopping", c.maxScrolls)
		return false, nil
	}

	before, err := sess.ItemCount(ctx)
	if err != nil {
		return false, err
	}

	if err := sess.ScrollList(ctx); err != nil {
		return false, err
	}

	select {
	case <-ctx.Done():
		c.reason = stopBudget
		return false, ctx.Err()
	case <-time.After(c.pause):
	}

	after, err := sess.ItemCount(ctx)
	if err != nil {
		return false, err
	}

	c.iterations++
	if after > before {
		c.noGrowth = 0
		c.logger.Debug("[scroll] Iteration %d: %d -> %d items", c.iterations, before, after)
	} else {
		c.noGrowth++
		c.logger.Debug("[scroll] Iteration %d: stagnant at %d items (%d/%d)",
			c.iterations, after, c.noGrowth, c.threshold)
	}

	if c.noGrowth >= c.threshold {
		c.reason = stopStagnation
		c.logger.Info("[scroll] No new items after %d consecutive scrolls, list fully loaded at %d items",
			c.threshold, after)
		return false, nil
	}

	return true, nil
}
