package gmaps

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jgl02/sharedlist-scraper/utils"
)

func runScrollLoop(t *testing.T, ctrl *scrollController, sess listSession) {
	t.Helper()
	for {
		cont, err := ctrl.advance(context.Background(), sess)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if !cont {
			return
		}
	}
}

func TestScrollStopsAfterStagnationThreshold(t *testing.T) {
	sess := &fakeSession{counts: []int{4, 4, 4, 4}}
	ctrl := newScrollController(utils.NewLogger(false), time.Millisecond, 3, 50)

	runScrollLoop(t, ctrl, sess)

	if ctrl.reason != stopStagnation {
		t.Errorf("reason = %v, want stagnation", ctrl.reason)
	}
	if ctrl.iterations != 4 {
		t.Errorf("iterations = %d, want 4 (one growth, three stagnant)", ctrl.iterations)
	}
	if sess.scrolls != 4 {
		t.Errorf("session scrolled %d times, want 4", sess.scrolls)
	}
}

func TestScrollResumesAfterRenewedGrowth(t *testing.T) {
	// The list loads in bursts: growth, two stale reads, growth again, then
	// a true end. Renewed growth must reset the stagnation counter.
	sess := &fakeSession{counts: []int{5, 9, 9, 9, 12, 12, 12, 12}}
	ctrl := newScrollController(utils.NewLogger(false), time.Millisecond, 3, 50)

	runScrollLoop(t, ctrl, sess)

	if ctrl.reason != stopStagnation {
		t.Errorf("reason = %v, want stagnation", ctrl.reason)
	}
	if ctrl.iterations != 8 {
		t.Errorf("iterations = %d, want 8: the loop must scroll through the mid-list plateau", ctrl.iterations)
	}
}

func TestScrollHonorsIterationCap(t *testing.T) {
	counts := make([]int, 60)
	for i := range counts {
		counts[i] = i + 1
	}
	sess := &fakeSession{counts: counts}
	ctrl := newScrollController(utils.NewLogger(false), time.Millisecond, 3, 5)

	runScrollLoop(t, ctrl, sess)

	if ctrl.reason != stopMaxScrolls {
		t.Errorf("reason = %v, want scroll cap", ctrl.reason)
	}
	if sess.scrolls != 5 {
		t.Errorf("session scrolled %d times, want exactly the cap", sess.scrolls)
	}
}

func TestScrollBudgetExpiryCancelsPause(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := &fakeSession{counts: []int{4}, onScroll: cancel}
	ctrl := newScrollController(utils.NewLogger(false), time.Hour, 3, 50)

	start := time.Now()
	cont, err := ctrl.advance(ctx, sess)
	if cont {
		t.Error("advance wants to continue after budget expiry")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("advance error = %v, want context.Canceled", err)
	}
	if ctrl.reason != stopBudget {
		t.Errorf("reason = %v, want budget", ctrl.reason)
	}
	if time.Since(start) > time.Second {
		t.Error("advance slept through its pause despite an expired budget")
	}
}

func TestScrollControllerDefaults(t *testing.T) {
	ctrl := newScrollController(utils.NewLogger(false), 0, 0, 0)
	if ctrl.threshold != 3 {
		t.Errorf("threshold = %d, want 3", ctrl.threshold)
	}
	if ctrl.maxScrolls != 50 {
		t.Errorf("maxScrolls = %d, want 50", ctrl.maxScrolls)
	}
}
