package gmaps

import (
	"fmt"
	"time"
)

// NavigationError reports that the list page never reached an interactive
// state. It is the only failure that aborts a harvest before anything could
// be collected, so main treats it specially.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// BudgetExceededError reports that the wall-clock budget ran out before a
// single record was collected. A budget expiry after records were collected
// is a partial success and never surfaces as an error.
type BudgetExceededError struct {
	Budget     time.Duration
	Iterations int
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("harvest budget %s exhausted after %d scroll iterations with no records",
		e.Budget, e.Iterations)
}
