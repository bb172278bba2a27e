package judge

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is reported when a judge redirects a scraping request to
// its login page. It is surfaced to the caller, never retried here.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrNotLoaded is returned by metadata accessors whose backing field has
// not been populated from a listing or detail page yet.
var ErrNotLoaded = errors.New("field not loaded yet")

// SubmissionError means the submit protocol could not complete: the form
// was missing, the session was logged out, or the judge redirected
// somewhere other than its submission-accepted page. Silent submit
// failure is unacceptable, so these are always hard errors.
type SubmissionError struct {
	Reason string
	// Location is the final redirect target when one was seen.
	Location string
}

func (e *SubmissionError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("submission failed: %s (redirected to %s)", e.Reason, e.Location)
	}
	return fmt.Sprintf("submission failed: %s", e.Reason)
}
