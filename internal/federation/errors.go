package federation

import (
	"errors"
	"fmt"
)

// ErrNoMetadata means the fetch produced no descriptor at all. It is never
// retried.
var ErrNoMetadata = errors.New("federation: no metadata returned")

// FetchError is returned by Resolve once it gives up on a url.
type FetchError struct {
	URL      string
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch federation metadata %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
