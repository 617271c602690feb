package listsync

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSuperseded is returned by a fetch whose result was dropped because
	// a newer fetch had been issued.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNotOnPage rejects selecting an id that is not on the loaded page.
	ErrNotOnPage = errors.New("not on the current page")
)

// Failure is one id that could not be deleted.
type Failure struct {
	ID  string
	Err error
}

// BulkDeleteError lists the ids a best-effort bulk delete could not remove,
// in the order they were requested. Every other id was deleted.
type BulkDeleteError struct {
	Failures  []Failure
	Attempted int
}

func (e *BulkDeleteError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ID
	}
	return fmt.Sprintf("failed to delete %d of %d: %s: %v",
		len(e.Failures), e.Attempted, strings.Join(ids, ", "), e.First().Err)
}

// First is the failure for the earliest requested id.
func (e *BulkDeleteError) First() Failure {
	if len(e.Failures) == 0 {
		return Failure{}
	}
	return e.Failures[0]
}

func (e *BulkDeleteError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
