package llm

import (
	"errors"
	"fmt"
)

var (
	ErrRateLimited = errors.New("llm call rate limited")
	ErrTimeout     = errors.New("llm call timed out")
	ErrEmptyReply  = errors.New("llm returned an empty reply")
)

// RemoteError is any failure of the remote completion. Callers answer it with
// a local fallback instead of surfacing it.
type RemoteError struct {
	Model string
	Err   error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote model %s failed: %v", e.Model, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
