package model

import (
	"fmt"
	"time"
)

// TimestampLayout is the persisted and wire form of CreatedAt: fixed-width
// UTC with microseconds, so lexicographic order equals time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Session is the bookmark metadata for one externally-managed resumable
// session. The session content itself is never read; only what is needed to
// locate and resume it is stored.
type Session struct {
	ID        string
	Title     string
	Pwd       string
	CreatedAt time.Time
}

// ShortID returns the first 8 characters of the session ID for display.
func (s Session) ShortID() string {
	if len(s.ID) <= 8 {
		return s.ID
	}
	return s.ID[:8]
}

// CreatedAtString renders CreatedAt in the persisted TimestampLayout form.
func (s Session) CreatedAtString() string {
	return s.CreatedAt.UTC().Format(TimestampLayout)
}

// NotFoundError reports that a user-supplied token resolved to no session.
// Index is set when the token was interpreted as a positional index into the
// recency-ordered list rather than an ID.
type NotFoundError struct {
	Token string
	Index bool
}

func (e *NotFoundError) Error() string {
	if e.Index {
		return fmt.Sprintf("index %s out of range", e.Token)
	}
	return fmt.Sprintf("no session found for '%s'", e.Token)
}

// HandoffError reports that the session host program could not be started.
// By the time it is returned the resume command has already printed its
// resolution output; there is no retry path.
type HandoffError struct {
	Command string
	Err     error
}

func (e *HandoffError) Error() string {
	return fmt.Sprintf("failed to exec %s: %v", e.Command, e.Err)
}

func (e *HandoffError) Unwrap() error {
	return e.Err
}
