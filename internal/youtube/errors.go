// Package youtube wraps the YouTube Data API v3 as the comment/video
// retrieval source. This file maps provider failures onto the error taxonomy
// the rest of the application branches on.
//
// Taxonomy:
//   - ErrNotFound: the upstream source reports no such video. Terminal.
//   - RateLimitedError: quota exhaustion; carries a retry-after hint when the
//     provider supplied one. Retryable with bounded backoff.
//   - TransientError: network faults and upstream 5xx. Retryable with bounded
//     backoff.
//   - errCommentsDisabled (internal): comments closed for the video; the
//     pager converts this into an empty sequence, never an error.
package youtube

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
)

// ErrNotFound is returned when the upstream source reports no such video.
var ErrNotFound = errors.New("video not found upstream")

// errCommentsDisabled marks a video whose comments are closed. It never
// escapes this package; CommentPager translates it to an empty sequence.
var errCommentsDisabled = errors.New("comments disabled")

// RateLimitedError indicates the API quota is exhausted. RetryAfter is zero
// when the provider gave no hint.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited (retry after %s)", e.RetryAfter)
	}
	return "rate limited"
}

// TransientError wraps a network fault or upstream server error that is
// worth retrying with backoff.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient retrieval failure: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// classifyAPIError converts a raw call error into the package taxonomy.
// Unrecognized errors pass through unchanged.
func classifyAPIError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 404:
			return ErrNotFound
		case 429:
			return &RateLimitedError{RetryAfter: retryAfterHint(gerr)}
		case 403:
			for _, item := range gerr.Errors {
				switch item.Reason {
				case "commentsDisabled":
					return errCommentsDisabled
				case "quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded":
					return &RateLimitedError{RetryAfter: retryAfterHint(gerr)}
				}
			}
			return err
		}
		if gerr.Code >= 500 {
			return &TransientError{Err: err}
		}
		return err
	}

	var nerr net.Error
	if errors.As(err, &nerr) {
		return &TransientError{Err: err}
	}
	var operr *net.OpError
	if errors.As(err, &operr) {
		return &TransientError{Err: err}
	}
	return err
}

// retryAfterHint extracts a Retry-After duration from the error response
// headers, if the provider set one.
func retryAfterHint(gerr *googleapi.Error) time.Duration {
	if gerr.Header == nil {
		return 0
	}
	raw := gerr.Header.Get("Retry-After")
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
