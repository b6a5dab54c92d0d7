package youtube

import (
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func gapiErr(code int, reasons ...string) *googleapi.Error {
	e := &googleapi.Error{Code: code}
	for _, r := range reasons {
		e.Errors = append(e.Errors, googleapi.ErrorItem{Reason: r})
	}
	return e
}

func TestClassifyAPIError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		if got := classifyAPIError(nil); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})

	t.Run("404 is not found", func(t *testing.T) {
		if got := classifyAPIError(gapiErr(404)); !errors.Is(got, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", got)
		}
	})

	t.Run("429 is rate limited", func(t *testing.T) {
		var rle *RateLimitedError
		if got := classifyAPIError(gapiErr(429)); !errors.As(got, &rle) {
			t.Fatalf("expected RateLimitedError, got %v", got)
		}
	})

	t.Run("403 comments disabled", func(t *testing.T) {
		if got := classifyAPIError(gapiErr(403, "commentsDisabled")); got != errCommentsDisabled {
			t.Fatalf("expected errCommentsDisabled, got %v", got)
		}
	})

	t.Run("403 quota reasons are rate limited", func(t *testing.T) {
		for _, reason := range []string{"quotaExceeded", "rateLimitExceeded", "userRateLimitExceeded"} {
			var rle *RateLimitedError
			if got := classifyAPIError(gapiErr(403, reason)); !errors.As(got, &rle) {
				t.Fatalf("reason %s: expected RateLimitedError, got %v", reason, got)
			}
		}
	})

	t.Run("403 other reasons pass through", func(t *testing.T) {
		in := gapiErr(403, "forbidden")
		var rle *RateLimitedError
		if got := classifyAPIError(in); errors.As(got, &rle) || got != in {
			t.Fatalf("expected passthrough, got %v", got)
		}
	})

	t.Run("5xx is transient", func(t *testing.T) {
		var te *TransientError
		if got := classifyAPIError(gapiErr(503)); !errors.As(got, &te) {
			t.Fatalf("expected TransientError, got %v", got)
		}
	})

	t.Run("other 4xx pass through", func(t *testing.T) {
		in := gapiErr(400)
		if got := classifyAPIError(in); got != in {
			t.Fatalf("expected passthrough, got %v", got)
		}
	})

	t.Run("network faults are transient", func(t *testing.T) {
		var te *TransientError
		in := &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		if got := classifyAPIError(in); !errors.As(got, &te) {
			t.Fatalf("expected TransientError, got %v", got)
		}
	})

	t.Run("unknown errors pass through", func(t *testing.T) {
		in := errors.New("something odd")
		if got := classifyAPIError(in); got != in {
			t.Fatalf("expected passthrough, got %v", got)
		}
	})
}

func TestRetryAfterHint(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
		want   time.Duration
	}{
		{"no header map", nil, 0},
		{"absent", http.Header{}, 0},
		{"seconds", http.Header{"Retry-After": []string{"30"}}, 30 * time.Second},
		{"garbage", http.Header{"Retry-After": []string{"soon"}}, 0},
		{"negative", http.Header{"Retry-After": []string{"-5"}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gerr := &googleapi.Error{Code: 429, Header: tc.header}
			if got := retryAfterHint(gerr); got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
		})
	}
}

func TestErrorStrings(t *testing.T) {
	if got := (&RateLimitedError{}).Error(); got != "rate limited" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := (&RateLimitedError{RetryAfter: 2 * time.Second}).Error(); got != "rate limited (retry after 2s)" {
		t.Fatalf("unexpected message %q", got)
	}
	inner := errors.New("boom")
	te := &TransientError{Err: inner}
	if !errors.Is(te, inner) {
		t.Fatal("TransientError must unwrap to its cause")
	}
}
