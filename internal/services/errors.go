// Package services implements the business logic for video ingestion and
// comment analysis. This file centralizes service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrVideoNotFound indicates the video exists neither in the store nor
	// at the upstream source.
	ErrVideoNotFound = errors.New("video not found")

	// ErrBadVideoRef is returned when the supplied reference is neither a
	// recognizable video URL nor a plausible video ID.
	ErrBadVideoRef = errors.New("unrecognizable video reference")

	// ErrEmptyQuery is returned when a search is requested with a blank query.
	ErrEmptyQuery = errors.New("search query is empty")
)

// PartialIngestionError reports an ingestion run that persisted some comments
// and then hit a terminal retrieval failure mid-drain, typically quota
// exhaustion. The persisted rows stay in the store; a later run cannot resume
// (the presence gate now sees the video as ingested), so callers should
// surface the partial state rather than silently accepting it.
type PartialIngestionError struct {
	VideoID  string
	Inserted int64
	Err      error
}

func (e *PartialIngestionError) Error() string {
	return fmt.Sprintf("ingestion of %s interrupted after %d comments: %v", e.VideoID, e.Inserted, e.Err)
}

func (e *PartialIngestionError) Unwrap() error { return e.Err }
