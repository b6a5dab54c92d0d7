package services

import (
	"context"

	"github.com/tbourn/go-audience-insights/internal/domain"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// CommentPager yields normalized comment batches one provider page at a time.
// After a retryable error the same page may be requested again by calling
// Next; Done reports exhaustion.
type CommentPager interface {
	Next(ctx context.Context) ([]domain.Comment, error)
	Done() bool
}

// Source is the upstream retrieval contract required by the services. The
// production implementation wraps the YouTube Data API client; tests supply
// fakes.
type Source interface {
	// VideoMetadata fetches normalized metadata for one video.
	VideoMetadata(ctx context.Context, videoID string) (*domain.Video, error)

	// Comments returns a pager over the video's top-level comments.
	Comments(videoID string) CommentPager

	// Search returns up to maxResults video hits for the query.
	Search(ctx context.Context, query string, maxResults int64) ([]youtube.SearchResult, error)
}

// youtubeSource adapts *youtube.Client to the Source interface. The only
// friction is the pager return type; everything else passes through.
type youtubeSource struct {
	*youtube.Client
}

func (s youtubeSource) Comments(videoID string) CommentPager {
	return s.Client.Comments(videoID)
}

// NewYouTubeSource wraps a YouTube client as a retrieval Source.
func NewYouTubeSource(c *youtube.Client) Source {
	return youtubeSource{Client: c}
}
