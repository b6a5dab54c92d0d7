// Package youtube wraps the YouTube Data API v3 as the comment/video
// retrieval source. This file provides the client and the single-video
// metadata fetch.
package youtube

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	yt "google.golang.org/api/youtube/v3"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// Client adapts a *youtube.Service for the ingestion pipeline. It normalizes
// records into domain types, maps provider failures onto the package error
// taxonomy, and paces outbound page fetches.
//
// The zero value is not usable; construct with NewClient.
type Client struct {
	svc   *yt.Service
	pace  *rate.Limiter
	order string
}

// Option customizes a Client.
type Option func(*Client)

// WithOrder sets the comment ordering requested from the provider
// ("time" or "relevance"). Defaults to "time".
func WithOrder(order string) Option {
	return func(c *Client) {
		if order == "time" || order == "relevance" {
			c.order = order
		}
	}
}

// WithPageInterval sets the minimum interval between successive comment page
// fetches. Defaults to 100ms, matching the provider's fair-use guidance.
func WithPageInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pace = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// NewClient wraps an initialized youtube.Service.
func NewClient(svc *yt.Service, opts ...Option) *Client {
	c := &Client{
		svc:   svc,
		pace:  rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		order: "time",
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// VideoMetadata fetches snippet, statistics, and content details for a single
// video and normalizes them into a domain.Video. It returns ErrNotFound when
// the provider reports no such video, a *RateLimitedError on quota
// exhaustion, and a *TransientError on network faults.
func (c *Client) VideoMetadata(ctx context.Context, videoID string) (*domain.Video, error) {
	resp, err := c.svc.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}

	item := resp.Items[0]
	v := &domain.Video{
		ID:           item.Id,
		Title:        item.Snippet.Title,
		URL:          "https://www.youtube.com/watch?v=" + item.Id,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
	}
	if item.ContentDetails != nil {
		v.Duration = item.ContentDetails.Duration
	}
	if item.Statistics != nil {
		v.ViewCount = int64(item.Statistics.ViewCount)
		v.LikeCount = int64(item.Statistics.LikeCount)
		v.CommentCount = int64(item.Statistics.CommentCount)
	}
	if ts, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		v.PublishedAt = ts
	}
	return v, nil
}

// SearchResult is one hit from a video search.
type SearchResult struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channel_title"`
	PublishedAt  string `json:"published_at"`
	Description  string `json:"description"`
}

// Search runs a video search against the provider and returns up to
// maxResults hits. An empty query is rejected before any call is made.
func (c *Client) Search(ctx context.Context, query string, maxResults int64) ([]SearchResult, error) {
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if maxResults <= 0 || maxResults > 50 {
		maxResults = 10
	}
	resp, err := c.svc.Search.
		List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyAPIError(err)
	}

	out := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		out = append(out, SearchResult{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Description:  item.Snippet.Description,
		})
	}
	return out, nil
}
