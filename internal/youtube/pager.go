// Package youtube – lazy comment pagination.
package youtube

import (
	"context"
	"time"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// pageSize is the provider maximum for commentThreads.list.
const pageSize = 100

// CommentPager lazily walks the top-level comment threads of a video, one
// provider page at a time. The page token lives inside the pager; consumers
// only see normalized batches.
//
// A pager is restartable from the start (obtain a fresh one from
// Client.Comments) but not resumable mid-stream. It is not safe for
// concurrent use. Consumers may stop early by simply not calling Next again.
type CommentPager struct {
	client  *Client
	videoID string
	token   string
	done    bool
}

// Comments returns a pager over the video's top-level comments. No network
// call happens until the first Next.
func (c *Client) Comments(videoID string) *CommentPager {
	return &CommentPager{client: c, videoID: videoID}
}

// Done reports whether the sequence is exhausted. Videos with disabled or
// closed comments exhaust immediately with no error.
func (p *CommentPager) Done() bool { return p.done }

// Next fetches and normalizes the next page. It returns an empty batch and
// marks the pager done when the stream ends. Errors follow the package
// taxonomy; after a *RateLimitedError or *TransientError the caller may call
// Next again to retry the same page, since the token only advances on
// success.
func (p *CommentPager) Next(ctx context.Context) ([]domain.Comment, error) {
	if p.done {
		return nil, nil
	}
	if err := p.client.pace.Wait(ctx); err != nil {
		return nil, err
	}

	call := p.client.svc.CommentThreads.
		List([]string{"snippet"}).
		VideoId(p.videoID).
		MaxResults(pageSize).
		Order(p.client.order).
		Context(ctx)
	if p.token != "" {
		call = call.PageToken(p.token)
	}

	resp, err := call.Do()
	if err != nil {
		cerr := classifyAPIError(err)
		if cerr == errCommentsDisabled {
			// Closed comments are an empty sequence, not a failure.
			p.done = true
			return nil, nil
		}
		return nil, cerr
	}

	now := time.Now().UTC()
	batch := make([]domain.Comment, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Snippet == nil || item.Snippet.TopLevelComment == nil || item.Snippet.TopLevelComment.Snippet == nil {
			continue
		}
		top := item.Snippet.TopLevelComment
		batch = append(batch, domain.Comment{
			ID:         top.Id,
			VideoID:    p.videoID,
			Text:       top.Snippet.TextDisplay, // raw display text, no re-encoding
			LikeCount:  top.Snippet.LikeCount,
			ReplyCount: item.Snippet.TotalReplyCount,
			CreatedAt:  now,
		})
	}

	p.token = resp.NextPageToken
	if p.token == "" {
		p.done = true
	}
	return batch, nil
}
