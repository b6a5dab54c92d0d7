// Package services – VideoService
//
// Read-side and administrative operations over stored videos: listing,
// fetching, paging comments, searching the upstream catalog, and deleting a
// video together with its comments.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-audience-insights/internal/domain"
	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// VideoService exposes the stored catalog and upstream search.
type VideoService struct {
	DB *gorm.DB
	// Source is only needed for Search; the store operations work without it.
	Source Source
}

// NewVideoService constructs a VideoService.
func NewVideoService(db *gorm.DB, src Source) *VideoService {
	return &VideoService{DB: db, Source: src}
}

// Get fetches one stored video by URL or ID.
func (s *VideoService) Get(ctx context.Context, ref string) (*domain.Video, error) {
	videoID, err := youtube.ParseVideoID(ref)
	if err != nil {
		return nil, ErrBadVideoRef
	}
	v, err := repo.GetVideo(ctx, s.DB, videoID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVideoNotFound
	}
	return v, err
}

// ListPage returns a page of stored videos, newest first, plus the total.
func (s *VideoService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Video, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, _, err := repo.VideoStats(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Video{}, 0, nil
	}
	items, err := repo.ListVideos(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// CommentsPage returns a page of a video's stored comments in deterministic
// store order, plus the total.
func (s *VideoService) CommentsPage(ctx context.Context, ref string, page, pageSize int) ([]domain.Comment, int64, error) {
	videoID, err := youtube.ParseVideoID(ref)
	if err != nil {
		return nil, 0, ErrBadVideoRef
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetVideo(ctx, s.DB, videoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrVideoNotFound
		}
		return nil, 0, err
	}
	total, err := repo.CountComments(ctx, s.DB, videoID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListCommentsPage(ctx, s.DB, videoID, offset, pageSize)
	return items, total, err
}

// Search queries the upstream catalog for videos matching q.
func (s *VideoService) Search(ctx context.Context, q string, maxResults int64) ([]youtube.SearchResult, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	tr := otel.Tracer("services/VideoService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(attribute.String("query", q)),
	)
	defer span.End()

	return retryDo(ctx, DefaultRetryConfig, func() ([]youtube.SearchResult, error) {
		return s.Source.Search(ctx, q, maxResults)
	})
}

// Delete removes a stored video; the schema cascades to its comments. This
// is administrative cleanup, never part of ingestion or analysis.
func (s *VideoService) Delete(ctx context.Context, ref string) error {
	videoID, err := youtube.ParseVideoID(ref)
	if err != nil {
		return ErrBadVideoRef
	}
	if err := repo.DeleteVideo(ctx, s.DB, videoID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrVideoNotFound
		}
		return err
	}
	return nil
}
