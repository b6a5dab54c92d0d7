// Package services – IngestService
//
// This file implements the ingestion coordinator: resolve the video
// reference, gate on already-present comments, fetch metadata, then drain the
// comment pager into the store in batches. Safety against duplicate runs
// comes from the store (presence gate plus conflict-skipping inserts), not
// from any application-level lock.
//
// Observability: public methods are OpenTelemetry-instrumented and the
// pipeline counters in the observability package are updated per run.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-audience-insights/internal/domain"
	"github.com/tbourn/go-audience-insights/internal/observability"
	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// DefaultBatchSize is the number of comments accumulated before each store
// write. Provider pages are larger; batching decouples the two sizes.
const DefaultBatchSize = 50

// IngestService coordinates one-shot comment ingestion for a video.
type IngestService struct {
	DB     *gorm.DB
	Source Source

	// BatchSize caps rows per store write. Zero means DefaultBatchSize.
	BatchSize int
	// MaxComments bounds the total comments fetched per run. Zero means
	// drain the full stream.
	MaxComments int
	// Retry controls backoff for upstream calls. Zero value means
	// DefaultRetryConfig.
	Retry RetryConfig
}

// NewIngestService constructs an IngestService with default batching and
// retry behavior.
func NewIngestService(db *gorm.DB, src Source) *IngestService {
	return &IngestService{
		DB:        db,
		Source:    src,
		BatchSize: DefaultBatchSize,
		Retry:     DefaultRetryConfig,
	}
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	// Inserted is the number of comment rows actually persisted this run.
	Inserted int64 `json:"inserted"`
	// Skipped is true when the presence gate found existing comments and no
	// fetch was performed.
	Skipped bool `json:"skipped"`
}

// Ingest fetches a video's metadata and top-level comments and persists them.
// The ref may be a watch URL, a short URL, or a bare video ID.
//
// A video whose comments are already present is not re-fetched; the report
// has Skipped=true. When the comment stream fails terminally after some rows
// were persisted, Ingest returns a *PartialIngestionError alongside a nil
// report; the persisted rows remain.
func (s *IngestService) Ingest(ctx context.Context, ref string) (*IngestReport, error) {
	videoID, err := youtube.ParseVideoID(ref)
	if err != nil {
		return nil, ErrBadVideoRef
	}

	tr := otel.Tracer("services/IngestService")
	ctx, span := tr.Start(ctx, "Ingest",
		trace.WithAttributes(attribute.String("video.id", videoID)),
	)
	defer span.End()

	report, err := s.ingest(ctx, videoID)
	observability.IngestionRuns.WithLabelValues(outcomeLabel(report, err)).Inc()
	return report, err
}

func (s *IngestService) ingest(ctx context.Context, videoID string) (*IngestReport, error) {
	present, err := repo.HasComments(ctx, s.DB, videoID)
	if err != nil {
		return nil, err
	}
	if present {
		video, err := repo.GetVideo(ctx, s.DB, videoID)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("video_id", videoID).Msg("comments already present, skipping fetch")
		return &IngestReport{VideoID: videoID, Title: video.Title, Skipped: true}, nil
	}

	video, err := retryDo(ctx, s.retryConfig(), func() (*domain.Video, error) {
		return s.Source.VideoMetadata(ctx, videoID)
	})
	if err != nil {
		if errors.Is(err, youtube.ErrNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, err
	}

	// The video row goes in before any comment so partial comment failures
	// never leave orphaned rows.
	if err := repo.UpsertVideo(ctx, s.DB, video); err != nil {
		return nil, err
	}

	inserted, err := s.drain(ctx, videoID)
	if err != nil {
		if inserted > 0 {
			return nil, &PartialIngestionError{VideoID: videoID, Inserted: inserted, Err: err}
		}
		return nil, err
	}

	log.Info().
		Str("video_id", videoID).
		Int64("inserted", inserted).
		Msg("ingestion complete")
	return &IngestReport{VideoID: videoID, Title: video.Title, Inserted: inserted}, nil
}

// drain walks the comment pager and persists batches of BatchSize rows. The
// returned count reflects rows actually inserted, not rows fetched; conflict
// skips from an earlier concurrent run do not inflate it.
func (s *IngestService) drain(ctx context.Context, videoID string) (int64, error) {
	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	pager := s.Source.Comments(videoID)
	var inserted int64
	var fetched int
	pending := make([]domain.Comment, 0, batchSize)

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		n, err := repo.InsertComments(ctx, s.DB, videoID, pending)
		if err != nil {
			return err
		}
		inserted += n
		observability.CommentsIngested.Add(float64(n))
		pending = pending[:0]
		return nil
	}

	for !pager.Done() {
		page, err := retryDo(ctx, s.retryConfig(), func() ([]domain.Comment, error) {
			return pager.Next(ctx)
		})
		if err != nil {
			// Persist what was fetched before reporting the failure so the
			// caller sees an accurate inserted count.
			if ferr := flush(); ferr != nil {
				return inserted, ferr
			}
			return inserted, err
		}
		for _, c := range page {
			pending = append(pending, c)
			fetched++
			if len(pending) == batchSize {
				if err := flush(); err != nil {
					return inserted, err
				}
			}
			if s.MaxComments > 0 && fetched >= s.MaxComments {
				if err := flush(); err != nil {
					return inserted, err
				}
				return inserted, nil
			}
		}
	}
	if err := flush(); err != nil {
		return inserted, err
	}
	return inserted, nil
}

func (s *IngestService) retryConfig() RetryConfig {
	if s.Retry == (RetryConfig{}) {
		return DefaultRetryConfig
	}
	return s.Retry
}

func outcomeLabel(report *IngestReport, err error) string {
	switch {
	case err == nil && report != nil && report.Skipped:
		return "skipped"
	case err == nil:
		return "ingested"
	default:
		var pe *PartialIngestionError
		if errors.As(err, &pe) {
			return "partial"
		}
		return "error"
	}
}
