// Package services – AnalysisService
//
// This file implements the analysis coordinator: make sure the video's
// comments are in the store (triggering ingestion when they are not), extract
// the evidence set, run the configured summarizer, and persist the rendered
// summary on the video row.
package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-audience-insights/internal/analysis"
	"github.com/tbourn/go-audience-insights/internal/observability"
	"github.com/tbourn/go-audience-insights/internal/repo"
	"github.com/tbourn/go-audience-insights/internal/youtube"
)

// AnalysisService produces evidence-grounded summaries for stored videos.
type AnalysisService struct {
	DB *gorm.DB
	// Summarizer is the strategy used for the pass. Construct it wrapped
	// with analysis.Grounded; this service does not re-validate citations.
	Summarizer analysis.Summarizer
	// Ingest, when set, is used to pull comments when the store holds none
	// for the video. When nil, analysis runs over stored data only and an
	// unknown video fails with ErrVideoNotFound.
	Ingest *IngestService

	// EvidenceMax caps the evidence set. Zero means
	// analysis.DefaultEvidenceCap.
	EvidenceMax int
}

// NewAnalysisService constructs an AnalysisService around a grounded
// summarizer strategy.
func NewAnalysisService(db *gorm.DB, sum analysis.Summarizer, ing *IngestService) *AnalysisService {
	return &AnalysisService{DB: db, Summarizer: sum, Ingest: ing}
}

// Analyze runs one analysis pass over the video's stored comments and
// persists the rendered summary. The ref may be a URL or a bare video ID.
//
// When an IngestService is wired, every pass asks it to ensure the comments
// are present first. The ingestion presence gate makes that a cheap store
// probe for already-ingested videos, while videos with a stored row but no
// comments (an aborted earlier run, a delete) get re-fetched. A partial
// ingestion does not abort the pass; analysis proceeds over whatever was
// persisted, since the grounding rules already keep claims within the
// available evidence.
func (s *AnalysisService) Analyze(ctx context.Context, ref string) (*analysis.AnalysisResult, error) {
	videoID, err := youtube.ParseVideoID(ref)
	if err != nil {
		return nil, ErrBadVideoRef
	}

	tr := otel.Tracer("services/AnalysisService")
	ctx, span := tr.Start(ctx, "Analyze",
		trace.WithAttributes(attribute.String("video.id", videoID)),
	)
	defer span.End()

	res, err := s.analyze(ctx, videoID)
	observability.AnalysisRuns.WithLabelValues(analysisOutcome(res, err)).Inc()
	return res, err
}

func (s *AnalysisService) analyze(ctx context.Context, videoID string) (*analysis.AnalysisResult, error) {
	if s.Ingest != nil {
		if _, ierr := s.Ingest.Ingest(ctx, videoID); ierr != nil {
			var pe *PartialIngestionError
			if !errors.As(ierr, &pe) {
				return nil, ierr
			}
			log.Warn().
				Str("video_id", videoID).
				Int64("inserted", pe.Inserted).
				Msg("analyzing partially ingested video")
		}
	}

	video, err := repo.GetVideo(ctx, s.DB, videoID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrVideoNotFound
	}
	if err != nil {
		return nil, err
	}

	comments, err := repo.ListComments(ctx, s.DB, videoID, 0)
	if err != nil {
		return nil, err
	}

	ev := analysis.Extract(comments, s.EvidenceMax)
	res, err := s.Summarizer.Summarize(ctx, video, ev)
	if err != nil {
		return nil, err
	}

	if err := repo.SetAnalysisSummary(ctx, s.DB, videoID, res.Render()); err != nil {
		return nil, err
	}

	log.Info().
		Str("video_id", videoID).
		Bool("gaps_found", res.GapsFound).
		Int("evidence_count", res.EvidenceCount).
		Msg("analysis complete")
	return res, nil
}

func analysisOutcome(res *analysis.AnalysisResult, err error) string {
	switch {
	case err != nil:
		return "error"
	case res.GapsFound:
		return "gaps"
	case res.EvidenceCount == 0:
		return "insufficient"
	default:
		return "no_gaps"
	}
}
