package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tbourn/go-audience-insights/internal/analysis"
	"github.com/tbourn/go-audience-insights/internal/domain"
	"github.com/tbourn/go-audience-insights/internal/repo"
)

func newAnalysisService(t *testing.T, ing *IngestService) *AnalysisService {
	t.Helper()
	var db = ing.DB
	return NewAnalysisService(db, analysis.Grounded(analysis.HeuristicSummarizer{}), ing)
}

func TestAnalyzeFindsGapsAndPersistsSummary(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedVideo(t, db, "vid123456")
	comments := []domain.Comment{
		{ID: "c1", Text: "great explanation, thanks", LikeCount: 3},
		{ID: "c2", Text: "wish this covered error handling", LikeCount: 5},
		{ID: "c3", Text: "please cover error handling next"},
	}
	if _, err := repo.InsertComments(ctx, db, "vid123456", comments); err != nil {
		t.Fatalf("seed comments: %v", err)
	}

	s := newAnalysisService(t, NewIngestService(db, &fakeSource{}))
	res, err := s.Analyze(ctx, "vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.GapsFound || len(res.Gaps) == 0 {
		t.Fatalf("expected gaps, got %+v", res)
	}
	for _, cited := range res.Gaps[0].Evidence {
		if cited != comments[1].Text && cited != comments[2].Text {
			t.Fatalf("citation is not stored comment text: %q", cited)
		}
	}

	video, err := repo.GetVideo(ctx, db, "vid123456")
	if err != nil {
		t.Fatalf("get video: %v", err)
	}
	if video.AnalysisSummary == nil || *video.AnalysisSummary == "" {
		t.Fatal("summary not persisted")
	}
	if !strings.Contains(*video.AnalysisSummary, res.Gaps[0].Topic) {
		t.Fatalf("persisted summary missing gap topic: %q", *video.AnalysisSummary)
	}
}

func TestAnalyzeNoCommentsIsInsufficient(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedVideo(t, db, "vid123456")

	s := newAnalysisService(t, NewIngestService(db, &fakeSource{}))
	res, err := s.Analyze(ctx, "vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.GapsFound {
		t.Fatal("expected no gaps")
	}
	if res.Sentiment != "unknown" {
		t.Fatalf("expected unknown sentiment, got %q", res.Sentiment)
	}
	if res.Statement != analysis.StatementInsufficient {
		t.Fatalf("expected explicit insufficient-data statement, got %q", res.Statement)
	}
}

func TestAnalyzeEvidencePresentButNoGaps(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	seedVideo(t, db, "vid123456")
	if _, err := repo.InsertComments(ctx, db, "vid123456", []domain.Comment{
		{ID: "c1", Text: "great video"},
		{ID: "c2", Text: "loved it"},
	}); err != nil {
		t.Fatalf("seed comments: %v", err)
	}

	s := newAnalysisService(t, NewIngestService(db, &fakeSource{}))
	res, err := s.Analyze(ctx, "vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.GapsFound {
		t.Fatal("expected no gaps")
	}
	// The two no-claim states must stay distinguishable.
	if res.Statement == analysis.StatementInsufficient {
		t.Fatal("evidence was present; must not report insufficient data")
	}
	if !strings.Contains(strings.ToLower(res.Statement), "no gaps found") {
		t.Fatalf("statement must say no gaps found, got %q", res.Statement)
	}
}

func TestAnalyzeIngestsUnknownVideo(t *testing.T) {
	db := newTestDB(t)
	src := &fakeSource{script: []pageResult{
		{batch: []domain.Comment{{ID: "c1", Text: "wish this covered testing"}}},
	}}
	ing := NewIngestService(db, src)
	ing.Retry = fastRetry

	s := newAnalysisService(t, ing)
	res, err := s.Analyze(context.Background(), "vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.metaCalls != 1 {
		t.Fatalf("expected one metadata fetch, got %d", src.metaCalls)
	}
	if !res.GapsFound {
		t.Fatalf("expected gap from ingested comment, got %+v", res)
	}
}

func TestAnalyzeRefetchesVideoWithoutComments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	// A stored row with zero comments is what an aborted earlier run leaves
	// behind; analysis must go back upstream for it.
	seedVideo(t, db, "vid123456")

	src := &fakeSource{script: []pageResult{
		{batch: []domain.Comment{
			{ID: "c1", Text: "wish this covered error handling", LikeCount: 2},
			{ID: "c2", Text: "please cover error handling next"},
		}},
	}}
	ing := NewIngestService(db, src)
	ing.Retry = fastRetry

	s := newAnalysisService(t, ing)
	res, err := s.Analyze(ctx, "vid123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.metaCalls != 1 {
		t.Fatalf("expected an upstream fetch for a comment-less video, got %d metadata calls", src.metaCalls)
	}
	if !res.GapsFound || res.EvidenceCount != 2 {
		t.Fatalf("expected gaps over fetched comments, got %+v", res)
	}

	// Once comments are stored, the next pass stays off the network.
	if _, err := s.Analyze(ctx, "vid123456"); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if src.metaCalls != 1 {
		t.Fatalf("second pass must not refetch, got %d metadata calls", src.metaCalls)
	}
}

func TestAnalyzeUnknownVideoWithoutIngest(t *testing.T) {
	db := newTestDB(t)
	s := &AnalysisService{DB: db, Summarizer: analysis.Grounded(analysis.HeuristicSummarizer{})}
	if _, err := s.Analyze(context.Background(), "vid123456"); !errors.Is(err, ErrVideoNotFound) {
		t.Fatalf("expected ErrVideoNotFound, got %v", err)
	}
}

func TestAnalyzeBadRef(t *testing.T) {
	s := &AnalysisService{}
	if _, err := s.Analyze(context.Background(), "not a ref!"); !errors.Is(err, ErrBadVideoRef) {
		t.Fatalf("expected ErrBadVideoRef, got %v", err)
	}
}
