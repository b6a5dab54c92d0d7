package analysis

import (
	"context"
	"strings"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// grounded wraps another Summarizer and enforces the conservatism contract:
// every gap claim must be traceable to literal evidence text, and the
// empty-evidence and no-gap outcomes must be stated explicitly.
type grounded struct {
	inner Summarizer
}

// Grounded wraps a summarizer strategy with the citation validator. The
// wrapper, not the strategy, owns the contract, so swapping strategies can
// never weaken it:
//
//   - Empty evidence short-circuits to the fixed "insufficient data" result
//     without invoking the strategy at all.
//   - Gaps with no citations, or with citations not literally present in the
//     evidence set, are dropped.
//   - If no gap survives, GapsFound is false and the statement says
//     "no gaps found" explicitly.
func Grounded(inner Summarizer) Summarizer {
	return &grounded{inner: inner}
}

func (g *grounded) Summarize(ctx context.Context, video *domain.Video, ev Evidence) (*AnalysisResult, error) {
	if ev.Empty() {
		return &AnalysisResult{
			VideoID:   video.ID,
			Sentiment: "unknown",
			Statement: StatementInsufficient,
			Gaps:      []Gap{},
			GapsFound: false,
		}, nil
	}

	res, err := g.inner.Summarize(ctx, video, ev)
	if err != nil {
		return nil, err
	}
	res.VideoID = video.ID
	res.EvidenceCount = ev.Len()

	kept := make([]Gap, 0, len(res.Gaps))
	for _, gap := range res.Gaps {
		if supported(gap, ev) {
			kept = append(kept, gap)
		}
	}
	res.Gaps = kept
	res.GapsFound = len(kept) > 0
	if !res.GapsFound {
		res.Statement = noGapStatement(res.Statement)
	}
	return res, nil
}

// supported reports whether a gap carries at least one citation and every
// citation is literally present in the evidence set.
func supported(g Gap, ev Evidence) bool {
	if len(g.Evidence) == 0 {
		return false
	}
	for _, cited := range g.Evidence {
		if !ev.Contains(cited) {
			return false
		}
	}
	return true
}

// noGapStatement ensures the overall statement says "no gaps found" out loud.
// A strategy statement that already does is kept; anything else is replaced.
func noGapStatement(current string) string {
	if strings.Contains(strings.ToLower(current), "no gaps found") {
		return current
	}
	return StatementNoGaps
}
