package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// Statements emitted when analysis cannot support any gap claim. Downstream
// consumers and tests match on these, so they are fixed strings rather than
// free-form prose.
const (
	StatementInsufficient = "No gaps found: insufficient comment evidence to analyze this video."
	StatementNoGaps       = "No gaps found: the available comments do not indicate a recurring unmet need."
)

// Gap is one content topic viewers indicate is missing. Every gap must carry
// at least one literal evidence citation; the grounding validator drops gaps
// that do not.
type Gap struct {
	// Topic is a short label for the missing content, derived from the
	// cited comment text.
	Topic string `json:"topic"`
	// Statement is the human-readable gap claim.
	Statement string `json:"statement"`
	// Evidence holds the literal comment texts the claim was derived from.
	Evidence []string `json:"evidence"`
}

// AnalysisResult is the outcome of one analysis pass over a video's evidence.
type AnalysisResult struct {
	VideoID string `json:"video_id"`
	// Sentiment characterizes the overall audience mood ("positive",
	// "mixed", ...). "unknown" when evidence was insufficient.
	Sentiment string `json:"sentiment"`
	// Statement is the overall narrative. When GapsFound is false it states
	// so explicitly; silence is never the signal.
	Statement string `json:"statement"`
	Gaps      []Gap  `json:"gaps"`
	GapsFound bool   `json:"gaps_found"`
	// EvidenceCount is the size of the evidence set the claims were
	// grounded on.
	EvidenceCount int `json:"evidence_count"`
}

// Render flattens the result into the plain-text summary persisted on the
// video row.
func (r *AnalysisResult) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Sentiment: %s. %s", r.Sentiment, r.Statement)
	for _, g := range r.Gaps {
		fmt.Fprintf(&b, "\n- %s: %s (e.g. %q)", g.Topic, g.Statement, g.Evidence[0])
	}
	return b.String()
}

// Summarizer produces an analysis from extracted evidence. Implementations
// are strategies behind a fixed contract; they should not be used directly
// but wrapped with Grounded, which enforces the citation rules regardless of
// the underlying strategy.
type Summarizer interface {
	Summarize(ctx context.Context, video *domain.Video, ev Evidence) (*AnalysisResult, error)
}
