package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

func summarizeTexts(t *testing.T, items []Item) *AnalysisResult {
	t.Helper()
	comments := make([]domain.Comment, 0, len(items))
	for i, it := range items {
		comments = append(comments, domain.Comment{
			ID:        strings.Repeat("x", i+1),
			Text:      it.Text,
			LikeCount: it.LikeCount,
		})
	}
	res, err := Grounded(HeuristicSummarizer{}).
		Summarize(context.Background(), &domain.Video{ID: "vid1", Title: "Intro to Go"}, Extract(comments, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestHeuristicDetectsExplicitRequest(t *testing.T) {
	res := summarizeTexts(t, []Item{
		{Text: "great intro, thanks"},
		{Text: "wish this covered error handling", LikeCount: 4},
		{Text: "please cover error handling next time"},
	})

	if !res.GapsFound || len(res.Gaps) == 0 {
		t.Fatalf("expected a gap, got %+v", res)
	}
	gap := res.Gaps[0]
	if !strings.Contains(strings.ToLower(gap.Topic), "error handling") {
		t.Fatalf("unexpected topic %q", gap.Topic)
	}
	if len(gap.Evidence) != 2 {
		t.Fatalf("expected both requests cited, got %v", gap.Evidence)
	}
	for _, cited := range gap.Evidence {
		if cited != "wish this covered error handling" && cited != "please cover error handling next time" {
			t.Fatalf("citation is not literal evidence: %q", cited)
		}
	}
}

func TestHeuristicNoRequestsMeansNoGaps(t *testing.T) {
	res := summarizeTexts(t, []Item{
		{Text: "great video, very helpful", LikeCount: 3},
		{Text: "loved the pacing"},
	})

	if res.GapsFound || len(res.Gaps) != 0 {
		t.Fatalf("expected no gaps, got %+v", res.Gaps)
	}
	if !strings.Contains(strings.ToLower(res.Statement), "no gaps found") {
		t.Fatalf("statement must state no gaps explicitly, got %q", res.Statement)
	}
	if res.Sentiment != "overwhelmingly positive" {
		t.Fatalf("unexpected sentiment %q", res.Sentiment)
	}
}

func TestHeuristicSingleRequestIsEnough(t *testing.T) {
	// Dedup can collapse a repeated request into one evidence item; the one
	// surviving literal request must still produce a gap.
	res := summarizeTexts(t, []Item{
		{Text: "wish this covered error handling"},
		{Text: "wish this covered error handling"},
	})
	if !res.GapsFound {
		t.Fatalf("expected gap from single deduped request, got %+v", res)
	}
	if got := res.Gaps[0].Evidence; len(got) != 1 || got[0] != "wish this covered error handling" {
		t.Fatalf("unexpected citations %v", got)
	}
}

func TestHeuristicSentiment(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
		want  string
	}{
		{
			name:  "neutral without lexicon hits",
			items: []Item{{Text: "first"}, {Text: "came here from the other channel"}},
			want:  "neutral",
		},
		{
			name: "likes weigh the balance",
			items: []Item{
				{Text: "terrible and boring", LikeCount: 0},
				{Text: "absolutely great, loved it", LikeCount: 50},
			},
			want: "overwhelmingly positive",
		},
		{
			name: "mixed",
			items: []Item{
				{Text: "great explanation", LikeCount: 1},
				{Text: "really confusing", LikeCount: 1},
			},
			want: "mixed",
		},
		{
			name:  "negative",
			items: []Item{{Text: "worst tutorial, total waste"}, {Text: "awful audio"}},
			want:  "overwhelmingly negative",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if res := summarizeTexts(t, tc.items); res.Sentiment != tc.want {
				t.Fatalf("want sentiment %q, got %q", tc.want, res.Sentiment)
			}
		})
	}
}

func TestHeuristicGapOrdering(t *testing.T) {
	res := summarizeTexts(t, []Item{
		{Text: "please cover deployment strategies"},
		{Text: "wish this covered generics basics"},
		{Text: "would love more on generics basics", LikeCount: 2},
	})
	if len(res.Gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %+v", res.Gaps)
	}
	if !strings.Contains(strings.ToLower(res.Gaps[0].Topic), "generics") {
		t.Fatalf("more-supported topic should rank first, got %+v", res.Gaps)
	}
}

func TestTopicOfDropsStopWords(t *testing.T) {
	caser := titleCaser()
	key, label := topicOf("the error handling in your videos", caser)
	if key != "error handling" {
		t.Fatalf("unexpected key %q", key)
	}
	if label != "Error Handling" {
		t.Fatalf("unexpected label %q", label)
	}
	if key, _ := topicOf("the a of", caser); key != "" {
		t.Fatalf("expected empty key for stop words only, got %q", key)
	}
}
