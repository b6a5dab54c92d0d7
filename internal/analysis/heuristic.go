package analysis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// HeuristicSummarizer is the default, fully deterministic strategy. It never
// calls out of process: sentiment comes from a weighted lexicon over the
// evidence texts, and gaps come from explicit request phrases found in them,
// so every claim is traceable to a literal comment by construction.
type HeuristicSummarizer struct{}

// requestREs detect explicit viewer requests. Each pattern captures the
// clause naming the wanted content; the clause becomes the gap topic.
var requestREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwish(?: this| you| it| they| the video)? (?:covered|explained|included|mentioned|showed|had)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:please|can you|could you|hope you) (?:cover|explain|do|make|show|add)(?: a video (?:on|about))?\s+(.+)`),
	regexp.MustCompile(`(?i)\bwould love (?:to see|a video on|more on)\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:tutorial|video|part 2|follow[ -]?up|deep dive) on\s+(.+)`),
	regexp.MustCompile(`(?i)\b(?:didn'?t|doesn'?t|never|not) (?:cover|explain|mention|show|touch on)\s+(.+)`),
	regexp.MustCompile(`(?i)\bmore (?:examples|details?|content|depth) (?:of|on|about)\s+(.+)`),
	regexp.MustCompile(`(?i)\bmissing\s+(.+)`),
}

// Minimal lexicons for comment-register sentiment. Matching is token-exact.
var (
	positiveWords = map[string]struct{}{
		"great": {}, "love": {}, "loved": {}, "awesome": {}, "amazing": {},
		"excellent": {}, "helpful": {}, "best": {}, "thanks": {}, "thank": {},
		"fantastic": {}, "clear": {}, "perfect": {}, "brilliant": {}, "useful": {},
		"good": {}, "enjoyed": {}, "informative": {},
	}
	negativeWords = map[string]struct{}{
		"bad": {}, "worst": {}, "boring": {}, "hate": {}, "hated": {},
		"terrible": {}, "awful": {}, "confusing": {}, "waste": {}, "useless": {},
		"wrong": {}, "disappointed": {}, "disappointing": {}, "clickbait": {},
		"misleading": {},
	}
	topicStopWords = map[string]struct{}{
		"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {}, "to": {},
		"in": {}, "on": {}, "for": {}, "with": {}, "about": {}, "this": {},
		"that": {}, "it": {}, "its": {}, "your": {}, "more": {}, "some": {},
		"how": {}, "you": {}, "please": {}, "video": {}, "videos": {},
		"next": {}, "time": {},
	}
	tokenRE = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

// gapCandidate accumulates the evidence behind one topic key.
type gapCandidate struct {
	label     string
	citations []string
	likes     int64
}

// Summarize implements Summarizer. Callers should wrap the strategy with
// Grounded; the heuristic emits only literal citations, but the contract is
// owned by the wrapper.
func (HeuristicSummarizer) Summarize(_ context.Context, video *domain.Video, ev Evidence) (*AnalysisResult, error) {
	items := ev.Items()

	// Sentiment: lexicon hits weighted by community endorsement.
	var pos, neg float64
	for _, it := range items {
		weight := float64(1 + it.LikeCount)
		for _, tok := range tokenRE.FindAllString(strings.ToLower(it.Text), -1) {
			if _, ok := positiveWords[tok]; ok {
				pos += weight
			}
			if _, ok := negativeWords[tok]; ok {
				neg += weight
			}
		}
	}
	sentiment := characterize(pos, neg)

	// Gaps: explicit request phrases, grouped by normalized topic.
	caser := titleCaser()
	candidates := make(map[string]*gapCandidate)
	order := make([]string, 0, 4)
	for _, it := range items {
		for _, re := range requestREs {
			m := re.FindStringSubmatch(it.Text)
			if m == nil {
				continue
			}
			key, label := topicOf(m[1], caser)
			if key == "" {
				continue
			}
			c, ok := candidates[key]
			if !ok {
				c = &gapCandidate{label: label}
				candidates[key] = c
				order = append(order, key)
			}
			if !containsString(c.citations, it.Text) {
				c.citations = append(c.citations, it.Text)
				c.likes += it.LikeCount
			}
			break // one topic per comment is enough
		}
	}

	// Stronger demand first: more distinct supporters, then more likes,
	// then first-seen order for determinism.
	sort.SliceStable(order, func(i, j int) bool {
		a, b := candidates[order[i]], candidates[order[j]]
		if len(a.citations) != len(b.citations) {
			return len(a.citations) > len(b.citations)
		}
		return a.likes > b.likes
	})

	gaps := make([]Gap, 0, len(order))
	for _, key := range order {
		c := candidates[key]
		gaps = append(gaps, Gap{
			Topic:     c.label,
			Statement: gapStatement(c),
			Evidence:  c.citations,
		})
	}

	statement := fmt.Sprintf("Audience sentiment across %d evidence comments is %s.", len(items), sentiment)
	if len(gaps) > 0 {
		statement += fmt.Sprintf(" %d content gap(s) identified from literal comment requests.", len(gaps))
	} else {
		statement += " " + StatementNoGaps
	}

	return &AnalysisResult{
		VideoID:       video.ID,
		Sentiment:     sentiment,
		Statement:     statement,
		Gaps:          gaps,
		GapsFound:     len(gaps) > 0,
		EvidenceCount: len(items),
	}, nil
}

func titleCaser() cases.Caser { return cases.Title(language.English) }

// characterize maps weighted lexicon tallies to a coarse label.
func characterize(pos, neg float64) string {
	total := pos + neg
	if total == 0 {
		return "neutral"
	}
	switch ratio := pos / total; {
	case ratio >= 0.9:
		return "overwhelmingly positive"
	case ratio >= 0.65:
		return "mostly positive"
	case ratio > 0.35:
		return "mixed"
	case ratio > 0.1:
		return "mostly negative"
	default:
		return "overwhelmingly negative"
	}
}

// topicOf normalizes a captured request clause into a grouping key and a
// display label: stop words dropped, at most four content tokens kept.
func topicOf(clause string, caser cases.Caser) (key, label string) {
	toks := tokenRE.FindAllString(strings.ToLower(clause), -1)
	kept := make([]string, 0, 4)
	for _, t := range toks {
		if _, stop := topicStopWords[t]; stop {
			continue
		}
		kept = append(kept, t)
		if len(kept) == 4 {
			break
		}
	}
	if len(kept) == 0 {
		return "", ""
	}
	key = strings.Join(kept, " ")
	return key, caser.String(key)
}

func gapStatement(c *gapCandidate) string {
	if n := len(c.citations); n > 1 {
		return fmt.Sprintf("%d comments ask for content on %s that the video does not cover.", n, strings.ToLower(c.label))
	}
	return fmt.Sprintf("A comment explicitly asks for content on %s that the video does not cover.", strings.ToLower(c.label))
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
