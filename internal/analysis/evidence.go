// Package analysis turns a stored comment set into an evidence-grounded
// sentiment and content-gap summary. It is deliberately split in two halves:
// the evidence extractor, which reduces raw comments to a bounded set without
// fabricating content, and pluggable summarizer strategies constrained by a
// grounding validator.
package analysis

import (
	"sort"
	"strings"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

// DefaultEvidenceCap bounds the evidence set when the caller does not
// configure one.
const DefaultEvidenceCap = 50

// Item is a single piece of evidence: the literal comment text and the like
// count used to rank it.
type Item struct {
	Text      string `json:"text"`
	LikeCount int64  `json:"like_count"`
}

// Evidence is the filtered, capped subset of comment text that analysis
// claims may cite. The zero value is the explicit empty-evidence marker;
// summarizers must branch on Empty() rather than treating it as a comment
// set that merely contains no gaps.
type Evidence struct {
	items []Item
}

// Empty reports whether no usable evidence survived filtering. Downstream
// output for this state must say "insufficient data", which is distinct from
// "evidence present but no gaps detected".
func (e Evidence) Empty() bool { return len(e.items) == 0 }

// Items returns the evidence entries, highest-endorsement first.
func (e Evidence) Items() []Item { return e.items }

// Len returns the number of evidence entries.
func (e Evidence) Len() int { return len(e.items) }

// Contains reports whether text is literally present in the evidence set.
// The grounding validator uses this to reject fabricated citations.
func (e Evidence) Contains(text string) bool {
	for _, it := range e.items {
		if it.Text == text {
			return true
		}
	}
	return false
}

// Extract reduces a raw comment sequence to an analyzable evidence set:
// whitespace-only texts are dropped, exact-duplicate texts are collapsed to
// dampen spam weight, and the survivors are capped at max entries selected by
// descending like count (ties keep the store's original order, biasing toward
// community-endorsed comments without shuffling equals).
func Extract(comments []domain.Comment, max int) Evidence {
	if max <= 0 {
		max = DefaultEvidenceCap
	}

	seen := make(map[string]struct{}, len(comments))
	items := make([]Item, 0, len(comments))
	for _, c := range comments {
		text := c.Text
		if strings.TrimSpace(text) == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		items = append(items, Item{Text: text, LikeCount: c.LikeCount})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].LikeCount > items[j].LikeCount
	})
	if len(items) > max {
		items = items[:max]
	}
	return Evidence{items: items}
}
