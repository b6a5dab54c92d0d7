package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/tbourn/go-audience-insights/internal/domain"
)

const gapAnalysisPrompt = `You analyze YouTube audience comments. You will receive a numbered list of comment texts for one video.
Respond with a single JSON object, no prose, matching:
{"sentiment": "<positive|mostly positive|mixed|mostly negative|negative>", "statement": "<one-sentence overall summary>", "gaps": [{"topic": "<short label>", "statement": "<what viewers say is missing>", "evidence": [<comment numbers>]}]}
Rules:
- Only report a gap when comments explicitly ask for content the video does not cover.
- Every gap must cite the numbers of the comments that support it. Never cite a number outside the list.
- If no comment asks for missing content, return an empty gaps array.
`

// OpenAISummarizer is the LLM-backed strategy. The model never sees or emits
// comment text in citations; it cites evidence by list position and the
// strategy maps positions back to the literal texts, so a hallucinated quote
// cannot enter the result. Out-of-range positions invalidate the whole gap.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer builds the strategy. An empty model falls back to GPT-4o
// mini. Wrap the result with Grounded before use.
func NewOpenAISummarizer(apiKey, model string) *OpenAISummarizer {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAISummarizer{client: openai.NewClient(apiKey), model: model}
}

// wire structures for the model's JSON reply.
type llmGap struct {
	Topic     string `json:"topic"`
	Statement string `json:"statement"`
	Evidence  []int  `json:"evidence"`
}

type llmAnalysis struct {
	Sentiment string   `json:"sentiment"`
	Statement string   `json:"statement"`
	Gaps      []llmGap `json:"gaps"`
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, video *domain.Video, ev Evidence) (*AnalysisResult, error) {
	items := ev.Items()

	var b strings.Builder
	fmt.Fprintf(&b, "Video: %q\nComments:\n", video.Title)
	for i, it := range items {
		fmt.Fprintf(&b, "[%d] (%d likes) %s\n", i+1, it.LikeCount, it.Text)
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: gapAnalysisPrompt},
			{Role: openai.ChatMessageRoleUser, Content: b.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}

	raw := stripFences(resp.Choices[0].Message.Content)
	var out llmAnalysis
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse model output %q: %w", raw, err)
	}

	return o.toResult(video.ID, &out, items), nil
}

// toResult converts the wire reply into an AnalysisResult, resolving 1-based
// evidence positions to literal texts. Gaps citing any out-of-range position
// are dropped here; the Grounded wrapper re-checks the survivors.
func (o *OpenAISummarizer) toResult(videoID string, out *llmAnalysis, items []Item) *AnalysisResult {
	gaps := make([]Gap, 0, len(out.Gaps))
	for _, g := range out.Gaps {
		texts := make([]string, 0, len(g.Evidence))
		valid := len(g.Evidence) > 0
		for _, n := range g.Evidence {
			if n < 1 || n > len(items) {
				valid = false
				break
			}
			texts = append(texts, items[n-1].Text)
		}
		if !valid {
			continue
		}
		gaps = append(gaps, Gap{Topic: g.Topic, Statement: g.Statement, Evidence: texts})
	}

	statement := strings.TrimSpace(out.Statement)
	if statement == "" {
		statement = StatementNoGaps
	}
	return &AnalysisResult{
		VideoID:       videoID,
		Sentiment:     strings.ToLower(strings.TrimSpace(out.Sentiment)),
		Statement:     statement,
		Gaps:          gaps,
		GapsFound:     len(gaps) > 0,
		EvidenceCount: len(items),
	}
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
