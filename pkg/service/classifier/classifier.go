package classifier

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/utils/logging"
)

// generateFunc produces one completion. schema is nil for plain text output.
type generateFunc func(ctx context.Context, system, user string, schema *gollem.Parameter) (string, error)

type provider struct {
	label string
	gen   generateFunc
}

// chain tries each provider in order; the first success wins and every
// failure is swallowed so classification never propagates an error.
type chain struct {
	providers []provider
	vocab     *Vocabulary
}

// Option is a functional option for chain configuration
type Option func(*chain)

// WithProvider appends an LLM-backed classification provider. Providers
// are tried in registration order.
func WithProvider(label string, llm gollem.LLMClient) Option {
	return func(c *chain) {
		c.providers = append(c.providers, provider{label: label, gen: llmGenerate(llm)})
	}
}

// WithVocabulary overrides the built-in category/domain descriptions
func WithVocabulary(vocab *Vocabulary) Option {
	return func(c *chain) {
		c.vocab = vocab
	}
}

// New creates a classification service. A chain with no providers is valid
// and always answers with the fallback record.
func New(opts ...Option) Service {
	c := &chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *chain) Classify(ctx context.Context, text string) *model.Classification {
	system := buildClassifyPrompt(c.vocab)
	schema := classifySchema()

	for _, p := range c.providers {
		raw, err := p.gen(ctx, system, text, schema)
		if err != nil {
			logging.From(ctx).Warn("classification provider failed",
				"provider", p.label, "error", err)
			continue
		}

		var out model.Classification
		if err := json.Unmarshal([]byte(stripFence(raw)), &out); err != nil {
			logging.From(ctx).Warn("classification provider returned invalid JSON",
				"provider", p.label, "error", err)
			continue
		}

		out.Normalize()
		return &out
	}

	return model.FallbackClassification(text)
}

func (c *chain) Hint(ctx context.Context, question, answer string) string {
	user := "Question: " + question + "\nAnswer from notes: " + answer

	for _, p := range c.providers {
		raw, err := p.gen(ctx, hintSystemPrompt, user, nil)
		if err != nil {
			logging.From(ctx).Warn("hint provider failed",
				"provider", p.label, "error", err)
			continue
		}
		if hint := strings.TrimSpace(raw); hint != "" {
			return hint
		}
	}

	return HintFallback
}

func llmGenerate(llm gollem.LLMClient) generateFunc {
	return func(ctx context.Context, system, user string, schema *gollem.Parameter) (string, error) {
		opts := []gollem.SessionOption{
			gollem.WithSessionSystemPrompt(system),
		}
		if schema != nil {
			opts = append(opts,
				gollem.WithSessionContentType(gollem.ContentTypeJSON),
				gollem.WithSessionResponseSchema(schema),
			)
		}

		session, err := llm.NewSession(ctx, opts...)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create LLM session")
		}

		resp, err := session.GenerateContent(ctx, gollem.Text(user))
		if err != nil {
			return "", goerr.Wrap(err, "failed to generate content from LLM")
		}
		if len(resp.Texts) == 0 {
			return "", goerr.New("LLM returned no text")
		}

		return resp.Texts[0], nil
	}
}

// stripFence drops markdown code fences some models wrap JSON in
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
