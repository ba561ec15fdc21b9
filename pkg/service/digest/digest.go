package digest

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/notelab/braindump/pkg/domain/model"
	"github.com/notelab/braindump/pkg/domain/types"
)

const (
	maxTopics  = 10
	maxRecent  = 5
	maxSnippet = 100
)

// Service builds a short learning digest from the trainable entries
type Service interface {
	Build(ctx context.Context, entries []*model.Entry) (string, error)
}

type client struct {
	llm gollem.LLMClient
}

// New creates a digest service with the provided LLM client
func New(llm gollem.LLMClient) (Service, error) {
	if llm == nil {
		return nil, goerr.New("LLM client is required")
	}
	return &client{llm: llm}, nil
}

// Build generates a digest from the trainable subset of entries
func (c *client) Build(ctx context.Context, entries []*model.Entry) (string, error) {
	trainable := make([]*model.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Trainable {
			trainable = append(trainable, e)
		}
	}

	topics := collectTopics(trainable)
	if len(topics) == 0 {
		return "", goerr.New("no topics to build a digest from")
	}

	session, err := c.llm.NewSession(ctx)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(buildPrompt(trainable, topics)))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate digest")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("LLM returned no text")
	}

	return strings.TrimSpace(resp.Texts[0]), nil
}

// collectTopics gathers unique tags across trainable entries, capped and
// in first-seen order.
func collectTopics(entries []*model.Entry) []string {
	seen := make(map[string]struct{})
	var topics []string
	for _, e := range entries {
		for _, tag := range e.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			topics = append(topics, tag)
			if len(topics) >= maxTopics {
				return topics
			}
		}
	}
	return topics
}

func collectCategories(entries []*model.Entry) []string {
	seen := make(map[types.Category]struct{})
	var categories []string
	for _, e := range entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, e.Category.String())
	}
	return categories
}

func buildPrompt(trainable []*model.Entry, topics []string) string {
	var sb strings.Builder

	sb.WriteString("You are a learning assistant. Based on these topics the user is learning: ")
	sb.WriteString(strings.Join(topics, ", "))
	sb.WriteString("\n\nCategories they're interested in: ")
	sb.WriteString(strings.Join(collectCategories(trainable), ", "))
	sb.WriteString("\n\nRecent entries they've saved:\n")

	recent := trainable
	if len(recent) > maxRecent {
		recent = recent[:maxRecent]
	}
	for _, e := range recent {
		snippet := e.Text
		if r := []rune(snippet); len(r) > maxSnippet {
			snippet = string(r[:maxSnippet])
		}
		fmt.Fprintf(&sb, "- %s: %s\n", e.Title, snippet)
	}

	sb.WriteString("\nWrite a short, helpful digest (max 500 chars) with:\n")
	sb.WriteString("1. One interesting fact or tip related to their topics\n")
	sb.WriteString("2. One suggestion for what to explore next\n")
	sb.WriteString("3. A motivational note about their learning progress\n\n")
	sb.WriteString("Keep it casual and friendly. Use 1-2 relevant emojis.")

	return sb.String()
}
