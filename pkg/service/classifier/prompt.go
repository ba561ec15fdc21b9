package classifier

import (
	"strings"

	"github.com/m-mizutani/gollem"
	"github.com/notelab/braindump/pkg/domain/types"
)

var defaultCategoryDescriptions = map[types.Category]string{
	types.CategoryCommand:   "SQL, CLI, code snippets, terminal commands, API calls",
	types.CategoryConcept:   "definitions, explanations, how things work",
	types.CategoryInsight:   "realizations, connections, aha moments",
	types.CategoryTask:      "todos, reminders, action items",
	types.CategoryQuestion:  "things to look up, open questions",
	types.CategoryReference: "URLs, book titles, people, resources",
	types.CategoryRaw:       "everything else",
}

var defaultDomainDescriptions = map[types.Domain]string{
	types.DomainDaily:   "random thoughts, quick notes, misc observations",
	types.DomainSkills:  "learning something, technical knowledge, how-to, tutorials",
	types.DomainGoals:   "objectives, OKRs, progress updates, milestones",
	types.DomainHealth:  "fitness, nutrition, sleep, workouts, mental health, sports",
	types.DomainLibrary: "book notes, article summaries, quotes, references",
}

func describe(vocab *Vocabulary, c types.Category) string {
	if vocab != nil {
		if d, ok := vocab.Categories[c]; ok {
			return d
		}
	}
	return defaultCategoryDescriptions[c]
}

func describeDomain(vocab *Vocabulary, d types.Domain) string {
	if vocab != nil {
		if desc, ok := vocab.Domains[d]; ok {
			return desc
		}
	}
	return defaultDomainDescriptions[d]
}

// buildClassifyPrompt creates the fixed system prompt for note classification
func buildClassifyPrompt(vocab *Vocabulary) string {
	var sb strings.Builder

	sb.WriteString("You are a brain dump classifier. Given a note, classify it into structured metadata.\n\n")

	sb.WriteString("## Category rules:\n\n")
	for _, c := range types.AllCategories() {
		sb.WriteString("- " + c.String() + ": " + describe(vocab, c) + "\n")
	}

	sb.WriteString("\n## Domain rules (which folder to store in):\n\n")
	for _, d := range types.AllDomains() {
		sb.WriteString("- " + d.String() + ": " + describeDomain(vocab, d) + "\n")
	}

	sb.WriteString("\n")
	sb.WriteString("- title: short 3-6 word title\n")
	sb.WriteString("- summary: one sentence essence\n")
	sb.WriteString("- trainable: true if worth reviewing later (commands, concepts, insights)\n")
	sb.WriteString("- training_q: if trainable, write a question that tests understanding/recall of this specific knowledge\n")

	return sb.String()
}

// classifySchema creates the JSON schema for structured classification output
func classifySchema() *gollem.Parameter {
	categories := make([]string, 0, len(types.AllCategories()))
	for _, c := range types.AllCategories() {
		categories = append(categories, c.String())
	}
	domains := make([]string, 0, len(types.AllDomains()))
	for _, d := range types.AllDomains() {
		domains = append(domains, d.String())
	}

	return &gollem.Parameter{
		Title:       "NoteClassification",
		Description: "Structured metadata derived from a raw note",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"category": {
				Type:        gollem.TypeString,
				Description: "The nature of the note",
				Enum:        categories,
				Required:    true,
			},
			"domain": {
				Type:        gollem.TypeString,
				Description: "The topic folder to store the note in",
				Enum:        domains,
				Required:    true,
			},
			"title": {
				Type:        gollem.TypeString,
				Description: "Short 3-6 word title",
				Required:    true,
			},
			"tags": {
				Type:        gollem.TypeArray,
				Description: "Topic tags",
				Items:       &gollem.Parameter{Type: gollem.TypeString},
				Required:    true,
			},
			"summary": {
				Type:        gollem.TypeString,
				Description: "One sentence essence of the note",
			},
			"trainable": {
				Type:        gollem.TypeBoolean,
				Description: "Whether the note is worth reviewing later",
				Required:    true,
			},
			"training_q": {
				Type:        gollem.TypeString,
				Description: "A question testing recall of this knowledge",
			},
		},
	}
}

const hintSystemPrompt = "Give a short helpful hint (1 sentence max) to help someone remember this. Do NOT reveal the full answer."

// HintFallback is returned when every hint provider fails
const HintFallback = "Think about the context where you learned this..."
