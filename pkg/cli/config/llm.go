package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/notelab/braindump/pkg/service/classifier"
	"github.com/urfave/cli/v3"
)

// LLM holds CLI flags for the classification providers. Claude is tried
// first, Gemini second; with neither configured the classifier degrades
// to the static fallback.
type LLM struct {
	claudeAPIKey   string
	geminiProject  string
	geminiLocation string
}

func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "claude-api-key",
			Category:    "llm",
			Usage:       "Anthropic API key for classification",
			Sources:     cli.EnvVars("BRAINDUMP_CLAUDE_API_KEY"),
			Destination: &x.claudeAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Category:    "llm",
			Usage:       "Google Cloud project ID for the Gemini fallback",
			Sources:     cli.EnvVars("BRAINDUMP_GEMINI_PROJECT"),
			Destination: &x.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Category:    "llm",
			Usage:       "Google Cloud location for the Gemini fallback",
			Value:       "us-central1",
			Sources:     cli.EnvVars("BRAINDUMP_GEMINI_LOCATION"),
			Destination: &x.geminiLocation,
		},
	}
}

func (x LLM) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("claude", x.claudeAPIKey != ""),
		slog.Bool("gemini", x.geminiProject != ""),
		slog.String("gemini_location", x.geminiLocation),
	)
}

// Configure builds classifier options for each configured provider, in
// fallback order, and returns the primary client for direct generation
// such as digest building. Nothing configured yields empty options and a
// nil client, which is valid: the classifier degrades to the static
// fallback and digests report not-configured.
func (x *LLM) Configure(ctx context.Context) ([]classifier.Option, gollem.LLMClient, error) {
	var opts []classifier.Option
	var primary gollem.LLMClient

	if x.claudeAPIKey != "" {
		client, err := claude.New(ctx, x.claudeAPIKey)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Claude client")
		}
		opts = append(opts, classifier.WithProvider("claude", client))
		primary = client
	}

	if x.geminiProject != "" {
		client, err := gemini.New(ctx, x.geminiProject, x.geminiLocation)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		opts = append(opts, classifier.WithProvider("gemini", client))
		if primary == nil {
			primary = client
		}
	}

	return opts, primary, nil
}
