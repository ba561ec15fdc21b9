package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	"github.com/notelab/braindump/pkg/utils/errutil"
)

func cmdAdd() *cli.Command {
	var githubCfg config.GitHub
	var llmCfg config.LLM
	var slackCfg config.Slack
	var vocabCfg config.Vocabulary

	var flags []cli.Flag
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, vocabCfg.Flags()...)

	return &cli.Command{
		Name:      "add",
		Aliases:   []string{"a"},
		Usage:     "Capture a note: classify it and persist it to the repository",
		ArgsUsage: "<text>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if text == "" {
				return goerr.New("text is required: braindump add <text>")
			}

			uc, err := buildUseCases(ctx, &githubCfg, &llmCfg, &slackCfg, &vocabCfg)
			if err != nil {
				return err
			}

			entry, err := uc.Entries.Capture(ctx, text)
			if err != nil {
				return errutil.Handle(ctx, err, "failed to capture entry")
			}

			// The write runs in the background; block until it lands so
			// the process does not exit with the document unsaved.
			uc.Entries.Wait()
			if serr := uc.Entries.SyncErr.Get(); serr != nil {
				return errutil.Handle(ctx, serr, "failed to persist entry")
			}

			color.New(color.FgGreen).Printf("✓ %s\n", entry.ID)
			fmt.Printf("  %s / %s\n", entry.Domain, entry.Category)
			fmt.Printf("  %s\n", entry.Title)
			if entry.IsTrainable() {
				fmt.Printf("  training: %s\n", entry.TrainingQ)
			}
			return nil
		},
	}
}
