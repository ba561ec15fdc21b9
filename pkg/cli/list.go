package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/utils/errutil"
)

func cmdList() *cli.Command {
	var githubCfg config.GitHub
	var llmCfg config.LLM
	var slackCfg config.Slack
	var vocabCfg config.Vocabulary
	var domainFilter string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "domain",
			Usage:       "Only show entries in this domain",
			Destination: &domainFilter,
		},
	}
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List entries grouped by domain",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if domainFilter != "" && !types.Domain(domainFilter).IsValid() {
				return goerr.New("unknown domain", goerr.V("domain", domainFilter))
			}

			uc, err := buildUseCases(ctx, &githubCfg, &llmCfg, &slackCfg, &vocabCfg)
			if err != nil {
				return err
			}

			if err := uc.Entries.Load(ctx); err != nil {
				return errutil.Handle(ctx, err, "failed to load entries")
			}

			byDomain := uc.Entries.EntriesByDomain()
			heading := color.New(color.FgCyan, color.Bold)

			for _, d := range types.AllDomains() {
				if domainFilter != "" && d.String() != domainFilter {
					continue
				}
				entries := byDomain[d]
				if len(entries) == 0 {
					continue
				}

				heading.Printf("%s (%d)\n", d, len(entries))
				for _, e := range entries {
					marker := " "
					if e.IsTrainable() {
						marker = "T"
					}
					fmt.Printf("  %s %s  [%s] %s\n", marker, e.ID, e.Category, e.Title)
				}
				fmt.Println()
			}

			stats := uc.Entries.Stats()
			fmt.Printf("%d entries, %d trainable, %d mastered\n",
				stats.Total, stats.Trainable, stats.Mastered)
			return nil
		},
	}
}
