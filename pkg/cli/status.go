package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	"github.com/notelab/braindump/pkg/utils/errutil"
)

func cmdStatus() *cli.Command {
	var githubCfg config.GitHub
	var limit int

	flags := []cli.Flag{
		&cli.IntFlag{
			Name:        "commits",
			Usage:       "Number of recent commits to show",
			Value:       5,
			Destination: &limit,
		},
	}
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:  "status",
		Usage: "Check store connectivity and show recent activity",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := githubCfg.Configure(ctx)
			if err != nil {
				return err
			}

			status, err := store.TestConnection(ctx)
			if err != nil {
				color.New(color.FgRed, color.Bold).Fprintln(os.Stdout, "✗ connection failed")
				if status != nil && status.Error != "" {
					fmt.Printf("  %s\n", status.Error)
				}
				return errutil.Handle(ctx, err, "connection test failed")
			}

			color.New(color.FgGreen, color.Bold).Fprintln(os.Stdout, "✓ connected")
			fmt.Printf("  repository: %s\n", status.RepoName)
			if status.Private {
				fmt.Println("  visibility: private")
			} else {
				color.New(color.FgYellow).Fprintln(os.Stdout, "  visibility: public (notes are world-readable)")
			}

			commits, err := store.RecentCommits(ctx, limit)
			if err != nil {
				return errutil.Handle(ctx, err, "failed to fetch recent commits")
			}

			if len(commits) > 0 {
				fmt.Println("\nRecent activity:")
				for _, commit := range commits {
					fmt.Printf("  %s  %-30s %s\n",
						commit.CommittedAt.Format("2006-01-02 15:04"),
						commit.Message,
						commit.Author,
					)
				}
			}

			return nil
		},
	}
}
