package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	"github.com/notelab/braindump/pkg/utils/errutil"
)

func cmdDigest() *cli.Command {
	var githubCfg config.GitHub
	var llmCfg config.LLM
	var slackCfg config.Slack
	var vocabCfg config.Vocabulary

	var flags []cli.Flag
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "digest",
		Usage: "Build a learning digest from trainable entries and optionally post it to Slack",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := buildUseCases(ctx, &githubCfg, &llmCfg, &slackCfg, &vocabCfg)
			if err != nil {
				return err
			}

			if err := uc.Entries.Load(ctx); err != nil {
				return errutil.Handle(ctx, err, "failed to load entries")
			}

			if slackCfg.IsConfigured() {
				if slackCfg.Channel() == "" {
					return goerr.New("slack-channel is required to post the digest")
				}
				if _, err := uc.Coaching.Register(slackCfg.Channel(), "once"); err != nil {
					return err
				}
			}

			text, err := uc.Coaching.SendDigest(ctx)
			if err != nil {
				return errutil.Handle(ctx, err, "failed to build digest")
			}

			fmt.Println(text)
			return nil
		},
	}
}
