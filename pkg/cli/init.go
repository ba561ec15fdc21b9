package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	"github.com/notelab/braindump/pkg/domain/types"
	"github.com/notelab/braindump/pkg/utils/errutil"
)

func cmdInit() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:  "init",
		Usage: "Create the domain folder layout in the target repository",
		Flags: githubCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			store, err := githubCfg.Configure(ctx)
			if err != nil {
				return err
			}

			if err := store.EnsureDomainFolders(ctx); err != nil {
				return errutil.Handle(ctx, err, "failed to create domain folders")
			}

			for _, d := range types.AllDomains() {
				fmt.Printf("  %s/\n", d)
			}
			fmt.Println("repository initialized")
			return nil
		},
	}
}
