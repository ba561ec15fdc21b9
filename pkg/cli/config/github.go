package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/notelab/braindump/pkg/domain/interfaces"
	"github.com/notelab/braindump/pkg/repository/memory"
	"github.com/notelab/braindump/pkg/service/github"
	"github.com/notelab/braindump/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// GitHub holds CLI flags for the document store backend
type GitHub struct {
	backend        string
	repo           string
	token          string
	appID          int64
	installationID int64
	privateKey     string
}

func (x *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store-backend",
			Category:    "github",
			Usage:       "Document store backend [github, memory]",
			Value:       "github",
			Sources:     cli.EnvVars("BRAINDUMP_STORE_BACKEND"),
			Destination: &x.backend,
		},
		&cli.StringFlag{
			Name:        "github-repo",
			Category:    "github",
			Usage:       "Target repository as <owner>/<name>",
			Sources:     cli.EnvVars("BRAINDUMP_GITHUB_REPO"),
			Destination: &x.repo,
		},
		&cli.StringFlag{
			Name:        "github-token",
			Category:    "github",
			Usage:       "Personal access token with contents read/write scope",
			Sources:     cli.EnvVars("BRAINDUMP_GITHUB_TOKEN"),
			Destination: &x.token,
		},
		&cli.Int64Flag{
			Name:        "github-app-id",
			Category:    "github",
			Usage:       "GitHub App ID (App auth, alternative to a token)",
			Sources:     cli.EnvVars("BRAINDUMP_GITHUB_APP_ID"),
			Destination: &x.appID,
		},
		&cli.Int64Flag{
			Name:        "github-app-installation-id",
			Category:    "github",
			Usage:       "GitHub App installation ID",
			Sources:     cli.EnvVars("BRAINDUMP_GITHUB_APP_INSTALLATION_ID"),
			Destination: &x.installationID,
		},
		&cli.StringFlag{
			Name:        "github-app-private-key",
			Category:    "github",
			Usage:       "GitHub App private key (PEM string or file path)",
			Sources:     cli.EnvVars("BRAINDUMP_GITHUB_APP_PRIVATE_KEY"),
			Destination: &x.privateKey,
		},
	}
}

// Repo returns the configured <owner>/<name> repository
func (x *GitHub) Repo() string {
	return x.repo
}

// Configure initializes the document store for the configured backend
func (x *GitHub) Configure(ctx context.Context) (interfaces.RemoteStore, error) {
	switch x.backend {
	case "github":
		if x.repo == "" {
			return nil, goerr.Wrap(ErrInvalidConfig, "github-repo is required when using github backend")
		}

		if x.appID != 0 {
			store, err := github.NewApp(x.appID, x.installationID, x.privateKey, x.repo)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to initialize GitHub store (App auth)")
			}
			logging.Default().Info("Using GitHub document store",
				"repo", x.repo, "auth", "app", "app_id", x.appID)
			return store, nil
		}

		store, err := github.New(x.token, x.repo)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize GitHub store")
		}
		logging.Default().Info("Using GitHub document store", "repo", x.repo, "auth", "token")
		return store, nil

	case "memory":
		logging.Default().Info("Using in-memory document store (development mode)")
		return memory.New(), nil

	default:
		return nil, goerr.Wrap(ErrInvalidConfig, "invalid store backend", goerr.V("backend", x.backend))
	}
}
