package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/notelab/braindump/pkg/cli/config"
	httpctrl "github.com/notelab/braindump/pkg/controller/http"
	"github.com/notelab/braindump/pkg/service/classifier"
	"github.com/notelab/braindump/pkg/service/digest"
	"github.com/notelab/braindump/pkg/usecase"
	"github.com/notelab/braindump/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var githubCfg config.GitHub
	var llmCfg config.LLM
	var slackCfg config.Slack
	var vocabCfg config.Vocabulary

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("BRAINDUMP_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, llmCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, vocabCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, err := buildUseCases(ctx, &githubCfg, &llmCfg, &slackCfg, &vocabCfg)
			if err != nil {
				return err
			}

			// Warm the cache before accepting traffic; a failed initial
			// load is survivable, a later sync can recover.
			if err := uc.Entries.Load(ctx); err != nil {
				logging.Default().Warn("initial cache load failed", "error", err)
			} else {
				logging.Default().Info("cache loaded", "total", uc.Entries.Stats().Total)
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Drain background document writes before exit
				uc.Entries.Wait()

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}

// buildUseCases assembles the use case layer from the shared config
// sections. The serve, add, list and digest commands all go through here.
func buildUseCases(ctx context.Context, githubCfg *config.GitHub, llmCfg *config.LLM, slackCfg *config.Slack, vocabCfg *config.Vocabulary) (*usecase.UseCases, error) {
	store, err := githubCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize document store")
	}

	llmOpts, llmClient, err := llmCfg.Configure(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize LLM providers")
	}
	if len(llmOpts) == 0 {
		logging.Default().Info("No LLM provider configured, classification uses the static fallback")
	}

	vocab, err := vocabCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load vocabulary")
	}
	if len(vocab.Categories) > 0 || len(vocab.Domains) > 0 {
		llmOpts = append(llmOpts, classifier.WithVocabulary(vocab))
	}

	ucOpts := []usecase.Option{
		usecase.WithClassifier(classifier.New(llmOpts...)),
	}

	if llmClient != nil {
		dg, err := digest.New(llmClient)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize digest service")
		}
		ucOpts = append(ucOpts, usecase.WithDigest(dg))
	}

	notifier, err := slackCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack service")
	}
	if notifier != nil {
		ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
		logging.Default().Info("Slack digest delivery enabled", "channel", slackCfg.Channel())
	}

	return usecase.New(store, ucOpts...), nil
}
