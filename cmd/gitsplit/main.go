// gitsplit splits the current working-tree changes into semantically
// coherent commits proposed by an LLM.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/gitsplit/internal/classify"
	"github.com/gitsplit/internal/config"
	"github.com/gitsplit/internal/gitexec"
	"github.com/gitsplit/internal/logging"
	"github.com/gitsplit/internal/orchestrate"
	"github.com/gitsplit/internal/ui"
)

func main() {
	app := &cli.App{
		Name:  "gitsplit",
		Usage: "split working-tree changes into semantic commits",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to gitsplit.toml",
				EnvVars: []string{"GITSPLIT_CONFIG"},
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Usage:   "show proposed commits without creating them",
				EnvVars: []string{"GITSPLIT_DRY_RUN"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
				EnvVars: []string{"GITSPLIT_VERBOSE"},
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error().Err(err).Msg("gitsplit failed")
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.Bool("verbose") {
		cfg.LogLevel = "debug"
	}
	logging.Setup(cfg.LogLevel)

	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	git := gitexec.NewRunner("")
	if err := git.CheckRepository(ctx); err != nil {
		return err
	}

	if !c.Bool("dry-run") && !ui.IsInteractive() {
		return fmt.Errorf("gitsplit needs a terminal for file selection and confirmation (or use --dry-run)")
	}

	classifier, err := classify.New(ctx, classify.Config{
		Backend:   cfg.Classifier.Backend,
		APIKey:    cfg.Classifier.APIKey,
		Model:     cfg.Classifier.Model,
		ServerURL: cfg.Classifier.ServerURL,
	})
	if err != nil {
		return err
	}

	runner := orchestrate.New(
		git,
		ui.NewTerminalSelector(),
		classifier,
		os.Stdout,
		orchestrate.WithDryRun(c.Bool("dry-run")),
		orchestrate.WithChunkSize(cfg.Chunk.MaxSize),
	)

	result, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	switch {
	case result.State == orchestrate.Done:
		fmt.Printf("Created %d commits (%d groups skipped).\n", result.CommitsCreated, result.GroupsSkipped)
	case result.CommitsCreated > 0:
		fmt.Printf("Created %d commits, then stopped: %s\n", result.CommitsCreated, result.Reason)
	default:
		fmt.Printf("No commits created: %s\n", result.Reason)
	}
	return nil
}
