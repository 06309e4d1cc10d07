package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/cli/config"
	"github.com/secmon-lab/doubleblind/pkg/usecase"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdSeed() *cli.Command {
	var repoCfg config.Repository
	var promptsCfg config.Prompts
	var replace bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "replace",
			Usage:       "Delete all stored prompts before seeding (responses to removed prompts become unreachable)",
			Sources:     cli.EnvVars("DOUBLEBLIND_SEED_REPLACE"),
			Destination: &replace,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, promptsCfg.Flags()...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Load the prompt catalog into the repository",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			catalog, err := promptsCfg.Configure()
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo, "repository")

			uc := usecase.New(repo)
			result, err := uc.Prompt.Seed(ctx, catalog.ToModel(), replace)
			if err != nil {
				return goerr.Wrap(err, "failed to seed prompts")
			}

			logging.Default().Info("Prompts seeded",
				"created", result.Created,
				"updated", result.Updated,
				"replaced", result.Deleted)
			return nil
		},
	}
}
