package cli

import (
	"context"
	"strings"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/doubleblind/pkg/cli/config"
	"github.com/secmon-lab/doubleblind/pkg/repository/firestore"
	"github.com/secmon-lab/doubleblind/pkg/utils/logging"
	"github.com/secmon-lab/doubleblind/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var repoCfg config.Repository
	var dryRun bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Preview changes without applying",
			Destination: &dryRun,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create Firestore indexes or SQL tables for the configured backend",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Migrate configuration",
				"repository", repoCfg,
				"dryRun", dryRun)

			switch repoCfg.Backend() {
			case config.BackendFirestore:
				return migrateFirestore(ctx, repoCfg.ProjectID(), repoCfg.DatabaseID(), repoCfg.CollectionPrefix(), dryRun)

			case config.BackendPostgres, config.BackendSQLite:
				if dryRun {
					logging.Default().Info("Dry run mode - tables would be created if missing", "backend", repoCfg.Backend())
					return nil
				}
				if err := repoCfg.Migrate(ctx); err != nil {
					return err
				}
				logging.Default().Info("Migrations applied successfully", "backend", repoCfg.Backend())
				return nil

			default:
				logging.Default().Info("Nothing to migrate", "backend", repoCfg.Backend())
				return nil
			}
		},
	}
}

func migrateFirestore(ctx context.Context, projectID, databaseID, prefix string, dryRun bool) error {
	logger := logging.Default()
	if projectID == "" {
		return goerr.Wrap(config.ErrMissingSetting, "firestore-project-id is required", goerr.V(config.FlagKey, "firestore-project-id"))
	}
	if databaseID == "" {
		databaseID = defaultDatabaseID
	}

	indexConfig := getIndexConfig(prefix)

	client, err := fireconf.New(ctx, projectID, databaseID, indexConfig, fireconf.WithLogger(logger))
	if err != nil {
		return goerr.Wrap(err, "failed to create fireconf client")
	}
	defer safe.Close(ctx, client, "fireconf client")

	if dryRun {
		logger.Info("Dry run mode - previewing changes")
		names := make([]string, 0, len(indexConfig.Collections))
		for _, c := range indexConfig.Collections {
			names = append(names, c.Name)
		}

		current, err := client.Import(ctx, names...)
		if err != nil {
			return goerr.Wrap(err, "failed to import current indexes")
		}
		diff, err := client.DiffConfigs(current)
		if err != nil {
			return goerr.Wrap(err, "failed to compare indexes")
		}

		steps := migrationSteps(diff)
		if len(steps) == 0 {
			logger.Info("No changes required")
			return nil
		}
		for _, step := range steps {
			logger.Info("Migration step",
				"collection", step.Collection,
				"operation", step.Operation,
				"fields", step.Fields)
		}
		return nil
	}

	logger.Info("Applying migrations")
	if err := client.Migrate(ctx); err != nil {
		return goerr.Wrap(err, "failed to apply migrations")
	}
	logger.Info("Migrations applied successfully")
	return nil
}

// defaultDatabaseID is the database Firestore creates with a project
const defaultDatabaseID = "(default)"

type migrationStep struct {
	Collection string
	Operation  string
	Fields     []string
}

// migrationSteps flattens a diff into one step per index to create or delete
func migrationSteps(diff *fireconf.DiffResult) []migrationStep {
	var steps []migrationStep
	for _, c := range diff.Collections {
		for _, idx := range c.IndexesToAdd {
			steps = append(steps, migrationStep{Collection: c.Name, Operation: "create index", Fields: indexFields(idx)})
		}
		for _, idx := range c.IndexesToDelete {
			steps = append(steps, migrationStep{Collection: c.Name, Operation: "delete index", Fields: indexFields(idx)})
		}
		if c.TTLAction != "" {
			field := ""
			if c.TTL != nil {
				field = c.TTL.Field
			}
			steps = append(steps, migrationStep{Collection: c.Name, Operation: "ttl " + strings.ToLower(string(c.TTLAction)), Fields: []string{field}})
		}
	}
	return steps
}

func indexFields(idx fireconf.Index) []string {
	fields := make([]string, 0, len(idx.Fields))
	for _, f := range idx.Fields {
		fields = append(fields, f.Path+" "+string(f.Order))
	}
	return fields
}

// getIndexConfig returns the Firestore index configuration
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: firestore.CollectionName(prefix, "responses"),
				Indexes: []fireconf.Index{
					// ListByPrompt: prompt_id ASC, created_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "prompt_id", Order: fireconf.OrderAscending},
							{Path: "created_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: firestore.CollectionName(prefix, "acknowledgments"),
				Indexes: []fireconf.Index{
					// ListByResponses: response_id ASC, acknowledged_at ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "response_id", Order: fireconf.OrderAscending},
							{Path: "acknowledged_at", Order: fireconf.OrderAscending},
						},
					},
				},
			},
		},
	}
}
