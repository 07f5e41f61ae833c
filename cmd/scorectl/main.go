package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Black-And-White-Club/score-bot/config"
	"github.com/Black-And-White-Club/score-bot/db/bundb"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "scorectl",
		Usage: "score-bot operations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SCORE_BOT_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			newMigrateCommand(),
			newExportCommand(),
			newAuditCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// openDB loads the config and connects to Postgres. Every command here
// needs the database, whatever storage.driver says.
func openDB(c *cli.Context) (*config.Config, *bun.DB, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.Postgres.DSN == "" {
		return nil, nil, fmt.Errorf("postgres.dsn (or POSTGRES_DSN) is required")
	}

	ctx, cancel := context.WithTimeout(c.Context, 15*time.Second)
	defer cancel()
	db, err := bundb.NewBunDB(ctx, cfg.Postgres)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}
