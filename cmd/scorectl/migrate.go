package main

import (
	"fmt"

	"github.com/Black-And-White-Club/score-bot/db/bundb"
	"github.com/urfave/cli/v2"
)

func newMigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for _, m := range bundb.Migrators(db) {
						fmt.Printf("Initializing migrations for module: %s\n", m.Name)
						if err := m.Init(c.Context); err != nil {
							return fmt.Errorf("init %s: %w", m.Name, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					return bundb.RunMigrations(c.Context, db, cliLogger())
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group of every module, newest module first",
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					migrators := bundb.Migrators(db)
					for i := len(migrators) - 1; i >= 0; i-- {
						m := migrators[i]
						group, err := m.Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("rollback %s: %w", m.Name, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", m.Name)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", m.Name, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migration status",
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					for _, m := range bundb.Migrators(db) {
						ms, err := m.MigrationsWithStatus(c.Context)
						if err != nil {
							return fmt.Errorf("status %s: %w", m.Name, err)
						}
						fmt.Printf("%s: migrations: %s\n", m.Name, ms)
						fmt.Printf("%s: unapplied migrations: %s\n", m.Name, ms.Unapplied())
						fmt.Printf("%s: last migration group: %s\n", m.Name, ms.LastGroup())
					}
					return nil
				},
			},
		},
	}
}
