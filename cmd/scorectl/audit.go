package main

import (
	"fmt"
	"time"

	guildservice "github.com/Black-And-White-Club/score-bot/app/modules/guild/application"
	guilddb "github.com/Black-And-White-Club/score-bot/app/modules/guild/infrastructure/repositories"
	scoreservice "github.com/Black-And-White-Club/score-bot/app/modules/score/application"
	scoreaudit "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/audit"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	"github.com/urfave/cli/v2"
)

func newAuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "compare stored scores with the point event log",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "lookback", Value: 24 * time.Hour, Usage: "audit members who received points within this window"},
			&cli.DurationFlag{Name: "timeout", Value: time.Minute, Usage: "bound on the whole audit pass"},
		},
		Action: func(c *cli.Context) error {
			cfg, db, err := openDB(c)
			if err != nil {
				return err
			}
			defer db.Close()

			logger := cliLogger()
			guilds := guilddb.NewRepository(db)
			svc := scoreservice.NewScoreService(
				guilds,
				scoredb.NewRepository(db),
				guildservice.NewPermissionResolver(guilds, nil, logger, nil),
				logger, nil, nil, db,
				scoreservice.Options{StoreTimeout: c.Duration("timeout"), MaxCategoryLength: cfg.Scoring.MaxCategoryLength},
			)

			auditor, err := scoreaudit.NewScheduler(svc, "@daily", c.Duration("lookback"), logger)
			if err != nil {
				return err
			}
			reports, err := auditor.RunOnce(c.Context)
			if err != nil {
				return err
			}

			drifted := 0
			for _, r := range reports {
				if !r.Drift {
					continue
				}
				drifted++
				fmt.Printf("DRIFT guild=%s member=%s stored=%d derived=%d\n", r.GuildID, r.MemberID, r.StoredTotal, r.DerivedTotal)
			}
			fmt.Printf("Audited %d members, %d drifted\n", len(reports), drifted)
			if drifted > 0 {
				return cli.Exit("ledger drift detected", 2)
			}
			return nil
		},
	}
}
