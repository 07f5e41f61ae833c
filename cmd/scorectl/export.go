package main

import (
	"fmt"
	"os"
	"time"

	scoreexport "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/export"
	scoredb "github.com/Black-And-White-Club/score-bot/app/modules/score/infrastructure/repositories"
	scoretypes "github.com/Black-And-White-Club/score-bot/app/types/score"
	sharedtypes "github.com/Black-And-White-Club/score-bot/app/types/shared"
	"github.com/urfave/cli/v2"
)

func newExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "export raw records",
		Subcommands: []*cli.Command{
			{
				Name:  "points",
				Usage: "write a guild's point events to an xlsx workbook",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "guild", Required: true, Usage: "guild id"},
					&cli.StringFlag{Name: "receiver", Usage: "only events received by this member"},
					&cli.StringFlag{Name: "category", Usage: "only events in this category"},
					&cli.TimestampFlag{Name: "since", Layout: time.RFC3339, Usage: "only events at or after this time"},
					&cli.IntFlag{Name: "limit", Value: 10000, Usage: "maximum number of events"},
					&cli.StringFlag{Name: "out", Value: "points.xlsx", Usage: "output file"},
				},
				Action: func(c *cli.Context) error {
					_, db, err := openDB(c)
					if err != nil {
						return err
					}
					defer db.Close()

					filter := scoretypes.PointEventFilter{
						GuildID:    sharedtypes.GuildID(c.String("guild")),
						ReceiverID: sharedtypes.DiscordID(c.String("receiver")),
						Category:   c.String("category"),
						Limit:      c.Int("limit"),
					}
					if since := c.Timestamp("since"); since != nil {
						filter.Since = *since
					}

					events, err := scoredb.NewRepository(db).ListPointEvents(c.Context, nil, filter)
					if err != nil {
						return err
					}

					f, err := os.Create(c.String("out"))
					if err != nil {
						return err
					}
					if err := scoreexport.WritePointEvents(f, events); err != nil {
						f.Close()
						return err
					}
					if err := f.Close(); err != nil {
						return err
					}
					fmt.Printf("Wrote %d events to %s\n", len(events), c.String("out"))
					return nil
				},
			},
		},
	}
}
