package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/xplayer/pkg/adapters/snapshotpresenter"
	"github.com/user/xplayer/pkg/adapters/sqlitehistory"
)

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: l10n.T("List or clear play history"),
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: l10n.T("Number of entries to show")},
			&cli.BoolFlag{Name: "clear", Usage: l10n.T("Delete all history")},
			&cli.StringFlag{Name: "history-db", Usage: l10n.T("Play history database path")},
			logLevelFlag(),
			quietFlag(),
		},
		Action: runHistory,
	}
}

func runHistory(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	store, err := sqlitehistory.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if c.Bool("clear") {
		if err := store.Clear(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, l10n.T("History cleared"))
		return nil
	}

	entries, err := store.Recent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.App.Writer, l10n.T("No history yet"))
		return nil
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, l10n.T("PLAYED\tPOSITION\tDURATION\tREASON\tLOCATION"))
	for _, e := range entries {
		name := e.Location
		if e.Title != "" {
			name = e.Title + " (" + e.Location + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.PlayedAt.Format("2006-01-02 15:04"),
			snapshotpresenter.FormatClock(e.PositionMs),
			snapshotpresenter.FormatClock(e.DurationMs),
			e.StopReason, name)
	}
	return tw.Flush()
}
