// Package main provides the CLI entry point for xplayer.
package main

import (
	"fmt"
	"os"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %v", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "xplayer",
		Usage:   l10n.T("Play video files with synchronized audio"),
		Version: version,
		Description: l10n.T("xplayer plays local files and web URLs, keeping audio in sync with a shared playback clock."),
		Commands: []*cli.Command{
			playCommand(),
			probeCommand(),
			historyCommand(),
		},
	}
}

// Flags shared by every command. They are built on demand so that help
// text is translated after the lexicons are registered.

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    l10n.T("YAML configuration file"),
		Category: l10n.T("Configuration"),
	}
}

func logLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "log-level",
		Aliases:  []string{"l"},
		Usage:    l10n.T("Log level (debug, info, warn, error)"),
		Category: l10n.T("Logging"),
	}
}

func quietFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:     "quiet",
		Aliases:  []string{"Q"},
		Usage:    l10n.T("Suppress all log output"),
		Category: l10n.T("Logging"),
	}
}
