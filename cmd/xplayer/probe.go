package main

import (
	"errors"
	"fmt"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/xplayer/pkg/adapters/osfilesystem"
	"github.com/user/xplayer/pkg/adapters/ytdlpresolver"
)

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Print media metadata and where the duration came from"),
		ArgsUsage: "<location>",
		Flags:     []cli.Flag{configFlag(), logLevelFlag(), quietFlag()},
		Action:    runProbe,
	}
}

func runProbe(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New(l10n.T("Exactly one location is required"))
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg)
	ctx := c.Context

	resolved, err := ytdlpresolver.New(log).Resolve(ctx, c.Args().First())
	if err != nil {
		return err
	}
	md, err := newMetadataResolver(cfg, osfilesystem.New(), log).Resolve(ctx, resolved.Video)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if resolved.Title != "" {
		fmt.Fprintln(w, l10n.F("Title:       %s", resolved.Title))
	}
	fmt.Fprintln(w, l10n.F("Location:    %s", md.Location))
	if resolved.Audio != resolved.Video {
		fmt.Fprintln(w, l10n.F("Audio:       %s", resolved.Audio))
	}
	fmt.Fprintln(w, l10n.F("Duration:    %d ms (from %s)", md.DurationMs, md.DurationSource))
	fmt.Fprintln(w, l10n.F("Frame rate:  %.3f fps", md.FrameRate))
	fmt.Fprintln(w, l10n.F("Dimensions:  %dx%d", md.Width, md.Height))
	if md.AudioSampleRate > 0 {
		fmt.Fprintln(w, l10n.F("Audio track: %d Hz, %d channels", md.AudioSampleRate, md.AudioChannels))
	} else {
		fmt.Fprintln(w, l10n.T("Audio track: none"))
	}
	return nil
}
