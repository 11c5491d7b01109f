package summarizer

import (
	"fmt"
	"strings"

	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (f *MarkdownFormatter) Format(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# " + l10n.T("Playback Summary") + "\n\n")
	fmt.Fprintf(&sb, "%s: %s  \n", l10n.T("Generated"), s.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "%s: %s\n\n", l10n.T("Session length"), formatMs(s.Elapsed().Milliseconds()))

	sb.WriteString("## " + l10n.T("Settings") + "\n\n")
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", l10n.T("Setting"), l10n.T("Value"))
	row(&sb, "Play mode", orDash(s.Settings.Mode))
	row(&sb, "Volume", fmt.Sprint(s.Settings.Volume))
	row(&sb, "Rate", fmt.Sprintf("%.2fx", s.Settings.Rate))
	row(&sb, "Audio device", orDash(s.Settings.Device))
	sb.WriteString("\n")

	sb.WriteString("## " + l10n.T("Items") + "\n\n")
	if len(s.Items) == 0 {
		sb.WriteString(l10n.T("Nothing was played.") + "\n\n")
	} else {
		fmt.Fprintf(&sb, "| # | %s | %s | %s | %s | %s |\n|---|---|---|---|---|---|\n",
			l10n.T("Media"), l10n.T("Duration"), l10n.T("Source"), l10n.T("Stopped at"), l10n.T("Reason"))
		for i, item := range s.Items {
			name := item.Location
			if item.Title != "" {
				name = item.Title
			}
			reason := item.StopReason
			if item.Error != "" {
				reason = l10n.F("error: %s", item.Error)
			}
			fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
				i+1, escape(name), formatMs(item.DurationMs), orDash(item.DurationSource),
				formatMs(item.PositionMs), escape(orDash(reason)))
		}
		sb.WriteString("\n")
	}

	st := s.Stats
	sb.WriteString("## " + l10n.T("Engine") + "\n\n")
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", l10n.T("Counter"), l10n.T("Value"))
	row(&sb, "Frames presented", fmt.Sprint(st.FramesPresented))
	row(&sb, "Frames dropped", fmt.Sprintf("%d (%.1f%%)", st.FramesDropped, dropRate(st)))
	row(&sb, "Decode retries", fmt.Sprint(st.DecodeRetries))
	row(&sb, "Seeks", l10n.F("%d (%d fell back to re-open)", st.Seeks, st.SeekFallbacks))
	row(&sb, "Audio failures", fmt.Sprint(st.AudioFailures))
	row(&sb, "A/V resyncs", fmt.Sprint(st.Resyncs))
	row(&sb, "Max drift", fmt.Sprintf("%d ms", st.MaxDriftMs))

	return sb.String()
}

// row writes a two-column table row with a translated label.
func row(sb *strings.Builder, label, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", l10n.T(label), value)
}

func dropRate(st StatsInfo) float64 {
	total := st.FramesPresented + st.FramesDropped
	if total == 0 {
		return 0
	}
	return float64(st.FramesDropped) * 100 / float64(total)
}

// formatMs renders milliseconds as H:MM:SS.mmm, omitting zero hours.
func formatMs(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := ms / 60000 % 60
	sec := ms / 1000 % 60
	frac := ms % 1000
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%03d", h, m, sec, frac)
	}
	return fmt.Sprintf("%d:%02d.%03d", m, sec, frac)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
