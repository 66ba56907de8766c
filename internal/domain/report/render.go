package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/macsetup/internal/domain/phase"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
	colorTitle   = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
)

// Renderer prints the phase summary and validation report.
type Renderer struct {
	out     io.Writer
	title   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		success: lipgloss.NewStyle().Foreground(colorSuccess),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
		failure: lipgloss.NewStyle().Foreground(colorError),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
	}
}

// RenderPhases prints the per-phase outcome log.
func (r *Renderer) RenderPhases(result *phase.RunResult) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.title.Render("Phase summary"))

	for _, p := range result.Phases {
		switch p.Status {
		case phase.PhaseSuccess:
			fmt.Fprintf(r.out, "  %s %s\n", r.success.Render("✓"), p.Label)
		case phase.PhaseSkipped:
			fmt.Fprintf(r.out, "  %s %s (skipped)\n", r.muted.Render("○"), p.Label)
		case phase.PhaseFailed:
			fmt.Fprintf(r.out, "  %s %s\n", r.failure.Render("✗"), p.Label)
			for _, u := range p.FailedUnits() {
				fmt.Fprintf(r.out, "      %s %s: %v\n", r.failure.Render("↳"), u.ID(), u.Error())
			}
		}
	}
}

// RenderOutcome prints the validation report and final tally.
// disclosures lists toggle groups intentionally left unprovisioned.
func (r *Renderer) RenderOutcome(outcome *Outcome, disclosures []string) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, r.title.Render("Validation"))

	for _, line := range outcome.Lines {
		var marker string
		switch line.Status {
		case StatusPass:
			marker = r.success.Render("✓")
		case StatusWarn:
			marker = r.warning.Render("!")
		case StatusFail:
			marker = r.failure.Render("✗")
		case StatusManual:
			marker = r.muted.Render("→")
		}
		fmt.Fprintf(r.out, "  %s %s", marker, line.Name)
		if line.Detail != "" {
			fmt.Fprintf(r.out, " %s", r.muted.Render("("+line.Detail+")"))
		}
		fmt.Fprintln(r.out)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d passed, %d failed (%d warnings), %d manual follow-ups\n",
		outcome.Passed(), outcome.FailTally(), outcome.Warned(), outcome.Manual())

	if len(disclosures) > 0 {
		fmt.Fprintln(r.out, r.muted.Render("Disabled by configuration: ")+joinWords(disclosures))
	}
}

func joinWords(words []string) string {
	return strings.Join(words, ", ")
}
