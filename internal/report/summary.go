package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mhollis/sitereport/internal/check"
	"github.com/mhollis/sitereport/internal/logging"
)

// Printer writes a human-readable run summary to a terminal. By default
// only rows needing attention (Warning, Critical, Unknown) are listed;
// ShowAll includes every row.
type Printer struct {
	out     io.Writer
	showAll bool

	healthy  *color.Color
	warning  *color.Color
	critical *color.Color
	manual   *color.Color
}

// NewPrinter creates a summary printer. Colors are enabled only when out
// supports them.
func NewPrinter(out io.Writer, showAll bool) *Printer {
	p := &Printer{
		out:     out,
		showAll: showAll,
	}
	if logging.SupportsColor(out) {
		p.healthy = color.New(color.FgGreen)
		p.warning = color.New(color.FgYellow)
		p.critical = color.New(color.FgRed, color.Bold)
		p.manual = color.New(color.FgCyan)
	}
	return p
}

// Print writes the terminal summary for a report.
func (p *Printer) Print(rep *check.Report) {
	printed := false
	for _, section := range rep.Sections {
		for _, result := range section.Results {
			if !p.showAll && !needsAttention(result.Status) {
				continue
			}
			printed = true
			fmt.Fprintf(p.out, "%s [%s] %s: %s\n",
				p.icon(result.Status), result.Section, result.Name, result.Note)
			if result.Err != "" {
				fmt.Fprintf(p.out, "  cause: %s\n", result.Err)
			}
		}
	}

	if printed {
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "Summary: %d healthy, %d warning, %d critical, %d manual, %d unknown\n",
		rep.Summary.Healthy, rep.Summary.Warning, rep.Summary.Critical,
		rep.Summary.Manual, rep.Summary.Unknown)
}

func needsAttention(status check.Status) bool {
	switch status {
	case check.StatusWarning, check.StatusCritical, check.StatusUnknown:
		return true
	default:
		return false
	}
}

func (p *Printer) icon(status check.Status) string {
	switch status {
	case check.StatusHealthy:
		return p.paint(p.healthy, "✓")
	case check.StatusWarning:
		return p.paint(p.warning, "⚠")
	case check.StatusCritical:
		return p.paint(p.critical, "✗")
	case check.StatusManual:
		return p.paint(p.manual, "☐")
	default:
		return "?"
	}
}

func (p *Printer) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}
