// Package observability renders human-readable summaries for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/schedule"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"golang.org/x/text/width"
)

const (
	// boxWidth is the display width of formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the number of entries listed per group
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, inner), inner))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintSchedule outputs upcoming events grouped by relative date.
func (p *Printer) PrintSchedule(groups []schedule.Group, now time.Time) {
	if len(groups) == 0 {
		p.printBox("UPCOMING SCHEDULE", "予定はありません")
		return
	}

	var sb strings.Builder
	for gi, g := range groups {
		sb.WriteString(fmt.Sprintf("%s (%d)\n", g.Label, len(g.Events)))
		count := min(len(g.Events), maxItemsToShow)
		for _, e := range g.Events[:count] {
			mark := " "
			if schedule.IsUrgent(e, now) {
				mark = "!"
			}
			sb.WriteString(fmt.Sprintf(" %s %s %s [%s] %s\n",
				mark,
				e.Date.In(now.Location()).Format("01/02 15:04"),
				schedule.RelativeDateLabel(e.Date, now),
				types.EventTypeLabels[e.Type],
				e.CompanyName+" "+e.Title,
			))
		}
		if len(g.Events) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("   ... and %d more\n", len(g.Events)-maxItemsToShow))
		}
		if gi < len(groups)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("UPCOMING SCHEDULE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProbeResults outputs one line per probed URL.
func (p *Printer) PrintProbeResults(results []fetch.ProbeResult) {
	if len(results) == 0 {
		return
	}

	var sb strings.Builder
	alive := 0
	for _, r := range results {
		status := "✗"
		if r.Alive {
			status = "✓"
			alive++
		}
		detail := fmt.Sprintf("%d %s", r.StatusCode, r.Method)
		if r.Error != "" {
			detail = r.Error
		}
		sb.WriteString(fmt.Sprintf("%s %s (%s)\n", status, r.URL, detail))
	}
	sb.WriteString(fmt.Sprintf("\n%d/%d reachable", alive, len(results)))

	p.printBox("URL PROBE", sb.String())
}

// PrintStats outputs the company summary counts.
func (p *Printer) PrintStats(stats types.CompanyStats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("登録企業: %d\n", stats.Total))
	sb.WriteString(fmt.Sprintf("選考中:   %d\n", stats.InProgress))
	sb.WriteString(fmt.Sprintf("内定:     %d\n", stats.Offers))
	sb.WriteString(fmt.Sprintf("不合格:   %d", stats.Rejected))
	p.printBox("COMPANIES", sb.String())
}

// displayWidth counts East Asian wide and fullwidth runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += runeWidth(r)
	}
	return w
}

func runeWidth(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// pad right-fills s with spaces to the given display width.
func pad(s string, w int) string {
	if gap := w - displayWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// truncate shortens s to at most w display columns, marking the cut with "...".
func truncate(s string, w int) string {
	if displayWidth(s) <= w {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		rw := runeWidth(r)
		if used+rw > w-3 {
			break
		}
		sb.WriteRune(r)
		used += rw
	}
	return sb.String() + "..."
}
