// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/lguinah/matching-api/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
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
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintLostItem outputs a summary of the lost item being matched.
func (p *Printer) PrintLostItem(item *types.Item) {
	if item == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:     %s\n", item.Title))
	sb.WriteString(fmt.Sprintf("Category:  %s\n", item.Category))
	if item.Location != "" {
		sb.WriteString(fmt.Sprintf("Location:  %s\n", item.Location))
	}
	sb.WriteString(fmt.Sprintf("Reported:  %s", item.Time().Format("2006-01-02 15:04 MST")))

	p.printBox("LOST ITEM", sb.String())
}

// PrintMatches outputs the ranked matches with score breakdowns.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatches(matches []types.MatchResult) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHES FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		m := matches[i]
		title := m.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, title))
		sb.WriteString(fmt.Sprintf("    Score: %d", m.SimilarityScore))
		sb.WriteString(fmt.Sprintf(" (text %d, loc %d, time %d)\n",
			m.Breakdown.Text, m.Breakdown.Location, m.Breakdown.Time))

		explanation := m.Explanation
		if len(explanation) > 45 {
			explanation = explanation[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("    %s\n", explanation))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(matches)-maxItemsToShow))
	}

	p.printBox("TOP MATCHES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCandidateSummary outputs how many candidates were considered.
func (p *Printer) PrintCandidateSummary(total, scored int) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates loaded:  %d\n", total))
	sb.WriteString(fmt.Sprintf("Candidates scored:  %d", scored))

	p.printBox("CANDIDATE POOL", sb.String())
}
