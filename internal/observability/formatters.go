// Package observability provides boxed CLI summaries and Prometheus metrics.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
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
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(line string, width int) string {
	runes := []rune(line)
	if len(runes) <= width {
		return line
	}
	return string(runes[:width-3]) + "..."
}

// PrintScore outputs the dominant strategy, overall percentage and the per-code tally.
func (p *Printer) PrintScore(score types.ScoreResult, ref *catalog.Reference) {
	if ref == nil {
		ref = catalog.DefaultReference()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Dominant: %s (%s)\n", ref.Label(score.DominantStrategy), score.DominantStrategy))
	sb.WriteString(fmt.Sprintf("Overall:  %d%%\n", score.Overall))
	if score.HasTie {
		labels := make([]string, 0, len(score.TiedStrategies))
		for _, code := range score.TiedStrategies {
			labels = append(labels, string(code))
		}
		sb.WriteString(fmt.Sprintf("Tied:     %s\n", strings.Join(labels, ", ")))
	}
	sb.WriteString("\n")
	for _, code := range types.StrategyCodes() {
		count := score.StrategyCounts[code]
		sb.WriteString(fmt.Sprintf("  %s %-24s %2d %s\n", code, ref.Label(code), count, strings.Repeat("■", count)))
	}

	p.printBox("STRATEGY SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeedback outputs the feedback bundle text.
func (p *Printer) PrintFeedback(fb types.FeedbackBundle) {
	var sb strings.Builder
	sb.WriteString(wrap(fb.Strategy, boxWidth-4))
	if fb.TieNote != "" {
		sb.WriteString("\n\n")
		sb.WriteString(wrap(fb.TieNote, boxWidth-4))
	}
	if fb.Overall != "" {
		sb.WriteString("\n\n")
		sb.WriteString(wrap(fb.Overall, boxWidth-4))
	}

	p.printBox("FEEDBACK", sb.String())
}

// PrintSuggestions outputs the general advice and the first matchup tips.
func (p *Printer) PrintSuggestions(sg types.SuggestionBundle) {
	if len(sg.General) == 0 && len(sg.Matchups) == 0 && sg.Recommendation == "" {
		return
	}

	var sb strings.Builder
	for _, item := range sg.General {
		sb.WriteString(wrap("• "+item, boxWidth-4))
		sb.WriteString("\n")
	}

	if len(sg.Matchups) > 0 {
		sb.WriteString("\nMatchups:\n")
		count := min(len(sg.Matchups), maxItemsToShow)
		for i := 0; i < count; i++ {
			m := sg.Matchups[i]
			sb.WriteString(wrap("vs "+m.ExType, boxWidth-4))
			sb.WriteString("\n")
			sb.WriteString(wrap("  Risk: "+m.Risk, boxWidth-4))
			sb.WriteString("\n")
		}
		if len(sg.Matchups) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(sg.Matchups)-maxItemsToShow))
		}
	}

	if sg.Recommendation != "" {
		sb.WriteString("\n")
		sb.WriteString(wrap(sg.Recommendation, boxWidth-4))
	}

	p.printBox("SUGGESTIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDelivery outputs what happened to the persisted record and the results email.
func (p *Printer) PrintDelivery(saved bool, resultID, emailStatus string) {
	var sb strings.Builder
	if saved {
		sb.WriteString(fmt.Sprintf("Saved:  yes (%s)\n", resultID))
	} else {
		sb.WriteString("Saved:  no\n")
	}
	sb.WriteString(fmt.Sprintf("Email:  %s", emailStatus))

	p.printBox("DELIVERY", sb.String())
}

// wrap breaks text into lines of at most width runes on word boundaries.
// Existing newlines are kept.
func wrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
