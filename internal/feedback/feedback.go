// Package feedback provides the narrative text blocks derived from a strategy score.
package feedback

import (
	"fmt"
	"strings"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/types"
)

// UndeterminedStrategy is the strategy text used when the dominant code has no reference entry.
const UndeterminedStrategy = "We couldn't determine your dominant strategy clearly."

// Generator turns a ScoreResult into a FeedbackBundle.
type Generator struct {
	ref *catalog.Reference
}

// New creates a Generator backed by the given reference data.
func New(ref *catalog.Reference) *Generator {
	if ref == nil {
		ref = catalog.DefaultReference()
	}
	return &Generator{ref: ref}
}

// Generate builds the feedback for result. It never fails.
func (g *Generator) Generate(result types.ScoreResult) types.FeedbackBundle {
	bundle := types.FeedbackBundle{
		Strategy:     g.strategyBlock(result.DominantStrategy),
		Distribution: g.distribution(result.StrategyCounts),
	}
	if result.HasTie {
		bundle.TieNote = g.tieNote(result.TiedStrategies)
	}
	if text, ok := OverallParagraph(result.DominantStrategy); ok {
		bundle.Overall = text
	}
	return bundle
}

func (g *Generator) strategyBlock(code types.StrategyCode) string {
	info, ok := g.ref.Strategy(code)
	if !ok {
		return UndeterminedStrategy
	}
	return fmt.Sprintf("Your dominant divorce strategy is: %s\n\n%s\n\nSTRENGTH: %s\n\nWATCH OUT: %s",
		info.Label, info.Description, info.Strength, info.WatchOut)
}

func (g *Generator) tieNote(tied []types.StrategyCode) string {
	labels := make([]string, 0, len(tied))
	for _, code := range tied {
		if info, ok := g.ref.Strategy(code); ok {
			labels = append(labels, info.Label)
		}
	}
	return fmt.Sprintf("Note: Your results show equal tendencies toward multiple strategies: %s.\nConsider which description feels most accurate to you.",
		strings.Join(labels, ", "))
}

func (g *Generator) distribution(counts types.StrategyCounts) string {
	var sb strings.Builder
	sb.WriteString("Your strategy breakdown:")
	for _, code := range types.StrategyCodes() {
		sb.WriteString(fmt.Sprintf("\n- %s: %d questions", g.ref.Label(code), counts[code]))
	}
	return sb.String()
}

// OverallParagraph returns the fixed overall commentary for code.
func OverallParagraph(code types.StrategyCode) (string, bool) {
	switch code {
	case types.StrategyPeoplePleaser:
		return "You are far too lenient as a People-Pleaser and your ex may walk all over you in the divorce, " +
			"potentially resulting in an unfair agreement that disadvantages you significantly. " +
			"You need to assert your needs and rights more clearly to avoid long-term regret.", true
	case types.StrategyDiplomat:
		return "As a Diplomat, it's obvious you're trying to be fair toward your ex, but be cautious—if your ex " +
			"is neither a People-Pleaser nor a Diplomat, your fairness may not be reciprocated. This could give " +
			"your ex an advantage while leaving you at a disadvantage in the final agreement.", true
	case types.StrategyChallenger:
		return "As a Challenger, it's OK to strive for the best outcome for each issue in the divorce agreement, " +
			"but remember that the best outcome is a 'win-win' agreement. This means sometimes you win and " +
			"sometimes your ex wins—you simply can't win everything without creating lasting resentment.", true
	case types.StrategyTerminator:
		return "Your Terminator approach risks causing extreme anger in your ex that may be used against you. " +
			"You risk your children becoming angry at you for putting their other parent through a difficult divorce, " +
			"escalating legal costs significantly, and potentially dragging the divorce out for many years with no resolution.", true
	default:
		return "", false
	}
}
