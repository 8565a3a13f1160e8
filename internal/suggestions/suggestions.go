// Package suggestions provides improvement advice and matchup guidance for a strategy score.
package suggestions

import (
	"strings"

	"github.com/jonathan/strategy-profiler/internal/catalog"
	"github.com/jonathan/strategy-profiler/internal/types"
)

const (
	// RecommendBalance is the recommendation for the two extreme strategies.
	RecommendBalance = "Consider working toward a more balanced approach for better long-term outcomes."
	// RecommendAdjust is the recommendation for every other strategy.
	RecommendAdjust = "Your current strategy is generally effective. Adjust based on how your ex responds."
)

// Generator turns a ScoreResult into a SuggestionBundle.
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

// Generate builds the suggestions for result. Matchups contain every rule
// whose "your" code is the dominant one, in table order; no opponent
// strategy is collected, so all such rows apply.
func (g *Generator) Generate(result types.ScoreResult) types.SuggestionBundle {
	dominant := result.DominantStrategy

	bundle := types.SuggestionBundle{
		General:        GeneralAdvice(dominant),
		Recommendation: recommendation(dominant),
	}
	for _, rule := range g.ref.Matchups() {
		if rule.Your != dominant {
			continue
		}
		labels := make([]string, 0, len(rule.Ex))
		for _, ex := range rule.Ex {
			labels = append(labels, g.ref.Label(ex))
		}
		bundle.Matchups = append(bundle.Matchups, types.Matchup{
			ExType: strings.Join(labels, ", "),
			Risk:   rule.Risk,
			Tip:    rule.Tip,
		})
	}
	return bundle
}

func recommendation(code types.StrategyCode) string {
	if code == types.StrategyPeoplePleaser || code == types.StrategyTerminator {
		return RecommendBalance
	}
	return RecommendAdjust
}

// GeneralAdvice returns the fixed advice list for code; nil for an unknown code.
func GeneralAdvice(code types.StrategyCode) []string {
	switch code {
	case types.StrategyPeoplePleaser:
		return []string{
			"You MUST make a list of non-negotiable must-haves and refuse to compromise on them",
			"Hire a strong divorce attorney who can be assertive for you when you cannot",
			"Get professional financial advice before agreeing to ANY settlement",
			"Never agree to anything in the moment—always say 'I'll discuss this with my advisor'",
		}
	case types.StrategyDiplomat:
		return []string{
			"Be prepared to match your ex's strategy—if they escalate, you may need to as well",
			"Set clear boundaries and enforce them consistently, especially if your ex is not reciprocating fairness",
			"Document every interaction and draft all agreements with your interests strongly protected",
			"Consider having a 'red line' list of items where you will not compromise regardless of pressure",
		}
	case types.StrategyChallenger:
		return []string{
			"Identify which issues truly matter most to you and be willing to concede on others",
			"Make strategic concessions to build goodwill and avoid developing a reputation for unreasonableness",
			"Calculate the long-term relationship costs against the financial gains for each contested item",
			"Use a skilled mediator who can help find win-win solutions for high-conflict issues",
		}
	case types.StrategyTerminator:
		return []string{
			"Recognize that 'winning' the divorce often means losing in other ways (relationship with children, stress, time)",
			"Set a strict budget with your lawyer to avoid financial devastation from prolonged legal battles",
			"Work with a therapist specifically on managing your anger and aggressive tendencies during negotiations",
			"Consider the true costs of a high-conflict approach—emotional health, co-parenting ability, and children's wellbeing",
		}
	default:
		return nil
	}
}
