package catalog

import "github.com/jonathan/strategy-profiler/internal/types"

// defaultStrategies is the built-in strategy reference, in G, B, C, H order.
func defaultStrategies() []types.StrategyInfo {
	return []types.StrategyInfo{
		{
			Code:        types.StrategyPeoplePleaser,
			Label:       "The People‑Pleaser",
			Description: "Avoids conflict and gives too much to keep the peace—often at their own expense.",
			Strength:    "You lower tension and keep dialogue open, which can speed practical resolutions.",
			WatchOut:    "You risk giving up long-term security. Establish non-negotiable must-haves and get professional advice.",
		},
		{
			Code:        types.StrategyDiplomat,
			Label:       "The Diplomat",
			Description: "Firm, fair, and child-focused—seeks balance and practical solutions.",
			Strength:    "You protect yourself while staying child-focused. Courts and mediators respect this stance.",
			WatchOut:    "A highly aggressive ex can see cooperation as weakness. Set hard deadlines and document every exchange.",
		},
		{
			Code:        types.StrategyChallenger,
			Label:       "The Challenger",
			Description: "Tests limits relentlessly, prioritizing wins over harmony.",
			Strength:    "You secure resources and discourage exploitation.",
			WatchOut:    "Winning every point may damage future co-parenting. Offer one visible goodwill concession to reduce resistance.",
		},
		{
			Code:        types.StrategyTerminator,
			Label:       "The Terminator",
			Description: "Relentless and uncompromising—demands total victory, no matter the cost.",
			Strength:    "You expose hidden issues and show you're no pushover.",
			WatchOut:    "Conflict spirals drive costs and stress sky-high. Delegate communication to lawyers and seek mental-health support.",
		},
	}
}

// defaultMatchups is the built-in matchup table. Order is significant.
func defaultMatchups() []types.MatchupRule {
	return []types.MatchupRule{
		{
			Your: types.StrategyPeoplePleaser,
			Ex:   []types.StrategyCode{types.StrategyChallenger, types.StrategyTerminator},
			Risk: "Being steam-rolled; long-term insecurity.",
			Tip:  "Add clear boundaries and retain a strong lawyer/coach.",
		},
		{
			Your: types.StrategyDiplomat,
			Ex:   []types.StrategyCode{types.StrategyTerminator},
			Risk: "Fair offers seen as weakness; dragged into conflict.",
			Tip:  "Insist on written protocols; document everything.",
		},
		{
			Your: types.StrategyChallenger,
			Ex:   []types.StrategyCode{types.StrategyPeoplePleaser},
			Risk: "Asset win may harm co-parenting or reputation.",
			Tip:  "Consider child-centered compromises; show goodwill.",
		},
		{
			Your: types.StrategyChallenger,
			Ex:   []types.StrategyCode{types.StrategyChallenger},
			Risk: "Legal arms-race and ballooning costs.",
			Tip:  "Propose capped-fee mediation or arbitration.",
		},
		{
			Your: types.StrategyTerminator,
			Ex:   []types.StrategyCode{types.StrategyPeoplePleaser, types.StrategyDiplomat, types.StrategyChallenger, types.StrategyTerminator},
			Risk: "High stress and runaway fees.",
			Tip:  "Shift toward assertive (not punitive) tactics; prioritize therapy.",
		},
		{
			Your: types.StrategyPeoplePleaser,
			Ex:   []types.StrategyCode{types.StrategyDiplomat},
			Risk: "Over-giving despite balanced offers.",
			Tip:  "Mirror your ex's firmness; ask for equitable splits.",
		},
		{
			Your: types.StrategyDiplomat,
			Ex:   []types.StrategyCode{types.StrategyChallenger},
			Risk: "Gradual concession creep.",
			Tip:  "Define red-lines early; use a mediator to enforce them.",
		},
	}
}
