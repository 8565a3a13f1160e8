package catalog

import "github.com/jonathan/strategy-profiler/internal/types"

// defaultSections is the built-in questionnaire.
func defaultSections() []types.Section {
	gbch := []types.StrategyCode{types.StrategyPeoplePleaser, types.StrategyDiplomat, types.StrategyChallenger, types.StrategyTerminator}

	return []types.Section{
		{
			Title: "Divorce Strategy Profiler",
			Questions: []types.Question{
				{
					ID:   "question_1",
					Text: "When you receive a first settlement offer, what do you do?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"Accept quickly just to move on.",
						"Ask clarifying questions, then counter with data.",
						"Counter with a higher (or lower) figure to anchor negotiations.",
						"Reject immediately—no matter how reasonable—and threaten court.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_2",
					Text: "How do you share financial or parenting information during the process?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"Hand over every document without being asked.",
						"Exchange items through an agreed checklist and timeline.",
						"Provide documents only after receiving equivalent information.",
						"Delay disclosure to make the other side feel powerless.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_3",
					Text: "Which statement best describes your legal‑representation choice?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"I rely on my ex's lawyer or go without one.",
						"I propose mediation or collaborative law.",
						"I hired an assertive litigator for leverage.",
						"I'll switch to an even more aggressive lawyer to show I'm ready to fight.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_4",
					Text: "How do you propose or respond to parenting‑time schedules?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"I give my ex most of the time with the children to avoid conflict.",
						"I suggest a schedule built around the children's routines.",
						"I'm the better parent, so I should have the children most of the time.",
						"I use parenting time as a bargaining chip or punishment.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_5",
					Text: "What is the usual tone of your emails or texts about divorce issues?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"Apologetic and self‑blaming; I avoid conflict.",
						"Courteous, concise, and factual; I expect the same.",
						"Formal, firm, and sometimes harsh; I won't show weakness.",
						"Threatening and intimidating; I want my ex to feel scared.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_6",
					Text: "How do you react when your ex makes a concession?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"Offer an even bigger concession in return.",
						"Match the concession with something of similar value.",
						"Bank the concession and push for more next time.",
						"Treat the concession as weakness and demand even more.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_7",
					Text: "Which phrase best captures your financial priority?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"\"I'll be okay—take what you need.\"",
						"\"Let's split things so both of us stay solvent.\"",
						"\"I earned it; I want my full share.\"",
						"\"I want every asset I can get—plus extra.\"",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_8",
					Text: "How do you feel about your anger toward your ex, and how will you handle it?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"\"I'm mostly to blame; I'll swallow my anger and keep the peace.\"",
						"\"I'm hurt, but I'll manage my anger constructively—therapy, journaling, mediation.\"",
						"\"My anger is justified; I'll channel it into getting the best legal outcome.\"",
						"\"My ex deserves to be crushed, and I won't stop until they pay.\"",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_9",
					Text: "What's your pattern around negotiation deadlines?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"I rush to respond well before they're due.",
						"I meet deadlines reliably and on time.",
						"I use the full time to refine my stance.",
						"I ignore deadlines or move the goalposts so my ex knows I'm in control.",
					},
					StrategyValues: gbch,
				},
				{
					ID:   "question_10",
					Text: "How do you view the post‑divorce relationship?",
					Type: types.QuestionSingleChoice,
					Options: []string{
						"\"I'd like us to stay friends.\"",
						"\"Civility matters for co‑parenting.\"",
						"\"Minimal contact once the business is done.\"",
						"\"I'll do whatever it takes to stay in control of my ex.\"",
					},
					StrategyValues: gbch,
				},
			},
		},
		{
			Title: "Email for Results",
			Questions: []types.Question{
				{
					ID:   "email",
					Text: "Enter your email address to receive your personalized assessment results:",
					Type: types.QuestionEmail,
				},
			},
		},
	}
}
