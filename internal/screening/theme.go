package screening

import (
	"context"
	"strings"

	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// ThemeStage annotates candidates with matched themes. A keyword hit in
// the stock name scores higher than one in the industry label. This
// stage never drops anyone.
func ThemeStage() Stage {
	return &themeStage{}
}

type themeStage struct{}

func (s *themeStage) Name() string { return "theme" }

func (s *themeStage) Apply(_ context.Context, in contracts.CandidateSet, env *Env) (contracts.CandidateSet, error) {
	for _, c := range in {
		for _, theme := range env.Strategy.Themes {
			score := themeMatch(c, theme.Keywords)
			if score > 0 {
				c.Themes = append(c.Themes, theme.Name)
				c.ThemeScore += score
			}
		}
	}
	return in, nil
}

// themeMatch returns 10 for a name hit, 5 for an industry hit, 0 for
// neither. The name hit wins when both match.
func themeMatch(c *contracts.Candidate, keywords []string) float64 {
	for _, kw := range keywords {
		if strings.Contains(c.Name, kw) {
			return 10
		}
	}
	for _, kw := range keywords {
		if strings.Contains(c.Industry, kw) {
			return 5
		}
	}
	return 0
}
