package contracts

// Candidate is a symbol moving through the filter cascade, accumulating
// analysis along the way.
type Candidate struct {
	Quote

	// Cascade annotations
	Themes     []string `json:"themes,omitempty"`
	ThemeScore float64  `json:"theme_score"`
	LeaderTier string   `json:"leader_tier,omitempty"`

	// Flow classification from the whole-market table
	FlowSignal     FlowSignal `json:"flow_signal"`
	SignalStrength int        `json:"signal_strength"`

	// Daily bars, attached once the history stages run.
	// Not persisted with the batch.
	History BarSeries `json:"-"`

	// Factor analysis
	Factors    *FactorBundle `json:"factors,omitempty"`
	Composite  *Composite    `json:"composite,omitempty"`
	RiskReward *RiskReward   `json:"risk_reward,omitempty"`
}

// NewCandidate wraps a quote.
func NewCandidate(q Quote) *Candidate {
	return &Candidate{
		Quote:      q,
		FlowSignal: FlowUnknown,
	}
}

// SmartMoneyActive reports whether the disclosure factor found an
// active footprint.
func (c *Candidate) SmartMoneyActive() bool {
	return c.Factors != nil && c.Factors.SmartMoney != nil && c.Factors.SmartMoney.Active
}

// CandidateSet is an ordered set of candidates.
type CandidateSet []*Candidate

// Codes returns the codes in order.
func (s CandidateSet) Codes() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Code
	}
	return out
}

// Get returns the candidate for a code.
func (s CandidateSet) Get(code string) (*Candidate, bool) {
	for _, c := range s {
		if c.Code == code {
			return c, true
		}
	}
	return nil, false
}
