package contracts

import "testing"

func TestFlowRow_Signal(t *testing.T) {
	tests := []struct {
		name string
		row  FlowRow
		want FlowSignal
	}{
		{
			name: "strong buy on heavy super inflow",
			row:  FlowRow{SuperNet: 5e7, SuperPct: 6.2, LargeNet: 1e7, MainNet: 6e7, MainPct: 8},
			want: FlowStrongBuy,
		},
		{
			name: "buy on main inflow",
			row:  FlowRow{MainNet: 2e7, MainPct: 3.5, SuperNet: 1e7, SuperPct: 2},
			want: FlowBuy,
		},
		{
			name: "strong sell on aligned heavy outflow",
			row:  FlowRow{SuperNet: -4e7, LargeNet: -2e7, MainNet: -6e7, MainPct: -6.1},
			want: FlowStrongSell,
		},
		{
			name: "sell on main outflow",
			row:  FlowRow{MainNet: -1e7, MainPct: -4},
			want: FlowSell,
		},
		{
			name: "neutral on balanced flow",
			row:  FlowRow{MainNet: 1e6, MainPct: 0.5},
			want: FlowNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.Signal(); got != tt.want {
				t.Errorf("Signal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFlowSignal_Strength(t *testing.T) {
	tests := []struct {
		signal FlowSignal
		want   int
	}{
		{FlowStrongBuy, 10},
		{FlowBuy, 7},
		{FlowNeutral, 0},
		{FlowUnknown, 0},
		{FlowSell, -7},
		{FlowStrongSell, -10},
	}

	for _, tt := range tests {
		t.Run(string(tt.signal), func(t *testing.T) {
			if got := tt.signal.Strength(); got != tt.want {
				t.Errorf("Strength() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFlowTable_UnknownIsNeutral(t *testing.T) {
	table := &FlowTable{
		Rows: map[string]FlowRow{
			"600519": {MainNet: 2e7, MainPct: 4},
		},
	}

	if got := table.Signal("600519"); got != FlowBuy {
		t.Errorf("Signal(known) = %v, want BUY", got)
	}

	// Absent code reads as unknown, which carries zero strength
	got := table.Signal("000001")
	if got != FlowUnknown {
		t.Errorf("Signal(absent) = %v, want UNKNOWN", got)
	}
	if got.Strength() != 0 {
		t.Errorf("Strength(UNKNOWN) = %d, want 0", got.Strength())
	}

	// Nil table never panics
	var nilTable *FlowTable
	if got := nilTable.Signal("600519"); got != FlowUnknown {
		t.Errorf("nil table Signal() = %v, want UNKNOWN", got)
	}
}
