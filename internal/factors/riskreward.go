package factors

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
)

// RiskReward derives stop and target levels from the recent bars. The
// stop hugs the tightest of MA5, a 3% drawdown, and the 20-day low;
// the target is the better of a 5% move and clearing the 20-day high.
func RiskReward(price float64, bars contracts.BarSeries) *contracts.RiskReward {
	if price <= 0 || bars.Len() < 20 {
		return nil
	}

	stop := price * 0.97
	if ma5 := bars.MA(5); ma5 > stop && ma5 < price {
		stop = ma5
	}
	if low := bars.LowestLow(20) * 0.98; low > stop && low < price {
		stop = low
	}

	target := price * 1.05
	if high := bars.HighestHigh(20) * 1.02; high > target {
		target = high
	}

	rr := &contracts.RiskReward{StopLoss: stop, TakeProfit: target}
	if price > stop {
		rr.Ratio = (target - price) / (price - stop)
	}
	return rr
}
