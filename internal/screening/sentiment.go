package screening

import (
	"github.com/wtopps/quantitative-stock-selection/internal/contracts"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Sentiment statuses, from hot to frozen.
const (
	SentimentHot     = "hot"
	SentimentWarm    = "warm"
	SentimentNeutral = "neutral"
	SentimentCold    = "cold"
	SentimentFrozen  = "frozen"
)

// GaugeSentiment scores the whole market on a 0-100 scale starting
// from a neutral 50. The gauge is advisory: it is logged before the
// run and stored with the batch, it never gates the cascade.
func GaugeSentiment(stats *contracts.MarketStats, log *logger.Logger) *contracts.SentimentReading {
	score := 50.0
	detail := make(map[string]float64)

	// Limit-up breadth
	var limitUp float64
	switch {
	case stats.LimitUpCount >= 100:
		limitUp = 15
	case stats.LimitUpCount >= 60:
		limitUp = 10
	case stats.LimitUpCount >= 30:
		limitUp = 5
	case stats.LimitUpCount < 10:
		limitUp = -10
	}
	detail["limit_up"] = limitUp

	// Limit-down pressure
	var limitDown float64
	switch {
	case stats.LimitDownCount >= 30:
		limitDown = -15
	case stats.LimitDownCount >= 10:
		limitDown = -5
	}
	detail["limit_down"] = limitDown

	// Advancing ratio
	var breadth float64
	if total := stats.UpCount + stats.DownCount; total > 0 {
		ratio := float64(stats.UpCount) / float64(total)
		switch {
		case ratio > 0.70:
			breadth = 10
		case ratio > 0.55:
			breadth = 5
		case ratio < 0.30:
			breadth = -10
		case ratio < 0.45:
			breadth = -5
		}
	}
	detail["breadth"] = breadth

	// Total turnover against the activity watermark
	var turnover float64
	switch {
	case stats.TotalTurnover > 1.5e12:
		turnover = 10
	case stats.TotalTurnover > 1.2e12:
		turnover = 5
	case stats.TotalTurnover > 0 && stats.TotalTurnover < 8e11:
		turnover = -5
	}
	detail["turnover"] = turnover

	// Benchmark direction
	var index float64
	switch {
	case stats.IndexPctChange > 1:
		index = 10
	case stats.IndexPctChange > 0.5:
		index = 5
	case stats.IndexPctChange < -1:
		index = -10
	case stats.IndexPctChange < -0.5:
		index = -5
	}
	detail["index"] = index

	// Continuous-board height; zero means unknown and stays neutral
	var boards float64
	switch {
	case stats.MaxContinuousBoards >= 5:
		boards = 10
	case stats.MaxContinuousBoards >= 3:
		boards = 5
	}
	detail["boards"] = boards

	score += limitUp + limitDown + breadth + turnover + index + boards
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	reading := &contracts.SentimentReading{
		Score:  score,
		Status: sentimentStatus(score),
		Detail: detail,
	}

	log.WithFields(map[string]interface{}{
		"score":     reading.Score,
		"status":    reading.Status,
		"limit_ups": stats.LimitUpCount,
		"advancing": stats.UpCount,
		"declining": stats.DownCount,
		"index_pct": stats.IndexPctChange,
	}).Info("Market sentiment gauged")

	return reading
}

func sentimentStatus(score float64) string {
	switch {
	case score >= 80:
		return SentimentHot
	case score >= 65:
		return SentimentWarm
	case score >= 45:
		return SentimentNeutral
	case score >= 30:
		return SentimentCold
	default:
		return SentimentFrozen
	}
}
