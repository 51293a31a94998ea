package logger_test

import (
	"errors"

	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	log.Debug("This won't appear (level is info)")
	log.Info("Scan started")
	log.Warn("Flow table unavailable, stage runs neutral")
	log.Error("Failed to fetch snapshot")

	// Formatted logging
	log.Infof("Survivors after cascade: %d", 17)
	log.Warnf("Retry attempt %d of %d", 3, 5)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Add single field
	batchLog := log.WithField("batch_id", "batch_20260831_143500")
	batchLog.Info("Batch persisted")

	// Add multiple fields
	candidateLog := log.WithFields(map[string]interface{}{
		"code":      "600519",
		"composite": 78.5,
		"rating":    "AAA",
		"risk":      0,
	})
	candidateLog.Info("Candidate selected")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("provider timeout")
	log.WithError(err).Error("Failed to fetch daily bars")

	log.WithError(err).
		WithFields(map[string]interface{}{
			"code":        "600028",
			"retry_count": 3,
		}).
		Error("History fetch degraded to unavailable")
}
