package httputil_test

import (
	"context"
	"fmt"
	"time"

	"github.com/wtopps/quantitative-stock-selection/pkg/config"
	"github.com/wtopps/quantitative-stock-selection/pkg/httputil"
	"github.com/wtopps/quantitative-stock-selection/pkg/logger"
)

// Example_basic demonstrates basic HTTP client usage
func Example_basic() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
		Provider: config.ProviderConfig{Timeout: 15 * time.Second},
	}
	log := logger.New(cfg)

	client := httputil.New(cfg, log)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://push2.eastmoney.com/api/qt/clist/get")
	if err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Printf("Status: %d\n", resp.StatusCode)
}

// Example_withRetry demonstrates retry configuration
func Example_withRetry() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
		Provider: config.ProviderConfig{Timeout: 15 * time.Second},
	}
	log := logger.New(cfg)

	// 5 retries, 2s initial delay
	client := httputil.New(cfg, log).
		WithRetry(5, 2*time.Second)

	ctx := context.Background()
	resp, err := client.Get(ctx, "https://push2his.eastmoney.com/api/qt/stock/kline/get")
	if err != nil {
		fmt.Printf("Request failed after retries: %v\n", err)
		return
	}
	defer resp.Body.Close()

	fmt.Println("Request succeeded")
}

// Example_rateLimited demonstrates provider rate limiting
func Example_rateLimited() {
	cfg := &config.Config{
		Env:      "production",
		LogLevel: "info",
		Provider: config.ProviderConfig{Timeout: 15 * time.Second},
	}
	log := logger.New(cfg)

	// At most 10 requests per second toward the provider
	client := httputil.New(cfg, log).WithRateLimit(10, 5)

	ctx := context.Background()
	var payload map[string]interface{}
	if err := client.GetJSON(ctx, "https://push2.eastmoney.com/api/qt/ulist.np/get", &payload); err != nil {
		fmt.Printf("Request failed: %v\n", err)
		return
	}

	fmt.Println("Snapshot fetched")
}
