package utils

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage returns the current CPU usage as a percentage, sampled over the
// given interval
func GetCPUUsage(ctx context.Context, interval time.Duration) float64 {
	percentage, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		log.Printf("Error getting CPU usage: %v", err)
		return 0
	}
	if len(percentage) > 0 {
		return percentage[0]
	}
	return 0
}
