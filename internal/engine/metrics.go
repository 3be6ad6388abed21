package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// Metrics tracks operational counters across the service.
var metrics struct {
	FetchRequests     atomic.Int64
	FetchErrors       atomic.Int64
	SharedFetches     atomic.Int64
	ChannelLookups    atomic.Int64
	SubPageFailures   atomic.Int64
	Bindings          atomic.Int64
	Rebinds           atomic.Int64
	StaleResults      atomic.Int64
	WidgetsSuppressed atomic.Int64
}

// Incrementors for the channel, binding and widget packages.
func IncrChannelLookups()    { metrics.ChannelLookups.Add(1) }
func IncrSubPageFailures()   { metrics.SubPageFailures.Add(1) }
func IncrBindings()          { metrics.Bindings.Add(1) }
func IncrRebinds()           { metrics.Rebinds.Add(1) }
func IncrStaleResults()      { metrics.StaleResults.Add(1) }
func IncrWidgetsSuppressed() { metrics.WidgetsSuppressed.Add(1) }

var metricKeys = []string{
	"fetch_requests", "fetch_errors", "shared_fetches",
	"channel_lookups", "subpage_failures",
	"bindings", "rebinds", "stale_results", "widgets_suppressed",
	"cache_hits", "cache_misses",
}

// GetMetrics returns a snapshot of all metrics including cache stats.
func GetMetrics() map[string]int64 {
	hits, misses := CacheStats()
	return map[string]int64{
		"fetch_requests":     metrics.FetchRequests.Load(),
		"fetch_errors":       metrics.FetchErrors.Load(),
		"shared_fetches":     metrics.SharedFetches.Load(),
		"channel_lookups":    metrics.ChannelLookups.Load(),
		"subpage_failures":   metrics.SubPageFailures.Load(),
		"bindings":           metrics.Bindings.Load(),
		"rebinds":            metrics.Rebinds.Load(),
		"stale_results":      metrics.StaleResults.Load(),
		"widgets_suppressed": metrics.WidgetsSuppressed.Load(),
		"cache_hits":         hits,
		"cache_misses":       misses,
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	for _, k := range metricKeys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}

// TrackOperation logs a warning if an operation takes longer than threshold.
func TrackOperation(ctx context.Context, name string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	if elapsed > 5*time.Second {
		slog.Warn("slow operation", slog.String("op", name), slog.Duration("elapsed", elapsed))
	}
	return err
}
