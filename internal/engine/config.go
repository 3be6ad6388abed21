package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	FetchTimeout         time.Duration
	MaxPageBytes         int64
	FetchRPS             float64 // sub-page requests per second; <= 0 disables throttling
	FetchBurst           int
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = plain net/http fetching
}

var cfg Config

// Cfg exposes the engine configuration for other packages.
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.MaxPageBytes <= 0 {
		c.MaxPageBytes = defaultMaxPageBytes
	}
	if c.HTTPClient == nil {
		c.HTTPClient = newFetchClient()
	}
	cfg = c
	Cfg = &cfg
	initLimiter(c.FetchRPS, c.FetchBurst)
}
