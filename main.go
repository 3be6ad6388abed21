// Command go_ytinfo is an MCP server that annotates YouTube comments with channel info.
//
// Exposes four MCP tools: channel_info, annotate_comments, settings_get,
// settings_update. Channel data is scraped from the channel's public
// sub-pages (about, videos, shorts, streams, playlists).
package main

import (
	"log/slog"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_ytinfo/internal/channel"
	"github.com/anatolykoptev/go_ytinfo/internal/engine"
	"github.com/anatolykoptev/go_ytinfo/internal/settings"
	"github.com/anatolykoptev/go_ytinfo/internal/ytserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	store, err := settings.Open(env.Str("SETTINGS_DB", settings.DefaultPath()))
	if err != nil {
		slog.Warn("settings store unavailable, using defaults", slog.Any("error", err))
		store = nil
	} else {
		defer store.Close()
	}

	slog.Info("starting go_ytinfo",
		slog.String("port", mcpPort),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_ytinfo",
		Version: version,
	}, nil)

	svc := ytserver.NewService(channel.NewAggregator(engine.PageFetcher{}), store)
	ytserver.RegisterTools(server, svc)
	slog.Info("tools registered", slog.Int("count", 4))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_ytinfo",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 300 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 15*time.Second),
		MaxPageBytes:         int64(env.Int("MAX_PAGE_BYTES", 6*1024*1024)),
		FetchRPS:             env.Float("FETCH_RPS", 5),
		FetchBurst:           env.Int("FETCH_BURST", 10),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 2000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
	}

	bc, err := engine.NewBrowserClient(env.Str("WEBSHARE_API_KEY", ""))
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	engine.Init(c)

	cacheTTL := env.Duration("CACHE_TTL", 10*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
