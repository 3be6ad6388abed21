package engine

import (
	"log/slog"

	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
)

// BrowserClient is go-stealth's Chrome-fingerprinted client. Channel pages
// served to non-browser TLS fingerprints are frequently consent walls.
type BrowserClient = stealth.BrowserClient

// NewBrowserClient builds the stealth client, routed through a Webshare proxy
// pool when webshareKey is set. A pool that fails to initialize is skipped.
func NewBrowserClient(webshareKey string) (*BrowserClient, error) {
	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if webshareKey != "" {
		pool, err := proxypool.NewWebshare(webshareKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}
	return stealth.NewClient(opts...)
}

// channelPageHeaders returns Chrome headers for a channel sub-page request.
// The consent cookie skips the EU interstitial that hides ytInitialData.
func channelPageHeaders() map[string]string {
	h := stealth.ChromeHeaders()
	h["accept"] = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	h["accept-language"] = "en-US,en;q=0.9"
	h["referer"] = "https://www.youtube.com/"
	h["cookie"] = consentCookie
	return h
}

const consentCookie = "CONSENT=YES+cb; SOCS=CAI"
