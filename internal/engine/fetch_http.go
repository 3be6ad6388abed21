package engine

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// defaultMaxPageBytes caps a sub-page body; channel pages run 1-2 MB of inline JSON.
const defaultMaxPageBytes = 6 * 1024 * 1024

// StatusError is a non-200 response from a sub-page.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d", e.URL, e.StatusCode)
}

var (
	// pageGroup collapses concurrent fetches of the same sub-page; a feed
	// usually holds several comments by one author.
	pageGroup singleflight.Group

	limiter *rate.Limiter
)

func initLimiter(rps float64, burst int) {
	if rps <= 0 {
		limiter = nil
		return
	}
	if burst <= 0 {
		burst = 1
	}
	limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// newFetchClient creates an HTTP client with proper settings for web scraping.
func newFetchClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     60 * time.Second,
			TLSHandshakeTimeout: 15 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			return nil
		},
	}
}

// FetchPage returns the text of one channel sub-page. Results are served from
// the page cache when possible; concurrent requests for the same URL share one
// network round trip.
func FetchPage(ctx context.Context, pageURL string) (body string, err error) {
	metrics.FetchRequests.Add(1)
	defer func() {
		if err != nil {
			metrics.FetchErrors.Add(1)
		}
	}()

	key := CacheKey("page", pageURL)
	if cached, ok := CacheGetPage(ctx, key); ok {
		return cached, nil
	}

	v, err, shared := pageGroup.Do(pageURL, func() (any, error) {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}
		text, err := fetchPageDirect(ctx, pageURL)
		if err != nil {
			return "", err
		}
		CacheSetPage(ctx, key, text)
		return text, nil
	})
	if shared {
		metrics.SharedFetches.Add(1)
		slog.Debug("fetch: shared in-flight request", slog.String("url", pageURL))
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// fetchPageDirect performs the request, preferring the stealth browser client.
func fetchPageDirect(ctx context.Context, pageURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
	defer cancel()

	if cfg.BrowserClient != nil {
		headers := channelPageHeaders()
		data, err := stealth.RetryDo(ctx, stealth.DefaultRetryConfig, func() ([]byte, error) {
			d, _, status, err := cfg.BrowserClient.Do(http.MethodGet, pageURL, headers, nil)
			if err != nil {
				return nil, err
			}
			if status != http.StatusOK {
				return nil, &StatusError{URL: pageURL, StatusCode: status}
			}
			return d, nil
		})
		if err != nil {
			return "", fmt.Errorf("browser fetch: %w", err)
		}
		return string(capBytes(data, cfg.MaxPageBytes)), nil
	}

	resp, err := stealth.RetryHTTP(ctx, stealth.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept-Encoding", "gzip")
		req.Header.Set("Cookie", consentCookie)
		return cfg.HTTPClient.Do(req)
	})
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{URL: pageURL, StatusCode: resp.StatusCode}
	}

	data, err := readResponseBody(resp, cfg.MaxPageBytes)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

// readResponseBody reads at most limit bytes, handling gzip decompression if needed.
func readResponseBody(resp *http.Response, limit int64) ([]byte, error) {
	var r io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	return io.ReadAll(io.LimitReader(r, limit))
}

func capBytes(b []byte, limit int64) []byte {
	if int64(len(b)) > limit {
		return b[:limit]
	}
	return b
}

// PageFetcher adapts FetchPage to the aggregator's fetcher interface.
type PageFetcher struct{}

// Fetch implements channel.Fetcher.
func (PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	return FetchPage(ctx, pageURL)
}
