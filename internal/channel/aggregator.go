// Package channel assembles a channel Record from the channel's public
// sub-pages.
package channel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/anatolykoptev/go_ytinfo/internal/engine"
	"github.com/anatolykoptev/go_ytinfo/internal/extract"
	"github.com/anatolykoptev/go_ytinfo/internal/settings"
)

// Fetcher returns the text of one page.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Page is one channel sub-page.
type Page string

const (
	PageAbout     Page = "about"
	PageVideos    Page = "videos"
	PageShorts    Page = "shorts"
	PageStreams   Page = "streams"
	PagePlaylists Page = "playlists"
)

// pageKeys lists, per sub-page, the settings that need it.
var pageKeys = map[Page][]settings.Key{
	PageAbout: {
		settings.SubscriberCount, settings.Location, settings.JoinedDate,
		settings.TotalVideos, settings.TotalViewCount,
		settings.Description, settings.ExternalLinks, settings.BusinessEmail,
	},
	PageVideos:    {settings.LatestVideo},
	PageShorts:    {settings.LatestShorts},
	PageStreams:   {settings.LatestLivestream},
	PagePlaylists: {settings.Playlists},
}

var pageOrder = []Page{PageAbout, PageVideos, PageShorts, PageStreams, PagePlaylists}

// NeededPages returns the sub-pages at least one enabled setting depends on.
func NeededPages(s settings.Settings) []Page {
	var out []Page
	for _, p := range pageOrder {
		if s.AnyEnabled(pageKeys[p]...) {
			out = append(out, p)
		}
	}
	return out
}

// Aggregator fetches sub-pages and merges extractor output.
type Aggregator struct {
	fetcher Fetcher
}

// NewAggregator creates an Aggregator over f.
func NewAggregator(f Fetcher) *Aggregator {
	return &Aggregator{fetcher: f}
}

// FetchChannelInfo fetches every sub-page the settings need, concurrently, and
// returns the merged record once all fetches have settled. A failed sub-page
// leaves its fields absent; it never fails the record.
func (a *Aggregator) FetchChannelInfo(ctx context.Context, channelURL string, s settings.Settings) Record {
	engine.IncrChannelLookups()

	base, err := NormalizeURL(channelURL)
	if err != nil {
		slog.Debug("channel: bad url", slog.String("url", channelURL), slog.Any("error", err))
		return Record{}
	}

	pages := NeededPages(s)
	bodies := make([]string, len(pages))
	var wg sync.WaitGroup
	for i, p := range pages {
		wg.Add(1)
		go func(i int, p Page) {
			defer wg.Done()
			body, err := a.fetcher.Fetch(ctx, base+"/"+string(p))
			if err != nil {
				engine.IncrSubPageFailures()
				slog.Warn("channel: sub-page fetch failed",
					slog.String("channel", base), slog.String("page", string(p)), slog.Any("error", err))
				return
			}
			bodies[i] = body
		}(i, p)
	}
	wg.Wait()

	rec := Record{URL: base}
	for i, p := range pages {
		if bodies[i] == "" {
			continue
		}
		mergePage(&rec, base, p, bodies[i])
	}
	return rec
}

// mergePage runs every extractor that reads page p. Gating by settings happens
// at render time, so the record depends only on the fetched payloads.
func mergePage(rec *Record, base string, p Page, body string) {
	switch p {
	case PageAbout:
		rec.SubscriberCount, rec.ViewCount, rec.JoinedDate = extract.Stats(body)
		rec.Country = extract.Country(body)
		rec.VideoCount = extract.VideoCount(body)
		rec.Description = extract.Description(body)
		rec.ExternalLinks = extract.ExternalLinks(body)
		if extract.BusinessEmail(body) {
			rec.BusinessEmail = base + "/about"
		}
	case PageVideos:
		rec.LatestVideo = extract.LatestVideo(body)
	case PageShorts:
		rec.LatestShort = extract.LatestShort(body)
	case PageStreams:
		rec.LatestLivestream = extract.LatestLivestream(body)
	case PagePlaylists:
		if ps := extract.Playlists(body); len(ps.Items) > 0 {
			rec.Playlists = &ps
		}
	}
}
