package extract

import (
	"regexp"
	"strings"
)

// Patterns over the /videos payload (first match wins: the tab is newest-first).
var (
	videoTitleRe     = regexp.MustCompile(`"title":\{"runs":\[\{"text":"((?:\\.|[^"\\])+)"`)
	videoPublishedRe = regexp.MustCompile(`"publishedTimeText":\{"simpleText":"([^"]+)"\}`)
	videoLenViewsRe  = regexp.MustCompile(`"lengthText":\{"accessibility":\{"accessibilityData":\{"label":"[^"]+"\}\},"simpleText":"([^"]+)"\},"viewCountText":\{"simpleText":"([^"]+)"\}`)
	videoIDRe        = regexp.MustCompile(`\{"content":\{"videoRenderer":\{"videoId":"([^"]+)"`)
	videoThumbRe     = regexp.MustCompile(`"thumbnail":\{"thumbnails":\[\{"url":"([^"]+)"`)
)

// Patterns over the /shorts payload, applied inside the first shorts lockup.
var (
	shortOverlayRe = regexp.MustCompile(`"overlayMetadata":\{"primaryText":\{"content":"((?:\\.|[^"\\])+)"\},"secondaryText":\{"content":"([^"]+)"\}`)
	shortIDRe      = regexp.MustCompile(`"reelWatchEndpoint":\{"videoId":"([^"]+)"`)
	shortThumbRe   = regexp.MustCompile(`"thumbnail":\{"sources":\[\{"url":"([^"]+)"`)
)

// Patterns over the /streams payload, applied inside the renderer owning the live badge.
var (
	streamIDRe         = regexp.MustCompile(`"videoRenderer":\{"videoId":"([^"]+)"`)
	streamWatchingRe   = regexp.MustCompile(`"viewCountText":\{"runs":\[\{"text":"([^"]+)"\},\{"text":"([^"]+)"\}\]`)
	streamViewSimpleRe = regexp.MustCompile(`"viewCountText":\{"simpleText":"([^"]+)"\}`)
)

const (
	shortsLockupMarker = `"shortsLockupViewModel":`
	videoRendererStart = `"videoRenderer":{"videoId":"`
	liveBadgeMarker    = `"BADGE_STYLE_TYPE_LIVE_NOW"`
)

// LatestVideo extracts the newest upload from the /videos tab.
// Title, published time, length and view count are all required.
func LatestVideo(page string) *LatestItem {
	it := &LatestItem{
		Kind:          KindVideo,
		Title:         Decode(first(videoTitleRe, page)),
		PublishedTime: first(videoPublishedRe, page),
		VideoID:       first(videoIDRe, page),
		Thumbnail:     first(videoThumbRe, page),
	}
	if m := videoLenViewsRe.FindStringSubmatch(page); m != nil {
		it.Length, it.ViewCount = m[1], m[2]
	}
	if it.Title == "" || it.PublishedTime == "" || it.Length == "" || it.ViewCount == "" {
		return nil
	}
	return it
}

// LatestShort extracts the newest short from the /shorts tab.
// Title, view count and video id are required.
func LatestShort(page string) *LatestItem {
	seg := segment(page, shortsLockupMarker)
	if seg == "" {
		return nil
	}
	it := &LatestItem{
		Kind:      KindShort,
		VideoID:   first(shortIDRe, seg),
		Thumbnail: first(shortThumbRe, seg),
	}
	if m := shortOverlayRe.FindStringSubmatch(seg); m != nil {
		it.Title, it.ViewCount = Decode(m[1]), m[2]
	}
	if it.Title == "" || it.ViewCount == "" || it.VideoID == "" {
		return nil
	}
	return it
}

// LatestLivestream extracts the stream that is live right now from the /streams tab.
// Without the live-now badge the tab only lists past streams, so nothing else
// is looked at. Title, viewer count and video id are required.
func LatestLivestream(page string) *LatestItem {
	badge := strings.Index(page, liveBadgeMarker)
	if badge < 0 {
		return nil
	}
	start := strings.LastIndex(page[:badge], videoRendererStart)
	if start < 0 {
		return nil
	}
	seg := page[start:badge]
	it := &LatestItem{
		Kind:      KindLivestream,
		Title:     Decode(first(videoTitleRe, seg)),
		VideoID:   first(streamIDRe, seg),
		Thumbnail: first(videoThumbRe, seg),
	}
	if m := streamWatchingRe.FindStringSubmatch(seg); m != nil {
		it.ViewCount = m[1] + m[2]
	} else {
		it.ViewCount = first(streamViewSimpleRe, seg)
	}
	if it.Title == "" || it.ViewCount == "" || it.VideoID == "" {
		return nil
	}
	return it
}

// segment returns page from the first marker up to the next one (or the end).
func segment(page, marker string) string {
	i := strings.Index(page, marker)
	if i < 0 {
		return ""
	}
	rest := page[i+len(marker):]
	if j := strings.Index(rest, marker); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
