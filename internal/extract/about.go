package extract

import (
	"regexp"
	"strings"
)

// Patterns over the /about payload.
var (
	statsRe      = regexp.MustCompile(`"subscriberCountText":"([^"]+)","viewCountText":"([^"]+)","joinedDateText":\{"content":"([^"]+)"`)
	subscriberRe = regexp.MustCompile(`"subscriberCountText":"([^"]+)"`)
	viewCountRe  = regexp.MustCompile(`"viewCountText":"([^"]+)"`)
	joinedRe     = regexp.MustCompile(`"joinedDateText":\{"content":"([^"]+)"`)
	countryRe    = regexp.MustCompile(`"country":"([^"]+)"`)
	videoCountRe = regexp.MustCompile(`"videoCountText":"([^"]+)"`)
	descRe       = regexp.MustCompile(`"description":"((?:\\.|[^"\\])*)"`)
	linkRe       = regexp.MustCompile(`"channelExternalLinkViewModel":\{"title":\{"content":"((?:\\.|[^"\\])+)"\},"link":\{"content":"([^"]+)"`)
	linkIconRe   = regexp.MustCompile(`"url":"([^"]+)","width":256,"height":256`)
	emailRe      = regexp.MustCompile(`"businessEmailRevealButton":`)
)

// Stats extracts subscriber count, total views and join date.
// The combined pattern is tried first; if the three fields are not adjacent,
// each is matched on its own so one layout change cannot blank the others.
func Stats(page string) (subs, views, joined string) {
	if m := statsRe.FindStringSubmatch(page); m != nil {
		return m[1], m[2], m[3]
	}
	return first(subscriberRe, page), first(viewCountRe, page), first(joinedRe, page)
}

// Country returns the channel's country, or "".
func Country(page string) string { return first(countryRe, page) }

// VideoCount returns the channel's total video count text, or "".
func VideoCount(page string) string { return first(videoCountRe, page) }

// Description returns the decoded channel description; blank counts as absent.
func Description(page string) string {
	raw := first(descRe, page)
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return Decode(raw)
}

// ExternalLinks pairs link titles/targets with the 256x256 favicons by position.
// Links without a matching icon keep an empty Icon. Returns nil when there are none.
func ExternalLinks(page string) []ExternalLink {
	matches := linkRe.FindAllStringSubmatch(page, -1)
	if len(matches) == 0 {
		return nil
	}
	icons := all(linkIconRe, page)
	links := make([]ExternalLink, 0, len(matches))
	for i, m := range matches {
		links = append(links, ExternalLink{
			Title: strings.TrimSpace(Decode(m[1])),
			Link:  strings.TrimSpace(m[2]),
			Icon:  at(icons, i),
		})
	}
	return links
}

// BusinessEmail reports whether the channel exposes a business-email reveal button.
func BusinessEmail(page string) bool { return emailRe.MatchString(page) }
