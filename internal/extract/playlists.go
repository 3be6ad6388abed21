package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	playlistTitleRe = regexp.MustCompile(`"metadata":\{"lockupMetadataViewModel":\{"title":\{"content":"((?:\\.|[^"\\])+)"`)
	playlistIDRe    = regexp.MustCompile(`"url":"/playlist\?list=([^"]+)"`)
	playlistThumbRe = regexp.MustCompile(`"thumbnailViewModel":\{"image":\{"sources":\[\{"url":"([^"]+)"`)
	playlistCountRe = regexp.MustCompile(`"thumbnailBadgeViewModel":\{"text":"([^"]+)"`)
	selectedTabRe   = regexp.MustCompile(`"title":"([^"]+)","selected":true`)
)

const (
	playlistURLPrefix   = "https://www.youtube.com/playlist?list="
	defaultPlaylistWord = "playlist"
)

// Playlists extracts the playlists tab. Titles drive the list; ids, thumbnails
// and counts are matched independently and paired by position, so a shorter
// parallel list leaves the trailing fields empty.
func Playlists(page string) PlaylistSet {
	titles := all(playlistTitleRe, page)
	ids := all(playlistIDRe, page)
	thumbs := all(playlistThumbRe, page)
	counts := all(playlistCountRe, page)

	set := PlaylistSet{Word: playlistWord(page)}
	for i, t := range titles {
		p := Playlist{
			Title:      Decode(t),
			Thumbnail:  at(thumbs, i),
			VideoCount: at(counts, i),
		}
		if id := at(ids, i); id != "" {
			p.URL = playlistURLPrefix + Decode(id)
		}
		set.Items = append(set.Items, p)
	}
	return set
}

// playlistWord returns the selected tab's title with a lowercased first letter,
// which is the localized word for "playlists".
func playlistWord(page string) string {
	w := strings.TrimSpace(Decode(first(selectedTabRe, page)))
	if w == "" {
		return defaultPlaylistWord
	}
	r, size := utf8.DecodeRuneInString(w)
	return string(unicode.ToLower(r)) + w[size:]
}
