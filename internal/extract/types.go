// Package extract holds pure pattern-based extractors over channel sub-page
// payloads. Every extractor takes the raw page text and returns either a value
// or its absence ("" / nil); a pattern that does not match is never an error.
package extract

import "fmt"

// ExternalLink is one entry of a channel's "links" section.
type ExternalLink struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Icon  string `json:"icon,omitempty"`
}

// ItemKind distinguishes the three "latest item" shelves.
type ItemKind string

const (
	KindVideo      ItemKind = "video"
	KindShort      ItemKind = "short"
	KindLivestream ItemKind = "livestream"
)

// LatestItem describes the most recent upload of one kind.
type LatestItem struct {
	Kind          ItemKind `json:"kind"`
	Title         string   `json:"title"`
	PublishedTime string   `json:"published_time,omitempty"`
	Length        string   `json:"length,omitempty"`
	ViewCount     string   `json:"view_count"`
	VideoID       string   `json:"video_id,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
}

// WatchURL returns the watch page for the item, or "" without a video id.
func (it *LatestItem) WatchURL() string {
	if it == nil || it.VideoID == "" {
		return ""
	}
	if it.Kind == KindShort {
		return "https://www.youtube.com/shorts/" + it.VideoID
	}
	return "https://www.youtube.com/watch?v=" + it.VideoID
}

// Playlist is one entry of the channel's playlists tab.
type Playlist struct {
	Title      string `json:"title"`
	URL        string `json:"url,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	VideoCount string `json:"video_count,omitempty"`
}

// PlaylistSet is the playlists tab plus the localized word used in the count label.
type PlaylistSet struct {
	Items []Playlist `json:"items"`
	Word  string     `json:"word"`
}

// playlistPageSize is the number of playlists the first page of the tab carries.
const playlistPageSize = 30

// Label renders the count badge, e.g. "4 playlists" or "30+ playlists".
func (ps *PlaylistSet) Label() string {
	if ps == nil {
		return ""
	}
	if len(ps.Items) >= playlistPageSize {
		return fmt.Sprintf("%d+ %s", playlistPageSize, ps.Word)
	}
	return fmt.Sprintf("%d %s", len(ps.Items), ps.Word)
}
