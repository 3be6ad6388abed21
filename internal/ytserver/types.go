package ytserver

import (
	"github.com/anatolykoptev/go_ytinfo/internal/channel"
	"github.com/anatolykoptev/go_ytinfo/internal/extract"
)

// ChannelInfoInput is the input of channel_info.
type ChannelInfoInput struct {
	ChannelURL string `json:"channel_url" jsonschema:"Channel URL or author-link href (e.g. https://www.youtube.com/@handle or /@handle)"`
}

// ChannelInfo is the tool-facing view of a channel record.
type ChannelInfo struct {
	URL              string                 `json:"url"`
	SubscriberCount  string                 `json:"subscriber_count,omitempty"`
	Country          string                 `json:"country,omitempty"`
	JoinedDate       string                 `json:"joined_date,omitempty"`
	VideoCount       string                 `json:"video_count,omitempty"`
	ViewCount        string                 `json:"view_count,omitempty"`
	Description      string                 `json:"description,omitempty"`
	ExternalLinks    []extract.ExternalLink `json:"external_links,omitempty"`
	BusinessEmail    string                 `json:"business_email,omitempty"`
	LatestVideo      *extract.LatestItem    `json:"latest_video,omitempty"`
	LatestShort      *extract.LatestItem    `json:"latest_short,omitempty"`
	LatestLivestream *extract.LatestItem    `json:"latest_livestream,omitempty"`
	Playlists        []extract.Playlist     `json:"playlists,omitempty"`
	PlaylistsLabel   string                 `json:"playlists_label,omitempty"`
	HasDescription   bool                   `json:"has_description"`
	HasLinks         bool                   `json:"has_links"`
	HasBusinessEmail bool                   `json:"has_business_email"`
	Disabled         []string               `json:"disabled_fields,omitempty"`
}

func toChannelInfo(rec channel.Record, disabled []string) ChannelInfo {
	out := ChannelInfo{
		URL:              rec.URL,
		SubscriberCount:  rec.SubscriberCount,
		Country:          rec.Country,
		JoinedDate:       rec.JoinedDate,
		VideoCount:       rec.VideoCount,
		ViewCount:        rec.ViewCount,
		Description:      rec.Description,
		ExternalLinks:    rec.ExternalLinks,
		BusinessEmail:    rec.BusinessEmail,
		LatestVideo:      rec.LatestVideo,
		LatestShort:      rec.LatestShort,
		LatestLivestream: rec.LatestLivestream,
		HasDescription:   rec.HasDescription(),
		HasLinks:         rec.HasLinks(),
		HasBusinessEmail: rec.HasBusinessEmail(),
		Disabled:         disabled,
	}
	if rec.HasPlaylists() {
		out.Playlists = rec.Playlists.Items
		out.PlaylistsLabel = rec.Playlists.Label()
	}
	return out
}

// AnnotateInput is the input of annotate_comments.
type AnnotateInput struct {
	HTML string `json:"html" jsonschema:"Comment feed markup: ytd-comment-thread-renderer / ytd-comment-view-model elements"`
}

// AnnotateOutput is the annotated feed.
type AnnotateOutput struct {
	HTML      string `json:"html"`
	Markdown  string `json:"markdown,omitempty"`
	Comments  int    `json:"comments"`
	Annotated int    `json:"annotated"`
	Position  string `json:"position"`
}

// SettingsGetInput is the (empty) input of settings_get.
type SettingsGetInput struct{}

// SettingsUpdateInput is the input of settings_update.
type SettingsUpdateInput struct {
	Values   map[string]bool `json:"values,omitempty" jsonschema:"Feature flags to change, e.g. {\"businessEmail\": false}. Keys: subscriberCount, location, joinedDate, totalVideos, totalViewCount, playlists, latestVideo, latestShorts, latestLivestream, description, externalLinks, businessEmail"`
	Position string          `json:"position,omitempty" jsonschema:"Widget position: inline (above the comment text) or header (next to the author name)"`
}

// SettingsOutput is the current settings snapshot.
type SettingsOutput struct {
	Values   map[string]bool `json:"values"`
	Position string          `json:"position"`
	Disabled []string        `json:"disabled,omitempty"`
}
