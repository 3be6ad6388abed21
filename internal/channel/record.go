package channel

import (
	"encoding/json"

	"github.com/anatolykoptev/go_ytinfo/internal/extract"
)

// Record is everything known about one channel after a fetch. Absent string
// fields are "", absent lists and items are nil.
type Record struct {
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
	Playlists        *extract.PlaylistSet   `json:"playlists,omitempty"`
}

func (r Record) HasDescription() bool   { return r.Description != "" }
func (r Record) HasLinks() bool         { return len(r.ExternalLinks) > 0 }
func (r Record) HasBusinessEmail() bool { return r.BusinessEmail != "" }

// HasPlaylists reports whether the playlists tab listed at least one entry.
func (r Record) HasPlaylists() bool { return r.Playlists != nil && len(r.Playlists.Items) > 0 }

// IsEmpty reports total absence: nothing was extracted from any sub-page.
func (r Record) IsEmpty() bool {
	return r.SubscriberCount == "" && r.Country == "" && r.JoinedDate == "" &&
		r.VideoCount == "" && r.ViewCount == "" &&
		!r.HasDescription() && !r.HasLinks() && !r.HasBusinessEmail() &&
		r.LatestVideo == nil && r.LatestShort == nil && r.LatestLivestream == nil &&
		!r.HasPlaylists()
}

// MarshalJSON adds the derived has_* flags.
func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return json.Marshal(struct {
		plain
		HasDescription   bool `json:"has_description"`
		HasLinks         bool `json:"has_links"`
		HasBusinessEmail bool `json:"has_business_email"`
	}{
		plain:            plain(r),
		HasDescription:   r.HasDescription(),
		HasLinks:         r.HasLinks(),
		HasBusinessEmail: r.HasBusinessEmail(),
	})
}
