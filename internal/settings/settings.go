// Package settings defines the user-facing feature flags the widget renderer
// reads, their defaults, and a SQLite-backed store for them.
package settings

import (
	"fmt"
	"sort"
)

// Key names one feature flag. The values match the options page's storage keys.
type Key string

const (
	SubscriberCount  Key = "subscriberCount"
	Location         Key = "location"
	JoinedDate       Key = "joinedDate"
	TotalVideos      Key = "totalVideos"
	TotalViewCount   Key = "totalViewCount"
	Playlists        Key = "playlists"
	LatestVideo      Key = "latestVideo"
	LatestShorts     Key = "latestShorts"
	LatestLivestream Key = "latestLivestream"
	Description      Key = "description"
	ExternalLinks    Key = "externalLinks"
	BusinessEmail    Key = "businessEmail"
)

// PositionKey is the storage key of the layout enum.
const PositionKey = "infoPosition"

// Keys lists every flag in options-page order.
var Keys = []Key{
	SubscriberCount, Location, JoinedDate,
	TotalVideos, TotalViewCount, Playlists,
	LatestVideo, LatestShorts, LatestLivestream,
	Description, ExternalLinks, BusinessEmail,
}

// Position selects where the widget is inserted in a comment.
type Position string

const (
	// PositionInline puts the widget right above the comment text.
	PositionInline Position = "inline"
	// PositionHeader appends the widget to the author header line.
	PositionHeader Position = "header"
)

// ParsePosition validates a stored position value.
func ParsePosition(s string) (Position, error) {
	switch Position(s) {
	case PositionInline, PositionHeader:
		return Position(s), nil
	}
	return "", fmt.Errorf("unknown position %q (want %q or %q)", s, PositionInline, PositionHeader)
}

// Settings is a read-only snapshot of the user's choices.
type Settings struct {
	flags    map[Key]bool
	position Position
}

// Defaults enables every field and uses the inline layout.
func Defaults() Settings {
	flags := make(map[Key]bool, len(Keys))
	for _, k := range Keys {
		flags[k] = true
	}
	return Settings{flags: flags, position: PositionInline}
}

// New builds a snapshot from stored values. Missing keys keep their default;
// unknown keys are ignored.
func New(values map[Key]bool, pos Position) Settings {
	s := Defaults()
	for k, v := range values {
		if _, known := s.flags[k]; known {
			s.flags[k] = v
		}
	}
	if pos != "" {
		s.position = pos
	}
	return s
}

// Enabled reports whether the flag is on. The zero Settings behaves like Defaults.
func (s Settings) Enabled(k Key) bool {
	if s.flags == nil {
		return true
	}
	v, ok := s.flags[k]
	return !ok || v
}

// Position returns the configured layout.
func (s Settings) Position() Position {
	if s.position == "" {
		return PositionInline
	}
	return s.position
}

// AnyEnabled reports whether at least one of keys is on.
func (s Settings) AnyEnabled(keys ...Key) bool {
	for _, k := range keys {
		if s.Enabled(k) {
			return true
		}
	}
	return false
}

// Values returns a copy of all flags, for display.
func (s Settings) Values() map[Key]bool {
	out := make(map[Key]bool, len(Keys))
	for _, k := range Keys {
		out[k] = s.Enabled(k)
	}
	return out
}

// Disabled returns the names of all disabled flags in sorted order.
func (s Settings) Disabled() []string {
	var out []string
	for _, k := range Keys {
		if !s.Enabled(k) {
			out = append(out, string(k))
		}
	}
	sort.Strings(out)
	return out
}
