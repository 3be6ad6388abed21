// Package widget renders a channel Record into the grouped info boxes shown
// under a comment, with their popups and tooltips.
package widget

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_ytinfo/internal/channel"
	"github.com/anatolykoptev/go_ytinfo/internal/dom"
	"github.com/anatolykoptev/go_ytinfo/internal/extract"
	"github.com/anatolykoptev/go_ytinfo/internal/settings"
)

// CSS class names shared with the page.
const (
	ContainerClass = "yt-enhanced-info"
	ItemClass      = "yt-enhanced-info-item"
	GroupClass     = "yt-enhanced-info-group"
	PopupClass     = "yt-enhanced-info-popup"
	TooltipClass   = "yt-enhanced-info-tooltip"
)

// Group names, in render order.
const (
	GroupIdentity = "identity"
	GroupActivity = "activity"
	GroupMedia    = "media"
	GroupContact  = "contact"
)

const (
	boxStyle       = "background: var(--yt-spec-general-background-a, #fff); color: var(--yt-spec-text-primary, #000); padding: 4px 8px; border-radius: 4px; border: 1px solid rgba(128,128,128,0.2); font-size: 1rem; width: fit-content; position: relative"
	containerStyle = "display: flex; gap: 8px; margin-top: 4px; margin-bottom: 8px; width: 100%; max-width: 800px"
	groupStyle     = "display: flex; flex-direction: column; gap: 4px"
	popupStyle     = "position: absolute; background: var(--yt-spec-general-background-a, #fff); color: var(--yt-spec-text-primary, #000); padding: 8px; border: 1px solid rgba(128,128,128,0.2); border-radius: 4px; box-shadow: 0 2px 8px rgba(0,0,0,0.15); z-index: 1000000"
	tooltipStyle   = popupStyle + "; white-space: pre-wrap"

	linkDisplayLimit  = 48
	tooltipRuneLimit  = 1000
	playlistRedirectN = 2
)

var schemeRe = regexp.MustCompile(`(?i)^https?://`)

// UI carries the document and the two popup slots shared by every widget on a page.
type UI struct {
	doc      *dom.Document
	Popups   *PopupSlot // links, playlists and latest-item dropdowns
	Tooltips *PopupSlot // hover tooltips
}

// NewUI creates the shared rendering state for doc.
func NewUI(doc *dom.Document) *UI {
	return &UI{doc: doc, Popups: NewPopupSlot(doc), Tooltips: NewPopupSlot(doc)}
}

// Doc returns the document widgets are rendered into.
func (u *UI) Doc() *dom.Document { return u.doc }

// Widget is one rendered container.
type Widget struct {
	Container *html.Node
	Groups    []string
}

// Build renders rec with s as the field allowlist. It returns nil when no
// field is both enabled and present.
func (u *UI) Build(rec channel.Record, s settings.Settings) *Widget {
	groups, names := u.BuildGroups(rec, s)
	if len(groups) == 0 {
		return nil
	}
	c := u.NewContainer()
	for _, g := range groups {
		u.doc.AppendChild(c, g)
	}
	return &Widget{Container: c, Groups: names}
}

// NewContainer returns an empty, detached widget container.
func (u *UI) NewContainer() *html.Node {
	return u.doc.CreateElement("div", "class", ContainerClass, "style", containerStyle)
}

// BuildGroups renders the non-empty groups for rec, in order.
func (u *UI) BuildGroups(rec channel.Record, s settings.Settings) ([]*html.Node, []string) {
	var nodes []*html.Node
	var names []string
	add := func(name string, items ...*html.Node) {
		g := u.doc.CreateElement("div", "class", GroupClass, "data-group", name, "style", groupStyle)
		for _, it := range items {
			if it != nil {
				u.doc.AppendChild(g, it)
			}
		}
		if g.FirstChild != nil {
			nodes = append(nodes, g)
			names = append(names, name)
		}
	}

	add(GroupIdentity,
		u.textItem(s, settings.SubscriberCount, "👥", rec.SubscriberCount),
		u.textItem(s, settings.Location, "🌍", rec.Country),
		u.textItem(s, settings.JoinedDate, "📅", rec.JoinedDate),
	)
	add(GroupActivity,
		u.textItem(s, settings.TotalVideos, "🎥", rec.VideoCount),
		u.textItem(s, settings.TotalViewCount, "👁️", rec.ViewCount),
		u.playlistsItem(s, rec),
	)
	add(GroupMedia,
		u.latestItem(s, settings.LatestVideo, rec.LatestVideo),
		u.latestItem(s, settings.LatestShorts, rec.LatestShort),
		u.latestItem(s, settings.LatestLivestream, rec.LatestLivestream),
	)
	add(GroupContact,
		u.descriptionItem(s, rec.Description),
		u.linksItem(s, rec.ExternalLinks),
		u.emailItem(s, rec.BusinessEmail),
	)
	return nodes, names
}

// Release detaches listeners and closes popups belonging to root's subtree.
func (u *UI) Release(root *html.Node) {
	u.Popups.CloseOwnedBy(root)
	u.Tooltips.CloseOwnedBy(root)
	u.doc.RemoveListeners(root)
}

func (u *UI) box(tag string, key settings.Key, text string, attrs ...string) *html.Node {
	n := u.doc.CreateElement(tag, "class", ItemClass, "data-field", string(key), "style", boxStyle)
	for i := 0; i+1 < len(attrs); i += 2 {
		u.doc.SetAttr(n, attrs[i], attrs[i+1])
	}
	u.doc.AppendChild(n, u.doc.CreateText(text))
	return n
}

func (u *UI) textItem(s settings.Settings, key settings.Key, icon, value string) *html.Node {
	if !s.Enabled(key) || value == "" {
		return nil
	}
	return u.box("div", key, icon+" "+value)
}

func (u *UI) emailItem(s settings.Settings, aboutURL string) *html.Node {
	if !s.Enabled(settings.BusinessEmail) || aboutURL == "" {
		return nil
	}
	return u.box("a", settings.BusinessEmail, "📧",
		"href", aboutURL, "target", "_blank", "rel", "noopener noreferrer")
}

func (u *UI) descriptionItem(s settings.Settings, desc string) *html.Node {
	if !s.Enabled(settings.Description) || desc == "" {
		return nil
	}
	item := u.box("div", settings.Description, "📝")
	text := strutil.TruncateAtWord(desc, tooltipRuneLimit)
	u.doc.AddEventListener(item, "mouseover", func(*dom.Event) {
		if u.Tooltips.Owner() == item {
			return
		}
		tip := u.doc.CreateElement("div", "class", TooltipClass, "style", tooltipStyle)
		u.doc.AppendChild(tip, u.doc.CreateText(text))
		u.Tooltips.Open(item, tip, false)
	})
	u.doc.AddEventListener(item, "mouseout", func(e *dom.Event) {
		if e.RelatedTarget != nil && dom.Contains(item, e.RelatedTarget) {
			return
		}
		if u.Tooltips.Owner() == item {
			u.Tooltips.Close()
		}
	})
	return item
}

func (u *UI) linksItem(s settings.Settings, links []extract.ExternalLink) *html.Node {
	if !s.Enabled(settings.ExternalLinks) || len(links) == 0 {
		return nil
	}
	item := u.box("a", settings.ExternalLinks, "🔗", "style", boxStyle+"; cursor: pointer")
	u.doc.AddEventListener(item, "click", func(*dom.Event) {
		u.Popups.Open(item, u.linksPopup(links), true)
	})
	return item
}

func (u *UI) linksPopup(links []extract.ExternalLink) *html.Node {
	popup := u.doc.CreateElement("div", "class", PopupClass, "data-popup", "links", "style", popupStyle+"; display: table")
	for _, l := range links {
		if l.Link == "" {
			continue
		}
		target := NormalizeLink(l.Link)
		row := u.doc.CreateElement("div", "class", "popup-row", "style", "display: table-row")
		u.doc.AppendChild(row, u.cell("left-cell", l.Title))
		icon := u.cell("middle-cell", "")
		if l.Icon != "" {
			u.doc.AppendChild(icon, u.doc.CreateElement("img", "src", l.Icon, "width", "16", "height", "16"))
		}
		u.doc.AppendChild(row, icon)
		right := u.cell("right-cell", "")
		a := u.doc.CreateElement("a", "href", target, "target", "_blank", "rel", "noopener noreferrer")
		u.doc.AppendChild(a, u.doc.CreateText(LinkDisplay(target)))
		u.doc.AppendChild(right, a)
		u.doc.AppendChild(row, right)
		u.doc.AppendChild(popup, row)
	}
	return popup
}

func (u *UI) playlistsItem(s settings.Settings, rec channel.Record) *html.Node {
	if !s.Enabled(settings.Playlists) || !rec.HasPlaylists() {
		return nil
	}
	ps := rec.Playlists
	wrap := u.doc.CreateElement("div", "class", "playlists-wrap", "style", "display: flex; gap: 4px")
	item := u.box("div", settings.Playlists, "𝄞 "+ps.Label(), "style", boxStyle+"; cursor: pointer")
	u.doc.AppendChild(wrap, item)
	u.doc.AddEventListener(item, "click", func(*dom.Event) {
		u.Popups.Open(item, u.playlistsPopup(ps), true)
	})
	if len(ps.Items) >= playlistRedirectN && rec.URL != "" {
		u.doc.AppendChild(wrap, u.box("a", settings.Playlists, "🎙",
			"href", rec.URL+"/playlists", "target", "_blank", "rel", "noopener noreferrer", "data-role", "redirect"))
	}
	return wrap
}

func (u *UI) playlistsPopup(ps *extract.PlaylistSet) *html.Node {
	popup := u.doc.CreateElement("div", "class", PopupClass, "data-popup", "playlists", "style", popupStyle+"; display: table")
	for _, p := range ps.Items {
		row := u.doc.CreateElement("div", "class", "popup-row", "style", "display: table-row; cursor: pointer")
		title := u.cell("left-cell", "")
		if p.URL != "" {
			a := u.doc.CreateElement("a", "href", p.URL, "target", "_blank", "rel", "noopener noreferrer")
			u.doc.AppendChild(a, u.doc.CreateText(p.Title))
			u.doc.AppendChild(title, a)
		} else {
			u.doc.AppendChild(title, u.doc.CreateText(p.Title))
		}
		u.doc.AppendChild(row, title)
		u.doc.AppendChild(row, u.cell("middle-cell", p.VideoCount))
		thumb := u.cell("right-cell", "")
		if p.Thumbnail != "" {
			u.doc.AppendChild(thumb, u.doc.CreateElement("img", "src", p.Thumbnail, "width", "60", "height", "45"))
		}
		u.doc.AppendChild(row, thumb)
		u.doc.AppendChild(popup, row)
	}
	return popup
}

var latestIcons = map[extract.ItemKind]string{
	extract.KindVideo:      "🎥",
	extract.KindShort:      "📱",
	extract.KindLivestream: "🔴",
}

func (u *UI) latestItem(s settings.Settings, key settings.Key, it *extract.LatestItem) *html.Node {
	if !s.Enabled(key) || it == nil {
		return nil
	}
	label := it.PublishedTime
	switch it.Kind {
	case extract.KindShort:
		label = it.ViewCount
	case extract.KindLivestream:
		label = "LIVE " + it.ViewCount
	}
	item := u.box("div", key, latestIcons[it.Kind]+" "+label, "style", boxStyle+"; cursor: pointer")
	u.doc.AddEventListener(item, "click", func(*dom.Event) {
		u.Popups.Open(item, u.latestPopup(it), true)
	})
	return item
}

func (u *UI) latestPopup(it *extract.LatestItem) *html.Node {
	popup := u.doc.CreateElement("div", "class", PopupClass, "data-popup", string(it.Kind), "style", popupStyle+"; display: flex; flex-direction: column; gap: 4px")

	top := u.doc.CreateElement("div", "class", "popup-stats", "style", "display: flex; gap: 4px")
	u.doc.AppendChild(top, u.cell("views", it.ViewCount))
	if it.Length != "" {
		u.doc.AppendChild(top, u.cell("length", it.Length))
	}
	u.doc.AppendChild(popup, top)

	if it.Thumbnail != "" {
		img := u.doc.CreateElement("img", "src", it.Thumbnail, "style", "max-width: 150px; height: auto")
		if watch := it.WatchURL(); watch != "" {
			a := u.doc.CreateElement("a", "href", watch, "target", "_blank", "rel", "noopener noreferrer")
			u.doc.AppendChild(a, img)
			img = a
		}
		u.doc.AppendChild(popup, img)
	}
	u.doc.AppendChild(popup, u.cell("title", it.Title))
	return popup
}

func (u *UI) cell(class, text string) *html.Node {
	n := u.doc.CreateElement("div", "class", class, "style", "display: table-cell; padding: 4px 8px; border: 1px solid rgba(128,128,128,0.2); border-radius: 4px")
	if text != "" {
		u.doc.AppendChild(n, u.doc.CreateText(text))
	}
	return n
}

// NormalizeLink makes a scheme-less channel link absolute: "x.com/y" and
// "www.x.com/y" both become "https://www.x.com/y".
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if schemeRe.MatchString(link) {
		return link
	}
	if len(link) >= 4 && strings.EqualFold(link[:4], "www.") {
		link = link[4:]
	}
	return "https://www." + link
}

// LinkDisplay is the short text shown for a link in the links popup.
func LinkDisplay(link string) string {
	display := strings.TrimPrefix(link, "https://www.")
	return strutil.TruncateWith(display, linkDisplayLimit, "…")
}
