// Package binding attaches a channel widget to each comment node and keeps it
// in sync when the node is reused for a different author.
package binding

import (
	"context"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_ytinfo/internal/channel"
	"github.com/anatolykoptev/go_ytinfo/internal/dom"
	"github.com/anatolykoptev/go_ytinfo/internal/engine"
	"github.com/anatolykoptev/go_ytinfo/internal/settings"
	"github.com/anatolykoptev/go_ytinfo/internal/widget"
)

// Selectors the host page must satisfy.
const (
	authorLinkSelector         = "#header-author a"
	authorLinkFallbackSelector = ".author a"
	headerSelector             = "#header-author"
	contentTextSelector        = "#content-text"
)

// State is a binding's lifecycle stage.
type State int

const (
	Unbound State = iota
	Fetching
	Rendered
	Refetching
	Detached
)

func (s State) String() string {
	switch s {
	case Unbound:
		return "unbound"
	case Fetching:
		return "fetching"
	case Rendered:
		return "rendered"
	case Refetching:
		return "refetching"
	case Detached:
		return "detached"
	}
	return "unknown"
}

// Aggregator produces the record for a channel URL.
type Aggregator interface {
	FetchChannelInfo(ctx context.Context, channelURL string, s settings.Settings) channel.Record
}

// Binding is the state of one comment node.
type Binding struct {
	node      *html.Node
	link      *html.Node
	url       string
	state     State
	gen       uint64
	container *html.Node
	watcher   *dom.Observer
}

func (b *Binding) State() State          { return b.state }
func (b *Binding) Generation() uint64    { return b.gen }
func (b *Binding) ChannelURL() string    { return b.url }
func (b *Binding) Container() *html.Node { return b.container }

// Engine owns every binding on one document. All methods run on the
// document's loop.
type Engine struct {
	ctx      context.Context
	doc      *dom.Document
	ui       *widget.UI
	agg      Aggregator
	settings settings.Settings
	bindings map[*html.Node]*Binding
}

// New creates an Engine. ctx bounds every fetch it starts.
func New(ctx context.Context, ui *widget.UI, agg Aggregator, s settings.Settings) *Engine {
	return &Engine{
		ctx:      ctx,
		doc:      ui.Doc(),
		ui:       ui,
		agg:      agg,
		settings: s,
		bindings: make(map[*html.Node]*Binding),
	}
}

// Binding returns the current binding of node, or nil.
func (e *Engine) Binding(node *html.Node) *Binding { return e.bindings[node] }

// Len returns the number of live bindings.
func (e *Engine) Len() int { return len(e.bindings) }

// Bind starts annotating a comment node. Any previous widget and watcher on
// the node are dropped first. A node without an author link stays Unbound.
func (e *Engine) Bind(node *html.Node) {
	if prev := e.bindings[node]; prev != nil {
		e.release(prev)
	}
	e.removeContainers(node)

	link := e.authorLink(node)
	href, _ := dom.Attr(link, "href")
	if link == nil || href == "" {
		slog.Debug("binding: no author link, skipping comment")
		e.bindings[node] = &Binding{node: node, state: Unbound}
		return
	}

	engine.IncrBindings()
	b := &Binding{node: node, link: link, url: href}
	e.bindings[node] = b
	b.watcher = e.doc.Observe(link, dom.ObserveOptions{AttributeFilter: []string{"href"}}, func([]dom.MutationRecord) {
		e.rebind(b)
	})
	e.fetch(b, Fetching)
}

// Detach forgets node. In-flight fetches for it complete as no-ops.
func (e *Engine) Detach(node *html.Node) {
	b := e.bindings[node]
	if b == nil {
		return
	}
	e.release(b)
	delete(e.bindings, node)
}

func (e *Engine) authorLink(node *html.Node) *html.Node {
	if l := e.doc.QuerySelector(node, authorLinkSelector); l != nil {
		return l
	}
	return e.doc.QuerySelector(node, authorLinkFallbackSelector)
}

func (e *Engine) release(b *Binding) {
	b.state = Detached
	if b.watcher != nil {
		b.watcher.Disconnect()
		b.watcher = nil
	}
	if b.container != nil {
		e.ui.Release(b.container)
	}
}

func (e *Engine) removeContainers(node *html.Node) {
	for _, c := range e.doc.QuerySelectorAll(node, "."+widget.ContainerClass) {
		e.ui.Release(c)
		e.doc.Remove(c)
	}
}

// rebind handles an author change on a node that keeps its identity.
func (e *Engine) rebind(b *Binding) {
	if b.state == Detached {
		return
	}
	href, _ := dom.Attr(b.link, "href")
	engine.IncrRebinds()
	slog.Debug("binding: author changed", slog.String("from", b.url), slog.String("to", href))
	b.url = href
	if b.container != nil {
		e.doc.SetStyle(b.container, "visibility", "hidden")
	}
	e.fetch(b, Refetching)
}

func (e *Engine) fetch(b *Binding, state State) {
	b.gen++
	b.state = state
	gen, url, s := b.gen, b.url, e.settings
	e.doc.Loop().Async(func() func() {
		rec := channel.Record{}
		if url != "" {
			rec = e.agg.FetchChannelInfo(e.ctx, url, s)
		}
		return func() { e.apply(b, gen, rec) }
	})
}

// apply renders a fetch result. Results for detached nodes or superseded
// generations are dropped.
func (e *Engine) apply(b *Binding, gen uint64, rec channel.Record) {
	if b.state == Detached || e.bindings[b.node] != b {
		return
	}
	if gen != b.gen {
		engine.IncrStaleResults()
		slog.Debug("binding: dropping stale result", slog.String("channel", rec.URL))
		return
	}
	if !e.doc.IsConnected(b.node) {
		return
	}
	b.state = Rendered

	groups, _ := e.ui.BuildGroups(rec, e.settings)
	if len(groups) == 0 {
		engine.IncrWidgetsSuppressed()
		if b.container != nil {
			e.ui.Release(b.container)
			e.doc.Remove(b.container)
			b.container = nil
		}
		return
	}

	if b.container != nil {
		for c := b.container.FirstChild; c != nil; c = c.NextSibling {
			e.ui.Release(c)
		}
		e.doc.ReplaceChildren(b.container, groups...)
		e.doc.SetStyle(b.container, "visibility", "")
		return
	}

	c := e.ui.NewContainer()
	for _, g := range groups {
		e.doc.AppendChild(c, g)
	}
	if !e.insert(b.node, c) {
		return
	}
	b.container = c
}

func (e *Engine) insert(node, container *html.Node) bool {
	if e.settings.Position() == settings.PositionHeader {
		header := e.doc.QuerySelector(node, headerSelector)
		if header == nil {
			slog.Debug("binding: no author header, abandoning comment")
			return false
		}
		e.doc.AppendChild(header, container)
		return true
	}
	text := e.doc.QuerySelector(node, contentTextSelector)
	if text == nil || text.Parent == nil {
		slog.Debug("binding: no comment text, abandoning comment")
		return false
	}
	e.doc.InsertBefore(text.Parent, container, text)
	return true
}
