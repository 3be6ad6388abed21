// Package feed watches the comment feed for inserted comment units and hands
// each one to a Binder.
package feed

import (
	"errors"
	"log/slog"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_ytinfo/internal/dom"
)

const unitTag = "ytd-comment-view-model"

// Binder receives comment units.
type Binder interface {
	Bind(node *html.Node)
	Detach(node *html.Node)
}

// Observer dispatches inserted comment units to a Binder.
type Observer struct {
	doc    *dom.Document
	binder Binder
	obs    *dom.Observer
	bound  int
}

// New creates an Observer. Call Start to begin watching.
func New(doc *dom.Document, binder Binder) *Observer {
	return &Observer{doc: doc, binder: binder}
}

// Start observes root, or the page's ytd-app (falling back to <body>) when
// root is nil.
func (o *Observer) Start(root *html.Node) error {
	if root == nil {
		root = o.doc.QuerySelector(o.doc.Root(), "ytd-app")
	}
	if root == nil {
		root = o.doc.Body()
	}
	if root == nil {
		return errors.New("feed: no root to observe")
	}
	if o.obs != nil {
		o.obs.Disconnect()
	}
	o.obs = o.doc.Observe(root, dom.ObserveOptions{ChildList: true, Subtree: true}, o.handle)
	slog.Debug("feed: observing", slog.String("root", root.Data))
	return nil
}

// Stop disconnects the observer.
func (o *Observer) Stop() {
	if o.obs != nil {
		o.obs.Disconnect()
		o.obs = nil
	}
}

// Bound returns how many Bind calls the observer has made.
func (o *Observer) Bound() int { return o.bound }

func (o *Observer) handle(batch []dom.MutationRecord) {
	seen := make(map[*html.Node]bool)
	for _, rec := range batch {
		for _, n := range rec.RemovedNodes {
			for _, u := range o.units(n) {
				if !o.doc.IsConnected(u) {
					o.binder.Detach(u)
				}
			}
		}
		for _, n := range rec.AddedNodes {
			if !o.doc.IsConnected(n) {
				continue
			}
			for _, u := range o.units(n) {
				if seen[u] {
					continue
				}
				seen[u] = true
				o.bound++
				o.binder.Bind(u)
			}
		}
	}
}

// units returns the comment units n is or contains: a bare unit (a reply),
// the units nested in a ytd-comment-thread-renderer wrapper, or every unit
// under a bulk-inserted container.
func (o *Observer) units(n *html.Node) []*html.Node {
	if n.Type != html.ElementNode {
		return nil
	}
	nested := o.doc.QuerySelectorAll(n, unitTag)
	if n.Data == unitTag {
		return append([]*html.Node{n}, nested...)
	}
	return nested
}
