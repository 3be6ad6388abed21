// Package dom is a small host-page model over golang.org/x/net/html. A
// Document owns a node tree and emits mutation records and events the way a
// browser does, so page agents can be driven without one. All methods must be
// called from the document's Loop.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a mutable node tree with observers and event listeners.
type Document struct {
	root      *html.Node
	loop      *Loop
	layout    Layout
	observers []*Observer
	listeners map[*html.Node]map[string][]*listener
}

// NewDocument creates an empty <html><head></head><body></body></html> document.
func NewDocument(loop *Loop) *Document {
	doc, err := Parse(strings.NewReader("<!DOCTYPE html><html><head></head><body></body></html>"), loop)
	if err != nil {
		panic(fmt.Sprintf("dom: parse empty document: %v", err))
	}
	return doc
}

// Parse reads a full HTML document.
func Parse(r io.Reader, loop *Loop) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:      root,
		loop:      loop,
		listeners: make(map[*html.Node]map[string][]*listener),
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Loop returns the loop the document runs on.
func (d *Document) Loop() *Loop { return d.loop }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.QuerySelector(d.root, "body") }

// SetLayout installs the geometry source used by BoundingClientRect.
func (d *Document) SetLayout(l Layout) { d.layout = l }

// BoundingClientRect returns n's box from the installed layout.
func (d *Document) BoundingClientRect(n *html.Node) Rect {
	if d.layout == nil {
		return Rect{}
	}
	return d.layout.BoundingClientRect(n)
}

// ScrollOffset returns the page scroll from the installed layout.
func (d *Document) ScrollOffset() (float64, float64) {
	if d.layout == nil {
		return 0, 0
	}
	return d.layout.ScrollOffset()
}

// ParseFragment parses markup in the context of <body>. The returned nodes are
// not attached to the document.
func (d *Document) ParseFragment(markup string) ([]*html.Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return nodes, nil
}

// CreateElement returns a detached element with the given attributes, given as
// key/value pairs.
func (d *Document) CreateElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// CreateText returns a detached text node.
func (d *Document) CreateText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// IsConnected reports whether n is attached to the document.
func (d *Document) IsConnected(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// AppendChild appends child to parent, moving it if it is already attached.
func (d *Document) AppendChild(parent, child *html.Node) {
	d.InsertBefore(parent, child, nil)
}

// InsertBefore inserts child before ref under parent; a nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if child.Parent != nil {
		d.Remove(child)
	}
	parent.InsertBefore(child, ref)
	d.queueRecord(MutationRecord{Type: ChildList, Target: parent, AddedNodes: []*html.Node{child}})
}

// Remove detaches n from its parent. Detached nodes are left alone.
func (d *Document) Remove(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	parent.RemoveChild(n)
	d.queueRecord(MutationRecord{Type: ChildList, Target: parent, RemovedNodes: []*html.Node{n}})
}

// ReplaceChildren removes every child of parent and appends nodes.
func (d *Document) ReplaceChildren(parent *html.Node, nodes ...*html.Node) {
	var removed []*html.Node
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		removed = append(removed, c)
		c = next
	}
	for _, n := range nodes {
		if n.Parent != nil {
			d.Remove(n)
		}
		parent.AppendChild(n)
	}
	if len(removed) > 0 || len(nodes) > 0 {
		d.queueRecord(MutationRecord{Type: ChildList, Target: parent, AddedNodes: nodes, RemovedNodes: removed})
	}
}

// SetText replaces n's children with a single text node.
func (d *Document) SetText(n *html.Node, s string) {
	d.ReplaceChildren(n, d.CreateText(s))
}

// SetAttr sets an attribute, recording the old value.
func (d *Document) SetAttr(n *html.Node, key, val string) {
	old, had := Attr(n, key)
	if had && old == val {
		return
	}
	if had {
		for i := range n.Attr {
			if n.Attr[i].Key == key && n.Attr[i].Namespace == "" {
				n.Attr[i].Val = val
				break
			}
		}
	} else {
		n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	}
	d.queueRecord(MutationRecord{Type: Attributes, Target: n, AttributeName: key, OldValue: old})
}

// RemoveAttr deletes an attribute if present.
func (d *Document) RemoveAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			d.queueRecord(MutationRecord{Type: Attributes, Target: n, AttributeName: key, OldValue: a.Val})
			return
		}
	}
}

// QuerySelector returns the first descendant of n matching sel, or nil.
func (d *Document) QuerySelector(n *html.Node, sel string) *html.Node {
	s := goquery.NewDocumentFromNode(n).Find(sel)
	if s.Length() == 0 {
		return nil
	}
	return s.Get(0)
}

// QuerySelectorAll returns every descendant of n matching sel, in document order.
func (d *Document) QuerySelectorAll(n *html.Node, sel string) []*html.Node {
	return goquery.NewDocumentFromNode(n).Find(sel).Nodes
}

// Matches reports whether n itself matches sel.
func (d *Document) Matches(n *html.Node, sel string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	return goquery.NewDocumentFromNode(n).Is(sel)
}

// Closest returns the nearest inclusive ancestor of n matching sel, or nil.
func (d *Document) Closest(n *html.Node, sel string) *html.Node {
	for p := n; p != nil; p = p.Parent {
		if d.Matches(p, sel) {
			return p
		}
	}
	return nil
}

// OuterHTML renders n and its subtree.
func (d *Document) OuterHTML(n *html.Node) string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML renders n's children.
func (d *Document) InnerHTML(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return ""
		}
	}
	return buf.String()
}

// Attr returns an attribute value and whether it is set.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key && a.Namespace == "" {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates all descendant text.
func TextContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// HasClass reports whether n's class attribute contains class.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}
