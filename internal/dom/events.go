package dom

import "golang.org/x/net/html"

// Event is a DOM event travelling from Target up to the document.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node
	RelatedTarget *html.Node // mouseover/mouseout: the node the pointer came from or went to
	stopped       bool
}

// StopPropagation prevents the event reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

type listener struct {
	fn      func(*Event)
	removed bool
}

// AddEventListener registers fn for typ events on n, including events bubbling
// up from descendants. The returned func removes the listener.
func (d *Document) AddEventListener(n *html.Node, typ string, fn func(*Event)) (remove func()) {
	byType := d.listeners[n]
	if byType == nil {
		byType = make(map[string][]*listener)
		d.listeners[n] = byType
	}
	l := &listener{fn: fn}
	byType[typ] = append(byType[typ], l)
	return func() {
		l.removed = true
		list := d.listeners[n][typ]
		for i, x := range list {
			if x == l {
				d.listeners[n][typ] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(d.listeners[n][typ]) == 0 {
			delete(d.listeners[n], typ)
		}
		if len(d.listeners[n]) == 0 {
			delete(d.listeners, n)
		}
	}
}

// Dispatch delivers ev synchronously to target and each ancestor in turn.
func (d *Document) Dispatch(target *html.Node, ev *Event) {
	ev.Target = target
	for n := target; n != nil && !ev.stopped; n = n.Parent {
		list := d.listeners[n][ev.Type]
		if len(list) == 0 {
			continue
		}
		ev.CurrentTarget = n
		for _, l := range append([]*listener(nil), list...) {
			if !l.removed {
				l.fn(ev)
			}
		}
	}
}

// Click dispatches a click on n.
func (d *Document) Click(n *html.Node) {
	d.Dispatch(n, &Event{Type: "click"})
}

// Hover moves the pointer from `from` onto n, dispatching mouseout on from and
// mouseover on n. Either may be nil.
func (d *Document) Hover(from, n *html.Node) {
	if from != nil {
		d.Dispatch(from, &Event{Type: "mouseout", RelatedTarget: n})
	}
	if n != nil {
		d.Dispatch(n, &Event{Type: "mouseover", RelatedTarget: from})
	}
}

// RemoveListeners drops every listener registered on root or its descendants.
func (d *Document) RemoveListeners(root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for _, list := range d.listeners[n] {
			for _, l := range list {
				l.removed = true
			}
		}
		delete(d.listeners, n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
