package widget

import (
	"fmt"

	"golang.org/x/net/html"

	"github.com/anatolykoptev/go_ytinfo/internal/dom"
)

// PopupSlot owns the single open popup of its kind. Opening a popup through
// the slot closes the previous one, so at most one is ever attached.
type PopupSlot struct {
	doc         *dom.Document
	current     *html.Node
	owner       *html.Node
	stopDismiss func()
}

// NewPopupSlot creates an empty slot for doc.
func NewPopupSlot(doc *dom.Document) *PopupSlot {
	return &PopupSlot{doc: doc}
}

// Open closes any open popup, then attaches popup to <body> under trigger.
// With dismissOnOutside, a click anywhere outside the popup and its trigger
// closes it.
func (s *PopupSlot) Open(trigger, popup *html.Node, dismissOnOutside bool) {
	s.Close()

	r := s.doc.BoundingClientRect(trigger)
	sx, sy := s.doc.ScrollOffset()
	s.doc.SetStyle(popup, "top", px(r.Bottom()+sy+4))
	s.doc.SetStyle(popup, "left", px(r.X+sx))

	body := s.doc.Body()
	if body == nil {
		return
	}
	s.doc.AppendChild(body, popup)
	s.current, s.owner = popup, trigger

	if dismissOnOutside {
		s.stopDismiss = s.doc.AddEventListener(s.doc.Root(), "click", func(e *dom.Event) {
			if s.current != popup {
				return
			}
			if dom.Contains(popup, e.Target) || dom.Contains(trigger, e.Target) {
				return
			}
			s.Close()
		})
	}
}

// Close removes the open popup, if any.
func (s *PopupSlot) Close() {
	if s.stopDismiss != nil {
		s.stopDismiss()
		s.stopDismiss = nil
	}
	if s.current == nil {
		return
	}
	s.doc.RemoveListeners(s.current)
	s.doc.Remove(s.current)
	s.current, s.owner = nil, nil
}

// Current returns the open popup, or nil.
func (s *PopupSlot) Current() *html.Node { return s.current }

// Owner returns the trigger of the open popup, or nil.
func (s *PopupSlot) Owner() *html.Node { return s.owner }

// CloseOwnedBy closes the open popup if its trigger lies inside root.
func (s *PopupSlot) CloseOwnedBy(root *html.Node) {
	if s.owner != nil && dom.Contains(root, s.owner) {
		s.Close()
	}
}

func px(v float64) string { return fmt.Sprintf("%gpx", v) }
