package dom

import "golang.org/x/net/html"

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	X, Y, Width, Height float64
}

func (r Rect) Bottom() float64 { return r.Y + r.Height }
func (r Rect) Right() float64  { return r.X + r.Width }

// Layout supplies geometry. There is no rendering engine behind the document,
// so positions come from whoever hosts it.
type Layout interface {
	BoundingClientRect(n *html.Node) Rect
	ScrollOffset() (x, y float64)
}

// FixedLayout returns preset rectangles; unknown nodes get a zero Rect.
type FixedLayout struct {
	Rects            map[*html.Node]Rect
	ScrollX, ScrollY float64
}

func (l *FixedLayout) BoundingClientRect(n *html.Node) Rect {
	if l == nil || l.Rects == nil {
		return Rect{}
	}
	return l.Rects[n]
}

func (l *FixedLayout) ScrollOffset() (float64, float64) {
	if l == nil {
		return 0, 0
	}
	return l.ScrollX, l.ScrollY
}
