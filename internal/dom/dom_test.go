package dom

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func testDoc(t *testing.T, body string) *Document {
	t.Helper()
	doc := NewDocument(NewLoop())
	nodes, err := doc.ParseFragment(body)
	require.NoError(t, err)
	for _, n := range nodes {
		doc.Body().AppendChild(n)
	}
	return doc
}

func TestLoopRunUntilIdle(t *testing.T) {
	l := NewLoop()
	var order []int
	l.Post(func() {
		order = append(order, 1)
		l.Post(func() { order = append(order, 3) })
	})
	l.Post(func() { order = append(order, 2) })

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestLoopAsyncContinuation(t *testing.T) {
	l := NewLoop()
	var done bool
	l.Async(func() func() {
		time.Sleep(5 * time.Millisecond)
		return func() { done = true }
	})
	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.True(t, done)

	tasks, inflight := l.Pending()
	assert.Zero(t, tasks)
	assert.Zero(t, inflight)
}

func TestLoopRunUntil(t *testing.T) {
	l := NewLoop()
	release := make(chan struct{})
	var step atomic.Int32

	l.Post(func() { step.Store(1) })
	l.Async(func() func() {
		<-release
		return func() { step.Store(2) }
	})

	ctx := context.Background()
	require.NoError(t, l.RunUntil(ctx, func() bool { return step.Load() == 1 }))
	close(release)
	require.NoError(t, l.RunUntil(ctx, func() bool { return step.Load() == 2 }))

	assert.ErrorIs(t, l.RunUntil(ctx, func() bool { return false }), ErrIdle)
}

func TestLoopContextCancel(t *testing.T) {
	l := NewLoop()
	block := make(chan struct{})
	defer close(block)
	l.Async(func() func() { <-block; return nil })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.RunUntilIdle(ctx), context.DeadlineExceeded)
}

func TestObserverBatchesChildList(t *testing.T) {
	doc := testDoc(t, `<div id="feed"><p id="inner"></p></div>`)
	feed := doc.QuerySelector(doc.Root(), "#feed")
	inner := doc.QuerySelector(doc.Root(), "#inner")

	var batches [][]MutationRecord
	doc.Observe(feed, ObserveOptions{ChildList: true, Subtree: true}, func(recs []MutationRecord) {
		batches = append(batches, recs)
	})

	a := doc.CreateElement("span", "id", "a")
	b := doc.CreateElement("span", "id", "b")
	doc.AppendChild(feed, a)
	doc.AppendChild(inner, b)
	doc.AppendChild(doc.Body(), doc.CreateElement("i")) // outside the target

	require.NoError(t, doc.Loop().RunUntilIdle(context.Background()))
	require.Len(t, batches, 1)
	require.Len(t, batches[0], 2)
	assert.Equal(t, []*html.Node{a}, batches[0][0].AddedNodes)
	assert.Equal(t, inner, batches[0][1].Target)
}

func TestObserverWithoutSubtree(t *testing.T) {
	doc := testDoc(t, `<div id="feed"><p id="inner"></p></div>`)
	feed := doc.QuerySelector(doc.Root(), "#feed")
	inner := doc.QuerySelector(doc.Root(), "#inner")

	var n int
	doc.Observe(feed, ObserveOptions{ChildList: true}, func(recs []MutationRecord) { n += len(recs) })
	doc.AppendChild(inner, doc.CreateElement("b"))
	require.NoError(t, doc.Loop().RunUntilIdle(context.Background()))
	assert.Zero(t, n)
}

func TestObserverAttributeFilter(t *testing.T) {
	doc := testDoc(t, `<a id="author" href="/@a" title="A">A</a>`)
	link := doc.QuerySelector(doc.Root(), "#author")

	var recs []MutationRecord
	obs := doc.Observe(link, ObserveOptions{AttributeFilter: []string{"href"}}, func(r []MutationRecord) {
		recs = append(recs, r...)
	})

	doc.SetAttr(link, "title", "B")
	doc.SetAttr(link, "href", "/@b")
	doc.SetAttr(link, "href", "/@b") // unchanged, no record
	require.NoError(t, doc.Loop().RunUntilIdle(context.Background()))
	require.Len(t, recs, 1)
	assert.Equal(t, "href", recs[0].AttributeName)
	assert.Equal(t, "/@a", recs[0].OldValue)

	obs.Disconnect()
	doc.SetAttr(link, "href", "/@c")
	require.NoError(t, doc.Loop().RunUntilIdle(context.Background()))
	assert.Len(t, recs, 1, "no delivery after disconnect")
}

func TestRemoveAndMove(t *testing.T) {
	doc := testDoc(t, `<div id="x"><span id="s"></span></div><div id="y"></div>`)
	x := doc.QuerySelector(doc.Root(), "#x")
	y := doc.QuerySelector(doc.Root(), "#y")
	s := doc.QuerySelector(doc.Root(), "#s")

	var recs []MutationRecord
	doc.Observe(doc.Body(), ObserveOptions{ChildList: true, Subtree: true}, func(r []MutationRecord) {
		recs = append(recs, r...)
	})
	doc.AppendChild(y, s)
	require.NoError(t, doc.Loop().RunUntilIdle(context.Background()))
	require.Len(t, recs, 2)
	assert.Equal(t, x, recs[0].Target)
	assert.Equal(t, []*html.Node{s}, recs[0].RemovedNodes)
	assert.Equal(t, y, recs[1].Target)

	doc.Remove(y)
	assert.False(t, doc.IsConnected(s))
	assert.True(t, doc.IsConnected(x))
	doc.Remove(y) // already detached
}

func TestEventsBubble(t *testing.T) {
	doc := testDoc(t, `<div id="outer"><button id="btn">go</button></div>`)
	outer := doc.QuerySelector(doc.Root(), "#outer")
	btn := doc.QuerySelector(doc.Root(), "#btn")

	var seen []string
	doc.AddEventListener(btn, "click", func(e *Event) { seen = append(seen, "btn") })
	removeOuter := doc.AddEventListener(outer, "click", func(e *Event) {
		assert.Equal(t, btn, e.Target)
		assert.Equal(t, outer, e.CurrentTarget)
		seen = append(seen, "outer")
	})
	doc.AddEventListener(doc.Root(), "click", func(e *Event) { seen = append(seen, "document") })

	doc.Click(btn)
	assert.Equal(t, []string{"btn", "outer", "document"}, seen)

	seen = nil
	removeOuter()
	doc.AddEventListener(btn, "click", func(e *Event) { e.StopPropagation() })
	doc.Click(btn)
	assert.Equal(t, []string{"btn"}, seen)
}

func TestHover(t *testing.T) {
	doc := testDoc(t, `<span id="a"></span><span id="b"></span>`)
	a := doc.QuerySelector(doc.Root(), "#a")
	b := doc.QuerySelector(doc.Root(), "#b")

	var got []string
	doc.AddEventListener(a, "mouseout", func(e *Event) {
		assert.Equal(t, b, e.RelatedTarget)
		got = append(got, "out")
	})
	doc.AddEventListener(b, "mouseover", func(e *Event) { got = append(got, "over") })
	doc.Hover(a, b)
	assert.Equal(t, []string{"out", "over"}, got)
}

func TestSelectors(t *testing.T) {
	doc := testDoc(t, `<ytd-comment-view-model><div id="header-author"><a href="/@x">x</a></div><p class="c d">hi</p></ytd-comment-view-model>`)
	unit := doc.QuerySelector(doc.Root(), "ytd-comment-view-model")
	require.NotNil(t, unit)

	link := doc.QuerySelector(unit, "#header-author a")
	require.NotNil(t, link)
	href, ok := Attr(link, "href")
	assert.True(t, ok)
	assert.Equal(t, "/@x", href)

	assert.Nil(t, doc.QuerySelector(unit, ".author a"))
	assert.Equal(t, unit, doc.Closest(link, "ytd-comment-view-model"))
	assert.True(t, doc.Matches(unit, "ytd-comment-view-model"))
	assert.Len(t, doc.QuerySelectorAll(doc.Root(), "a, p"), 2)

	p := doc.QuerySelector(unit, "p")
	assert.True(t, HasClass(p, "d"))
	assert.Equal(t, "hi", TextContent(p))
}

func TestStyle(t *testing.T) {
	doc := testDoc(t, `<div id="w" style="color: red"></div>`)
	w := doc.QuerySelector(doc.Root(), "#w")

	doc.SetStyle(w, "visibility", "hidden")
	assert.Equal(t, "hidden", Style(w, "visibility"))
	assert.Equal(t, "red", Style(w, "color"))

	doc.SetStyle(w, "visibility", "")
	assert.Empty(t, Style(w, "visibility"))
	v, _ := Attr(w, "style")
	assert.Equal(t, "color: red", v)

	doc.SetStyle(w, "color", "")
	_, ok := Attr(w, "style")
	assert.False(t, ok)
}

func TestFixedLayout(t *testing.T) {
	doc := testDoc(t, `<b id="b"></b>`)
	b := doc.QuerySelector(doc.Root(), "#b")
	assert.Equal(t, Rect{}, doc.BoundingClientRect(b))

	doc.SetLayout(&FixedLayout{Rects: map[*html.Node]Rect{b: {X: 10, Y: 20, Width: 5, Height: 8}}, ScrollY: 100})
	r := doc.BoundingClientRect(b)
	assert.Equal(t, 28.0, r.Bottom())
	_, sy := doc.ScrollOffset()
	assert.Equal(t, 100.0, sy)
}

func TestRemoveListeners(t *testing.T) {
	doc := testDoc(t, `<div id="w"><span id="s"></span></div>`)
	w := doc.QuerySelector(doc.Root(), "#w")
	s := doc.QuerySelector(doc.Root(), "#s")

	var n int
	doc.AddEventListener(s, "click", func(*Event) { n++ })
	doc.AddEventListener(w, "click", func(*Event) { n++ })
	doc.RemoveListeners(w)
	doc.Click(s)
	assert.Zero(t, n)
	assert.True(t, Contains(w, s))
	assert.False(t, Contains(s, w))
}
