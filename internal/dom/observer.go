package dom

import (
	"slices"

	"golang.org/x/net/html"
)

// RecordType is the kind of a mutation record.
type RecordType string

const (
	ChildList  RecordType = "childList"
	Attributes RecordType = "attributes"
)

// MutationRecord describes one change to the tree.
type MutationRecord struct {
	Type          RecordType
	Target        *html.Node
	AddedNodes    []*html.Node
	RemovedNodes  []*html.Node
	AttributeName string
	OldValue      string
}

// ObserveOptions selects which mutations an Observer receives.
type ObserveOptions struct {
	ChildList       bool
	Attributes      bool
	Subtree         bool
	AttributeFilter []string // implies Attributes
}

// Observer receives batches of mutation records for one target. Records
// queued during a task are delivered together in a later loop task.
type Observer struct {
	doc       *Document
	target    *html.Node
	opts      ObserveOptions
	fn        func([]MutationRecord)
	queue     []MutationRecord
	scheduled bool
	stopped   bool
}

// Observe starts watching target. fn runs on the loop with each batch.
func (d *Document) Observe(target *html.Node, opts ObserveOptions, fn func([]MutationRecord)) *Observer {
	if len(opts.AttributeFilter) > 0 {
		opts.Attributes = true
	}
	o := &Observer{doc: d, target: target, opts: opts, fn: fn}
	d.observers = append(d.observers, o)
	return o
}

// Disconnect stops delivery and drops any queued records.
func (o *Observer) Disconnect() {
	if o.stopped {
		return
	}
	o.stopped = true
	o.queue = nil
	o.doc.observers = slices.DeleteFunc(o.doc.observers, func(x *Observer) bool { return x == o })
}

// TakeRecords returns and clears the queued records.
func (o *Observer) TakeRecords() []MutationRecord {
	out := o.queue
	o.queue = nil
	return out
}

// Target returns the observed node.
func (o *Observer) Target() *html.Node { return o.target }

func (o *Observer) wants(rec MutationRecord) bool {
	switch rec.Type {
	case ChildList:
		if !o.opts.ChildList {
			return false
		}
	case Attributes:
		if !o.opts.Attributes {
			return false
		}
		if len(o.opts.AttributeFilter) > 0 && !slices.Contains(o.opts.AttributeFilter, rec.AttributeName) {
			return false
		}
	}
	if rec.Target == o.target {
		return true
	}
	if !o.opts.Subtree {
		return false
	}
	for p := rec.Target.Parent; p != nil; p = p.Parent {
		if p == o.target {
			return true
		}
	}
	return false
}

func (d *Document) queueRecord(rec MutationRecord) {
	for _, o := range d.observers {
		if !o.wants(rec) {
			continue
		}
		o.queue = append(o.queue, rec)
		if !o.scheduled {
			o.scheduled = true
			d.loop.Post(o.deliver)
		}
	}
}

func (o *Observer) deliver() {
	o.scheduled = false
	if o.stopped {
		return
	}
	batch := o.TakeRecords()
	if len(batch) == 0 {
		return
	}
	o.fn(batch)
}
