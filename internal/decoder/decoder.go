// Package decoder wires the catalog, frame splitter, frame parser, outdoor
// scanner and state store into the single orchestrator the rest of the
// program talks to (spec component C7).
package decoder

import (
	"sync"

	"github.com/hovalvent/hovalventd/internal/catalog"
	"github.com/hovalvent/hovalventd/internal/store"
	"github.com/hovalvent/hovalventd/internal/stream"
)

// subscriberBuffer bounds each subscriber's channel. A subscriber that
// can't keep up has its events dropped rather than blocking ingest.
const subscriberBuffer = 64

// Decoder turns raw bytes from one TCP connection into a stream of
// datapoint change events. It is safe for concurrent use between Push and
// Subscribe, but Push itself is expected to be called from a single
// reader goroutine per connection (spec §5).
type Decoder struct {
	cat      *catalog.Catalog
	splitter *stream.Splitter
	store    *store.Store

	subsMu sync.Mutex
	subs   map[int]chan store.Event
	nextID int
}

// New returns a Decoder that resolves datapoint ids against cat.
func New(cat *catalog.Catalog) *Decoder {
	return &Decoder{
		cat:      cat,
		splitter: stream.NewSplitter(),
		store:    store.New(),
		subs:     make(map[int]chan store.Event),
	}
}

// Push feeds newly received bytes into the decoder. Every complete frame
// extracted from the accumulated stream is parsed and any resulting
// change events are fanned out to current subscribers.
func (d *Decoder) Push(b []byte) {
	for _, frame := range d.splitter.Feed(b) {
		d.handleFrame(frame)
	}
}

func (d *Decoder) handleFrame(frame []byte) {
	if ev, ok := stream.ScanOutdoorTemp(frame, d.cat); ok {
		d.emit(ev)
	}
	for _, ev := range stream.ParseFrame(frame, d.cat) {
		d.emit(ev)
	}
}

func (d *Decoder) emit(e stream.Emission) {
	ev, changed := d.store.Put(e.Name, e.Value, e.Unit)
	if !changed {
		return
	}

	d.subsMu.Lock()
	defer d.subsMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber is lagging; drop rather than block ingest.
		}
	}
}

// Seed preloads the decoder's store with previously persisted values,
// e.g. restored from disk at startup, so Snapshot reflects them even
// before the device resends anything.
func (d *Decoder) Seed(events map[string]store.Event) {
	d.store.Seed(events)
}

// Snapshot returns the current value of every datapoint seen so far.
func (d *Decoder) Snapshot() map[string]store.Event {
	return d.store.Snapshot()
}

// Subscribe registers a new listener for change events and returns its
// channel along with a function that unregisters it. The returned channel
// is never closed by the cancel function; callers should stop reading from it
// once they call the cancel function.
func (d *Decoder) Subscribe() (<-chan store.Event, func()) {
	d.subsMu.Lock()
	id := d.nextID
	d.nextID++
	ch := make(chan store.Event, subscriberBuffer)
	d.subs[id] = ch
	d.subsMu.Unlock()

	cancel := func() {
		d.subsMu.Lock()
		delete(d.subs, id)
		d.subsMu.Unlock()
	}
	return ch, cancel
}
