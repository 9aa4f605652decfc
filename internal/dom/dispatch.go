package dom

import "sync"

// Event kinds delivered to listeners.
const (
	EventClick = "click"
	EventKeyup = "keyup"
)

// Event is a native interaction event as the page runtime reports it.
// It is read-only to listeners.
type Event struct {
	Type   string
	Target Element
	// Key is the key identifier; it is only meaningful when HasKey is set.
	Key     string
	HasKey  bool
	MetaKey bool
}

// Listener receives events synchronously during dispatch.
type Listener func(Event)

// ListenerID identifies a registered listener.
type ListenerID uint64

type registration struct {
	id   ListenerID
	kind string
	fn   Listener
}

// dispatcher holds the root-level listeners of a document. Dispatch is
// serialized: each event runs every matching listener to completion before
// the next event is processed.
type dispatcher struct {
	turn      sync.Mutex
	mu        sync.Mutex
	nextID    ListenerID
	listeners []registration
}

// AddEventListener attaches fn at the document root for events of kind.
func (d *dispatcher) AddEventListener(kind string, fn Listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.listeners = append(d.listeners, registration{id: d.nextID, kind: kind, fn: fn})
	return d.nextID
}

// RemoveEventListener detaches a listener. It reports whether the listener
// was still attached.
func (d *dispatcher) RemoveEventListener(id ListenerID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, r := range d.listeners {
		if r.id == id {
			d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
			return true
		}
	}
	return false
}

// ListenerCount returns the number of listeners attached for kind.
func (d *dispatcher) ListenerCount(kind string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.listeners {
		if r.kind == kind {
			n++
		}
	}
	return n
}

// Dispatch delivers ev to the listeners registered for its type, in
// registration order, and returns once all of them have returned. Listeners
// must not call Dispatch themselves.
func (d *dispatcher) Dispatch(ev Event) {
	d.turn.Lock()
	defer d.turn.Unlock()

	d.mu.Lock()
	var targets []Listener
	for _, r := range d.listeners {
		if r.kind == ev.Type {
			targets = append(targets, r.fn)
		}
	}
	d.mu.Unlock()

	for _, fn := range targets {
		fn(ev)
	}
}
