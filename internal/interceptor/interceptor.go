// Package interceptor attaches page-wide click and keyup listeners and runs
// each event through holder resolution, descriptor building and delivery.
package interceptor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rsclarke/clicktrace/internal/delivery"
	"github.com/rsclarke/clicktrace/internal/dom"
	"github.com/rsclarke/clicktrace/internal/events"
	"github.com/rsclarke/clicktrace/internal/holder"
	"github.com/rsclarke/clicktrace/internal/logging"
)

// Kinds lists the event kinds the interceptor listens for.
var Kinds = []string{dom.EventClick, dom.EventKeyup}

// ErrAttached is returned by Start when the interceptor is already attached
// to a different document.
var ErrAttached = errors.New("interceptor already attached to another document")

// Page is the part of a document the interceptor attaches to.
type Page interface {
	AddEventListener(kind string, fn dom.Listener) dom.ListenerID
	RemoveEventListener(id dom.ListenerID) bool
}

// Deliverer ships descriptors without blocking the caller.
type Deliverer interface {
	Deliver(d events.Descriptor) <-chan delivery.Result
}

// Interceptor owns the root-level listeners of one page.
type Interceptor struct {
	deliverer Deliverer
	logger    *zap.Logger
	now       func() time.Time

	mu   sync.Mutex
	page Page
	ids  []dom.ListenerID
}

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithClock sets the time source used for descriptor timestamps.
func WithClock(now func() time.Time) Option {
	return func(i *Interceptor) { i.now = now }
}

// New returns an interceptor that hands descriptors to d.
func New(d Deliverer, logger *zap.Logger, opts ...Option) *Interceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	i := &Interceptor{
		deliverer: d,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Start attaches the listeners to page. Starting again on the same page is a
// no-op.
func (i *Interceptor) Start(page Page) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.page != nil {
		if i.page == page {
			return nil
		}
		return ErrAttached
	}
	if page == nil {
		return fmt.Errorf("start interceptor: nil page")
	}

	i.page = page
	for _, kind := range Kinds {
		i.ids = append(i.ids, page.AddEventListener(kind, i.handle))
	}
	i.logger.Debug("listeners attached", zap.Strings("kinds", Kinds))
	return nil
}

// Stop detaches the listeners. It is safe to call more than once.
func (i *Interceptor) Stop() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.page == nil {
		return
	}
	for _, id := range i.ids {
		i.page.RemoveEventListener(id)
	}
	i.ids = nil
	i.page = nil
	i.logger.Debug("listeners detached")
}

// Running reports whether the listeners are attached.
func (i *Interceptor) Running() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.page != nil
}

// handle runs synchronously inside dispatch. It never suppresses the event
// and never lets a failure reach the page.
func (i *Interceptor) handle(ev dom.Event) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("event handling panicked",
				logging.EventType(ev.Type),
				zap.Any("panic", r))
		}
	}()

	if ev.Target == nil {
		i.logger.Warn("event without target", logging.EventType(ev.Type))
		return
	}

	res := holder.Walk(ev.Target)
	d := events.Build(ev, res.Holder, i.now())

	i.logger.Debug("event captured",
		logging.EventType(ev.Type),
		logging.Tag(d.TargetTag),
		logging.HolderTag(tagOf(res.Holder)),
		logging.Iterations(res.Iterations),
		zap.String("reason", string(res.Reason)))

	i.deliverer.Deliver(d)
}

func tagOf(el dom.Element) string {
	if el == nil {
		return ""
	}
	return el.Tag()
}
