// Package invalidation carries typed cache-invalidation events from successful
// mutations to whoever renders cached views.
package invalidation

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Entity names a family of cached views.
type Entity string

const (
	Profiles     Entity = "profiles"
	Seasons      Entity = "seasons"
	Donations    Entity = "donations"
	Rankings     Entity = "rankings"
	Posts        Entity = "posts"
	Comments     Entity = "comments"
	Notices      Entity = "notices"
	Schedules    Entity = "schedules"
	Timeline     Entity = "timeline"
	Signatures   Entity = "signatures"
	VipRewards   Entity = "vip_rewards"
	VipImages    Entity = "vip_images"
	Media        Entity = "media"
	LiveStatus   Entity = "live_status"
	Banners      Entity = "banners"
	Guestbook    Entity = "guestbook"
	Organization Entity = "organization"
)

// Scope separates the public site from the admin console.
type Scope string

const (
	Public Scope = "public"
	Admin  Scope = "admin"
)

// Event invalidates every cached view of Entity in Scope. A non-empty ID
// narrows it to one record's views.
type Event struct {
	Entity Entity `json:"entity"`
	Scope  Scope  `json:"scope"`
	ID     string `json:"id,omitempty"`
}

// Key renders the event as scope:entity[/id].
func (e Event) Key() string {
	var b strings.Builder
	b.WriteString(string(e.Scope))
	b.WriteByte(':')
	b.WriteString(string(e.Entity))
	if e.ID != "" {
		b.WriteByte('/')
		b.WriteString(e.ID)
	}
	return b.String()
}

// Both returns the public and admin events for an entity.
func Both(entity Entity) []Event {
	return []Event{{Entity: entity, Scope: Public}, {Entity: entity, Scope: Admin}}
}

// Publisher accepts events after a mutation has committed.
type Publisher interface {
	Publish(ctx context.Context, events ...Event)
}

// Handler reacts to one event. Handlers run on the publisher's goroutine.
type Handler func(ctx context.Context, e Event)

var published = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "fanbase",
		Name:      "invalidations_total",
		Help:      "Invalidation events published, by entity and scope",
	},
	[]string{"entity", "scope"},
)

// Bus is a synchronous in-process Publisher. Handlers for the event's entity
// run first, then global handlers, then watchers receive a copy.
type Bus struct {
	log      *slog.Logger
	mu       sync.RWMutex
	handlers map[Entity][]Handler
	all      []Handler
	watchers map[*watcher]struct{}
	closed   bool
}

type watcher struct {
	ch   chan Event
	done chan struct{}
}

// NewBus returns an open bus. A nil logger discards.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		log:      logger,
		handlers: make(map[Entity][]Handler),
		watchers: make(map[*watcher]struct{}),
	}
}

// Publish dispatches events in order. Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, events ...Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, e := range events {
		published.WithLabelValues(string(e.Entity), string(e.Scope)).Inc()
		b.log.DebugContext(ctx, "invalidate", "key", e.Key())
		for _, h := range b.handlers[e.Entity] {
			h(ctx, e)
		}
		for _, h := range b.all {
			h(ctx, e)
		}
		for w := range b.watchers {
			select {
			case w.ch <- e:
			default:
				b.log.WarnContext(ctx, "invalidation watcher is full; dropping", "key", e.Key())
			}
		}
	}
}

// Subscribe registers h for one entity.
func (b *Bus) Subscribe(entity Entity, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[entity] = append(b.handlers[entity], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = append(b.all, h)
}

// Watch returns a buffered channel that receives every event until ctx ends
// or the bus closes; the channel is then closed. Slow watchers drop events.
func (b *Bus) Watch(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 64
	}
	w := &watcher{ch: make(chan Event, buffer), done: make(chan struct{})}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(w.ch)
		return w.ch
	}
	b.watchers[w] = struct{}{}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-w.done:
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.watchers[w]; ok {
			delete(b.watchers, w)
			close(w.ch)
		}
	}()
	return w.ch
}

// Close stops dispatch and closes every watcher channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for w := range b.watchers {
		delete(b.watchers, w)
		close(w.ch)
		close(w.done)
	}
}

// HandlerCount is the number of registered handlers and live watchers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := len(b.all) + len(b.watchers)
	for _, hs := range b.handlers {
		n += len(hs)
	}
	return n
}

var _ Publisher = (*Bus)(nil)

// Recorder keeps every published event. It is meant for tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, events ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Keys returns the key of every recorded event, in publish order.
func (r *Recorder) Keys() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Key()
	}
	return out
}

// Reset forgets recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
