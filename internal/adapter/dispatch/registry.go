package dispatch

import (
	"container/list"
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/EuricoCruz/shodan_enrichment/internal/domain/entity"
	"github.com/EuricoCruz/shodan_enrichment/internal/domain/repository"
)

// GateFactory returns the gate a new lane paces itself with
type GateFactory func() repository.DispatchGate

// Option customizes a Registry
type Option func(*Registry)

// WithMaxKeys bounds the number of live lanes. The least recently used lane is
// closed when the bound is exceeded. Zero keeps every lane for the process lifetime.
func WithMaxKeys(maxKeys int) Option {
	return func(r *Registry) {
		if maxKeys > 0 {
			r.maxKeys = maxKeys
		}
	}
}

// WithGateFactory replaces the default in-memory gate
func WithGateFactory(factory GateFactory) Option {
	return func(r *Registry) {
		if factory != nil {
			r.newGate = factory
		}
	}
}

// WithLogger sets the logger handed to every lane
func WithLogger(log logrus.FieldLogger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

type registryEntry struct {
	lane    string
	limiter *Limiter
}

// Registry owns one Limiter per distinct API key
type Registry struct {
	policy  Policy
	maxKeys int
	newGate GateFactory
	log     logrus.FieldLogger

	mu    sync.Mutex
	lanes map[string]*list.Element
	order *list.List // front is most recently used
}

// NewRegistry creates an empty registry
func NewRegistry(policy Policy, opts ...Option) *Registry {
	r := &Registry{
		policy:  policy,
		newGate: func() repository.DispatchGate { return NewMemoryGate() },
		log:     logrus.StandardLogger(),
		lanes:   make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetOrCreate returns the lane for apiKey, creating it on first use
func (r *Registry) GetOrCreate(apiKey string) *Limiter {
	key := entity.NewAPIKey(apiKey)
	lane := key.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.lanes[lane]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*registryEntry).limiter
	}

	limiter := newLimiter(key, r.policy, r.newGate(), r.log)
	r.lanes[lane] = r.order.PushFront(&registryEntry{lane: lane, limiter: limiter})
	r.log.WithField("lane", lane).Debug("Created limiter")

	if r.maxKeys > 0 && r.order.Len() > r.maxKeys {
		oldest := r.order.Back()
		entry := oldest.Value.(*registryEntry)
		r.order.Remove(oldest)
		delete(r.lanes, entry.lane)
		entry.limiter.Close()
		r.log.WithField("lane", entry.lane).Debug("Evicted least recently used limiter")
	}

	return limiter
}

// Dispatch runs fn on the lane for apiKey
func (r *Registry) Dispatch(ctx context.Context, apiKey string, fn func(context.Context) error) error {
	return r.GetOrCreate(apiKey).Do(ctx, fn)
}

// Len returns the number of live lanes
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// Close tears down every lane. Queued jobs still run; new lanes may be created afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for el := r.order.Front(); el != nil; el = el.Next() {
		el.Value.(*registryEntry).limiter.Close()
	}
	r.lanes = make(map[string]*list.Element)
	r.order.Init()
}
