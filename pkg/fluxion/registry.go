package fluxion

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Registry is a scoped collection of named stores. It owns the notification
// machinery: a dispatch that changed any store's state produces exactly one
// delivery phase, delivery order follows subscription order, and two
// dispatches' delivery phases never interleave.
//
// Registries are explicit values. Create one per owning scope and pass it to
// consumers; only an application's outermost composition point should reach
// for Default.
type Registry struct {
	// id identifies this registry instance in error text and debug output,
	// disambiguating registries when several coexist in one process.
	id string

	// mu protects stores and names.
	mu     sync.RWMutex
	stores map[string]*Store
	names  []string

	// subMu protects listeners. Order is registration order.
	subMu     sync.Mutex
	listeners []*registryListener

	// observers receive dispatch/notification telemetry. Fixed at New.
	observers []Observer

	// noteMu protects the notification phase state below. It is never held
	// while user code (reducers, selectors, listeners) runs.
	noteMu     sync.Mutex
	batchDepth int
	notifying  bool
	pending    []*Store
}

// registryListener is one Subscribe registration. The removed flag makes
// unsubscription irrevocable even when delivery already snapshotted the
// listener list.
type registryListener struct {
	id      uint64
	fn      func()
	removed atomic.Bool
}

// Option configures a Registry at construction.
type Option func(*Registry)

// WithObserver attaches an observer receiving dispatch and notification
// telemetry. May be given multiple times.
func WithObserver(obs Observer) Option {
	return func(r *Registry) {
		if obs != nil {
			r.observers = append(r.observers, obs)
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:     uuid.NewString(),
		stores: make(map[string]*Store),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the registry's unique instance identifier.
func (r *Registry) ID() string {
	return r.id
}

// RegisterStore validates the config, initializes state by invoking the
// reducer with nil state and an ActionTypeInit action (unless InitialState
// is set), and adds the store under the given name.
//
// A name, once registered, is stable for the registry's lifetime.
// Registering an existing name fails with ErrStoreRegistered rather than
// replacing: a silent swap would orphan live subscriptions to the old store.
func (r *Registry) RegisterStore(name string, cfg StoreConfig) (*Store, error) {
	if name == "" {
		return nil, errEmptyStoreName()
	}
	if cfg.Reducer == nil {
		return nil, errMissingReducer(name)
	}

	r.mu.Lock()
	if _, exists := r.stores[name]; exists {
		r.mu.Unlock()
		return nil, errDuplicateStore(name)
	}
	s := newStore(name, r, cfg)
	r.stores[name] = s
	r.names = append(r.names, name)
	r.mu.Unlock()

	for _, obs := range r.observers {
		obs.OnStoreRegistered(name)
	}

	return s, nil
}

// MustRegisterStore is RegisterStore that panics on error. Intended for
// composition-time wiring where a failure is a programming error.
func (r *Registry) MustRegisterStore(name string, cfg StoreConfig) *Store {
	s, err := r.RegisterStore(name, cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Store returns the store registered under name.
func (r *Registry) Store(name string) (*Store, error) {
	r.mu.RLock()
	s, ok := r.stores[name]
	r.mu.RUnlock()
	if !ok {
		return nil, errUnknownStore(r.id, name)
	}
	return s, nil
}

// StoreNames returns the registered store names in registration order.
func (r *Registry) StoreNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

func (r *Registry) mustStore(name string) *Store {
	s, err := r.Store(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Select returns a facade calling selectors against the named store's
// current state. An unregistered name panics with a coded *Error.
func (r *Registry) Select(name string) *StoreSelector {
	return &StoreSelector{store: r.mustStore(name)}
}

// Dispatch returns a facade synthesizing and dispatching the named store's
// actions. An unregistered name panics with a coded *Error.
func (r *Registry) Dispatch(name string) *StoreDispatcher {
	return &StoreDispatcher{store: r.mustStore(name)}
}

// Subscribe registers a listener invoked once per delivery phase in which
// any store's state reference changed. It returns the de-registration
// handle. Subscribing or unsubscribing during delivery is safe: an
// unsubscribed listener is never invoked again, and unrelated listeners are
// not skipped.
func (r *Registry) Subscribe(fn func()) (unsubscribe func()) {
	l := &registryListener{id: nextID(), fn: fn}

	r.subMu.Lock()
	r.listeners = append(r.listeners, l)
	r.subMu.Unlock()

	return func() {
		if l.removed.Swap(true) {
			return
		}
		r.subMu.Lock()
		for i, existing := range r.listeners {
			if existing.id == l.id {
				r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
				break
			}
		}
		r.subMu.Unlock()
	}
}

// enqueueChanged records a store whose state reference changed, for the next
// delivery phase.
func (r *Registry) enqueueChanged(s *Store) {
	r.noteMu.Lock()
	r.pending = append(r.pending, s)
	r.noteMu.Unlock()
}

// flush runs delivery phases until no changed stores remain. It is a no-op
// inside a batch, and re-entrant calls (a listener dispatching during
// delivery) queue behind the phase already in progress, so one phase always
// completes before the next dispatch's notifications begin.
func (r *Registry) flush() {
	r.noteMu.Lock()
	if r.batchDepth > 0 || r.notifying || len(r.pending) == 0 {
		r.noteMu.Unlock()
		return
	}
	r.notifying = true
	r.noteMu.Unlock()

	// A panicking listener or projection propagates to the dispatching
	// caller's error boundary. The phase flag must clear anyway, or every
	// later dispatch would skip delivery; stores still pending stay queued
	// and drain on the next flush.
	defer func() {
		r.noteMu.Lock()
		r.notifying = false
		r.noteMu.Unlock()
	}()

	for {
		r.noteMu.Lock()
		changed := r.pending
		r.pending = nil
		r.noteMu.Unlock()

		if len(changed) == 0 {
			return
		}
		r.deliver(changed)
	}
}

// deliver notifies everyone affected by one phase's changed stores:
// store-level listeners first (deduplicated, in subscription order), then
// registry-level listeners, each exactly once.
func (r *Registry) deliver(changed []*Store) {
	// Deduplicate stores, preserving first-dispatch order.
	seenStores := make(map[string]bool, len(changed))
	stores := changed[:0]
	for _, s := range changed {
		if !seenStores[s.name] {
			seenStores[s.name] = true
			stores = append(stores, s)
		}
	}

	names := make([]string, len(stores))
	for i, s := range stores {
		names[i] = s.name
	}

	// Collect store-level listeners once per phase, even when a listener
	// depends on several of the changed stores.
	seen := make(map[uint64]bool)
	var storeSubs []storeListener
	for _, s := range stores {
		for _, l := range s.snapshotListeners() {
			if !seen[l.listenerID()] {
				seen[l.listenerID()] = true
				storeSubs = append(storeSubs, l)
			}
		}
	}

	r.subMu.Lock()
	regSubs := make([]*registryListener, len(r.listeners))
	copy(regSubs, r.listeners)
	r.subMu.Unlock()

	if DebugMode {
		debugf("notify: registry=%s stores=%v listeners=%d+%d", r.id, names, len(storeSubs), len(regSubs))
	}

	for _, obs := range r.observers {
		obs.OnNotify(names, len(storeSubs)+len(regSubs))
	}

	for _, l := range storeSubs {
		l.storeChanged()
	}
	for _, l := range regSubs {
		if !l.removed.Load() {
			l.fn()
		}
	}
}

// observeDispatch fans a dispatch out to the registry's observers.
func (r *Registry) observeDispatch(store string, action Action, changed bool, start time.Time, took time.Duration) {
	if DebugMode {
		debugf("dispatch: registry=%s store=%s type=%s changed=%t", r.id, store, action.Type, changed)
	}
	for _, obs := range r.observers {
		obs.OnDispatch(store, action, changed, start, took)
	}
}

// =============================================================================
// Ambient default registry
// =============================================================================

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the ambient default registry, creating it on first use.
// It exists for an application's outermost composition point; library code
// should take an explicit *Registry instead.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = New()
	})
	return defaultRegistry
}

// RegisterStore registers a store on the default registry.
func RegisterStore(name string, cfg StoreConfig) (*Store, error) {
	return Default().RegisterStore(name, cfg)
}

// Select returns a selector facade from the default registry.
func Select(name string) *StoreSelector {
	return Default().Select(name)
}

// Dispatch returns a dispatch facade from the default registry.
func Dispatch(name string) *StoreDispatcher {
	return Default().Dispatch(name)
}

// Subscribe subscribes to the default registry.
func Subscribe(fn func()) (unsubscribe func()) {
	return Default().Subscribe(fn)
}
