package fluxion

import (
	"sync"
	"time"
)

// ActionTypeInit is the type of the probe action a registry dispatches to a
// fresh reducer to obtain its initial state. Reducers must return a state for
// it (usually by falling through to their default branch).
const ActionTypeInit = "@@fluxion/INIT"

// Action is a description of a state transition. Type identifies the
// transition; Payload carries its arguments, if any.
type Action struct {
	Type    string
	Payload any
}

// Reducer is a pure state transition function. It is invoked with nil state
// and an ActionTypeInit action to produce the initial state, and must always
// return a state, even if unchanged. Returning the prior state unchanged (by
// identity) suppresses change notification.
type Reducer func(state any, action Action) any

// Selector derives a read-only value from store state. Selectors must not
// mutate state, and should return stable references while the state they
// derive from is unchanged (see shallow equality notes in the package doc).
type Selector func(state any, args ...any) any

// ActionCreator synthesizes an Action from call arguments.
type ActionCreator func(args ...any) Action

// StoreConfig describes a store at registration time.
type StoreConfig struct {
	// Reducer is the state transition function. Required.
	Reducer Reducer

	// InitialState, when non-nil, seeds the store instead of the state the
	// reducer returns for ActionTypeInit.
	InitialState any

	// Selectors maps selector names to derivation functions. Optional.
	Selectors map[string]Selector

	// Actions maps action-creator names to synthesis functions. Optional.
	Actions map[string]ActionCreator
}

// Store is an isolated unit of state owned by a registry. State is mutated
// only by the store's own reducer, via Dispatch.
type Store struct {
	name string
	reg  *Registry

	reducer   Reducer
	selectors map[string]Selector
	actions   map[string]ActionCreator

	// mu protects state.
	mu    sync.RWMutex
	state any

	// subMu protects subs. The slice keeps registration order so
	// notifications are delivered in the order subscriptions were made.
	subMu sync.Mutex
	subs  []storeListener
}

// storeListener is notified when this store's state reference changes.
// Implemented by selection-hook instances.
type storeListener interface {
	listenerID() uint64
	storeChanged()
}

func newStore(name string, reg *Registry, cfg StoreConfig) *Store {
	s := &Store{
		name:      name,
		reg:       reg,
		reducer:   cfg.Reducer,
		selectors: cfg.Selectors,
		actions:   cfg.Actions,
	}
	if cfg.InitialState != nil {
		s.state = cfg.InitialState
	} else {
		s.state = cfg.Reducer(nil, Action{Type: ActionTypeInit})
	}
	return s
}

// Name returns the store's registered name.
func (s *Store) Name() string {
	return s.name
}

// State returns the current state without subscribing.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Select calls the named selector against current state and returns its
// result synchronously. An unknown selector name panics with a coded *Error.
func (s *Store) Select(selector string, args ...any) any {
	fn, ok := s.selectors[selector]
	if !ok {
		panic(errUnknownSelector(s.name, selector))
	}
	return fn(s.State(), args...)
}

// Dispatch feeds an action through the reducer. The state is replaced if and
// only if the reducer's result differs by identity from the prior state, and
// only an actual change notifies listeners. Notification is coordinated by
// the owning registry so that one dispatch produces at most one delivery
// phase, batches collapse, and dispatches never interleave.
func (s *Store) Dispatch(action Action) {
	start := time.Now()

	changed := s.applyReducer(action)

	s.reg.observeDispatch(s.name, action, changed, start, time.Since(start))

	if changed {
		s.reg.enqueueChanged(s)
	}
	s.reg.flush()
}

// applyReducer runs the reducer under the state lock and reports whether the
// state reference changed. The deferred unlock keeps the store usable after a
// panicking reducer; the panic propagates with the state untouched.
func (s *Store) applyReducer(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.reducer(s.state, action)
	if shallowEqual(next, s.state) {
		return false
	}
	s.state = next
	return true
}

// addListener subscribes a listener to this store's changes, preserving
// registration order. Duplicate IDs are ignored.
func (s *Store) addListener(l storeListener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := l.listenerID()
	for _, existing := range s.subs {
		if existing.listenerID() == id {
			return
		}
	}
	s.subs = append(s.subs, l)
}

// removeListener unsubscribes a listener. Removal keeps the remaining
// subscriptions in order.
func (s *Store) removeListener(l storeListener) {
	if l == nil {
		return
	}

	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := l.listenerID()
	for i, existing := range s.subs {
		if existing.listenerID() == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// snapshotListeners copies the subscriber list so delivery never holds the
// lock, and listeners may subscribe or unsubscribe mid-notification.
func (s *Store) snapshotListeners() []storeListener {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	subs := make([]storeListener, len(s.subs))
	copy(subs, s.subs)
	return subs
}

// StoreSelector is the bound selector-calling facade handed out by
// Registry.Select and to projections via SelectFunc.
type StoreSelector struct {
	store *Store
}

// Call invokes the named selector with the given arguments against the
// store's current state. Unknown selector names panic with a coded *Error.
func (f *StoreSelector) Call(selector string, args ...any) any {
	return f.store.Select(selector, args...)
}

// Store returns the underlying store.
func (f *StoreSelector) Store() *Store {
	return f.store
}

// StoreDispatcher is the bound action-dispatching facade handed out by
// Registry.Dispatch.
type StoreDispatcher struct {
	store *Store
}

// Call synthesizes the named action with the given arguments and dispatches
// it. Unknown action-creator names panic with a coded *Error.
func (f *StoreDispatcher) Call(action string, args ...any) {
	creator, ok := f.store.actions[action]
	if !ok {
		panic(errUnknownAction(f.store.name, action))
	}
	f.store.Dispatch(creator(args...))
}

// Dispatch dispatches a raw action, bypassing the named creators.
func (f *StoreDispatcher) Dispatch(action Action) {
	f.store.Dispatch(action)
}
