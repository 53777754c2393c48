package fluxion

import "sync/atomic"

// SelectFunc hands a projection access to the registry's stores. Every store
// it is asked for is recorded as a dependency of the current projection
// invocation. An unregistered name panics with a coded *Error.
type SelectFunc func(store string) *StoreSelector

// UseSelect returns the current value of a projection over one or more
// stores and schedules the owning view to re-render exactly when that value
// could have changed. It must be called during a view render (see WithView),
// unconditionally on every render of the view.
//
// Lifecycle:
//
//   - Mount: the projection runs synchronously and its value is returned
//     immediately, so the first paint reflects current state. The
//     subscription is established after the view commits.
//   - Store change: if a store the last invocation touched changes, the
//     projection re-runs; the view re-renders only when the new value
//     differs shallowly from the previous one.
//   - Re-render with unchanged deps: the memoized value is returned without
//     re-running the projection.
//   - Re-render with changed deps: the projection re-runs unconditionally
//     (its closure may have changed behavior) and the subscription is
//     rebuilt, even when the value is identical.
//   - Unmount: the subscription is torn down synchronously.
//
// The touched-store set is rediscovered on every invocation, so projections
// may branch across stores; only the current branch's stores are tracked.
//
// Example:
//
//	counts := fluxion.UseSelect(func(sel fluxion.SelectFunc) map[string]int {
//	    return map[string]int{
//	        "a": sel("counterA").Call("getCount").(int),
//	        "b": sel("counterB").Call("getCount").(int),
//	    }
//	}, nil)
func UseSelect[T any](mapSelect func(sel SelectFunc) T, deps []any) T {
	v := currentView()
	if v == nil {
		panic(errNoView("UseSelect"))
	}

	projection := func(sel SelectFunc) any {
		return mapSelect(sel)
	}

	value := useSelectValue(v, projection, deps)
	out, _ := value.(T)
	return out
}

// UseRegistry returns the registry the rendering view is bound to.
func UseRegistry() *Registry {
	v := currentView()
	if v == nil {
		panic(errNoView("UseRegistry"))
	}
	return v.Registry()
}

// UseDispatch returns the dispatch facade for a store on the rendering
// view's registry.
func UseDispatch(store string) *StoreDispatcher {
	v := currentView()
	if v == nil {
		panic(errNoView("UseDispatch"))
	}
	return v.Registry().Dispatch(store)
}

// useSelectValue is the untyped core of UseSelect, keyed to a hook slot for
// stable identity across renders.
func useSelectValue(v *View, projection func(SelectFunc) any, deps []any) any {
	slot := v.useHookSlot()

	if slot == nil {
		// Mount: run the projection before storing any hook state, so a
		// panic escapes without leaving a half-built subscription behind.
		s := &selection{
			id:        nextID(),
			view:      v,
			reg:       v.Registry(),
			mapSelect: projection,
			lastDeps:  deps,
		}
		s.lastValue = s.invoke()

		v.setHookSlot(s)
		v.addPendingEffect(s.commit)
		v.OnCleanup(s.dispose)
		return s.lastValue
	}

	s := slot.(*selection)

	// Always adopt the latest closure; the projection's identity is not
	// required to be stable across renders.
	s.mapSelect = projection

	if !depsEqual(deps, s.lastDeps) {
		// The projection may have changed behavior: re-invoke even if the
		// result is identical, and rebuild the subscription post-commit.
		s.lastDeps = deps
		s.lastValue = s.invoke()
		s.resubscribe = true
		v.addPendingEffect(s.commit)
	}

	return s.lastValue
}

// selection is the per-hook-instance subscription state machine. It moves
// from unsubscribed (created during render) to subscribed (post-commit) and
// back to unsubscribed on view disposal.
type selection struct {
	id   uint64
	view *View
	reg  *Registry

	// mapSelect is the latest projection closure.
	mapSelect func(SelectFunc) any

	// lastDeps/lastValue memoize the most recent invocation.
	lastDeps  []any
	lastValue any

	// touched is the store set observed by the last invocation; attached is
	// the set currently subscribed to.
	touched  []*Store
	attached []*Store

	subscribed  bool
	resubscribe bool

	disposed atomic.Bool
}

// listenerID implements storeListener.
func (s *selection) listenerID() uint64 {
	return s.id
}

// invoke runs the projection with a tracking facade, rebuilding the
// touched-store set from scratch.
func (s *selection) invoke() any {
	s.touched = s.touched[:0]

	sel := SelectFunc(func(name string) *StoreSelector {
		st := s.reg.mustStore(name)
		s.track(st)
		return &StoreSelector{store: st}
	})

	return s.mapSelect(sel)
}

// track records a store touched by the current invocation, deduplicated.
func (s *selection) track(st *Store) {
	for _, existing := range s.touched {
		if existing == st {
			return
		}
	}
	s.touched = append(s.touched, st)
}

// storeChanged implements storeListener. A change to any touched store
// re-runs the projection; the view updates only when the derived value
// actually differs. The subscription always follows the just-observed
// touched set, so a projection that branched onto different stores is
// re-tracked immediately rather than on the next render.
func (s *selection) storeChanged() {
	if s.disposed.Load() {
		return
	}

	next := s.invoke()
	s.syncSubscriptions()

	changed := !shallowEqual(next, s.lastValue)
	s.lastValue = next

	if changed {
		s.view.RequestRender()
	}
}

// commit runs post-commit: it establishes the subscription after mount, and
// rebuilds it after a dependency-array change.
func (s *selection) commit() {
	if s.disposed.Load() {
		return
	}
	if !s.subscribed || s.resubscribe {
		s.syncSubscriptions()
		s.subscribed = true
		s.resubscribe = false
	}
}

// syncSubscriptions makes the attached set equal the touched set.
func (s *selection) syncSubscriptions() {
	same := len(s.attached) == len(s.touched)
	if same {
		for i := range s.attached {
			if s.attached[i] != s.touched[i] {
				same = false
				break
			}
		}
	}
	if same && s.subscribed && !s.resubscribe {
		return
	}

	for _, st := range s.attached {
		st.removeListener(s)
	}
	s.attached = s.attached[:0]
	for _, st := range s.touched {
		st.addListener(s)
		s.attached = append(s.attached, st)
	}
}

// dispose tears the subscription down. The disposed flag flips first so a
// delivery phase already holding a listener snapshot skips this selection.
func (s *selection) dispose() {
	if s.disposed.Swap(true) {
		return
	}
	for _, st := range s.attached {
		st.removeListener(s)
	}
	s.attached = nil
	s.subscribed = false
}
