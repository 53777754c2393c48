package fluxion

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// View is the scope a host adapter creates per mounted view. It owns the
// hook state for that view: stable hook slots across renders, the
// post-commit effect queue, and cleanup functions run on unmount.
//
// The host drives the lifecycle:
//
//	v := fluxion.NewView(reg, scheduleRender)
//	v.StartRender()
//	fluxion.WithView(v, renderFn)   // every render, including re-renders
//	v.EndRender()
//	v.RunPendingEffects()           // after the view is committed
//	...
//	v.Dispose()                     // on unmount
//
// scheduleRender is invoked whenever a hook determined the view must
// re-render; the host decides when and how that render happens.
type View struct {
	id  uint64
	reg *Registry

	// scheduler is the host's re-render callback.
	scheduler func()

	// cleanups run in reverse order on Dispose.
	cleanupsMu sync.Mutex
	cleanups   []func()

	// pendingEffects run after the host commits the current render.
	pendingMu      sync.Mutex
	pendingEffects []func()

	// hookSlots give hooks stable identity across renders. Slot order is
	// call order, so hooks must be called unconditionally every render.
	hookSlots   []any
	hookSlotIdx int

	// hookCount locks in the number of hooks after the first render; in
	// debug mode a mismatch on later renders panics.
	hookCount   int
	renderCount int

	disposed atomic.Bool
}

// NewView creates a view scope bound to a registry. scheduler may be nil for
// views that never re-render (e.g. one-shot renders).
func NewView(reg *Registry, scheduler func()) *View {
	return &View{
		id:        nextID(),
		reg:       reg,
		scheduler: scheduler,
	}
}

// ID returns the view's unique identifier.
func (v *View) ID() uint64 {
	return v.id
}

// Registry returns the registry this view is bound to.
func (v *View) Registry() *Registry {
	return v.reg
}

// IsDisposed reports whether the view has been unmounted.
func (v *View) IsDisposed() bool {
	return v.disposed.Load()
}

// StartRender resets the hook slot cursor. The host calls it before every
// render of this view.
func (v *View) StartRender() {
	v.hookSlotIdx = 0
}

// EndRender closes a render pass. In debug mode it validates that the same
// number of hooks ran as on the first render, catching conditional hooks.
func (v *View) EndRender() {
	if v.renderCount == 0 {
		v.hookCount = v.hookSlotIdx
	} else if DebugMode && v.hookSlotIdx != v.hookCount {
		panic(fmt.Sprintf("[FLUXION E008] hook count changed between renders: expected %d, got %d",
			v.hookCount, v.hookSlotIdx))
	}
	v.renderCount++
}

// useHookSlot returns the stored value for the current hook slot, or nil on
// the first render. Callers create their state and call setHookSlot when nil
// is returned.
func (v *View) useHookSlot() any {
	idx := v.hookSlotIdx
	v.hookSlotIdx++

	if idx < len(v.hookSlots) {
		return v.hookSlots[idx]
	}
	return nil
}

// setHookSlot stores a value in the slot just handed out by useHookSlot.
func (v *View) setHookSlot(value any) {
	v.hookSlots = append(v.hookSlots, value)
}

// addPendingEffect queues a function to run after the host commits the
// current render.
func (v *View) addPendingEffect(fn func()) {
	if v.disposed.Load() {
		return
	}
	v.pendingMu.Lock()
	v.pendingEffects = append(v.pendingEffects, fn)
	v.pendingMu.Unlock()
}

// RunPendingEffects executes queued post-commit effects. The host calls it
// immediately after the view is committed, for mount and for every update.
func (v *View) RunPendingEffects() {
	if v.disposed.Load() {
		return
	}

	v.pendingMu.Lock()
	effects := v.pendingEffects
	v.pendingEffects = nil
	v.pendingMu.Unlock()

	for _, fn := range effects {
		fn()
	}
}

// OnCleanup registers a function to run when the view is disposed. If the
// view is already disposed, fn runs immediately.
func (v *View) OnCleanup(fn func()) {
	if v.disposed.Load() {
		fn()
		return
	}
	v.cleanupsMu.Lock()
	v.cleanups = append(v.cleanups, fn)
	v.cleanupsMu.Unlock()
}

// RequestRender asks the host to re-render this view. No-op after disposal.
func (v *View) RequestRender() {
	if v.disposed.Load() || v.scheduler == nil {
		return
	}
	v.scheduler()
}

// Dispose unmounts the view: cleanups run in reverse order, pending effects
// are dropped, and every subscription owned by the view's hooks is torn down
// synchronously. Further notifications never reach this view, even when a
// dispatch is mid-delivery through other listeners.
func (v *View) Dispose() {
	if v.disposed.Swap(true) {
		return
	}

	v.cleanupsMu.Lock()
	cleanups := v.cleanups
	v.cleanups = nil
	v.cleanupsMu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}

	v.pendingMu.Lock()
	v.pendingEffects = nil
	v.pendingMu.Unlock()
}
