package fluxion

import (
	"runtime"
	"sync"
)

// renderContexts stores the view currently rendering per goroutine, so hooks
// called anywhere inside the render function can find their owning view.
var renderContexts sync.Map // map[uint64]*View

// getGoroutineID extracts the current goroutine's ID from the runtime stack.
// Implementation detail; never exposed.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	// The stack starts with "goroutine <id> ".
	var id uint64
	for i := 10; i < n; i++ {
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// currentView returns the view rendering on this goroutine, or nil.
func currentView() *View {
	if v, ok := renderContexts.Load(getGoroutineID()); ok {
		return v.(*View)
	}
	return nil
}

// setCurrentView sets the rendering view for this goroutine and returns the
// previous one so it can be restored.
func setCurrentView(v *View) *View {
	gid := getGoroutineID()
	var old *View
	if prev, ok := renderContexts.Load(gid); ok {
		old = prev.(*View)
	}
	if v == nil {
		renderContexts.Delete(gid)
	} else {
		renderContexts.Store(gid, v)
	}
	return old
}

// WithView runs fn with v as the current view, making hooks usable inside.
// Host adapters call this around the view's render function:
//
//	view.StartRender()
//	fluxion.WithView(view, renderFn)
//	view.EndRender()
//	view.RunPendingEffects()
func WithView(v *View, fn func()) {
	old := setCurrentView(v)
	defer setCurrentView(old)
	fn()
}
