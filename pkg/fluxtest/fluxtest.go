package fluxtest

import (
	"testing"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
)

// Harness is a synchronous view host bound to one registry.
type Harness struct {
	reg *fluxion.Registry
}

// New creates a harness for the given registry. Passing nil binds the
// harness to a fresh private registry.
func New(reg *fluxion.Registry) *Harness {
	if reg == nil {
		reg = fluxion.New()
	}
	return &Harness{reg: reg}
}

// Registry returns the registry views mount against.
func (h *Harness) Registry() *fluxion.Registry {
	return h.reg
}

// Mount renders the function as a new view and commits it. Hooks inside the
// render function are live from this point: they re-render the view
// synchronously whenever their value changes.
func (h *Harness) Mount(render func()) *ViewHandle {
	vh := &ViewHandle{render: render, mounted: true}
	vh.view = fluxion.NewView(h.reg, vh.rerender)
	vh.rerender()
	return vh
}

// ViewHandle is a mounted view under harness control.
type ViewHandle struct {
	view    *fluxion.View
	render  func()
	renders int
	mounted bool
}

// View returns the underlying view scope.
func (vh *ViewHandle) View() *fluxion.View {
	return vh.view
}

// RenderCount returns how many times the view has rendered, including the
// mount render.
func (vh *ViewHandle) RenderCount() int {
	return vh.renders
}

// Rerender re-renders the view for a host-side reason (e.g. a parent
// updated), exactly as a hook-requested update would.
func (vh *ViewHandle) Rerender() {
	vh.rerender()
}

// rerender is the scheduler callback handed to the view: render, then commit.
func (vh *ViewHandle) rerender() {
	if !vh.mounted {
		return
	}
	vh.renders++
	vh.view.StartRender()
	fluxion.WithView(vh.view, vh.render)
	vh.view.EndRender()
	vh.view.RunPendingEffects()
}

// Unmount disposes the view. Subsequent dispatches must not render it again.
func (vh *ViewHandle) Unmount() {
	if !vh.mounted {
		return
	}
	vh.mounted = false
	vh.view.Dispose()
}

// ExpectRenders asserts the view rendered exactly want times so far.
func ExpectRenders(t *testing.T, vh *ViewHandle, want int) {
	t.Helper()
	if got := vh.RenderCount(); got != want {
		t.Errorf("expected %d renders, got %d", want, got)
	}
}
