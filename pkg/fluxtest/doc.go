// Package fluxtest provides a synchronous view host for testing hooks.
//
// The harness mounts render functions against a registry, re-renders them
// whenever a hook requests it, and counts renders, so tests can assert both
// on derived values and on how often a view actually updated:
//
//	h := fluxtest.New(reg)
//	var count int
//	view := h.Mount(func() {
//	    count = fluxion.UseSelect(func(sel fluxion.SelectFunc) int {
//	        n, _ := sel("counter").Call("getCount").(int)
//	        return n
//	    }, nil)
//	})
//	reg.Dispatch("counter").Call("increment")
//	fluxtest.ExpectRenders(t, view, 2)
//	view.Unmount()
//
// Renders are committed synchronously: Mount and Rerender run the render
// function, then the view's post-commit effects, before returning. This
// mirrors the cooperative single-threaded model the hook contract assumes.
package fluxtest
