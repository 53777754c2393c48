package fluxion

import "testing"

func TestViewHookSlotsStableAcrossRenders(t *testing.T) {
	v := NewView(New(), nil)

	v.StartRender()
	if slot := v.useHookSlot(); slot != nil {
		t.Fatalf("expected empty slot on first render, got %v", slot)
	}
	v.setHookSlot("state-a")
	if slot := v.useHookSlot(); slot != nil {
		t.Fatalf("expected empty second slot on first render, got %v", slot)
	}
	v.setHookSlot("state-b")
	v.EndRender()

	v.StartRender()
	if slot := v.useHookSlot(); slot != "state-a" {
		t.Errorf("expected first slot %q, got %v", "state-a", slot)
	}
	if slot := v.useHookSlot(); slot != "state-b" {
		t.Errorf("expected second slot %q, got %v", "state-b", slot)
	}
	v.EndRender()
}

func TestViewCleanupsRunInReverseOrder(t *testing.T) {
	v := NewView(New(), nil)

	var order []int
	v.OnCleanup(func() { order = append(order, 1) })
	v.OnCleanup(func() { order = append(order, 2) })
	v.Dispose()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("expected reverse cleanup order [2 1], got %v", order)
	}

	// Registering after disposal runs immediately.
	ran := false
	v.OnCleanup(func() { ran = true })
	if !ran {
		t.Error("cleanup registered after disposal must run immediately")
	}
}

func TestViewDisposeIsIdempotent(t *testing.T) {
	v := NewView(New(), nil)

	runs := 0
	v.OnCleanup(func() { runs++ })
	v.Dispose()
	v.Dispose()

	if runs != 1 {
		t.Errorf("expected cleanups to run once, got %d", runs)
	}
	if !v.IsDisposed() {
		t.Error("view should report disposed")
	}
}

func TestViewPendingEffectsRunOnceAndDropOnDispose(t *testing.T) {
	v := NewView(New(), nil)

	runs := 0
	v.addPendingEffect(func() { runs++ })
	v.RunPendingEffects()
	v.RunPendingEffects()
	if runs != 1 {
		t.Errorf("expected effect to run once, got %d", runs)
	}

	v.addPendingEffect(func() { runs++ })
	v.Dispose()
	v.RunPendingEffects()
	if runs != 1 {
		t.Errorf("expected no effects after disposal, got %d runs", runs)
	}
}

func TestViewRequestRenderStopsAfterDispose(t *testing.T) {
	renders := 0
	v := NewView(New(), func() { renders++ })

	v.RequestRender()
	if renders != 1 {
		t.Fatalf("expected scheduler call, got %d", renders)
	}

	v.Dispose()
	v.RequestRender()
	if renders != 1 {
		t.Errorf("expected no scheduling after disposal, got %d", renders)
	}
}

func TestWithViewRestoresPreviousContext(t *testing.T) {
	reg := New()
	outer := NewView(reg, nil)
	inner := NewView(reg, nil)

	WithView(outer, func() {
		if currentView() != outer {
			t.Error("expected outer view to be current")
		}
		WithView(inner, func() {
			if currentView() != inner {
				t.Error("expected inner view to be current")
			}
		})
		if currentView() != outer {
			t.Error("expected outer view restored after nested WithView")
		}
	})

	if currentView() != nil {
		t.Error("expected no current view outside WithView")
	}
}
