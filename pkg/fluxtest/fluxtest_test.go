package fluxtest_test

import (
	"testing"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
	"github.com/fluxion-dev/fluxion/pkg/fluxtest"
)

func toggleStore() fluxion.StoreConfig {
	return fluxion.StoreConfig{
		InitialState: false,
		Reducer: func(state any, action fluxion.Action) any {
			on, _ := state.(bool)
			if action.Type == "toggle" {
				return !on
			}
			return on
		},
		Selectors: map[string]fluxion.Selector{
			"isOn": func(state any, _ ...any) any { return state },
		},
		Actions: map[string]fluxion.ActionCreator{
			"toggle": func(_ ...any) fluxion.Action {
				return fluxion.Action{Type: "toggle"}
			},
		},
	}
}

func TestHarnessDefaultsToPrivateRegistry(t *testing.T) {
	h := fluxtest.New(nil)
	if h.Registry() == nil {
		t.Fatal("expected harness to create a registry")
	}
	if h.Registry() == fluxion.Default() {
		t.Error("harness must not silently bind to the ambient default registry")
	}
}

func TestHarnessMountCommitsSynchronously(t *testing.T) {
	h := fluxtest.New(nil)
	h.Registry().MustRegisterStore("toggle", toggleStore())

	var on bool
	view := h.Mount(func() {
		on = fluxion.UseSelect(func(sel fluxion.SelectFunc) bool {
			v, _ := sel("toggle").Call("isOn").(bool)
			return v
		}, nil)
	})
	fluxtest.ExpectRenders(t, view, 1)

	// The subscription is live as soon as Mount returns.
	h.Registry().Dispatch("toggle").Call("toggle")
	if !on {
		t.Error("expected view to observe the dispatch")
	}
	fluxtest.ExpectRenders(t, view, 2)
}

func TestHarnessRerenderAndUnmount(t *testing.T) {
	h := fluxtest.New(nil)
	h.Registry().MustRegisterStore("toggle", toggleStore())

	view := h.Mount(func() {
		_ = fluxion.UseSelect(func(sel fluxion.SelectFunc) bool {
			v, _ := sel("toggle").Call("isOn").(bool)
			return v
		}, nil)
	})

	view.Rerender()
	fluxtest.ExpectRenders(t, view, 2)

	view.Unmount()
	view.Rerender()
	h.Registry().Dispatch("toggle").Call("toggle")
	fluxtest.ExpectRenders(t, view, 2)

	// Unmounting twice is a no-op.
	view.Unmount()
	if !view.View().IsDisposed() {
		t.Error("expected underlying view to be disposed")
	}
}
