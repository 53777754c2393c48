package fluxion

import (
	"errors"
	"testing"
)

// counterConfig is the store used throughout the package tests: an int
// counter with increment/setTo actions.
func counterConfig() StoreConfig {
	return StoreConfig{
		Reducer: func(state any, action Action) any {
			n, _ := state.(int)
			switch action.Type {
			case "increment":
				return n + 1
			case "setTo":
				return action.Payload
			default:
				return n
			}
		},
		Selectors: map[string]Selector{
			"getCount": func(state any, _ ...any) any { return state },
		},
		Actions: map[string]ActionCreator{
			"increment": func(_ ...any) Action {
				return Action{Type: "increment"}
			},
			"setTo": func(args ...any) Action {
				return Action{Type: "setTo", Payload: args[0]}
			},
		},
	}
}

func expectPanicIs(t *testing.T, sentinel error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic wrapping %v, got none", sentinel)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic, got %T: %v", r, r)
		}
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected panic wrapping %v, got %v", sentinel, err)
		}
	}()
	fn()
}

func TestStoreInitialStateFromReducer(t *testing.T) {
	reg := New()
	var initAction Action
	s, err := reg.RegisterStore("counter", StoreConfig{
		Reducer: func(state any, action Action) any {
			if state == nil {
				initAction = action
				return 42
			}
			return state
		},
	})
	if err != nil {
		t.Fatalf("RegisterStore: %v", err)
	}
	if got := s.State(); got != 42 {
		t.Errorf("expected reducer-derived initial state 42, got %v", got)
	}
	if initAction.Type != ActionTypeInit {
		t.Errorf("expected init probe action %q, got %q", ActionTypeInit, initAction.Type)
	}
}

func TestStoreInitialStateOverride(t *testing.T) {
	reg := New()
	cfg := counterConfig()
	cfg.InitialState = 7
	s, err := reg.RegisterStore("counter", cfg)
	if err != nil {
		t.Fatalf("RegisterStore: %v", err)
	}
	if got := s.State(); got != 7 {
		t.Errorf("expected initial state 7, got %v", got)
	}
}

func TestStoreDispatchAndSelect(t *testing.T) {
	reg := New()
	s := reg.MustRegisterStore("counter", counterConfig())

	s.Dispatch(Action{Type: "increment"})
	s.Dispatch(Action{Type: "increment"})

	if got := s.Select("getCount"); got != 2 {
		t.Errorf("expected count 2, got %v", got)
	}
}

func TestStoreUnknownSelectorPanics(t *testing.T) {
	reg := New()
	s := reg.MustRegisterStore("counter", counterConfig())

	expectPanicIs(t, ErrUnknownSelector, func() {
		s.Select("nope")
	})
}

func TestStoreUnchangedStateSkipsNotification(t *testing.T) {
	reg := New()
	s := reg.MustRegisterStore("counter", counterConfig())
	s.Dispatch(Action{Type: "setTo", Payload: 5})

	notified := 0
	unsubscribe := reg.Subscribe(func() { notified++ })
	defer unsubscribe()

	// Reducer returns an identical value: no state replacement, no delivery.
	s.Dispatch(Action{Type: "setTo", Payload: 5})
	if notified != 0 {
		t.Errorf("expected no notification for identity-equal state, got %d", notified)
	}

	s.Dispatch(Action{Type: "setTo", Payload: 6})
	if notified != 1 {
		t.Errorf("expected one notification after real change, got %d", notified)
	}
}

func TestStoreUsableAfterPanickingReducer(t *testing.T) {
	reg := New()
	s := reg.MustRegisterStore("counter", StoreConfig{
		Reducer: func(state any, action Action) any {
			n, _ := state.(int)
			switch action.Type {
			case "increment":
				return n + 1
			case "explode":
				panic("reducer failure")
			default:
				return n
			}
		},
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("reducer panic must propagate to the dispatcher")
			}
		}()
		s.Dispatch(Action{Type: "explode"})
	}()

	// The state lock must be released and the prior state intact.
	if got := s.State(); got != 0 {
		t.Errorf("expected state untouched by the failed dispatch, got %v", got)
	}
	s.Dispatch(Action{Type: "increment"})
	if got := s.State(); got != 1 {
		t.Errorf("expected dispatch to work after a recovered reducer panic, got %v", got)
	}
}

func TestStoreSelectorReceivesArgs(t *testing.T) {
	reg := New()
	s := reg.MustRegisterStore("items", StoreConfig{
		Reducer: func(state any, action Action) any {
			if state == nil {
				return map[string]string{"a": "alpha", "b": "beta"}
			}
			return state
		},
		Selectors: map[string]Selector{
			"getItem": func(state any, args ...any) any {
				return state.(map[string]string)[args[0].(string)]
			},
		},
	})

	if got := s.Select("getItem", "b"); got != "beta" {
		t.Errorf("expected %q, got %v", "beta", got)
	}
}

func TestDispatcherFacade(t *testing.T) {
	reg := New()
	reg.MustRegisterStore("counter", counterConfig())

	reg.Dispatch("counter").Call("setTo", 9)
	if got := reg.Select("counter").Call("getCount"); got != 9 {
		t.Errorf("expected 9, got %v", got)
	}

	expectPanicIs(t, ErrUnknownAction, func() {
		reg.Dispatch("counter").Call("nope")
	})
}
