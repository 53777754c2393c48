// Package fluxion provides a registry of independent named data stores and a
// reactive selection hook binding derived values to a view's render cycle.
//
// Each Store is an isolated unit of state: a pure reducer, named read-only
// selectors, and named action creators. A Registry collects stores under
// unique names and supports change subscriptions. The UseSelect hook lets a
// view derive an arbitrary projection over one or more stores and re-render
// exactly when that projection could have changed.
//
// # Stores and Registries
//
// Registries are explicit values, never ambient globals. Create one per
// scope (application, session, test) and pass it to consumers:
//
//	reg := fluxion.New()
//	_, err := reg.RegisterStore("counter", fluxion.StoreConfig{
//	    Reducer: func(state any, action fluxion.Action) any {
//	        n, _ := state.(int)
//	        if action.Type == "increment" {
//	            return n + 1
//	        }
//	        return n
//	    },
//	    Selectors: map[string]fluxion.Selector{
//	        "getCount": func(state any, _ ...any) any { return state },
//	    },
//	    Actions: map[string]fluxion.ActionCreator{
//	        "increment": func(_ ...any) fluxion.Action {
//	            return fluxion.Action{Type: "increment"}
//	        },
//	    },
//	})
//
//	reg.Dispatch("counter").Call("increment")
//	count := reg.Select("counter").Call("getCount")
//
// A narrow ambient registry exists for the outermost composition point of an
// application; see Default. Library code should always take a *Registry.
//
// # Selection
//
// UseSelect is called during a view render. The projection receives a
// SelectFunc bound to the view's registry; every store it queries is recorded
// as a dependency of that invocation:
//
//	count := fluxion.UseSelect(func(sel fluxion.SelectFunc) int {
//	    n, _ := sel("counter").Call("getCount").(int)
//	    return n
//	}, nil)
//
// The projection runs once on mount, once per change to a store it touched,
// and once per dependency-array change. Re-rendering the owning view for
// unrelated reasons reuses the memoized value without re-invoking the
// projection. Dependencies are dynamic: the touched-store set is rebuilt on
// every invocation, so a projection that branches across stores tracks only
// the current branch.
//
// # Equality
//
// Derived values are compared with shallow equality: primitives by ==,
// slices/maps/functions by reference identity, never by deep inspection.
// Selectors are therefore expected to return stable references while the
// state they derive from is unchanged; the reducer contract (state replaced
// only when it differs by identity) makes that the natural default.
//
// # Thread Safety
//
// The registry and stores are safe for concurrent use, but the intended
// model is cooperative: dispatch, selector evaluation, and notification
// delivery are synchronous and complete before control returns to the
// caller. Views render on a single logical thread; WithView propagates the
// render context when a host spans goroutines.
package fluxion
