package fluxion

import "time"

// Observer receives registry telemetry. Implementations must be fast and
// must not dispatch: observer callbacks run synchronously on the dispatching
// goroutine, inside the dispatch/notification path.
//
// The instrument package provides Prometheus and OpenTelemetry observers.
type Observer interface {
	// OnStoreRegistered is called after a store is added to the registry.
	OnStoreRegistered(store string)

	// OnDispatch is called once per dispatch, after the reducer ran and
	// before notifications are delivered. changed reports whether the state
	// reference was replaced.
	OnDispatch(store string, action Action, changed bool, start time.Time, took time.Duration)

	// OnNotify is called once per delivery phase with the changed store
	// names and the number of listeners about to be notified.
	OnNotify(stores []string, listeners int)
}
