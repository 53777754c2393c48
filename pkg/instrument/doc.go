// Package instrument provides registry observers for Prometheus metrics and
// OpenTelemetry tracing.
//
// Observers attach at registry construction:
//
//	reg := fluxion.New(
//	    fluxion.WithObserver(instrument.Prometheus(
//	        instrument.WithNamespace("myapp"),
//	    )),
//	    fluxion.WithObserver(instrument.OpenTelemetry(
//	        instrument.WithTracerName("myapp"),
//	    )),
//	)
//
// Each Prometheus observer registers its collectors once, on creation;
// create one observer per prometheus.Registerer. The OpenTelemetry observer
// uses the global tracer provider, which should be configured in main()
// before dispatches begin.
package instrument
