package instrument

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/fluxion-dev/fluxion/pkg/fluxion"
)

func counterConfig() fluxion.StoreConfig {
	return fluxion.StoreConfig{
		Reducer: func(state any, action fluxion.Action) any {
			n, _ := state.(int)
			if action.Type == "increment" {
				return n + 1
			}
			return n
		},
		Actions: map[string]fluxion.ActionCreator{
			"increment": func(_ ...any) fluxion.Action {
				return fluxion.Action{Type: "increment"}
			},
			"noop": func(_ ...any) fluxion.Action {
				return fluxion.Action{Type: "noop"}
			},
		},
	}
}

func TestPrometheusObserverCountsDispatches(t *testing.T) {
	preg := prometheus.NewRegistry()
	obs := Prometheus(WithRegistry(preg), WithNamespace("test"))
	m := obs.(*promObserver)

	reg := fluxion.New(fluxion.WithObserver(obs))
	reg.MustRegisterStore("counter", counterConfig())

	reg.Dispatch("counter").Call("increment")
	reg.Dispatch("counter").Call("increment")
	reg.Dispatch("counter").Call("noop")

	if got := testutil.ToFloat64(m.dispatchesTotal.WithLabelValues("counter", "true")); got != 2 {
		t.Errorf("expected 2 changed dispatches, got %v", got)
	}
	if got := testutil.ToFloat64(m.dispatchesTotal.WithLabelValues("counter", "false")); got != 1 {
		t.Errorf("expected 1 unchanged dispatch, got %v", got)
	}
	if got := testutil.ToFloat64(m.storesRegistered); got != 1 {
		t.Errorf("expected 1 registered store, got %v", got)
	}
}

func TestPrometheusObserverCountsNotificationPhases(t *testing.T) {
	preg := prometheus.NewRegistry()
	obs := Prometheus(WithRegistry(preg))
	m := obs.(*promObserver)

	reg := fluxion.New(fluxion.WithObserver(obs))
	reg.MustRegisterStore("a", counterConfig())
	reg.MustRegisterStore("b", counterConfig())
	reg.Subscribe(func() {})

	reg.Batch(func() {
		reg.Dispatch("a").Call("increment")
		reg.Dispatch("b").Call("increment")
	})

	if got := testutil.ToFloat64(m.notificationsTotal); got != 1 {
		t.Errorf("expected one delivery phase for the batch, got %v", got)
	}
	if got := testutil.ToFloat64(m.listenersNotified); got != 1 {
		t.Errorf("expected one listener invocation, got %v", got)
	}
}

func TestPrometheusObserverHonorsCustomBuckets(t *testing.T) {
	preg := prometheus.NewRegistry()
	obs := Prometheus(
		WithRegistry(preg),
		WithSubsystem("registry"),
		WithBuckets([]float64{0.001, 0.01}),
		WithConstLabels(prometheus.Labels{"instance": "test"}),
	)

	reg := fluxion.New(fluxion.WithObserver(obs))
	reg.MustRegisterStore("counter", counterConfig())
	reg.Dispatch("counter").Call("increment")

	families, err := preg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() == "fluxion_registry_dispatch_duration_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("expected dispatch duration histogram under subsystem name")
	}
}
