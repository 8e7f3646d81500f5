// Package metrics exports Prometheus counters for form controllers.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

const (
	namespace = "formstate"

	resultValid   = "valid"
	resultInvalid = "invalid"
)

// Collector turns controller notifications into metrics. One collector can
// observe any number of controllers; series are labelled by form id.
type Collector struct {
	changes     *prometheus.CounterVec
	validations *prometheus.CounterVec
	fieldErrors *prometheus.CounterVec
	observed    *prometheus.GaugeVec
}

// NewCollector registers the collector's metrics with reg. A nil reg creates
// unregistered metrics, which is handy in tests.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		changes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "changes_total",
				Help:      "Total number of controller notifications by kind",
			},
			[]string{"form", "kind"},
		),
		validations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of validation passes by result",
			},
			[]string{"form", "result"},
		),
		fieldErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_errors_total",
				Help:      "Total number of fields that failed a validation pass",
			},
			[]string{"form", "field"},
		),
		observed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "observed_controllers",
				Help:      "Number of controllers currently observed",
			},
			[]string{"form"},
		),
	}
}

// Observe subscribes to ctrl and records its notifications under formID,
// falling back to the form's own id. The returned function detaches the
// collector; it is safe to call more than once and after ctrl is disposed.
func (c *Collector) Observe(ctrl *formstate.Controller, formID string) (stop func()) {
	if formID == "" {
		formID = ctrl.Config().ID
	}
	if formID == "" {
		formID = "default"
	}

	c.observed.WithLabelValues(formID).Inc()
	unsubscribe := ctrl.Subscribe(func(change formstate.Change) {
		c.changes.WithLabelValues(formID, string(change.Kind)).Inc()
		if change.Kind != formstate.ChangeValidate {
			return
		}
		if ctrl.IsValid() {
			c.validations.WithLabelValues(formID, resultValid).Inc()
			return
		}
		c.validations.WithLabelValues(formID, resultInvalid).Inc()
		for field := range ctrl.Errors() {
			c.fieldErrors.WithLabelValues(formID, field).Inc()
		}
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			if !ctrl.Disposed() {
				unsubscribe()
			}
			c.observed.WithLabelValues(formID).Dec()
		})
	}
}
