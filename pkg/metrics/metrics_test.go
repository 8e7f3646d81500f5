package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
)

func newController(t *testing.T) *formstate.Controller {
	t.Helper()
	ctrl, err := formstate.New(model.FormConfig{
		ID: "signup",
		Fields: []model.FieldConfig{
			{ID: "email", Type: model.FieldTypeText, Required: true},
			{ID: "name", Type: model.FieldTypeText, Required: true},
		},
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

func TestObserve_CountsChangesAndValidations(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())
	ctrl := newController(t)
	defer ctrl.Dispose()

	stop := collector.Observe(ctrl, "")
	ctrl.SetValue("email", "a@b.co")
	ctrl.Validate()
	ctrl.SetValue("name", "Ada")
	ctrl.Validate()
	ctrl.Reset()

	checks := []struct {
		name   string
		metric prometheus.Collector
		want   float64
	}{
		{"value changes", collector.changes.WithLabelValues("signup", "value"), 2},
		{"validate changes", collector.changes.WithLabelValues("signup", "validate"), 2},
		{"reset changes", collector.changes.WithLabelValues("signup", "reset"), 1},
		{"invalid passes", collector.validations.WithLabelValues("signup", resultInvalid), 1},
		{"valid passes", collector.validations.WithLabelValues("signup", resultValid), 1},
		{"name errors", collector.fieldErrors.WithLabelValues("signup", "name"), 1},
		{"observed", collector.observed.WithLabelValues("signup"), 1},
	}
	for _, check := range checks {
		if got := testutil.ToFloat64(check.metric); got != check.want {
			t.Fatalf("%s: expected %v, got %v", check.name, check.want, got)
		}
	}

	stop()
	stop()
	ctrl.SetValue("email", "")
	if got := testutil.ToFloat64(collector.changes.WithLabelValues("signup", "value")); got != 2 {
		t.Fatalf("expected no counting after stop, got %v", got)
	}
	if got := testutil.ToFloat64(collector.observed.WithLabelValues("signup")); got != 0 {
		t.Fatalf("expected observed gauge to drop, got %v", got)
	}
	if ctrl.ListenerCount() != 0 {
		t.Fatalf("expected stop to unsubscribe")
	}
}

func TestObserve_StopAfterDispose(t *testing.T) {
	collector := NewCollector(nil)
	ctrl := newController(t)
	stop := collector.Observe(ctrl, "custom")
	ctrl.Dispose()
	stop()
}

func TestObserve_GatheredSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewCollector(reg)
	ctrl := newController(t)
	defer ctrl.Dispose()
	stop := collector.Observe(ctrl, "")
	defer stop()

	ctrl.Validate()

	count, err := testutil.GatherAndCount(reg, "formstate_field_errors_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected a series per failing field, got %d", count)
	}
	if got, _ := testutil.GatherAndCount(reg, "formstate_observed_controllers"); got != 1 {
		t.Fatalf("expected one observed series, got %d", got)
	}
}
