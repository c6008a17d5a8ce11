package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := New(registry)
	require.NoError(t, err)

	m.ObserveCompletion("kuriosity_experiment_bugs")
	m.ObserveCompletion("kuriosity_experiment_bugs")
	m.ObserveDeprioritized("kuriosity_experiment_bugs")
	m.ObserveFailure("noScienceStorage")
	m.SetFactor("part-1", 1.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.completed.WithLabelValues("kuriosity_experiment_bugs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deprioritized.WithLabelValues("kuriosity_experiment_bugs")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("noScienceStorage")))
	assert.Equal(t, 1.25, testutil.ToFloat64(m.factor.WithLabelValues("part-1")))

	_, err = New(registry)
	assert.Error(t, err)
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	m.ObserveCompletion("x")
	m.ObserveDeprioritized("x")
	m.ObserveFailure("x")
	m.SetFactor("p", 1)
	m.ForgetPart("p")
}
