package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTimerObserveDuration(t *testing.T) {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "test_observe_duration_seconds",
	})

	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	timer.ObserveDuration(histogram)

	count, err := testutil.CollectAndCount(histogram)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTimerObserveDurationVec(t *testing.T) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "test_observe_duration_vec_seconds",
	}, []string{"step"})

	timer := NewTimer()
	timer.ObserveDurationVec(vec, "iac-apply")

	count, err := testutil.CollectAndCount(vec, "test_observe_duration_vec_seconds")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTimerDuration(t *testing.T) {
	timer := NewTimer()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), 5*time.Millisecond)
}
