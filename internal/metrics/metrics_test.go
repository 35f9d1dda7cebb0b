package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMetrics(t *testing.T) {
	m := New()

	assert.Zero(t, m.TotalCalls())
	assert.Zero(t, m.SuccessCalls())
	assert.Zero(t, m.AverageLatency())
	assert.Zero(t, m.ErrorRate())
}

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.RecordSuccess("rpc_methods", 10*time.Millisecond)
	m.RecordSuccess("system_chain", 20*time.Millisecond)
	m.RecordFailure("offchain_localStorageGet", 30*time.Millisecond)

	assert.Equal(t, uint64(3), m.TotalCalls())
	assert.Equal(t, uint64(2), m.SuccessCalls())
	assert.Equal(t, uint64(1), m.FailedCalls())
	assert.Equal(t, 20*time.Millisecond, m.AverageLatency())
	assert.Equal(t, 30*time.Millisecond, m.MaxLatency())
	assert.InDelta(t, 1.0/3.0, m.ErrorRate(), 0.0001)
}

func TestMetricsSnapshot(t *testing.T) {
	m := New()

	m.RecordSuccess("rpc_methods", 5*time.Millisecond)
	m.RecordSuccess("offchain_localStorageGet", 15*time.Millisecond)

	snap := m.Snapshot()

	assert.Equal(t, uint64(2), snap.TotalCalls)
	assert.Equal(t, uint64(0), snap.FailedCalls)
	assert.Equal(t, 10*time.Millisecond, snap.AverageLatency)
	assert.Equal(t, 15*time.Millisecond, snap.MaxLatency)
	assert.Equal(t, "offchain_localStorageGet", snap.LastMethod)
	assert.GreaterOrEqual(t, snap.Elapsed, time.Duration(0))
}

func TestMetricsConcurrent(t *testing.T) {
	m := New()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				m.RecordSuccess("a", time.Millisecond)
			} else {
				m.RecordFailure("b", time.Millisecond)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, uint64(50), m.TotalCalls())
	assert.Equal(t, uint64(25), m.FailedCalls())
}
