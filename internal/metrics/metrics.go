package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics はRPC呼び出しのメトリクスを収集する
type Metrics struct {
	totalCalls     atomic.Uint64
	successCalls   atomic.Uint64
	failedCalls    atomic.Uint64
	totalLatencyNs atomic.Uint64

	mu         sync.RWMutex
	startTime  time.Time
	maxLatency time.Duration
	lastMethod string
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordSuccess は成功した呼び出しを記録する
func (m *Metrics) RecordSuccess(method string, latency time.Duration) {
	m.successCalls.Add(1)
	m.record(method, latency)
}

// RecordFailure は失敗した呼び出しを記録する
func (m *Metrics) RecordFailure(method string, latency time.Duration) {
	m.failedCalls.Add(1)
	m.record(method, latency)
}

func (m *Metrics) record(method string, latency time.Duration) {
	m.totalCalls.Add(1)
	m.totalLatencyNs.Add(uint64(latency.Nanoseconds()))

	m.mu.Lock()
	if latency > m.maxLatency {
		m.maxLatency = latency
	}
	m.lastMethod = method
	m.mu.Unlock()
}

// TotalCalls は総呼び出し数を返す
func (m *Metrics) TotalCalls() uint64 {
	return m.totalCalls.Load()
}

// SuccessCalls は成功した呼び出し数を返す
func (m *Metrics) SuccessCalls() uint64 {
	return m.successCalls.Load()
}

// FailedCalls は失敗した呼び出し数を返す
func (m *Metrics) FailedCalls() uint64 {
	return m.failedCalls.Load()
}

// AverageLatency は平均レイテンシを返す
func (m *Metrics) AverageLatency() time.Duration {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return time.Duration(m.totalLatencyNs.Load() / total)
}

// MaxLatency は最大レイテンシを返す
func (m *Metrics) MaxLatency() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxLatency
}

// ErrorRate はエラー率を返す（0.0〜1.0）
func (m *Metrics) ErrorRate() float64 {
	total := m.totalCalls.Load()
	if total == 0 {
		return 0
	}
	return float64(m.failedCalls.Load()) / float64(total)
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalCalls     uint64
	SuccessCalls   uint64
	FailedCalls    uint64
	AverageLatency time.Duration
	MaxLatency     time.Duration
	ErrorRate      float64
	LastMethod     string
	Elapsed        time.Duration
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	lastMethod := m.lastMethod
	m.mu.RUnlock()

	return Snapshot{
		TotalCalls:     m.TotalCalls(),
		SuccessCalls:   m.SuccessCalls(),
		FailedCalls:    m.FailedCalls(),
		AverageLatency: m.AverageLatency(),
		MaxLatency:     m.MaxLatency(),
		ErrorRate:      m.ErrorRate(),
		LastMethod:     lastMethod,
		Elapsed:        time.Since(m.startTime),
	}
}
