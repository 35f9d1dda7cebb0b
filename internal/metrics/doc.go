// Package metrics collects statistics about RPC calls.
//
// Metrics counts successful and failed calls and tracks average and maximum
// latency. The reader records every JSON-RPC round trip here and the CLI
// logs a snapshot at debug level before exiting.
//
// # Basic Usage
//
//	m := metrics.New()
//
//	start := time.Now()
//	// ... issue a call ...
//	m.RecordSuccess("rpc_methods", time.Since(start))
//
//	snap := m.Snapshot()
//	fmt.Printf("calls: %d, avg: %v\n", snap.TotalCalls, snap.AverageLatency)
//
// # Thread Safety
//
// Counters are atomic and the remaining fields are guarded by a mutex, so a
// Metrics value can be shared between goroutines.
package metrics
