// Package offchain reads one value from a node's off-chain local storage.
//
// A Reader composes three steps: Dialer.Connect opens the connection and
// waits until the node answers its handshake, Session.ReadStorage issues a
// single offchain_localStorageGet call, and FormatValue renders the result.
// Run writes exactly one line, "result: <value>", and writes nothing when
// any step fails.
//
// # Basic Usage
//
//	config := offchain.DefaultConfig()
//	dialer := offchain.NewRPCDialer(config.Origin, metrics.New())
//	r := offchain.NewReader(dialer, config, os.Stdout)
//	if err := r.Run(ctx); err != nil {
//	    return err
//	}
//
// # Values
//
// A missing key is not an error: ReadStorage returns Absent(), which
// FormatValue renders as "null". Present values are rendered as 0x-prefixed
// hex (FormatHex) or as a quoted string (FormatText).
//
// # Errors
//
// Connection and handshake failures are *ConnectionError; failures of the
// read call are *RequestError. Both unwrap to the underlying cause, which
// may be an *rpc.Error.
package offchain
