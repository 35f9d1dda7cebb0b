// Package rpc implements a minimal JSON-RPC 2.0 client over WebSocket.
//
// The transport is golang.org/x/net/websocket. Each call sends one request
// frame and reads frames until the response carrying the same id arrives;
// frames for other ids (for example subscription notifications) are skipped.
//
// # Basic Usage
//
//	c, err := rpc.Dial(ctx, "ws://127.0.0.1:9944", rpc.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	var chain string
//	if err := c.Call(ctx, &chain, "system_chain"); err != nil {
//	    return err
//	}
//
// # Errors
//
// JSON-RPC error objects are returned as *Error. Transport failures are
// wrapped with the failing step ("send" or "receive"). When the context is
// cancelled or its deadline passes, the returned error wraps ctx.Err().
//
// # Concurrency
//
// Calls on one Client are serialized. Every call is recorded in the
// client's metrics.Metrics.
package rpc
