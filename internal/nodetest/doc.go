// Package nodetest provides an in-process node that speaks JSON-RPC 2.0
// over WebSocket, for use in tests.
//
// The server answers rpc_methods, system_chain and offchain_localStorageGet
// from an in-memory Storage. Config switches let a test reproduce node
// behaviours such as rejecting unsafe RPC calls, pushing subscription
// notifications between responses, or dropping the connection mid-call.
//
//	srv := nodetest.NewServer(nodetest.DefaultConfig())
//	defer srv.Close()
//	srv.Storage().Set(nodetest.KindPersistent, []byte{0xde, 0xad}, []byte{0x01})
//	// dial srv.URL()
package nodetest
