// Package bridge exposes decode results and geometry payloads to WebAssembly
// guests through a wazero host module.
//
// Every host function is described by a WIT signature. The core wasm
// signature is derived from it with the canonical ABI flattening rules:
// parameters are flattened in order and a result that flattens to more than
// one value is written through a trailing return pointer.
//
//	b := bridge.New(decoder, nil)
//	if _, err := b.Instantiate(ctx, rt); err != nil {
//		return err
//	}
//	guest, err := rt.Instantiate(ctx, wasmBytes)
//
// Guests hold handles, never pointers. A decode call returns an owned result
// handle; the guest asks for its status, then takes the payload with the
// *-result-value function. Taking from a failed or already consumed result
// returns handle 0 instead of a payload. Index handles travel as plain i32
// values and 0xFFFFFFFF means "no index".
//
// Host functions read arguments from, and write results into, the memory of
// the calling guest. Functions that return a string or a list allocate with
// the guest's cabi_realloc export; a caller without one traps.
//
// The same operations are available to Go callers as methods on Bridge.
package bridge
