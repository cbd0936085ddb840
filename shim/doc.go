// Package shim exposes one concrete status/value function pair per payload
// type bound in bindings.yaml.
//
// status.Result is generic and cannot cross a boundary that only knows
// concrete types, such as a WebAssembly host module or a cgo export. The
// functions here are monomorphized by shimgen so every payload gets its own
// non-generic entry points:
//
//	r := decoder.DecodeMesh(ctx, data)
//	if st := shim.MeshStatus(r); !st.OK() {
//		return st.Err()
//	}
//	m, err := shim.MeshValue(r)
//
// MeshStatus never transfers ownership and may be called before or after
// MeshValue. MeshValue succeeds once per container.
package shim
