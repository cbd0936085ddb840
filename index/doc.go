// Package index provides strongly typed integer indices.
//
// Geometry code juggles several index spaces at once (points, faces,
// vertices, corners, attribute values) that are all physically a uint32.
// Index[D] gives each space its own type by parameterizing a single-field
// struct with a zero-sized domain tag D:
//
//	p := index.NewPointIndex(10)
//	var f index.FaceIndex
//	f = p                                 // compile error
//	f = index.NewFaceIndex(p.Value())     // explicit re-wrap compiles
//
// Every operator is implemented once on Index[D] and only accepts operands of
// the same D, or a raw uint32 which is read as a value of the receiver's
// domain. Mixing domains is rejected by the type checker, never at run time.
//
// # Layout
//
// An Index[D] is exactly a uint32: size 4, alignment 4, no pointers. Slices of
// handles can be handed to a foreign boundary (a WebAssembly guest, C memory)
// as raw uint32 arrays without conversion.
//
// # Domains
//
// The domain tags and their aliases (PointIndex, FaceIndex, ...) live in
// domains_gen.go, produced by cmd/shimgen from bindings.yaml. New domains are
// added there, not by hand.
//
// Arithmetic wraps modulo 2^32 like the underlying integer. The all-ones value
// is reserved as Invalid, the "no index" marker of the wrapped library.
package index
