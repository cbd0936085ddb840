// Package draco is a type-safe interop layer for a wrapped geometry library.
//
// Two mechanisms make up the layer. Strongly typed index handles give every
// index domain (point, face, vertex, corner, attribute value) its own type
// with the layout of a bare uint32, so a face index can never be passed where
// a point index is expected. Result shims split a value-or-error container
// into its status and its owned payload, one concrete function pair per
// payload type.
//
// # Packages
//
//	draco/
//	├── index/         Index[D], domain tags, Vector and Range
//	├── status/        Status codes and the Result[T] container
//	├── shim/          Generated MeshStatus/MeshValue style pairs
//	├── geometry/      Mesh, PointCloud and PointCloudBuilder payloads
//	├── resource/      Handle table for values crossing the WASM boundary
//	├── bridge/        wazero host module exposing the shims to guests
//	├── errors/        Structured errors (phase, kind, detail)
//	├── internal/gen/  bindings.yaml driven code generator
//	└── internal/wat/  WAT compiler for test guests
//
// # Quick Start
//
//	r := decoder.DecodeMesh(ctx, data)
//	if st := shim.MeshStatus(r); !st.OK() {
//	    return st.Err()
//	}
//	mesh, err := shim.MeshValue(r)
//	if err != nil {
//	    return err
//	}
//	for f, face := range mesh.Faces() {
//	    log.Println(f, face)
//	}
//
// Domain declarations and the shim pairs are generated from bindings.yaml:
//
//	go generate ./...
package draco

//go:generate go run ./cmd/shimgen -config bindings.yaml
