// Package resource owns the values that cross the WebAssembly boundary.
//
// A guest never sees a Go pointer. Decode results and geometry payloads are
// stored in a Table and the guest receives a Handle:
//
//	table := resource.NewTable()
//	h, err := table.Insert(resource.TypeMeshResult, r)
//
//	// typed lookup, wrong type is an error
//	r, err := resource.Lookup[*shim.MeshResult](table, h, resource.TypeMeshResult)
//
//	// ownership transfer out of the table
//	m, err := resource.Take[*geometry.Mesh](table, h, resource.TypeMesh)
//
// Handle 0 is reserved and never issued, so a guest can use it as "none".
// Freed handles are reused.
//
// Values are not garbage collected while they sit in a table. The host drops
// them when the guest calls drop, or all at once with Close.
package resource
