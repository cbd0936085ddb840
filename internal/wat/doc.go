// Package wat compiles a subset of the WebAssembly text format into binary
// modules. It exists to write guest modules inline in tests.
//
//	wasm, err := wat.Compile(`(module
//		(func (export "add") (param i32 i32) (result i32)
//			(i32.add (local.get 0) (local.get 1)))
//	)`)
//
// Supported:
//   - function imports, memories, globals and exports (inline or standalone)
//   - named and indexed params, locals, globals and functions
//   - flat and folded instruction forms
//   - i32/i64 constants and integer arithmetic, loads and stores with
//     offset= and align=, calls, memory.size and memory.grow
//
// Control flow blocks, tables, data segments and floating point constants
// are not supported.
package wat
