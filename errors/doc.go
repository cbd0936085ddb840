// Package errors provides the structured error type used across draco-go.
//
// Errors carry a Phase (where the error happened) and a Kind (what went
// wrong), plus optional context: a path through the bound surface, the Go and
// WIT type names involved, the offending value and a cause chain.
//
// Build errors with the Builder:
//
//	err := errors.New(errors.PhaseUnwrap, errors.KindNoValue).
//		GoType("*geometry.Mesh").
//		Detail("result holds a failure").
//		Cause(st.Err()).
//		Build()
//
// or with the constructors for the common cases:
//
//	err := errors.Consumed(errors.PhaseUnwrap, "*geometry.Mesh")
//	err := errors.InvalidHandle(errors.PhaseHost, h, "mesh")
//
// Two errors match under errors.Is when Phase and Kind match, so callers can
// test for a category with a bare sentinel built from New(...).Build().
package errors
