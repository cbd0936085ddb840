// Package status defines the status descriptor reported by the wrapped
// geometry library and the generic value-or-error container Result[T].
//
// A Result holds exactly one of a payload or a failure Status. The payload is
// owned by the container until Value moves it out; afterwards the container
// still answers Status but no longer holds a value:
//
//	r := decoder.DecodeMesh(ctx, data)
//	if !r.Status().OK() {
//	    return r.Status().Err()
//	}
//	mesh, err := r.Value() // ownership moves to the caller
//
// Value never fabricates a payload. On a failed or already consumed container
// it returns the zero T together with an error, so a forgotten status check
// surfaces as an error instead of a plausible looking empty value.
//
// Generic containers cannot cross a non-generic boundary. Package shim holds
// the concrete per-payload function pairs built on top of Result.
package status
