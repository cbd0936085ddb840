package resource

import (
	"reflect"

	"github.com/wippyai/draco-go/errors"
)

// Lookup is GetTyped with the value asserted to T.
func Lookup[T any](t *Table, h Handle, typeID TypeID) (T, error) {
	v, err := t.GetTyped(h, typeID)
	if err != nil {
		var zero T
		return zero, err
	}
	return assert[T](h, v)
}

// Take is Table.Take with the value asserted to T. A value of the wrong Go
// type stays in the table.
func Take[T any](t *Table, h Handle, typeID TypeID) (T, error) {
	if _, err := Lookup[T](t, h, typeID); err != nil {
		var zero T
		return zero, err
	}
	v, err := t.Take(h, typeID)
	if err != nil {
		var zero T
		return zero, err
	}
	return assert[T](h, v)
}

func assert[T any](h Handle, v any) (T, error) {
	x, ok := v.(T)
	if !ok {
		return x, errors.New(errors.PhaseHost, errors.KindTypeMismatch).
			GoType(reflect.TypeFor[T]().String()).
			Detail("handle %d holds %T", h, v).
			Value(uint32(h)).
			Build()
	}
	return x, nil
}
