package index

import (
	"math"
	"strconv"
)

// Domain is implemented by the zero-sized tag types that name an index space.
type Domain interface {
	// Name is the kebab-case domain name, e.g. "point" or "attribute-value".
	Name() string
}

// Index is a uint32 index restricted to domain D.
//
// The zero value is index 0.
type Index[D Domain] struct {
	value uint32
}

// New wraps a raw value as an index of domain D.
func New[D Domain](v uint32) Index[D] {
	return Index[D]{value: v}
}

// Invalid returns the reserved "no index" value of domain D.
func Invalid[D Domain]() Index[D] {
	return Index[D]{value: math.MaxUint32}
}

// With returns a new index of the same domain holding v.
func (i Index[D]) With(v uint32) Index[D] {
	return Index[D]{value: v}
}

// Value returns the raw integer. It is the only way out of the domain.
func (i Index[D]) Value() uint32 {
	return i.value
}

// Valid reports whether i is not the Invalid sentinel.
func (i Index[D]) Valid() bool {
	return i.value != math.MaxUint32
}

// Domain returns the name of i's domain.
func (i Index[D]) Domain() string {
	var d D
	return d.Name()
}

// Equal reports whether i and o hold the same value.
func (i Index[D]) Equal(o Index[D]) bool { return i.value == o.value }

// EqualValue reports whether i holds v.
func (i Index[D]) EqualValue(v uint32) bool { return i.value == v }

// NotEqual reports whether i and o differ.
func (i Index[D]) NotEqual(o Index[D]) bool { return i.value != o.value }

// NotEqualValue reports whether i does not hold v.
func (i Index[D]) NotEqualValue(v uint32) bool { return i.value != v }

// Less reports whether i orders before o.
func (i Index[D]) Less(o Index[D]) bool { return i.value < o.value }

// LessValue reports whether i is below v.
func (i Index[D]) LessValue(v uint32) bool { return i.value < v }

// Greater reports whether i orders after o.
func (i Index[D]) Greater(o Index[D]) bool { return i.value > o.value }

// GreaterValue reports whether i is above v.
func (i Index[D]) GreaterValue(v uint32) bool { return i.value > v }

// GreaterEqual reports whether i does not order before o.
func (i Index[D]) GreaterEqual(o Index[D]) bool { return i.value >= o.value }

// GreaterEqualValue reports whether i is at least v.
func (i Index[D]) GreaterEqualValue(v uint32) bool { return i.value >= v }

// Compare returns -1, 0 or +1, for use with slices.SortFunc and friends.
func (i Index[D]) Compare(o Index[D]) int {
	switch {
	case i.value < o.value:
		return -1
	case i.value > o.value:
		return 1
	}
	return 0
}

// Inc increments i and returns the new value (pre-increment).
func (i *Index[D]) Inc() Index[D] {
	i.value++
	return *i
}

// PostInc increments i and returns the value it had before.
func (i *Index[D]) PostInc() Index[D] {
	prev := *i
	i.value++
	return prev
}

// Dec decrements i and returns the new value (pre-decrement).
func (i *Index[D]) Dec() Index[D] {
	i.value--
	return *i
}

// PostDec decrements i and returns the value it had before.
func (i *Index[D]) PostDec() Index[D] {
	prev := *i
	i.value--
	return prev
}

// Add returns i+o in the same domain.
func (i Index[D]) Add(o Index[D]) Index[D] { return Index[D]{value: i.value + o.value} }

// AddValue returns i+v in the same domain.
func (i Index[D]) AddValue(v uint32) Index[D] { return Index[D]{value: i.value + v} }

// Sub returns i-o in the same domain.
func (i Index[D]) Sub(o Index[D]) Index[D] { return Index[D]{value: i.value - o.value} }

// SubValue returns i-v in the same domain.
func (i Index[D]) SubValue(v uint32) Index[D] { return Index[D]{value: i.value - v} }

// AddAssign adds o to i in place and returns the result.
func (i *Index[D]) AddAssign(o Index[D]) Index[D] {
	i.value += o.value
	return *i
}

// AddAssignValue adds v to i in place and returns the result.
func (i *Index[D]) AddAssignValue(v uint32) Index[D] {
	i.value += v
	return *i
}

// SubAssign subtracts o from i in place and returns the result.
func (i *Index[D]) SubAssign(o Index[D]) Index[D] {
	i.value -= o.value
	return *i
}

// SubAssignValue subtracts v from i in place and returns the result.
func (i *Index[D]) SubAssignValue(v uint32) Index[D] {
	i.value -= v
	return *i
}

// SetValue assigns a raw value. Same-domain assignment is plain Go "=".
func (i *Index[D]) SetValue(v uint32) {
	i.value = v
}

// Hash returns the hash of the underlying integer, which is the integer
// itself. Equal values always hash identically.
func (i Index[D]) Hash() uint64 {
	return uint64(i.value)
}

// String renders the index as "domain:value", or "domain:invalid".
func (i Index[D]) String() string {
	if !i.Valid() {
		return i.Domain() + ":invalid"
	}
	return i.Domain() + ":" + strconv.FormatUint(uint64(i.value), 10)
}
