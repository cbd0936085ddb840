package index

import "iter"

// Vector is a slice addressed by indices of domain D only.
//
// A Vector[Face, T] cannot be read with a PointIndex, which is the point of
// keeping per-face and per-point data in separate typed containers.
type Vector[D Domain, T any] struct {
	items []T
}

// NewVector returns a vector of n zero values.
func NewVector[D Domain, T any](n int) *Vector[D, T] {
	return &Vector[D, T]{items: make([]T, n)}
}

// Len returns the number of elements.
func (v *Vector[D, T]) Len() int {
	return len(v.items)
}

// End returns the index one past the last element.
func (v *Vector[D, T]) End() Index[D] {
	return Index[D]{value: uint32(len(v.items))}
}

// Contains reports whether i addresses an element.
func (v *Vector[D, T]) Contains(i Index[D]) bool {
	return uint64(i.value) < uint64(len(v.items))
}

// At returns the element at i. It panics if i is out of range, like a slice.
func (v *Vector[D, T]) At(i Index[D]) T {
	return v.items[i.value]
}

// Get returns the element at i and whether i was in range.
func (v *Vector[D, T]) Get(i Index[D]) (T, bool) {
	if !v.Contains(i) {
		var zero T
		return zero, false
	}
	return v.items[i.value], true
}

// Set stores x at i. It panics if i is out of range.
func (v *Vector[D, T]) Set(i Index[D], x T) {
	v.items[i.value] = x
}

// Append adds x and returns its index.
func (v *Vector[D, T]) Append(x T) Index[D] {
	v.items = append(v.items, x)
	return Index[D]{value: uint32(len(v.items) - 1)}
}

// Resize grows or shrinks the vector to n elements.
func (v *Vector[D, T]) Resize(n int) {
	if n <= len(v.items) {
		clear(v.items[n:])
		v.items = v.items[:n]
		return
	}
	v.items = append(v.items, make([]T, n-len(v.items))...)
}

// All iterates elements in index order.
func (v *Vector[D, T]) All() iter.Seq2[Index[D], T] {
	return func(yield func(Index[D], T) bool) {
		for i, x := range v.items {
			if !yield(Index[D]{value: uint32(i)}, x) {
				return
			}
		}
	}
}

// Range iterates the indices in [begin, end).
func Range[D Domain](begin, end Index[D]) iter.Seq[Index[D]] {
	return func(yield func(Index[D]) bool) {
		for i := begin; i.Less(end); i.Inc() {
			if !yield(i) {
				return
			}
		}
	}
}
