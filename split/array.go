package split

import "time"

// Array is a sequence aligned row-by-row with a timeline. Len is the length
// of the leading dimension; Mask returns the rows whose selector is true.
type Array interface {
	Len() int
	Mask(sel []bool) Array
}

// Shaper is implemented by arrays with more than one dimension.
type Shaper interface {
	Shape() []int
}

// ShapeOf returns a's shape, or [Len()] when a does not implement Shaper.
func ShapeOf(a Array) []int {
	if s, ok := a.(Shaper); ok {
		return s.Shape()
	}
	return []int{a.Len()}
}

// Slice adapts any Go slice to Array.
type Slice[T any] []T

// Len returns the number of elements.
func (s Slice[T]) Len() int { return len(s) }

// Mask returns a new Slice holding the selected elements.
func (s Slice[T]) Mask(sel []bool) Array {
	out := make(Slice[T], 0, count(sel))
	for i, v := range s {
		if i < len(sel) && sel[i] {
			out = append(out, v)
		}
	}
	return out
}

// Matrix is a row-major 2-D array; rows form the leading dimension.
type Matrix [][]float64

// Len returns the number of rows.
func (m Matrix) Len() int { return len(m) }

// Shape returns [rows, cols]; cols is taken from the first row.
func (m Matrix) Shape() []int {
	if len(m) == 0 {
		return []int{0, 0}
	}
	return []int{len(m), len(m[0])}
}

// Mask returns the selected rows. Rows are shared, not copied.
func (m Matrix) Mask(sel []bool) Array {
	out := make(Matrix, 0, count(sel))
	for i, row := range m {
		if i < len(sel) && sel[i] {
			out = append(out, row)
		}
	}
	return out
}

// Between marks every timeline point t with from <= t < to.
func Between(timeline []time.Time, from, to time.Time) []bool {
	sel := make([]bool, len(timeline))
	for i, t := range timeline {
		sel[i] = !t.Before(from) && t.Before(to)
	}
	return sel
}

// Indices returns the positions of the true entries of sel.
func Indices(sel []bool) []int {
	idx := make([]int, 0, count(sel))
	for i, ok := range sel {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}

func count(sel []bool) int {
	n := 0
	for _, ok := range sel {
		if ok {
			n++
		}
	}
	return n
}
