package randutil

// StepSizes returns the row-major step size of each dimension in dims, i.e.
// steps[i] is the flat-index stride contributed by a unit change in
// values[i]. steps[len(dims)-1] == 1 and steps[0] == product(dims[1:]).
func StepSizes(dims []int) []int {
	steps := make([]int, len(dims))
	stride := 1
	for i := len(dims) - 1; i >= 0; i-- {
		steps[i] = stride
		stride *= dims[i]
	}
	return steps
}

// Project folds a multi-dimensional tuple of values into a single flat
// index using row-major step sizes derived from dims.
func Project(values, dims []int) int {
	return ProjectUsingStepSizes(values, StepSizes(dims))
}

// ProjectUsingStepSizes folds values into a flat index given precomputed
// step sizes (use this in hot loops, e.g. DBN CPT lookups, to avoid
// recomputing StepSizes on every call).
func ProjectUsingStepSizes(values, steps []int) int {
	idx := 0
	for i, v := range values {
		idx += v * steps[i]
	}
	return idx
}

// ProjectUsingDimensions is the inverse of Project: it expands a flat index
// back into the multi-dimensional tuple it was derived from.
func ProjectUsingDimensions(index int, dims []int) []int {
	values := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		values[i] = index % dims[i]
		index /= dims[i]
	}
	return values
}

// Increment advances values by one row-major "tick" of an odometer over
// dims, wrapping each digit in place. It returns true (carry) once values
// has enumerated all product(dims) tuples and wrapped back to all-zero.
func Increment(values, dims []int) (carry bool) {
	for i := len(values) - 1; i >= 0; i-- {
		values[i]++
		if values[i] < dims[i] {
			return false
		}
		values[i] = 0
	}
	return true
}

// Product returns the product of dims (the size of the space they index),
// 1 for an empty slice.
func Product(dims []int) int {
	p := 1
	for _, d := range dims {
		p *= d
	}
	return p
}
