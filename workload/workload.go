// Package workload provides the list-reduce implementations the
// benchmark compares. The three reductions compute the same sum but
// differ in per-element call overhead: a direct loop, a fold invoked
// with a two-argument closure, and a fold that goes through a curried
// function and so constructs an intermediate closure per element.
package workload

// MakeList returns the deterministic input list 1..n.
func MakeList(n int) []int {
	xs := make([]int, n)
	for i := range xs {
		xs[i] = i + 1
	}

	return xs
}

// SumLoop reduces xs with a direct loop. This is the form a compiler
// can do nothing wrong with and serves as the baseline.
func SumLoop(xs []int) int {
	sum := 0
	for _, x := range xs {
		sum += x
	}

	return sum
}

// Fold reduces xs with f, binding both arguments in a single call per
// element.
func Fold(xs []int, acc int, f func(acc, x int) int) int {
	for _, x := range xs {
		acc = f(acc, x)
	}

	return acc
}

// FoldCurried reduces xs through a curried f. Each element applies f
// to the accumulator first, producing a throwaway single-argument
// closure that is immediately applied to the element.
func FoldCurried(xs []int, acc int, f func(int) func(int) int) int {
	for _, x := range xs {
		acc = f(acc)(x)
	}

	return acc
}

// Add is the reduction function in direct form.
func Add(a, b int) int {
	return a + b
}

// AddCurried is Add in curried form. The returned closure captures a,
// which is what forces an allocation per element inside FoldCurried.
func AddCurried(a int) func(int) int {
	return func(b int) int {
		return a + b
	}
}
