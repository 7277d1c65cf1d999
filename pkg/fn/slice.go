// Package fn provides small generic slice helpers used across the
// engine packages.
package fn

// Map applies f to each element.
func Map[T, U any](items []T, f func(T) U) []U {
	out := make([]U, len(items))
	for i, v := range items {
		out[i] = f(v)
	}
	return out
}

// Filter returns elements where pred is true.
func Filter[T any](items []T, pred func(T) bool) []T {
	var out []T
	for _, v := range items {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}

// FilterMap applies f and keeps results where ok is true.
func FilterMap[T, U any](items []T, f func(T) (U, bool)) []U {
	var out []U
	for _, v := range items {
		if u, ok := f(v); ok {
			out = append(out, u)
		}
	}
	return out
}

// IndexBy builds a map from key(item) to item. Later items win on
// duplicate keys.
func IndexBy[T any, K comparable](items []T, key func(T) K) map[K]T {
	out := make(map[K]T, len(items))
	for _, v := range items {
		out[key(v)] = v
	}
	return out
}

// SumBy folds items into a float64 total.
func SumBy[T any](items []T, f func(T) float64) float64 {
	var total float64
	for _, v := range items {
		total += f(v)
	}
	return total
}

// Truncate returns at most n leading elements as a fresh slice.
func Truncate[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n > len(items) {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
