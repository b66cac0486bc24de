// Package enrich attaches contributor data from best-effort external sources.
package enrich

// Result is the outcome of a best-effort lookup. Callers treat every
// unavailable result the same way; Reason is for logs only.
type Result[T any] struct {
	Value     T
	Available bool
	Reason    string
}

// Found wraps a successful lookup
func Found[T any](v T) Result[T] {
	return Result[T]{Value: v, Available: true}
}

// Unavailable marks a lookup that produced nothing usable
func Unavailable[T any](reason string) Result[T] {
	return Result[T]{Reason: reason}
}

// ValueOr returns the value, or def when unavailable
func (r Result[T]) ValueOr(def T) T {
	if !r.Available {
		return def
	}
	return r.Value
}
