// Package opt carries a value or an error through a channel.
package opt

// Result holds either a produced value or the error that prevented it.
type Result[T any] struct {
	Ok  T
	Err error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{
		Ok:  v,
		Err: nil,
	}
}

func Err[T any](err error) Result[T] {
	//nolint:exhaustruct
	return Result[T]{
		Err: err,
	}
}

// Get returns the value and the error.
func (r Result[T]) Get() (T, error) {
	return r.Ok, r.Err
}
