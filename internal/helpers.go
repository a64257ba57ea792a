package internal

// PanicOnError panics if given non-nil error.
// Should be used only for failures that indicate a bug, never for bad input.
func PanicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

// Must returns v, panicking like PanicOnError when err is set.
func Must[T any](v T, err error) T {
	PanicOnError(err)
	return v
}
