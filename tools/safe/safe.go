package safe

import (
	"fmt"
	"reflect"

	"PMeet/logger"
)

// MustNotNil panics if the given value is nil.
// Useful for enforcing required fields during struct initialization.
func MustNotNil(v any, name string) {
	if v == nil || reflect.ValueOf(v).IsNil() {
		panic(fmt.Sprintf("%s must not be nil", name))
	}
}

// DefaultString returns the dereferenced value of a string pointer,
// or the fallback if the pointer is nil.
func DefaultString(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// DefaultInt returns the dereferenced value of an int pointer,
// or the fallback if the pointer is nil.
func DefaultInt(i *int, fallback int) int {
	if i == nil {
		return fallback
	}
	return *i
}

// Go starts a new goroutine that recovers from panic,
// so that panics don't crash the entire program.
func Go(f func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Errorf("[safe.Go] panic recovered: %v", r)
			}
		}()
		f()
	}()
}

// Recover is meant to be deferred at a dispatch boundary: a fault while
// handling one event must not take the process down with it.
func Recover(where string) {
	if r := recover(); r != nil {
		logger.Errorf("[%s] panic recovered: %v", where, r)
	}
}
