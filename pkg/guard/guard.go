// Package guard provides a mutual-exclusion lock that becomes unusable once a
// critical section panics. Callers observe the broken state as ErrPoisoned on
// every subsequent acquisition instead of operating on possibly inconsistent data.
package guard

import (
	"errors"
	"fmt"
	"sync"
)

// ErrPoisoned is returned when the lock was poisoned by a panic in an earlier
// critical section.
var ErrPoisoned = errors.New("lock poisoned")

// Mutex is an exclusive lock with poisoning semantics.
// The zero value is an unlocked, healthy mutex.
type Mutex struct {
	mu       sync.Mutex
	poisoned bool
	cause    any
}

// Do runs fn while holding the lock. If the lock is already poisoned, fn is not
// run and ErrPoisoned is returned. If fn panics, the lock is poisoned, released,
// and the panic is returned as an error wrapping ErrPoisoned.
func (m *Mutex) Do(fn func() error) (err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.poisoned {
		return fmt.Errorf("%w: %v", ErrPoisoned, m.cause)
	}

	defer func() {
		if r := recover(); r != nil {
			m.poisoned = true
			m.cause = r
			err = fmt.Errorf("%w: panic: %v", ErrPoisoned, r)
		}
	}()

	return fn()
}

// Value runs fn under m and returns its result. It is the value-returning
// counterpart of Mutex.Do.
func Value[T any](m *Mutex, fn func() (T, error)) (T, error) {
	var result T
	err := m.Do(func() error {
		var err error
		result, err = fn()
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
