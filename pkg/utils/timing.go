package utils

import (
	"sync"
	"time"
)

// Debounce returns call, which delays fn until wait has passed without
// another call, and stop, which drops any pending invocation. Only the last
// argument of a burst reaches fn.
func Debounce[T any](fn func(T), wait time.Duration) (call func(T), stop func()) {
	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	call = func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(wait, func() {
			fn(arg)
		})
	}

	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
			timer = nil
		}
	}

	return call, stop
}

// Throttle returns a function that runs fn at most once per limit. The first
// call runs immediately; calls inside the window are dropped.
func Throttle[T any](fn func(T), limit time.Duration) func(T) {
	var (
		mu   sync.Mutex
		last time.Time
		ran  bool
	)

	return func(arg T) {
		mu.Lock()
		now := time.Now()
		if ran && now.Sub(last) < limit {
			mu.Unlock()
			return
		}
		ran = true
		last = now
		mu.Unlock()

		fn(arg)
	}
}
