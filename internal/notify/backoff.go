package notify

import "time"

// Retry policy defaults, applied to every enqueue
const (
	DefaultMaxAttempts    = 3
	DefaultBackoffInitial = 2 * time.Second
)

// RetryDelay returns the wait before the next attempt after
// attemptsMade failed attempts: initial, 2*initial, 4*initial, ...
func RetryDelay(initial time.Duration, attemptsMade int) time.Duration {
	if initial <= 0 {
		initial = DefaultBackoffInitial
	}
	if attemptsMade < 1 {
		attemptsMade = 1
	}
	return initial << (attemptsMade - 1)
}
