package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryDelay(t *testing.T) {
	tests := []struct {
		name         string
		initial      time.Duration
		attemptsMade int
		want         time.Duration
	}{
		{
			name:         "first retry uses the initial delay",
			initial:      2 * time.Second,
			attemptsMade: 1,
			want:         2 * time.Second,
		},
		{
			name:         "second retry doubles",
			initial:      2 * time.Second,
			attemptsMade: 2,
			want:         4 * time.Second,
		},
		{
			name:         "third retry doubles again",
			initial:      2 * time.Second,
			attemptsMade: 3,
			want:         8 * time.Second,
		},
		{
			name:         "zero initial falls back to the default",
			initial:      0,
			attemptsMade: 1,
			want:         DefaultBackoffInitial,
		},
		{
			name:         "attempts below one are clamped",
			initial:      time.Second,
			attemptsMade: 0,
			want:         time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RetryDelay(tt.initial, tt.attemptsMade))
		})
	}
}

func TestJobBackoffBase(t *testing.T) {
	job := &Job{BackoffInitialMS: 2000}
	assert.Equal(t, 2*time.Second, job.BackoffBase())
}
