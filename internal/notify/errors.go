package notify

import "errors"

var (
	// ErrJobNotFound is returned when a job id does not exist in the store
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyClaimed is returned when claiming a job that is not
	// in QUEUED status (another worker got it first, or it was recycled)
	ErrJobAlreadyClaimed = errors.New("job already claimed or not queued")

	// ErrUnknownKind is returned when decoding a payload for a kind
	// this build does not recognize
	ErrUnknownKind = errors.New("unknown job kind")

	// ErrInvalidPayload is returned when a job payload fails to decode
	ErrInvalidPayload = errors.New("invalid job payload")

	// ErrInvalidCronSpec is returned when a recurring enqueue carries
	// an unparseable cron expression
	ErrInvalidCronSpec = errors.New("invalid cron spec")
)
