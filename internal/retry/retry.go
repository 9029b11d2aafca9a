package retry

import (
	"time"

	"hrcraft/internal/fault"
)

// Policy bounds re-invocation of a failed operation with exponential backoff.
// The zero value runs the operation once with no retries.
type Policy struct {
	MaxAttempts int
	MinWait     time.Duration
	MaxWait     time.Duration

	// Retryable decides whether a failure is worth another attempt.
	// Nil means every failure is retried.
	Retryable func(error) bool

	// Sleep replaces time.Sleep in tests. Nil means time.Sleep.
	Sleep func(time.Duration)
}

// CloudPolicy tunes backoff for a remote completion API.
func CloudPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinWait:     1 * time.Second,
		MaxWait:     10 * time.Second,
		Retryable:   fault.Retryable,
	}
}

// LocalPolicy tunes backoff for a local inference service, which may still be
// loading a model when the first request arrives.
func LocalPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		MinWait:     2 * time.Second,
		MaxWait:     15 * time.Second,
		Retryable:   fault.Retryable,
	}
}

// Do runs op up to p.MaxAttempts times. The wait before re-running after the
// k-th failure is min(MaxWait, MinWait*2^(k-1)); there is no wait after the
// final attempt. The last error is returned unchanged so callers see the true
// failure kind.
func Do(op func() error, p Policy) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	var last error
	wait := p.MinWait
	if wait > p.MaxWait {
		wait = p.MaxWait
	}
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		last = op()
		if last == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(last) {
			return last
		}
		if attempt == p.MaxAttempts {
			break
		}
		sleep(wait)
		wait *= 2
		if wait > p.MaxWait {
			wait = p.MaxWait
		}
	}
	return last
}
