// Package retry provides a generic bounded-retry executor used by every
// network-calling component. The retry policy is a plain value passed per
// call site, so token acquisition can use a single retry while cold-start
// model downloads use ten, and tests can inject a no-retry policy.
package retry

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy describes the failure envelope for an operation: how many attempts
// to make, and how long to sleep between them.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Values below 1 are treated as 1.
	MaxAttempts int

	// Delay is the base sleep between attempts.
	Delay time.Duration

	// Exponential doubles the delay after each failed attempt when set;
	// otherwise the delay is constant.
	Exponential bool

	// Jitter randomizes each delay by up to +/- the given duration.
	Jitter time.Duration
}

// Constant returns a policy with a fixed delay between attempts.
func Constant(maxAttempts int, delay time.Duration) Policy {
	return Policy{MaxAttempts: maxAttempts, Delay: delay}
}

// Exponential returns a policy whose delay doubles after each attempt.
func Exponential(maxAttempts int, baseDelay time.Duration) Policy {
	return Policy{MaxAttempts: maxAttempts, Delay: baseDelay, Exponential: true}
}

// NoRetry returns a policy that executes the operation exactly once.
// Intended for tests and call sites that must fail fast.
func NoRetry() Policy {
	return Policy{MaxAttempts: 1}
}

// backoff converts the policy into a go-retry backoff chain.
func (p Policy) backoff() retry.Backoff {
	delay := p.Delay
	if delay <= 0 {
		delay = time.Second
	}

	var b retry.Backoff
	if p.Exponential {
		b = retry.NewExponential(delay)
	} else {
		b = retry.NewConstant(delay)
	}

	if p.Jitter > 0 {
		b = retry.WithJitter(p.Jitter, b)
	}

	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	return retry.WithMaxRetries(uint64(maxAttempts-1), b)
}

// Do executes op, retrying per the policy while isRetryable reports the
// returned error as transient. Non-retryable errors propagate immediately;
// after exhausting attempts the last error is surfaced unchanged. Sleeps
// respect ctx cancellation.
func Do(ctx context.Context, policy Policy, isRetryable func(error) bool, op func(ctx context.Context) error) error {
	return retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if isRetryable != nil && isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
