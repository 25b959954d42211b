package httpclient

import (
	"math/rand"
	"time"
)

// RetryPolicy controls retries of transport failures. Any HTTP response,
// whatever its status, ends the attempt loop.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Jitter     bool
}

const (
	defaultBaseDelay = 200 * time.Millisecond
	defaultMaxDelay  = 5 * time.Second
)

func (p RetryPolicy) normalized() RetryPolicy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	p.MaxDelay = max(p.MaxDelay, p.BaseDelay)
	p.MaxRetries = max(p.MaxRetries, 0)
	return p
}

// wait is the pause before retry number attempt (0 for the first retry).
func (p RetryPolicy) wait(attempt int) time.Duration {
	return backoff(attempt, p.BaseDelay, p.MaxDelay, p.Jitter)
}

// backoff doubles base per attempt up to ceiling; jitter spreads the
// result over [d/2, 3d/2).
func backoff(attempt int, base, ceiling time.Duration, jitter bool) time.Duration {
	d := base << attempt
	if d > ceiling || d <= 0 {
		d = ceiling
	}
	half := d / 2
	if !jitter || half <= 0 {
		return d
	}
	return half + time.Duration(rand.Int63n(int64(d))) // #nosec G404 non-crypto
}
