package service

import (
	"context"
	"time"
)

// Latency holds the artificial delays applied to the auth calls, so that
// clients see a realistic round trip even on the in-memory backend.
type Latency struct {
	Authenticate     time.Duration
	Register         time.Duration
	VerifyEmail      time.Duration
	SendVerification time.Duration
}

// DefaultLatency returns the delays used when nothing is configured.
func DefaultLatency() Latency {
	return Latency{
		Authenticate:     time.Second,
		Register:         1500 * time.Millisecond,
		VerifyEmail:      time.Second,
		SendVerification: 800 * time.Millisecond,
	}
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
