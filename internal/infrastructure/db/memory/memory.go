// Package memory provides in-process implementations of the repository ports.
// Every store owns its collection, serialises mutations behind a single
// RWMutex and hands out copies, so callers never share a record with it.
package memory

import "time"

// Option customises a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now for CreatedAt/UpdatedAt stamping.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
