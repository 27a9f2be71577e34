package database

import (
	"context"
	"time"
)

// Pinger is a backing service that can report its reachability.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every service and returns the failures keyed by name.
// An empty map means all services are reachable.
func CheckAll(ctx context.Context, timeout time.Duration, services ...Pinger) map[string]string {
	failures := make(map[string]string)
	for _, s := range services {
		if s == nil {
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		if err := s.Ping(pingCtx); err != nil {
			failures[s.Name()] = err.Error()
		}
		cancel()
	}
	return failures
}
