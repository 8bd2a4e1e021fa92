// Package clock provides cancelable time helpers for polling loops.
package clock

import (
	"context"
	"time"
)

// Sleep blocks for the duration, returning early with the context error if
// the context is canceled first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
