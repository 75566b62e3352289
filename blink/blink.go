// Package blink drives an indicator output (LED or buzzer) with a fixed duty
// cycle, independently of the beacon.
package blink

import (
	"context"
	"time"
)

// Pin is a digital output. machine.Pin satisfies it.
type Pin interface {
	High()
	Low()
}

// Pattern is one on/off cycle.
type Pattern struct {
	On  time.Duration
	Off time.Duration
}

// DefaultPattern keeps the output on for half a second out of every three.
var DefaultPattern = Pattern{
	On:  500 * time.Millisecond,
	Off: 2500 * time.Millisecond,
}

// Period is the length of one cycle.
func (p Pattern) Period() time.Duration {
	return p.On + p.Off
}

// Run toggles pin with pattern until ctx is done. With a background context
// it never returns.
func Run(ctx context.Context, pin Pin, pattern Pattern) error {
	return run(ctx, pin, pattern, sleep)
}

func run(ctx context.Context, pin Pin, pattern Pattern, wait func(context.Context, time.Duration) error) error {
	for {
		pin.High()
		if err := wait(ctx, pattern.On); err != nil {
			pin.Low()
			return err
		}
		pin.Low()
		if err := wait(ctx, pattern.Off); err != nil {
			return err
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if ctx.Done() == nil {
		// Background context: plain sleep, no timer channel needed.
		time.Sleep(d)
		return nil
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
