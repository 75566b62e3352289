// Package watch observes artifact beacons over the air and checks what they
// broadcast.
package watch

import (
	"fmt"
	"sync"
	"time"

	"github.com/trakieu/artifactbeacon/beacon"
)

// Observation is one received advertising report.
type Observation struct {
	Address     string
	LocalName   string
	Connectable bool
	RSSI        int
	SeenAt      time.Time
}

// Expectation describes what a correctly configured beacon broadcasts.
type Expectation struct {
	Name        string
	MinInterval time.Duration
	MaxInterval time.Duration
}

// DefaultExpectation matches the artifact beacon.
func DefaultExpectation(name string) Expectation {
	return Expectation{
		Name:        name,
		MinInterval: beacon.MinBeaconInterval,
		MaxInterval: beacon.MaxBeaconInterval,
	}
}

const (
	// Reports closer together than this are the same advertising event
	// received on two channels.
	sameEventGap = 5 * time.Millisecond
	// Controllers add up to 10ms of random delay to every event.
	advDelayMax = 10 * time.Millisecond
	// Gaps needed before the interval estimate is trusted.
	minGaps = 5
)

// Result is the outcome of verifying one observation.
type Result struct {
	Observation
	// Interval is the shortest gap seen between advertising events of this
	// address, or zero until enough gaps were seen. Random advertising delay
	// can make it up to 10ms shorter than the configured interval.
	Interval   time.Duration
	Violations []string
}

// OK reports whether the observation showed no violation.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

type history struct {
	last   time.Time
	gaps   int
	minGap time.Duration
}

// Verifier checks observations against an expectation and keeps per-address
// interval estimates. It is safe for concurrent use.
type Verifier struct {
	expect Expectation

	mu   sync.Mutex
	seen map[string]*history
}

func NewVerifier(expect Expectation) *Verifier {
	return &Verifier{
		expect: expect,
		seen:   make(map[string]*history),
	}
}

// Matches reports whether obs comes from the expected artifact.
func (v *Verifier) Matches(obs Observation) bool {
	return obs.LocalName == v.expect.Name
}

// Verify records obs and returns the violations it shows. Observations of
// other devices must be filtered with Matches first.
func (v *Verifier) Verify(obs Observation) Result {
	res := Result{Observation: obs}
	if obs.LocalName != v.expect.Name {
		res.Violations = append(res.Violations, fmt.Sprintf("name %q, expected %q", obs.LocalName, v.expect.Name))
	}
	if obs.Connectable {
		res.Violations = append(res.Violations, "advertising is connectable")
	}

	res.Interval = v.record(obs)
	if res.Interval != 0 {
		// Gaps vary by up to advDelayMax either way around the interval.
		if res.Interval < v.expect.MinInterval-advDelayMax {
			res.Violations = append(res.Violations, fmt.Sprintf("interval %s below %s", res.Interval, v.expect.MinInterval))
		}
		if res.Interval > v.expect.MaxInterval+advDelayMax {
			res.Violations = append(res.Violations, fmt.Sprintf("interval %s above %s", res.Interval, v.expect.MaxInterval))
		}
	}
	return res
}

func (v *Verifier) record(obs Observation) time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()

	h := v.seen[obs.Address]
	if h == nil {
		v.seen[obs.Address] = &history{last: obs.SeenAt}
		return 0
	}
	gap := obs.SeenAt.Sub(h.last)
	if gap < sameEventGap {
		// Same event on another channel, or a report out of order.
		return h.estimate()
	}
	h.last = obs.SeenAt
	h.gaps++
	if h.minGap == 0 || gap < h.minGap {
		h.minGap = gap
	}
	return h.estimate()
}

func (h *history) estimate() time.Duration {
	if h.gaps < minGaps {
		return 0
	}
	return h.minGap
}
