// Package beacon brings up a non-connectable BLE advertising beacon that
// broadcasts a fixed artifact name. All radio work is done by the Stack it is
// given; this package only drives the startup sequence with fixed values.
package beacon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ArtifactName is the identifier broadcast by the beacon.
const ArtifactName = "TraKieu_Apsara_Relief"

// Bounds every beacon interval must stay within.
const (
	MinBeaconInterval = 100 * time.Millisecond
	MaxBeaconInterval = 200 * time.Millisecond
)

// ErrIntervalBounds is returned when the advertising interval leaves the
// 100ms to 200ms window.
var ErrIntervalBounds = errors.New("beacon: interval outside 100ms-200ms")

// Step is one stage of the startup sequence.
type Step uint8

const (
	StepReleaseMemory Step = iota
	StepInitController
	StepEnableController
	StepInitHost
	StepEnableHost
	StepRegisterCallback
	StepSetDeviceName
	StepConfigureAdvData
	StepStartAdvertising
)

var stepNames = [...]string{
	StepReleaseMemory:    "release classic memory",
	StepInitController:   "init controller",
	StepEnableController: "enable controller",
	StepInitHost:         "init host",
	StepEnableHost:       "enable host",
	StepRegisterCallback: "register callback",
	StepSetDeviceName:    "set device name",
	StepConfigureAdvData: "configure advertising data",
	StepStartAdvertising: "start advertising",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("Step(%d)", uint8(s))
}

// StepError reports the step at which startup stopped.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return e.Step.String() + " failed: " + e.Err.Error()
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Config is the fixed configuration of a beacon.
type Config struct {
	Name    string
	Params  AdvParams
	Data    AdvData
	Handler EventHandler

	// SettleDelay is waited between configuring the advertising data and
	// starting advertising.
	SettleDelay time.Duration

	Logger *slog.Logger
}

// DefaultConfig returns the configuration of the artifact beacon.
func DefaultConfig() Config {
	return Config{
		Name:        ArtifactName,
		Params:      DefaultAdvParams(),
		Data:        DefaultAdvData(),
		SettleDelay: 100 * time.Millisecond,
	}
}

// Validate checks that the configuration describes a non-connectable beacon
// whose complete name fits in the advertising payload.
func (c Config) Validate() error {
	if c.Name == "" {
		return errors.New("beacon: empty device name")
	}
	if err := c.Params.Validate(); err != nil {
		return err
	}
	if c.Params.MinInterval.Duration() < MinBeaconInterval || c.Params.MaxInterval.Duration() > MaxBeaconInterval {
		return fmt.Errorf("%w: %s..%s", ErrIntervalBounds, c.Params.MinInterval, c.Params.MaxInterval)
	}
	_, shortened, err := c.Data.encode(c.Name, 0)
	if err != nil {
		return err
	}
	if shortened {
		// Scanners identify the artifact by its complete name.
		return fmt.Errorf("%w: name %q would be shortened", ErrPayloadTooLong, c.Name)
	}
	return nil
}

// Start runs the startup sequence on stack. The first step that fails stops
// the sequence: nothing is retried or undone, and the returned *StepError
// names the step. The stack is left not advertising in that case.
func Start(ctx context.Context, stack Stack, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	handler := cfg.Handler
	if handler == nil {
		handler = NopHandler
	}
	data := cfg.Data.Clone()

	steps := []struct {
		step Step
		run  func() error
	}{
		{StepReleaseMemory, func() error { return stack.ReleaseMemory(ModeClassic) }},
		{StepInitController, stack.InitController},
		{StepEnableController, func() error { return stack.EnableController(ModeBLE) }},
		{StepInitHost, stack.InitHost},
		{StepEnableHost, stack.EnableHost},
		{StepRegisterCallback, func() error { return stack.RegisterCallback(handler) }},
		{StepSetDeviceName, func() error { return stack.SetDeviceName(cfg.Name) }},
		{StepConfigureAdvData, func() error { return stack.ConfigureAdvData(data) }},
		{StepStartAdvertising, func() error {
			if err := sleep(ctx, cfg.SettleDelay); err != nil {
				return err
			}
			return stack.StartAdvertising(cfg.Params)
		}},
	}
	for _, s := range steps {
		logger.Debug("beacon: step", "step", s.step)
		if err := s.run(); err != nil {
			logger.Error("beacon: startup aborted", "step", s.step, "err", err)
			return &StepError{Step: s.step, Err: err}
		}
	}
	logger.Debug("beacon: startup complete", "name", cfg.Name, "min_interval", cfg.Params.MinInterval, "max_interval", cfg.Params.MaxInterval)
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
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
