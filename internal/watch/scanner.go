//go:build linux

package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci/cmd"
)

// Passive scanning: a non-connectable beacon has no scan response to ask for.
var scanParams = cmd.LESetScanParameters{
	LEScanType:           0,    // Passive scanning
	LEScanInterval:       0x40, // 40ms
	LEScanWindow:         0x40, // 40ms
	OwnAddressType:       0,    // Public
	ScanningFilterPolicy: 0,    // Basic unfiltered
}

// Scanner reports every advertisement received on an HCI device.
type Scanner struct {
	DeviceID int
	Logger   *slog.Logger
}

// Run scans until ctx is done. Cancellation is a clean stop.
func (s *Scanner) Run(ctx context.Context, onObs func(Observation)) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("watch: opening device", "hci", s.DeviceID)
	dev, err := linux.NewDevice(ble.OptDeviceID(s.DeviceID), ble.OptScanParams(scanParams))
	if err != nil {
		return fmt.Errorf("open hci%d: %w", s.DeviceID, err)
	}
	defer dev.Stop()

	logger.Info("watch: scanning started")
	// Duplicates are needed to measure the advertising interval.
	err = dev.Scan(ctx, true, func(a ble.Advertisement) {
		onObs(Observation{
			Address:     a.Addr().String(),
			LocalName:   a.LocalName(),
			Connectable: a.Connectable(),
			RSSI:        a.RSSI(),
			SeenAt:      time.Now(),
		})
	})
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		logger.Info("watch: scanning stopped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
