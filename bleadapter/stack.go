// Package bleadapter runs the beacon on the TinyGo Bluetooth package, which
// drives the SoftDevice or HCI controller on microcontrollers and BlueZ on
// Linux hosts.
package bleadapter

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/trakieu/artifactbeacon/beacon"
	"tinygo.org/x/bluetooth"
)

var (
	ErrUnsupportedMode = errors.New("bleadapter: only BLE mode is supported")
	ErrUnsupported     = errors.New("bleadapter: not supported by the bluetooth package")
	ErrNotEnabled      = errors.New("bleadapter: controller not enabled")
	ErrNotConfigured   = errors.New("bleadapter: advertising data not configured")
)

// maxNameLen is what fits next to the flags in a legacy payload.
const maxNameLen = beacon.MaxPayloadLen - 3 - 2

type advertiser interface {
	Configure(options bluetooth.AdvertisementOptions) error
	Start() error
	Stop() error
}

// Stack implements beacon.Stack on a bluetooth.Adapter. The adapter owns the
// host stack, so the host steps only check that the controller is up.
type Stack struct {
	enable func() (advertiser, error)

	adv         advertiser
	handler     beacon.EventHandler
	name        string
	options     *bluetooth.AdvertisementOptions
	advertising bool
}

// New returns a stack that advertises on adapter. Use
// bluetooth.DefaultAdapter on microcontrollers.
func New(adapter *bluetooth.Adapter) *Stack {
	return &Stack{
		enable: func() (advertiser, error) {
			if err := adapter.Enable(); err != nil {
				return nil, err
			}
			return adapter.DefaultAdvertisement(), nil
		},
		handler: beacon.NopHandler,
	}
}

// ReleaseMemory is a no-op: there is no classic controller to release.
func (s *Stack) ReleaseMemory(mode beacon.Mode) error {
	if mode == beacon.ModeBLE || mode == beacon.ModeDual {
		return fmt.Errorf("%w: cannot release %s memory", ErrUnsupportedMode, mode)
	}
	return nil
}

// InitController is a no-op; Enable initializes the controller.
func (s *Stack) InitController() error {
	return nil
}

func (s *Stack) EnableController(mode beacon.Mode) error {
	if mode != beacon.ModeBLE {
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if s.adv != nil {
		return nil
	}
	adv, err := s.enable()
	if err != nil {
		return err
	}
	s.adv = adv
	return nil
}

func (s *Stack) InitHost() error {
	if s.adv == nil {
		return ErrNotEnabled
	}
	return nil
}

func (s *Stack) EnableHost() error {
	return s.InitHost()
}

func (s *Stack) RegisterCallback(handler beacon.EventHandler) error {
	if handler == nil {
		handler = beacon.NopHandler
	}
	s.handler = handler
	return nil
}

func (s *Stack) SetDeviceName(name string) error {
	if len(name) > maxNameLen {
		return fmt.Errorf("%w: name %q longer than %d bytes", beacon.ErrPayloadTooLong, name, maxNameLen)
	}
	s.name = name
	return nil
}

// ConfigureAdvData translates data into advertisement options. They are
// applied together with the parameters when advertising starts.
func (s *Stack) ConfigureAdvData(data beacon.AdvData) error {
	opts, err := advertisementOptions(s.name, data)
	if err != nil {
		s.handler(beacon.Event{Type: beacon.EventAdvDataSetComplete, Err: err})
		return err
	}
	s.options = &opts
	s.handler(beacon.Event{Type: beacon.EventAdvDataSetComplete})
	return nil
}

func (s *Stack) StartAdvertising(params beacon.AdvParams) error {
	err := s.startAdvertising(params)
	s.handler(beacon.Event{Type: beacon.EventAdvStartComplete, Err: err})
	return err
}

func (s *Stack) startAdvertising(params beacon.AdvParams) error {
	if s.adv == nil {
		return ErrNotEnabled
	}
	if s.options == nil {
		return ErrNotConfigured
	}
	opts := *s.options
	if err := applyParams(&opts, params); err != nil {
		return err
	}
	if err := s.adv.Configure(opts); err != nil {
		return fmt.Errorf("configure advertisement: %w", err)
	}
	if err := s.adv.Start(); err != nil {
		s.adv.Stop()
		return fmt.Errorf("start advertisement: %w", err)
	}
	s.advertising = true
	return nil
}

// Stop stops advertising. Firmware never calls it; hosts do on shutdown.
func (s *Stack) Stop() error {
	if !s.advertising {
		return nil
	}
	s.advertising = false
	err := s.adv.Stop()
	s.handler(beacon.Event{Type: beacon.EventAdvStopComplete, Err: err})
	return err
}

func advertisementOptions(name string, data beacon.AdvData) (bluetooth.AdvertisementOptions, error) {
	var opts bluetooth.AdvertisementOptions
	if data.Flags != beacon.FlagGeneralDisc|beacon.FlagBREDRNotSupp {
		return opts, fmt.Errorf("%w: flags 0x%02x", ErrUnsupported, data.Flags)
	}
	if data.SetScanRsp || data.IncludeTxPower || data.Appearance != 0 || len(data.ServiceData) != 0 {
		return opts, fmt.Errorf("%w: scan response, tx power, appearance or service data", ErrUnsupported)
	}
	// Catch an oversized payload here rather than in the controller.
	if _, err := data.Encode(name, 0); err != nil {
		return opts, err
	}
	if data.IncludeName {
		opts.LocalName = name
	}
	for _, u := range data.ServiceUUIDs {
		opts.ServiceUUIDs = append(opts.ServiceUUIDs, bluetooth.New16BitUUID(u))
	}
	if len(data.ManufacturerData) != 0 {
		if len(data.ManufacturerData) < 2 {
			return opts, fmt.Errorf("%w: manufacturer data without company ID", ErrUnsupported)
		}
		opts.ManufacturerData = []bluetooth.ManufacturerDataElement{{
			CompanyID: binary.LittleEndian.Uint16(data.ManufacturerData),
			Data:      append([]byte(nil), data.ManufacturerData[2:]...),
		}}
	}
	return opts, nil
}

func applyParams(opts *bluetooth.AdvertisementOptions, params beacon.AdvParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	switch params.Type {
	case beacon.AdvTypeNonConnInd:
		opts.AdvertisementType = bluetooth.AdvertisingTypeNonConnInd
	case beacon.AdvTypeScanInd:
		opts.AdvertisementType = bluetooth.AdvertisingTypeScanInd
	default:
		return fmt.Errorf("%w: advertising type %s", ErrUnsupported, params.Type)
	}
	// The package always uses the public address, all three channels and
	// no filter list.
	if params.OwnAddrType != beacon.AddrTypePublic || params.ChannelMap != beacon.ChannelsAll || params.FilterPolicy != beacon.FilterAllowScanAnyConnAny {
		return fmt.Errorf("%w: address type, channel map or filter policy", ErrUnsupported)
	}
	// A single interval is supported; both use 0.625ms units.
	opts.Interval = bluetooth.Duration(params.MinInterval)
	return nil
}
