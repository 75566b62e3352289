//go:build linux

// Package hcidev runs the beacon directly on a Linux HCI device, bypassing
// BlueZ, so that every advertising parameter reaches the controller as
// configured.
package hcidev

import (
	"errors"
	"fmt"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
	"github.com/go-ble/ble/linux/hci"
	"github.com/go-ble/ble/linux/hci/cmd"

	"github.com/trakieu/artifactbeacon/beacon"
)

var (
	ErrUnsupportedMode = errors.New("hcidev: only BLE mode is supported")
	ErrNotOpen         = errors.New("hcidev: device not open")
)

type sender interface {
	Send(c hci.Command, r hci.CommandRP) error
}

// Stack implements beacon.Stack on an HCI socket. Opening the socket needs
// CAP_NET_ADMIN, and the device should be down in BlueZ.
type Stack struct {
	id   int
	open func(id int) (sender, func() error, error)

	hci         sender
	close       func() error
	handler     beacon.EventHandler
	name        string
	advertising bool
}

// New returns a stack for hci<id>.
func New(id int) *Stack {
	return &Stack{
		id:      id,
		open:    openDevice,
		handler: beacon.NopHandler,
	}
}

func openDevice(id int) (sender, func() error, error) {
	d, err := linux.NewDevice(ble.OptDeviceID(id))
	if err != nil {
		return nil, nil, err
	}
	return d.HCI, d.Stop, nil
}

// ReleaseMemory is a no-op: controller memory belongs to the kernel driver.
func (s *Stack) ReleaseMemory(mode beacon.Mode) error {
	if mode == beacon.ModeBLE || mode == beacon.ModeDual {
		return fmt.Errorf("%w: cannot release %s memory", ErrUnsupportedMode, mode)
	}
	return nil
}

// InitController opens and resets the HCI device.
func (s *Stack) InitController() error {
	if s.hci != nil {
		return nil
	}
	h, closeFn, err := s.open(s.id)
	if err != nil {
		return fmt.Errorf("open hci%d: %w", s.id, err)
	}
	s.hci, s.close = h, closeFn
	return nil
}

// EnableController turns on LE host support and leaves BR/EDR alone.
func (s *Stack) EnableController(mode beacon.Mode) error {
	if mode != beacon.ModeBLE {
		return fmt.Errorf("%w: %s", ErrUnsupportedMode, mode)
	}
	if s.hci == nil {
		return ErrNotOpen
	}
	return s.hci.Send(&cmd.WriteLEHostSupport{LESupportedHost: 1, SimultaneousLEHost: 0}, nil)
}

func (s *Stack) InitHost() error {
	if s.hci == nil {
		return ErrNotOpen
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
	s.name = name
	return nil
}

func (s *Stack) ConfigureAdvData(data beacon.AdvData) error {
	err := s.configureAdvData(data)
	s.handler(beacon.Event{Type: beacon.EventAdvDataSetComplete, Err: err})
	return err
}

func (s *Stack) configureAdvData(data beacon.AdvData) error {
	if s.hci == nil {
		return ErrNotOpen
	}
	payload, err := data.Encode(s.name, 0)
	if err != nil {
		return err
	}
	c := &cmd.LESetAdvertisingData{AdvertisingDataLength: uint8(len(payload))}
	copy(c.AdvertisingData[:], payload)
	if err := s.hci.Send(c, nil); err != nil {
		return fmt.Errorf("set advertising data: %w", err)
	}
	return nil
}

func (s *Stack) StartAdvertising(params beacon.AdvParams) error {
	err := s.startAdvertising(params)
	s.handler(beacon.Event{Type: beacon.EventAdvStartComplete, Err: err})
	return err
}

func (s *Stack) startAdvertising(params beacon.AdvParams) error {
	if s.hci == nil {
		return ErrNotOpen
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := s.hci.Send(&cmd.LESetAdvertisingParameters{
		AdvertisingIntervalMin:  uint16(params.MinInterval),
		AdvertisingIntervalMax:  uint16(params.MaxInterval),
		AdvertisingType:         uint8(params.Type),
		OwnAddressType:          uint8(params.OwnAddrType),
		DirectAddressType:       0x00,
		DirectAddress:           [6]byte{},
		AdvertisingChannelMap:   uint8(params.ChannelMap),
		AdvertisingFilterPolicy: uint8(params.FilterPolicy),
	}, nil); err != nil {
		return fmt.Errorf("set advertising parameters: %w", err)
	}
	if err := s.hci.Send(&cmd.LESetAdvertiseEnable{AdvertisingEnable: 1}, nil); err != nil {
		return fmt.Errorf("enable advertising: %w", err)
	}
	s.advertising = true
	return nil
}

// Stop disables advertising and closes the device.
func (s *Stack) Stop() error {
	if s.hci == nil {
		return nil
	}
	var err error
	if s.advertising {
		err = s.hci.Send(&cmd.LESetAdvertiseEnable{AdvertisingEnable: 0}, nil)
		s.advertising = false
		s.handler(beacon.Event{Type: beacon.EventAdvStopComplete, Err: err})
	}
	if s.close != nil {
		err = errors.Join(err, s.close())
	}
	s.hci, s.close = nil, nil
	return err
}
