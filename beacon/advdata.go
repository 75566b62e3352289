package beacon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf8"
)

// MaxPayloadLen is the size of a legacy advertising data payload.
const MaxPayloadLen = 31

// Flags AD structure bits.
const (
	FlagLimitedDisc    uint8 = 0x01
	FlagGeneralDisc    uint8 = 0x02
	FlagBREDRNotSupp   uint8 = 0x04
	FlagDualController uint8 = 0x08
	FlagDualHost       uint8 = 0x10
)

// AD structure types, from the Bluetooth assigned numbers.
const (
	adFlags            = 0x01
	adUUID16Complete   = 0x03
	adShortLocalName   = 0x08
	adCompleteName     = 0x09
	adTxPower          = 0x0A
	adServiceData16    = 0x16
	adAppearance       = 0x19
	adManufacturerData = 0xFF
)

// ErrPayloadTooLong is returned when the advertising data does not fit in a
// single legacy advertising PDU.
var ErrPayloadTooLong = errors.New("beacon: advertising payload exceeds 31 bytes")

// ServiceData is a service data element keyed by a 16-bit service UUID.
type ServiceData struct {
	UUID uint16
	Data []byte
}

// AdvData describes the contents of the advertising payload. The name itself
// is not part of it: IncludeName pulls in the device name set on the stack.
type AdvData struct {
	SetScanRsp     bool
	IncludeName    bool
	IncludeTxPower bool

	// Preferred connection interval hint, in 1.25ms units. Only meaningful
	// for connectable advertising, so it is never encoded here.
	MinInterval uint16
	MaxInterval uint16

	Appearance       uint16
	// ManufacturerData starts with the little-endian company ID.
	ManufacturerData []byte
	ServiceData      []ServiceData
	ServiceUUIDs     []uint16
	Flags            uint8
}

// DefaultAdvData returns the name-only payload of the artifact beacon.
func DefaultAdvData() AdvData {
	return AdvData{
		SetScanRsp:     false,
		IncludeName:    true,
		IncludeTxPower: false,
		MinInterval:    0x0006,
		MaxInterval:    0x0010,
		Appearance:     0x00,
		Flags:          FlagGeneralDisc | FlagBREDRNotSupp,
	}
}

// Clone returns a deep copy, so the stack never shares slices with the
// caller.
func (d AdvData) Clone() AdvData {
	c := d
	c.ManufacturerData = append([]byte(nil), d.ManufacturerData...)
	c.ServiceUUIDs = append([]uint16(nil), d.ServiceUUIDs...)
	c.ServiceData = nil
	for _, sd := range d.ServiceData {
		c.ServiceData = append(c.ServiceData, ServiceData{UUID: sd.UUID, Data: append([]byte(nil), sd.Data...)})
	}
	return c
}

type payloadBuilder struct {
	buf []byte
}

func (b *payloadBuilder) free() int {
	return MaxPayloadLen - len(b.buf)
}

func (b *payloadBuilder) add(typ byte, data []byte) error {
	if len(data)+2 > b.free() {
		return fmt.Errorf("%w: AD type 0x%02x needs %d bytes, %d left", ErrPayloadTooLong, typ, len(data)+2, b.free())
	}
	b.buf = append(b.buf, byte(len(data)+1), typ)
	b.buf = append(b.buf, data...)
	return nil
}

// Encode renders the payload as a sequence of AD structures. The name is
// added last and is shortened (AD type 0x08) when the complete name does not
// fit in the remaining space. A shortened name is cut at a rune boundary.
func (d AdvData) Encode(name string, txPower int8) ([]byte, error) {
	raw, _, err := d.encode(name, txPower)
	return raw, err
}

// encode is Encode that also reports whether the name had to be shortened.
func (d AdvData) encode(name string, txPower int8) ([]byte, bool, error) {
	var b payloadBuilder
	if d.Flags != 0 {
		if err := b.add(adFlags, []byte{d.Flags}); err != nil {
			return nil, false, err
		}
	}
	if d.IncludeTxPower {
		if err := b.add(adTxPower, []byte{byte(txPower)}); err != nil {
			return nil, false, err
		}
	}
	if d.Appearance != 0 {
		if err := b.add(adAppearance, binary.LittleEndian.AppendUint16(nil, d.Appearance)); err != nil {
			return nil, false, err
		}
	}
	if len(d.ServiceUUIDs) != 0 {
		var uuids []byte
		for _, u := range d.ServiceUUIDs {
			uuids = binary.LittleEndian.AppendUint16(uuids, u)
		}
		if err := b.add(adUUID16Complete, uuids); err != nil {
			return nil, false, err
		}
	}
	for _, sd := range d.ServiceData {
		data := binary.LittleEndian.AppendUint16(nil, sd.UUID)
		if err := b.add(adServiceData16, append(data, sd.Data...)); err != nil {
			return nil, false, err
		}
	}
	if len(d.ManufacturerData) != 0 {
		if err := b.add(adManufacturerData, d.ManufacturerData); err != nil {
			return nil, false, err
		}
	}
	if d.IncludeName && name != "" {
		room := b.free() - 2
		if room <= 0 {
			return nil, false, fmt.Errorf("%w: no room for local name %q", ErrPayloadTooLong, name)
		}
		if len(name) <= room {
			b.add(adCompleteName, []byte(name))
			return b.buf, false, nil
		}
		for room > 0 && !utf8.RuneStart(name[room]) {
			room--
		}
		if room == 0 {
			return nil, false, fmt.Errorf("%w: no room for local name %q", ErrPayloadTooLong, name)
		}
		b.add(adShortLocalName, []byte(name[:room]))
		return b.buf, true, nil
	}
	return b.buf, false, nil
}
