package beacon

import (
	"errors"
	"fmt"
	"time"
)

// Interval is an advertising interval in units of 0.625ms, the unit used by
// the LE Set Advertising Parameters command.
type Interval uint16

// Legal range for legacy advertising intervals (20ms to 10.24s).
const (
	IntervalMin Interval = 0x0020
	IntervalMax Interval = 0x4000
)

const intervalUnit = 625 * time.Microsecond

// IntervalFromDuration converts a duration to the nearest lower interval
// count.
func IntervalFromDuration(d time.Duration) Interval {
	return Interval(d / intervalUnit)
}

// Duration returns the interval as a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i) * intervalUnit
}

// Valid reports whether the interval is within the range a controller will
// accept.
func (i Interval) Valid() bool {
	return i >= IntervalMin && i <= IntervalMax
}

func (i Interval) String() string {
	return fmt.Sprintf("0x%04X (%s)", uint16(i), i.Duration())
}

// AdvType is the advertising PDU type.
type AdvType uint8

const (
	AdvTypeInd           AdvType = 0x00 // connectable, scannable, undirected
	AdvTypeDirectIndHigh AdvType = 0x01
	AdvTypeScanInd       AdvType = 0x02
	AdvTypeNonConnInd    AdvType = 0x03 // non-connectable, undirected
	AdvTypeDirectIndLow  AdvType = 0x04
)

// Connectable reports whether a central may connect in response to this
// advertising type.
func (t AdvType) Connectable() bool {
	switch t {
	case AdvTypeInd, AdvTypeDirectIndHigh, AdvTypeDirectIndLow:
		return true
	}
	return false
}

func (t AdvType) String() string {
	switch t {
	case AdvTypeInd:
		return "ADV_IND"
	case AdvTypeDirectIndHigh:
		return "ADV_DIRECT_IND_HIGH"
	case AdvTypeScanInd:
		return "ADV_SCAN_IND"
	case AdvTypeNonConnInd:
		return "ADV_NONCONN_IND"
	case AdvTypeDirectIndLow:
		return "ADV_DIRECT_IND_LOW"
	default:
		return fmt.Sprintf("AdvType(0x%02x)", uint8(t))
	}
}

// AddrType is the type of address the controller advertises with.
type AddrType uint8

const (
	AddrTypePublic    AddrType = 0x00
	AddrTypeRandom    AddrType = 0x01
	AddrTypeRPAPublic AddrType = 0x02
	AddrTypeRPARandom AddrType = 0x03
)

// ChannelMap selects the primary advertising channels.
type ChannelMap uint8

const (
	Channel37   ChannelMap = 0x01
	Channel38   ChannelMap = 0x02
	Channel39   ChannelMap = 0x04
	ChannelsAll            = Channel37 | Channel38 | Channel39
)

// FilterPolicy decides which scan and connection requests are processed.
type FilterPolicy uint8

const (
	FilterAllowScanAnyConnAny   FilterPolicy = 0x00
	FilterAllowScanWlstConnAny  FilterPolicy = 0x01
	FilterAllowScanAnyConnWlst  FilterPolicy = 0x02
	FilterAllowScanWlstConnWlst FilterPolicy = 0x03
)

var (
	ErrInvalidInterval = errors.New("beacon: advertising interval out of range")
	ErrIntervalOrder   = errors.New("beacon: minimum interval greater than maximum")
	ErrConnectable     = errors.New("beacon: advertising type is connectable")
	ErrEmptyChannelMap = errors.New("beacon: no advertising channel selected")
)

// AdvParams holds the values of an LE Set Advertising Parameters command.
type AdvParams struct {
	MinInterval  Interval
	MaxInterval  Interval
	Type         AdvType
	OwnAddrType  AddrType
	ChannelMap   ChannelMap
	FilterPolicy FilterPolicy
}

// DefaultAdvParams returns the parameters the artifact beacon advertises
// with: non-connectable, undirected, 100ms to 125ms, all channels.
func DefaultAdvParams() AdvParams {
	return AdvParams{
		MinInterval:  0x00A0,
		MaxInterval:  0x00C8,
		Type:         AdvTypeNonConnInd,
		OwnAddrType:  AddrTypePublic,
		ChannelMap:   ChannelsAll,
		FilterPolicy: FilterAllowScanAnyConnAny,
	}
}

// Validate checks the parameters for a non-connectable beacon.
func (p AdvParams) Validate() error {
	if !p.MinInterval.Valid() {
		return fmt.Errorf("%w: min %s", ErrInvalidInterval, p.MinInterval)
	}
	if !p.MaxInterval.Valid() {
		return fmt.Errorf("%w: max %s", ErrInvalidInterval, p.MaxInterval)
	}
	if p.MinInterval > p.MaxInterval {
		return fmt.Errorf("%w: %s > %s", ErrIntervalOrder, p.MinInterval, p.MaxInterval)
	}
	if p.Type.Connectable() {
		return fmt.Errorf("%w: %s", ErrConnectable, p.Type)
	}
	if p.ChannelMap&ChannelsAll == 0 {
		return ErrEmptyChannelMap
	}
	return nil
}
