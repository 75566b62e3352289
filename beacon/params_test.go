package beacon

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestIntervalConversion(t *testing.T) {
	tests := []struct {
		interval Interval
		duration time.Duration
	}{
		{0x0020, 20 * time.Millisecond},
		{0x00A0, 100 * time.Millisecond},
		{0x00C8, 125 * time.Millisecond},
		{0x0140, 200 * time.Millisecond},
		{0x4000, 10240 * time.Millisecond},
	}
	for _, tc := range tests {
		if d := tc.interval.Duration(); d != tc.duration {
			t.Errorf("%d units: expected %s, got %s", tc.interval, tc.duration, d)
		}
		if i := IntervalFromDuration(tc.duration); i != tc.interval {
			t.Errorf("%s: expected %d units, got %d", tc.duration, tc.interval, i)
		}
	}
}

func TestAdvParamsValidate(t *testing.T) {
	valid := DefaultAdvParams()
	if err := valid.Validate(); err != nil {
		t.Fatalf("default parameters rejected: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*AdvParams)
		want   error
	}{
		{"below legal range", func(p *AdvParams) { p.MinInterval = 0x001F }, ErrInvalidInterval},
		{"above legal range", func(p *AdvParams) { p.MaxInterval = 0x4001 }, ErrInvalidInterval},
		{"min above max", func(p *AdvParams) { p.MinInterval, p.MaxInterval = 0x00C8, 0x00A0 }, ErrIntervalOrder},
		{"connectable undirected", func(p *AdvParams) { p.Type = AdvTypeInd }, ErrConnectable},
		{"connectable directed", func(p *AdvParams) { p.Type = AdvTypeDirectIndLow }, ErrConnectable},
		{"no channels", func(p *AdvParams) { p.ChannelMap = 0 }, ErrEmptyChannelMap},
	}
	for _, tc := range tests {
		p := valid
		tc.modify(&p)
		if err := p.Validate(); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	scannable := valid
	scannable.Type = AdvTypeScanInd
	if err := scannable.Validate(); err != nil {
		t.Errorf("scannable non-connectable type rejected: %v", err)
	}
}

func TestLogHandler(t *testing.T) {
	var buf bytes.Buffer
	h := LogHandler(slog.New(slog.NewTextHandler(&buf, nil)))

	h(Event{Type: EventAdvDataSetComplete})
	if buf.Len() != 0 {
		t.Errorf("unexpected log output for data-set event: %s", buf.String())
	}

	h(Event{Type: EventAdvStartComplete})
	if !strings.Contains(buf.String(), "level=INFO") || !strings.Contains(buf.String(), "advertising started") {
		t.Errorf("missing success line: %s", buf.String())
	}

	buf.Reset()
	h(Event{Type: EventAdvStartComplete, Err: errors.New("busy")})
	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "err=busy") {
		t.Errorf("missing failure line: %s", buf.String())
	}
}
