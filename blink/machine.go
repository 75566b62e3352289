//go:build tinygo

package blink

import (
	"machine"

	"tinygo.org/x/drivers/buzzer"
)

// Output configures pin as a push-pull output and returns it.
func Output(pin machine.Pin) Pin {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return pin
}

// Buzzer is an active buzzer on a digital pin.
type Buzzer struct {
	dev buzzer.Device
}

// NewBuzzer configures pin and wraps it in a buzzer driver.
func NewBuzzer(pin machine.Pin) *Buzzer {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Buzzer{dev: buzzer.New(pin)}
}

// High turns the buzzer on.
func (b *Buzzer) High() {
	b.dev.On()
}

// Low turns the buzzer off.
func (b *Buzzer) Low() {
	b.dev.Off()
}
