//go:build stm32f303

package main

import (
	"errors"
	"runtime/volatile"

	"clockwork/core"
)

// GPIOE drives the Discovery's user LEDs (PE8..PE15)
const (
	gpioEBase   = 0x48001000
	gpioMODER   = gpioEBase + 0x00
	gpioOTYPER  = gpioEBase + 0x04
	gpioOSPEEDR = gpioEBase + 0x08
	gpioBSRR    = gpioEBase + 0x18

	moderOutput = 0x1
)

// LD3, the red LED north on the compass ring
const ledPin core.GPIOPin = 9

var errBadPin = errors.New("gpio: pin out of range for GPIOE")

// portEDriver implements core.GPIODriver on GPIOE by register writes
type portEDriver struct {
	moder, otyper, ospeedr, bsrr *volatile.Register32
	clockOn                      bool
}

func newPortEDriver() *portEDriver {
	return &portEDriver{
		moder:   reg(gpioMODER),
		otyper:  reg(gpioOTYPER),
		ospeedr: reg(gpioOSPEEDR),
		bsrr:    reg(gpioBSRR),
	}
}

func (d *portEDriver) ConfigureOutput(pin core.GPIOPin) error {
	if pin > 15 {
		return errBadPin
	}
	if !d.clockOn {
		rcc.AHBENR.SetBits(core.RCC_AHBENR_IOPEEN)
		_ = rcc.AHBENR.Get() // port clock needs two cycles before the first access
		d.clockOn = true
	}
	pos := uint8(pin) * 2
	d.moder.ReplaceBits(moderOutput, 0x3, pos)
	d.otyper.ClearBits(1 << pin)
	d.ospeedr.ReplaceBits(0x0, 0x3, pos)
	return nil
}

func (d *portEDriver) SetPin(pin core.GPIOPin, value bool) error {
	if pin > 15 {
		return errBadPin
	}
	if value {
		d.bsrr.Set(1 << pin)
	} else {
		d.bsrr.Set(1 << (pin + 16))
	}
	return nil
}
