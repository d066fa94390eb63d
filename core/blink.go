package core

// Blinker toggles an output pin with a fixed half period using DelayMs
type Blinker struct {
	Pin     GPIOPin
	HalfMs  uint32
	driver  GPIODriver
	delay   func(ms uint32)
	level   bool
	toggles uint32
}

// NewBlinker configures pin as an output on the registered GPIO driver
func NewBlinker(pin GPIOPin, halfMs uint32) (*Blinker, error) {
	d := MustGPIO()
	if err := d.ConfigureOutput(pin); err != nil {
		return nil, err
	}
	return &Blinker{Pin: pin, HalfMs: halfMs, driver: d, delay: DelayMs}, nil
}

// Step drives the next level, then waits half a period.
// Between steps the caller may run other foreground work.
func (b *Blinker) Step() error {
	b.level = !b.level
	if err := b.driver.SetPin(b.Pin, b.level); err != nil {
		return err
	}
	b.toggles++
	b.delay(b.HalfMs)
	return nil
}

// Toggles returns how many times the pin changed level
func (b *Blinker) Toggles() uint32 {
	return b.toggles
}
