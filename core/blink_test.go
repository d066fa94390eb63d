package core

import (
	"errors"
	"testing"
)

// MockGPIODriver is a test implementation of GPIODriver
type MockGPIODriver struct {
	pins    map[GPIOPin]bool
	outputs map[GPIOPin]bool
	failPin GPIOPin
}

func NewMockGPIODriver() *MockGPIODriver {
	return &MockGPIODriver{
		pins:    make(map[GPIOPin]bool),
		outputs: make(map[GPIOPin]bool),
		failPin: 0xFFFF,
	}
}

func (m *MockGPIODriver) ConfigureOutput(pin GPIOPin) error {
	if pin == m.failPin {
		return errors.New("pin in use")
	}
	m.outputs[pin] = true
	m.pins[pin] = false
	return nil
}

func (m *MockGPIODriver) SetPin(pin GPIOPin, value bool) error {
	if !m.outputs[pin] {
		return errors.New("pin not configured")
	}
	m.pins[pin] = value
	return nil
}

func TestBlinkerToggles(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	SetGPIODriver(mockDriver)

	pin := GPIOPin(9)
	b, err := NewBlinker(pin, 1000)
	if err != nil {
		t.Fatalf("NewBlinker failed: %v", err)
	}
	var delays []uint32
	b.delay = func(ms uint32) { delays = append(delays, ms) }

	if err := b.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if !mockDriver.pins[pin] {
		t.Error("Expected pin high after first step")
	}
	if err := b.Step(); err != nil {
		t.Fatalf("Step failed: %v", err)
	}
	if mockDriver.pins[pin] {
		t.Error("Expected pin low after second step")
	}
	if b.Toggles() != 2 || len(delays) != 2 || delays[0] != 1000 {
		t.Errorf("Expected 2 toggles with 1000ms delays, got %d %v", b.Toggles(), delays)
	}
}

func TestBlinkerConfigureError(t *testing.T) {
	mockDriver := NewMockGPIODriver()
	mockDriver.failPin = 9
	SetGPIODriver(mockDriver)

	if _, err := NewBlinker(9, 500); err == nil {
		t.Error("Expected configure error")
	}
}

func TestMustGPIOPanicsWithoutDriver(t *testing.T) {
	SetGPIODriver(nil)
	defer func() {
		if recover() == nil {
			t.Error("Expected panic without a GPIO driver")
		}
	}()
	MustGPIO()
}
