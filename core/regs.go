package core

// Register32 is the memory-mapped register access used by the clock and tick code.
// On device, TinyGo's *volatile.Register32 satisfies it directly.
// On host, *Reg32 stands in for it (tests and the sim package).
type Register32 interface {
	Get() uint32
	Set(value uint32)
	SetBits(value uint32)
	ClearBits(value uint32)
	HasBits(value uint32) bool
	ReplaceBits(value uint32, mask uint32, pos uint8)
}

// Reg32 is an in-memory 32-bit register.
// OnRead and OnWrite let a model react to accesses the way hardware would,
// e.g. latching a ready flag some reads after its enable bit was set.
type Reg32 struct {
	Value uint32

	// OnRead is called before every read and may update Value
	OnRead func(r *Reg32)

	// OnWrite is called after every write with the previous value
	OnWrite func(r *Reg32, old uint32)
}

// Get reads the register
func (r *Reg32) Get() uint32 {
	if r.OnRead != nil {
		r.OnRead(r)
	}
	return r.Value
}

// Set writes the register
func (r *Reg32) Set(value uint32) {
	old := r.Value
	r.Value = value
	if r.OnWrite != nil {
		r.OnWrite(r, old)
	}
}

// SetBits performs a read-modify-write setting the given bits
func (r *Reg32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

// ClearBits performs a read-modify-write clearing the given bits
func (r *Reg32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

// HasBits reports whether any of the given bits is set (same as volatile.Register32)
func (r *Reg32) HasBits(value uint32) bool {
	return r.Get()&value > 0
}

// ReplaceBits replaces the field value<<pos covered by mask<<pos
func (r *Reg32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (value&mask)<<pos)
}
