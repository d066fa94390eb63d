package core

import "sync/atomic"

// TickCounter is the millisecond time base.
//
// Tick is the only writer and runs from the SysTick interrupt; any code may
// read. The count is one 64-bit word updated atomically, so readers never
// see a torn value and no lock is needed. Now truncates it to 32 bits, which
// wrap after 2^32 ms (~49.7 days); Elapsed and Delay handle the wrap.
type TickCounter struct {
	count uint64 // first field keeps it 8-byte aligned on 32-bit targets
}

// Tick advances the counter by one millisecond
func (c *TickCounter) Tick() {
	atomic.AddUint64(&c.count, 1)
}

// Now returns the current tick count
func (c *TickCounter) Now() uint32 {
	return uint32(atomic.LoadUint64(&c.count))
}

// Set sets the tick count (for testing/hardware integration)
func (c *TickCounter) Set(ticks uint32) {
	atomic.StoreUint64(&c.count, uint64(ticks))
}

// Uptime returns milliseconds since Set as a 64-bit value that does not wrap
func (c *TickCounter) Uptime() uint64 {
	return atomic.LoadUint64(&c.count)
}

// Delay busy-waits until ms ticks have elapsed. It does not yield to other
// work; only the tick interrupt runs meanwhile.
func (c *TickCounter) Delay(ms uint32) {
	start := c.Now()
	for Elapsed(start, c.Now()) < ms {
		relax()
	}
}

// Elapsed returns the ticks from start to now, correct across one wrap
func Elapsed(start, now uint32) uint32 {
	return now - start
}

// TimeReached reports whether now is at or past deadline.
// Both must lie within 2^31 ticks of each other.
func TimeReached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}

// systemTick is fed by the SysTick handler
var systemTick TickCounter

// OnTick is called from the SysTick interrupt handler
func OnTick() {
	systemTick.Tick()
}

// NowMs returns milliseconds since InitTimekeeping
func NowMs() uint32 {
	return systemTick.Now()
}

// DelayMs blocks the caller for ms milliseconds
func DelayMs(ms uint32) {
	systemTick.Delay(ms)
}

// UptimeMs returns 64-bit milliseconds since InitTimekeeping
func UptimeMs() uint64 {
	return systemTick.Uptime()
}

// SetTicks sets the system tick count (for testing/hardware integration)
func SetTicks(ticks uint32) {
	systemTick.Set(ticks)
}

// SystemTicks returns the counter fed by OnTick
func SystemTicks() *TickCounter {
	return &systemTick
}
