package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// TimingEvent captures a bring-up or tick event for post-mortem analysis
type TimingEvent struct {
	EventType uint8  // Event type code
	Source    uint8  // ClockSource involved, if any
	Clock     uint32 // NowMs at the event (0 before the tick runs)
	Value1    uint32 // Context-dependent value
	Value2    uint32 // Context-dependent value
}

// Event type codes
const (
	EvtHSEReady      = 1 // HSE ready, v1=polls
	EvtHSETimeout    = 2 // HSE never ready, v1=polls v2=limit
	EvtPLLLocked     = 3 // PLLRDY seen, v1=polls
	EvtPLLTimeout    = 4 // PLL lock wait gave up, v1=polls v2=limit
	EvtClockSwitched = 5 // SWS reports PLL, v1=polls v2=hz
	EvtSwitchTimeout = 6 // SWS never reported PLL, v1=polls v2=limit
	EvtTickStart     = 7 // SysTick enabled, v1=reload v2=hz
)

const (
	TimingRingSize = 16 // Keep last 16 events for post-mortem
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {} // No-op by default

	// debugEnabled gates DebugPrintln; StatusPrintln always writes
	debugEnabled bool = false

	timingRing     [TimingRingSize]TimingEvent
	timingRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables verbose debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// StatusPrintln writes a status line (clock result, heartbeat) regardless of
// the debug flag. host/monitor parses these lines.
func StatusPrintln(msg string) {
	if debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordTiming captures an event in the ring buffer. Non-blocking.
func RecordTiming(eventType, source uint8, clock, value1, value2 uint32) {
	idx := timingRingHead
	timingRing[idx] = TimingEvent{
		EventType: eventType,
		Source:    source,
		Clock:     clock,
		Value1:    value1,
		Value2:    value2,
	}
	timingRingHead = (idx + 1) % TimingRingSize
}

// TimingEvents returns the recorded events, oldest first
func TimingEvents() []TimingEvent {
	events := make([]TimingEvent, 0, TimingRingSize)
	start := timingRingHead
	for i := uint8(0); i < TimingRingSize; i++ {
		evt := timingRing[(start+i)%TimingRingSize]
		if evt.EventType == 0 {
			continue // Empty slot
		}
		events = append(events, evt)
	}
	return events
}

// DumpTimingRing writes the ring through the debug writer
func DumpTimingRing() {
	if debugPrintln == nil {
		return
	}

	debugPrintln("[TIMING] === Timing Ring Dump ===")
	for _, evt := range TimingEvents() {
		debugPrintln("[TIMING] " + eventName(evt.EventType) +
			" src=" + ClockSource(evt.Source).String() +
			" clock=" + utoa(evt.Clock) +
			" v1=" + utoa(evt.Value1) +
			" v2=" + utoa(evt.Value2))
	}
	debugPrintln("[TIMING] === End Dump ===")
}

// ClearTimingRing clears the timing buffer
func ClearTimingRing() {
	for i := range timingRing {
		timingRing[i] = TimingEvent{}
	}
	timingRingHead = 0
}

func eventName(t uint8) string {
	switch t {
	case EvtHSEReady:
		return "HSE_READY"
	case EvtHSETimeout:
		return "HSE_TIMEOUT!"
	case EvtPLLLocked:
		return "PLL_LOCKED"
	case EvtPLLTimeout:
		return "PLL_TIMEOUT!"
	case EvtClockSwitched:
		return "SYSCLK_PLL"
	case EvtSwitchTimeout:
		return "SWITCH_TIMEOUT!"
	case EvtTickStart:
		return "SYSTICK_ON"
	}
	return "UNKNOWN"
}
