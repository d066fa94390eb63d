package core

// Heartbeat prints a "tick" status line every Period milliseconds.
// host/monitor uses the lines to measure tick drift against the host clock.
type Heartbeat struct {
	Period uint32
	timer  Timer
}

// NewHeartbeat returns a heartbeat with the given period in ms
func NewHeartbeat(period uint32) *Heartbeat {
	h := &Heartbeat{Period: period}
	h.timer.Handler = h.fire
	return h
}

// Start schedules the first beat one period from now
func (h *Heartbeat) Start(now uint32) {
	h.timer.WakeTime = now + h.Period
	ScheduleTimer(&h.timer)
}

// Stop cancels the heartbeat
func (h *Heartbeat) Stop() {
	CancelTimer(&h.timer)
}

func (h *Heartbeat) fire(t *Timer) uint8 {
	now := NowMs()
	StatusPrintln("tick ms=" + utoa(now) + " up=" + utoa64(UptimeMs()))
	t.WakeTime += h.Period
	if !before(now, t.WakeTime) {
		// Foreground was busy for more than a period; skip missed beats
		t.WakeTime = now + h.Period
	}
	return SF_RESCHEDULE
}
