package core

// Timer is a software timer on the millisecond time base
type Timer struct {
	WakeTime uint32
	Handler  func(*Timer) uint8
	Next     *Timer
}

const (
	SF_DONE       = 0
	SF_RESCHEDULE = 1
)

var timerList *Timer

// ScheduleTimer adds a timer to the schedule.
// Pending wake times must stay within 2^31 ms of each other.
func ScheduleTimer(t *Timer) {
	state := enterCritical()
	defer exitCritical(state)

	insertTimer(t)
}

// CancelTimer removes t if it is scheduled
func CancelTimer(t *Timer) {
	state := enterCritical()
	defer exitCritical(state)

	if timerList == t {
		timerList = t.Next
		t.Next = nil
		return
	}
	for cur := timerList; cur != nil; cur = cur.Next {
		if cur.Next == t {
			cur.Next = t.Next
			t.Next = nil
			return
		}
	}
}

// insertTimer inserts a timer in wake order, comparing relative to each
// other so a wrap of the tick counter keeps the order
func insertTimer(t *Timer) {
	if timerList == nil || before(t.WakeTime, timerList.WakeTime) {
		t.Next = timerList
		timerList = t
		return
	}

	current := timerList
	for current.Next != nil && !before(t.WakeTime, current.Next.WakeTime) {
		current = current.Next
	}

	t.Next = current.Next
	current.Next = t
}

func before(a, b uint32) bool {
	return int32(a-b) < 0
}

// TimerDispatch runs every timer due at now. A handler returning
// SF_RESCHEDULE must have moved its WakeTime past now.
func TimerDispatch(now uint32) {
	for {
		state := enterCritical()
		timer := timerList
		if timer == nil || !TimeReached(now, timer.WakeTime) {
			exitCritical(state)
			return
		}
		timerList = timer.Next
		timer.Next = nil // Clear Next pointer to avoid circular references
		exitCritical(state)

		if timer.Handler(timer) == SF_RESCHEDULE {
			ScheduleTimer(timer)
		}
	}
}

// ProcessTimers dispatches due timers against the system tick.
// Call it from the foreground loop.
func ProcessTimers() {
	TimerDispatch(NowMs())
}

// PendingTimers returns the number of scheduled timers
func PendingTimers() int {
	state := enterCritical()
	defer exitCritical(state)

	n := 0
	for t := timerList; t != nil; t = t.Next {
		n++
	}
	return n
}

// ResetTimers drops every scheduled timer
func ResetTimers() {
	state := enterCritical()
	defer exitCritical(state)

	for t := timerList; t != nil; {
		next := t.Next
		t.Next = nil
		t = next
	}
	timerList = nil
}
