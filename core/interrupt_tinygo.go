//go:build tinygo

package core

import "runtime/interrupt"

// enterCritical masks interrupts, SysTick included, and returns the
// previous PRIMASK state
func enterCritical() interrupt.State {
	return interrupt.Disable()
}

func exitCritical(state interrupt.State) {
	interrupt.Restore(state)
}
