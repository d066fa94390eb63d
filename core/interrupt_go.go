//go:build !tinygo

package core

import "sync"

// State stands in for interrupt.State on the host
type State uintptr

// On the host the tick is driven from another goroutine, so a mutex plays
// the part of the interrupt mask
var hostCritical sync.Mutex

func enterCritical() State {
	hostCritical.Lock()
	return 0
}

func exitCritical(state State) {
	hostCritical.Unlock()
}
