//go:build tinygo

package core

// relax is empty on device; the SysTick interrupt preempts the spin loop
func relax() {}
