//go:build !tinygo

package core

import "runtime"

// relax lets the goroutine standing in for the tick interrupt run
func relax() {
	runtime.Gosched()
}
