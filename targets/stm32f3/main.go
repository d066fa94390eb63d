//go:build stm32f303

// Firmware for the STM32F3 Discovery: brings the core up to 72MHz (64MHz on
// HSI), starts the 1ms SysTick and blinks LD3.
//
// The clock source is chosen at build time: no tag uses the ST-Link clock in
// bypass mode, clk_hse a crystal, clk_hsi the internal oscillator.
package main

import (
	"clockwork/core"
)

const (
	blinkHalfMs     = 1000
	heartbeatPeriod = 1000
)

//export SysTick_Handler
func sysTickHandler() {
	core.OnTick()
}

func main() {
	core.SetDebugWriter(func(s string) {
		println(s)
	})

	ctl := core.NewClockController(rcc, flash, bootPlan)
	result := ctl.InitializeClocks()

	if _, err := core.InitTimekeeping(systick, result.Hz); err != nil {
		println("systick:", err.Error())
		for {
		}
	}
	if !result.Locked() {
		core.DumpTimingRing()
	}

	core.SetGPIODriver(newPortEDriver())
	led, err := core.NewBlinker(ledPin, blinkHalfMs)
	if err != nil {
		println("led:", err.Error())
	}

	hb := core.NewHeartbeat(heartbeatPeriod)
	hb.Start(core.NowMs())

	for {
		core.ProcessTimers()
		if led != nil {
			if err := led.Step(); err != nil {
				println("led:", err.Error())
				led = nil
			}
		} else {
			core.DelayMs(1)
		}
	}
}
