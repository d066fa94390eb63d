//go:build stm32f303

package main

import (
	"runtime/volatile"
	"unsafe"

	"clockwork/core"
)

// RCC register offsets (RM0316 9.4)
const (
	rccCR      = core.RCCBase + 0x00
	rccCFGR    = core.RCCBase + 0x04
	rccCIR     = core.RCCBase + 0x08
	rccAHBENR  = core.RCCBase + 0x14
	rccAPB2ENR = core.RCCBase + 0x18
	rccCFGR2   = core.RCCBase + 0x2C
	rccCFGR3   = core.RCCBase + 0x30

	flashACR = core.FlashBase + 0x00

	systCSR = core.SysTickBase + 0x00
	systRVR = core.SysTickBase + 0x04
	systCVR = core.SysTickBase + 0x08
)

func reg(addr uintptr) *volatile.Register32 {
	return (*volatile.Register32)(unsafe.Pointer(addr))
}

var (
	rcc = &core.RCCRegisters{
		CR:      reg(rccCR),
		CFGR:    reg(rccCFGR),
		CIR:     reg(rccCIR),
		AHBENR:  reg(rccAHBENR),
		APB2ENR: reg(rccAPB2ENR),
		CFGR2:   reg(rccCFGR2),
		CFGR3:   reg(rccCFGR3),
	}

	flash = &core.FlashRegisters{
		ACR: reg(flashACR),
	}

	systick = &core.SysTickRegisters{
		CSR:   reg(systCSR),
		RVR:   reg(systRVR),
		CVR:   reg(systCVR),
		SHPR3: reg(core.SCBSHPR3),
		RCC:   rcc,
	}
)
