// Package sim models the parts of the STM32F303 the clock and tick code touch,
// so bring-up can run and be checked on a host.
package sim

import "clockwork/core"

// Never keeps a ready flag from ever latching
const Never = -1

// ClockTree models RCC and FLASH.ACR.
//
// Ready flags latch after a number of reads of the register that reports them,
// counted while the matching enable bit is set. A delay of 1 means the first
// poll already sees the flag; Never means it never latches.
type ClockTree struct {
	CR, CFGR, CIR, AHBENR, APB2ENR, CFGR2, CFGR3 core.Reg32
	ACR                                          core.Reg32

	HSEHz         uint32
	HSEReadyAfter int
	PLLReadyAfter int
	SwitchAfter   int

	// HSEPolls counts reads of CR while HSEON is set
	HSEPolls int
	// PLLPolls counts reads of CR while PLLON is set
	PLLPolls int
	// SwitchPolls counts reads of CFGR while SWS lags SW
	SwitchPolls int

	// Violations lists ordering errors seen on writes (PLL before HSE ready,
	// switch before PLL lock, HSEBYP written while HSEON is set)
	Violations []string

	// Writes counts writes per register name
	Writes map[string]int
}

// NewClockTree returns a tree in its reset state: HSI on and selected.
// The HSE is an 8MHz source that is ready on the first poll, the PLL locks
// on the first poll and the switch lands on the first read of CFGR.
func NewClockTree() *ClockTree {
	t := &ClockTree{
		HSEHz:         8000000,
		HSEReadyAfter: 1,
		PLLReadyAfter: 1,
		SwitchAfter:   1,
		Writes:        map[string]int{},
	}
	t.CR.Value = core.RCC_CR_HSION | core.RCC_CR_HSIRDY

	t.CR.OnRead = t.readCR
	t.CR.OnWrite = t.writeCR
	t.CFGR.OnRead = t.readCFGR
	t.CFGR.OnWrite = func(r *core.Reg32, old uint32) {
		t.Writes["CFGR"]++
		t.checkSwitch(r, old)
	}
	t.CIR.OnWrite = t.countWrite("CIR")
	t.AHBENR.OnWrite = t.countWrite("AHBENR")
	t.APB2ENR.OnWrite = t.countWrite("APB2ENR")
	t.CFGR2.OnWrite = t.countWrite("CFGR2")
	t.CFGR3.OnWrite = t.countWrite("CFGR3")
	t.ACR.OnWrite = t.countWrite("ACR")
	return t
}

// RCC returns the register block handed to core.ClockController
func (t *ClockTree) RCC() *core.RCCRegisters {
	return &core.RCCRegisters{
		CR:      &t.CR,
		CFGR:    &t.CFGR,
		CIR:     &t.CIR,
		AHBENR:  &t.AHBENR,
		APB2ENR: &t.APB2ENR,
		CFGR2:   &t.CFGR2,
		CFGR3:   &t.CFGR3,
	}
}

// Flash returns the flash block handed to core.ClockController
func (t *ClockTree) Flash() *core.FlashRegisters {
	return &core.FlashRegisters{ACR: &t.ACR}
}

func (t *ClockTree) countWrite(name string) func(*core.Reg32, uint32) {
	return func(*core.Reg32, uint32) {
		t.Writes[name]++
	}
}

func (t *ClockTree) violation(msg string) {
	t.Violations = append(t.Violations, msg)
}

func (t *ClockTree) readCR(r *core.Reg32) {
	if r.Value&core.RCC_CR_HSEON != 0 {
		t.HSEPolls++
		if t.HSEReadyAfter != Never && t.HSEPolls >= t.HSEReadyAfter {
			r.Value |= core.RCC_CR_HSERDY
		}
	}
	if r.Value&core.RCC_CR_PLLON != 0 {
		t.PLLPolls++
		if t.PLLReadyAfter != Never && t.PLLPolls >= t.PLLReadyAfter {
			r.Value |= core.RCC_CR_PLLRDY
		}
	}
}

func (t *ClockTree) writeCR(r *core.Reg32, old uint32) {
	t.Writes["CR"]++

	if r.Value&core.RCC_CR_HSION != 0 {
		r.Value |= core.RCC_CR_HSIRDY
	}
	if r.Value&core.RCC_CR_HSEON == 0 {
		r.Value &^= core.RCC_CR_HSERDY
		t.HSEPolls = 0
	}
	if r.Value&core.RCC_CR_PLLON == 0 {
		r.Value &^= core.RCC_CR_PLLRDY
		t.PLLPolls = 0
	}

	if old&core.RCC_CR_HSEON != 0 && (old^r.Value)&core.RCC_CR_HSEBYP != 0 {
		t.violation("HSEBYP changed while HSEON set")
	}
	if old&core.RCC_CR_PLLON == 0 && r.Value&core.RCC_CR_PLLON != 0 {
		if t.CFGR.Value&core.RCC_CFGR_PLLSRC != 0 && r.Value&core.RCC_CR_HSERDY == 0 {
			t.violation("PLLON set before HSERDY")
		}
	}
}

func (t *ClockTree) readCFGR(r *core.Reg32) {
	sw := field(r.Value, core.RCC_CFGR_SW_Msk, core.RCC_CFGR_SW_Pos)
	sws := field(r.Value, core.RCC_CFGR_SWS_Msk, core.RCC_CFGR_SWS_Pos)
	if sw == sws {
		return
	}
	if sw == core.RCC_SW_PLL && t.CR.Value&core.RCC_CR_PLLRDY == 0 {
		return // cannot switch to a PLL that is not locked
	}
	t.SwitchPolls++
	if sw == core.RCC_SW_HSI || t.SwitchAfter != Never && t.SwitchPolls >= t.SwitchAfter {
		r.Value = r.Value&^(core.RCC_CFGR_SWS_Msk<<core.RCC_CFGR_SWS_Pos) | sw<<core.RCC_CFGR_SWS_Pos
		t.SwitchPolls = 0
	}
}

// checkSwitch flags a write of SW=PLL while the PLL is not locked
func (t *ClockTree) checkSwitch(r *core.Reg32, old uint32) {
	sw := field(r.Value, core.RCC_CFGR_SW_Msk, core.RCC_CFGR_SW_Pos)
	if sw == core.RCC_SW_PLL && field(old, core.RCC_CFGR_SW_Msk, core.RCC_CFGR_SW_Pos) != sw &&
		t.CR.Value&core.RCC_CR_PLLRDY == 0 {
		t.violation("SW=PLL before PLLRDY")
	}
}

func field(v, mask uint32, pos uint8) uint32 {
	return (v >> pos) & mask
}

// SystemClockSource returns the SWS field
func (t *ClockTree) SystemClockSource() uint32 {
	return field(t.CFGR.Value, core.RCC_CFGR_SWS_Msk, core.RCC_CFGR_SWS_Pos)
}

// PLLMul decodes CFGR.PLLMUL
func (t *ClockTree) PLLMul() uint32 {
	mul := field(t.CFGR.Value, core.RCC_CFGR_PLLMUL_Msk, core.RCC_CFGR_PLLMUL_Pos) + 2
	if mul > 16 {
		mul = 16
	}
	return mul
}

// SysClkHz computes SYSCLK from the current register contents
func (t *ClockTree) SysClkHz() uint32 {
	switch t.SystemClockSource() {
	case core.RCC_SW_HSE:
		return t.HSEHz
	case core.RCC_SW_PLL:
		in := uint32(core.HSIFrequency / 2)
		if t.CFGR.Value&core.RCC_CFGR_PLLSRC != 0 {
			in = t.HSEHz / (field(t.CFGR2.Value, core.RCC_CFGR2_PREDIV_Msk, 0) + 1)
		}
		return in * t.PLLMul()
	}
	return core.HSIFrequency
}
