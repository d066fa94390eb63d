package core

// ClockSource selects the oscillator feeding the PLL
type ClockSource uint8

const (
	SourceHSI       ClockSource = iota // internal 8MHz RC, enters the PLL as HSI/2
	SourceHSE                          // external crystal
	SourceHSEBypass                    // external clock signal on OSC_IN (ST-Link MCO)
)

func (s ClockSource) String() string {
	switch s {
	case SourceHSI:
		return "hsi"
	case SourceHSE:
		return "hse"
	case SourceHSEBypass:
		return "hse-bypass"
	}
	return "unknown"
}

// ParseClockSource is the inverse of ClockSource.String
func ParseClockSource(s string) (ClockSource, bool) {
	switch s {
	case "hsi":
		return SourceHSI, true
	case "hse":
		return SourceHSE, true
	case "hse-bypass":
		return SourceHSEBypass, true
	}
	return 0, false
}

// ClockPlan is a fixed clock tree configuration.
// TargetHz is expected to match SysClkHz; nothing checks it at runtime.
type ClockPlan struct {
	Name         string
	Source       ClockSource
	SourceHz     uint32 // oscillator frequency (HSE plans)
	PLLPrediv    uint32 // HSE divider before the PLL, 1..16
	PLLMul       uint32 // 2..16
	TargetHz     uint32 // SYSCLK once running from the PLL
	AHBDiv       uint32
	APB1Div      uint32
	APB2Div      uint32
	FlashLatency uint32 // wait states, 0..2
	Prefetch     bool
}

// PLLInputHz returns the PLL reference frequency for the plan
func (p ClockPlan) PLLInputHz() uint32 {
	if p.Source == SourceHSI {
		return HSIFrequency / 2
	}
	div := p.PLLPrediv
	if div == 0 {
		div = 1
	}
	return p.SourceHz / div
}

// SysClkHz computes SYSCLK from the PLL fields
func (p ClockPlan) SysClkHz() uint32 {
	return p.PLLInputHz() * p.PLLMul
}

// HCLK returns the AHB clock for the target frequency
func (p ClockPlan) HCLK() uint32 {
	return p.TargetHz / divOrOne(p.AHBDiv)
}

// PCLK1 returns the APB1 clock for the target frequency
func (p ClockPlan) PCLK1() uint32 {
	return p.HCLK() / divOrOne(p.APB1Div)
}

// PCLK2 returns the APB2 clock for the target frequency
func (p ClockPlan) PCLK2() uint32 {
	return p.HCLK() / divOrOne(p.APB2Div)
}

func divOrOne(d uint32) uint32 {
	if d == 0 {
		return 1
	}
	return d
}

// ClockStatus is the outcome of clock bring-up
type ClockStatus uint8

const (
	StatusLocked        ClockStatus = iota // SYSCLK runs from the PLL at the plan target
	StatusFellBack                         // HSE never became ready, still on HSI
	StatusPLLTimeout                       // PLL did not lock within PLLTimeout
	StatusSwitchTimeout                    // SWS did not confirm the PLL within SwitchTimeout
)

func (s ClockStatus) String() string {
	switch s {
	case StatusLocked:
		return "locked"
	case StatusFellBack:
		return "fell-back"
	case StatusPLLTimeout:
		return "pll-timeout"
	case StatusSwitchTimeout:
		return "switch-timeout"
	}
	return "unknown"
}

// ClockResult describes the clock tree after InitializeClocks
type ClockResult struct {
	Source ClockSource
	Status ClockStatus
	Hz     uint32 // SYSCLK frequency now in effect
	Polls  uint32 // HSE ready polls, 0 for HSI
}

// Locked reports whether the plan target was reached
func (r ClockResult) Locked() bool {
	return r.Status == StatusLocked
}

// String renders the boot log line read back by host/monitor
func (r ClockResult) String() string {
	return "clock source=" + r.Source.String() +
		" status=" + r.Status.String() +
		" hz=" + utoa(r.Hz) +
		" polls=" + utoa(r.Polls)
}

// ClockController brings the clock tree from reset defaults to a ClockPlan
type ClockController struct {
	RCC   *RCCRegisters
	Flash *FlashRegisters
	Plan  ClockPlan

	// HSETimeout bounds the HSE ready wait. Zero selects HSEStartupTimeout;
	// this wait is never unbounded.
	HSETimeout uint32

	// PLLTimeout and SwitchTimeout bound the PLL lock and clock switch waits.
	// Forever (the default) waits without limit.
	PLLTimeout    uint32
	SwitchTimeout uint32
}

// NewClockController returns a controller with the default timeouts
func NewClockController(rcc *RCCRegisters, flash *FlashRegisters, plan ClockPlan) *ClockController {
	return &ClockController{
		RCC:           rcc,
		Flash:         flash,
		Plan:          plan,
		HSETimeout:    HSEStartupTimeout,
		PLLTimeout:    Forever,
		SwitchTimeout: Forever,
	}
}

// InitializeClocks runs the one-shot bring-up sequence. It must be called once,
// before anything depends on the system clock frequency.
//
// Failures never stop the program: if the HSE does not start the core keeps
// running from HSI and the result says so.
func (c *ClockController) InitializeClocks() ClockResult {
	c.resetClockTree()

	res := ClockResult{Source: c.Plan.Source, Status: StatusLocked, Hz: HSIFrequency}

	switch c.Plan.Source {
	case SourceHSI:
		// HSI is already on after reset
	case SourceHSE:
		c.RCC.CR.SetBits(RCC_CR_HSEON)
	case SourceHSEBypass:
		// HSEBYP is only writable while HSEON is clear
		c.RCC.CR.SetBits(RCC_CR_HSEBYP)
		c.RCC.CR.SetBits(RCC_CR_HSEON)
	}

	if c.Plan.Source != SourceHSI {
		limit := c.HSETimeout
		if limit == 0 {
			limit = HSEStartupTimeout
		}
		polls, ready := waitBits(c.RCC.CR, RCC_CR_HSERDY, limit)
		res.Polls = polls
		if !ready {
			res.Status = StatusFellBack
			RecordTiming(EvtHSETimeout, uint8(c.Plan.Source), NowMs(), polls, limit)
			return c.report(res)
		}
		RecordTiming(EvtHSEReady, uint8(c.Plan.Source), NowMs(), polls, 0)
	}

	c.configureFlash()
	c.configurePrescalers()
	c.configurePLL()

	c.RCC.CR.SetBits(RCC_CR_PLLON)
	polls, locked := waitBits(c.RCC.CR, RCC_CR_PLLRDY, c.PLLTimeout)
	if !locked {
		c.RCC.CR.ClearBits(RCC_CR_PLLON)
		res.Status = StatusPLLTimeout
		RecordTiming(EvtPLLTimeout, uint8(c.Plan.Source), NowMs(), polls, c.PLLTimeout)
		return c.report(res)
	}
	RecordTiming(EvtPLLLocked, uint8(c.Plan.Source), NowMs(), polls, 0)

	c.RCC.CFGR.ReplaceBits(RCC_SW_PLL, RCC_CFGR_SW_Msk, RCC_CFGR_SW_Pos)
	polls, switched := waitField(c.RCC.CFGR, RCC_SW_PLL, RCC_CFGR_SWS_Msk, RCC_CFGR_SWS_Pos, c.SwitchTimeout)
	if !switched {
		c.RCC.CFGR.ReplaceBits(RCC_SW_HSI, RCC_CFGR_SW_Msk, RCC_CFGR_SW_Pos)
		waitField(c.RCC.CFGR, RCC_SW_HSI, RCC_CFGR_SWS_Msk, RCC_CFGR_SWS_Pos, c.SwitchTimeout)
		c.RCC.CR.ClearBits(RCC_CR_PLLON)
		res.Status = StatusSwitchTimeout
		RecordTiming(EvtSwitchTimeout, uint8(c.Plan.Source), NowMs(), polls, c.SwitchTimeout)
		return c.report(res)
	}
	RecordTiming(EvtClockSwitched, uint8(c.Plan.Source), NowMs(), polls, c.Plan.TargetHz)

	res.Hz = c.Plan.TargetHz
	return c.report(res)
}

// resetClockTree puts RCC back to its power-on state in case of a warm restart
func (c *ClockController) resetClockTree() {
	rcc := c.RCC
	rcc.CR.SetBits(RCC_CR_HSION)

	rcc.CFGR.ReplaceBits(RCC_SW_HSI, RCC_CFGR_SW_Msk, RCC_CFGR_SW_Pos)
	rcc.CFGR.ReplaceBits(0, RCC_CFGR_HPRE_Msk, RCC_CFGR_HPRE_Pos)
	rcc.CFGR.ReplaceBits(0, RCC_CFGR_PPRE1_Msk, RCC_CFGR_PPRE1_Pos)
	rcc.CFGR.ReplaceBits(0, RCC_CFGR_PPRE2_Msk, RCC_CFGR_PPRE2_Pos)
	rcc.CFGR.ClearBits(RCC_CFGR_I2SSRC)
	rcc.CFGR.ReplaceBits(0, RCC_CFGR_MCO_Msk, RCC_CFGR_MCO_Pos)

	rcc.CR.ClearBits(RCC_CR_HSEON | RCC_CR_CSSON | RCC_CR_PLLON)
	rcc.CR.ClearBits(RCC_CR_HSEBYP)

	rcc.CFGR.Set(rcc.CFGR.Get() & RCC_CFGR_PLL_RESET_MASK)
	rcc.CFGR2.ClearBits(RCC_CFGR2_PREDIV_Msk)
	rcc.CFGR3.Set(rcc.CFGR3.Get() & RCC_CFGR3_RESET_MASK)

	rcc.CIR.Set(0)
}

func (c *ClockController) configureFlash() {
	acr := c.Plan.FlashLatency & FLASH_ACR_LATENCY_Msk
	if c.Plan.Prefetch {
		acr |= FLASH_ACR_PRFTBE
	}
	c.Flash.ACR.Set(acr)
}

func (c *ClockController) configurePrescalers() {
	c.RCC.CFGR.ReplaceBits(hpreBits(c.Plan.AHBDiv), RCC_CFGR_HPRE_Msk, RCC_CFGR_HPRE_Pos)
	c.RCC.CFGR.ReplaceBits(ppreBits(c.Plan.APB1Div), RCC_CFGR_PPRE1_Msk, RCC_CFGR_PPRE1_Pos)
	c.RCC.CFGR.ReplaceBits(ppreBits(c.Plan.APB2Div), RCC_CFGR_PPRE2_Msk, RCC_CFGR_PPRE2_Pos)
}

func (c *ClockController) configurePLL() {
	cfgr := c.RCC.CFGR.Get() &^ (RCC_CFGR_PLLSRC | RCC_CFGR_PLLXTPRE | RCC_CFGR_PLLMUL_Msk<<RCC_CFGR_PLLMUL_Pos)
	if c.Plan.Source != SourceHSI {
		cfgr |= RCC_CFGR_PLLSRC
		c.RCC.CFGR2.ReplaceBits(predivBits(c.Plan.PLLPrediv), RCC_CFGR2_PREDIV_Msk, 0)
	}
	cfgr |= pllMulBits(c.Plan.PLLMul) << RCC_CFGR_PLLMUL_Pos
	c.RCC.CFGR.Set(cfgr)
}

func (c *ClockController) report(res ClockResult) ClockResult {
	if res.Status == StatusFellBack {
		StatusPrintln("[CLOCK] HSE not ready, staying on HSI")
	}
	StatusPrintln(res.String())
	return res
}
