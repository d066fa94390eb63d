package sim

import "clockwork/core"

// SysTick models the Cortex-M SysTick down-counter and SCB.SHPR3.
// Time only moves when Advance is called.
type SysTick struct {
	CSR, RVR, CVR, SHPR3 core.Reg32

	// Handler runs on every wrap to zero while TICKINT is set.
	// Defaults to core.OnTick.
	Handler func()

	// Fired counts interrupts delivered
	Fired uint64
}

// NewSysTick returns a disabled SysTick in its reset state
func NewSysTick() *SysTick {
	s := &SysTick{Handler: core.OnTick}
	// Any write to CVR clears it and COUNTFLAG
	s.CVR.OnWrite = func(r *core.Reg32, old uint32) {
		r.Value = 0
		s.CSR.Value &^= core.SYST_CSR_COUNTFLAG
	}
	s.RVR.OnWrite = func(r *core.Reg32, old uint32) {
		r.Value &= core.SYST_RVR_RELOAD_Msk
	}
	return s
}

// Registers returns the block handed to core.InitTimekeeping
func (s *SysTick) Registers(rcc *core.RCCRegisters) *core.SysTickRegisters {
	return &core.SysTickRegisters{
		CSR:   &s.CSR,
		RVR:   &s.RVR,
		CVR:   &s.CVR,
		SHPR3: &s.SHPR3,
		RCC:   rcc,
	}
}

// Enabled reports CSR.ENABLE
func (s *SysTick) Enabled() bool {
	return s.CSR.Value&core.SYST_CSR_ENABLE != 0
}

// Priority returns the SysTick exception priority from SHPR3
func (s *SysTick) Priority() uint8 {
	return uint8(s.SHPR3.Value >> core.SCB_SHPR3_PRI15_Pos)
}

// Advance runs the counter for the given number of processor clock cycles
// and returns the number of interrupts delivered.
func (s *SysTick) Advance(cycles uint64) int {
	if !s.Enabled() {
		return 0
	}
	reload := uint64(s.RVR.Value)
	cvr := uint64(s.CVR.Value)
	fired := 0
	for cycles > 0 {
		if cvr == 0 {
			// Reload takes one cycle
			cvr = reload
			cycles--
			if reload == 0 {
				break // a zero reload stops the counter
			}
			continue
		}
		if cycles < cvr {
			cvr -= cycles
			break
		}
		cycles -= cvr
		cvr = 0
		s.CSR.Value |= core.SYST_CSR_COUNTFLAG
		if s.CSR.Value&core.SYST_CSR_TICKINT != 0 {
			fired++
			s.Fired++
			if s.Handler != nil {
				s.Handler()
			}
		}
	}
	s.CVR.Value = uint32(cvr)
	return fired
}

// AdvanceMs runs the counter for ms milliseconds of a core clocked at hz
func (s *SysTick) AdvanceMs(ms uint32, hz uint32) int {
	return s.Advance(uint64(ms) * uint64(hz) / 1000)
}
