package core

import "errors"

// ErrFrequencyTooLow is returned for a core clock that cannot produce a 1ms
// period (the reload would underflow)
var ErrFrequencyTooLow = errors.New("systick: system clock below 1kHz")

// TickPriority is the SysTick exception priority; 0 is the highest so other
// interrupts cannot delay the tick
const TickPriority = 0

// TickConfig is what InitTimekeeping wrote to the SysTick block
type TickConfig struct {
	CoreHz   uint32
	Reload   uint32
	Priority uint8
}

// ReloadFor returns the SysTick reload value for a 1ms period at hz.
// Any 32-bit frequency fits the 24-bit reload register.
func ReloadFor(hz uint32) (uint32, error) {
	if hz < 1000 {
		return 0, ErrFrequencyTooLow
	}
	return hz/1000 - 1, nil
}

// InitTimekeeping starts the 1ms SysTick interrupt for a core running at hz
// and zeroes the system tick counter. Call it once, after InitializeClocks.
// The interrupt handler must call OnTick.
func InitTimekeeping(st *SysTickRegisters, hz uint32) (TickConfig, error) {
	reload, err := ReloadFor(hz)
	if err != nil {
		return TickConfig{}, err
	}

	st.CSR.ClearBits(SYST_CSR_ENABLE)
	st.RVR.Set(reload)
	st.CVR.Set(0) // any write clears; undefined out of reset
	st.CSR.SetBits(SYST_CSR_TICKINT | SYST_CSR_CLKSOURCE)
	st.SHPR3.ReplaceBits(TickPriority, SCB_SHPR3_PRI15_Msk, SCB_SHPR3_PRI15_Pos)

	systemTick.Set(0)
	st.CSR.SetBits(SYST_CSR_ENABLE)

	if st.RCC != nil {
		st.RCC.APB2ENR.SetBits(RCC_APB2ENR_SYSCFGEN)
	}

	RecordTiming(EvtTickStart, 0, 0, reload, hz)
	StatusPrintln("systick reload=" + utoa(reload) + " hz=" + utoa(hz))

	return TickConfig{CoreHz: hz, Reload: reload, Priority: TickPriority}, nil
}
