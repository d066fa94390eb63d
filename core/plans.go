package core

// Built-in plans for the STM32F3 Discovery board.
// The HSE plans expect the 8MHz clock the ST-Link feeds to OSC_IN, or an 8MHz crystal.
var (
	PlanHSI64 = ClockPlan{
		Name:         "hsi-64mhz",
		Source:       SourceHSI,
		SourceHz:     HSIFrequency,
		PLLPrediv:    1,
		PLLMul:       16,
		TargetHz:     64000000,
		AHBDiv:       1,
		APB1Div:      2,
		APB2Div:      1,
		FlashLatency: 2,
		Prefetch:     true,
	}

	PlanHSE72 = ClockPlan{
		Name:         "hse-72mhz",
		Source:       SourceHSE,
		SourceHz:     8000000,
		PLLPrediv:    1,
		PLLMul:       9,
		TargetHz:     72000000,
		AHBDiv:       1,
		APB1Div:      2,
		APB2Div:      1,
		FlashLatency: 2,
		Prefetch:     true,
	}

	PlanHSEBypass72 = ClockPlan{
		Name:         "hse-bypass-72mhz",
		Source:       SourceHSEBypass,
		SourceHz:     8000000,
		PLLPrediv:    1,
		PLLMul:       9,
		TargetHz:     72000000,
		AHBDiv:       1,
		APB1Div:      2,
		APB2Div:      1,
		FlashLatency: 2,
		Prefetch:     true,
	}
)

// BuiltinPlans returns the plans compiled into the firmware
func BuiltinPlans() []ClockPlan {
	return []ClockPlan{PlanHSI64, PlanHSE72, PlanHSEBypass72}
}

// FlashLatencyFor returns the wait states RM0316 requires for a SYSCLK frequency
func FlashLatencyFor(hz uint32) uint32 {
	switch {
	case hz <= 24000000:
		return 0
	case hz <= 48000000:
		return 1
	}
	return 2
}
