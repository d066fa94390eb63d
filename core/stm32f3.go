package core

// STM32F303 reset and clock control (RM0316 section 9.4)
const (
	RCC_CR_HSION  = 1 << 0
	RCC_CR_HSIRDY = 1 << 1
	RCC_CR_HSEON  = 1 << 16
	RCC_CR_HSERDY = 1 << 17
	RCC_CR_HSEBYP = 1 << 18
	RCC_CR_CSSON  = 1 << 19
	RCC_CR_PLLON  = 1 << 24
	RCC_CR_PLLRDY = 1 << 25

	RCC_CFGR_SW_Pos     = 0
	RCC_CFGR_SW_Msk     = 0x3
	RCC_CFGR_SWS_Pos    = 2
	RCC_CFGR_SWS_Msk    = 0x3
	RCC_CFGR_HPRE_Pos   = 4
	RCC_CFGR_HPRE_Msk   = 0xF
	RCC_CFGR_PPRE1_Pos  = 8
	RCC_CFGR_PPRE1_Msk  = 0x7
	RCC_CFGR_PPRE2_Pos  = 11
	RCC_CFGR_PPRE2_Msk  = 0x7
	RCC_CFGR_PLLSRC     = 1 << 16 // 0: HSI/2, 1: HSE/PREDIV
	RCC_CFGR_PLLXTPRE   = 1 << 17
	RCC_CFGR_PLLMUL_Pos = 18
	RCC_CFGR_PLLMUL_Msk = 0xF
	RCC_CFGR_USBPRE     = 1 << 22
	RCC_CFGR_I2SSRC     = 1 << 23
	RCC_CFGR_MCO_Pos    = 24
	RCC_CFGR_MCO_Msk    = 0x7

	// System clock switch values, shared by SW and SWS
	RCC_SW_HSI = 0
	RCC_SW_HSE = 1
	RCC_SW_PLL = 2

	// PLLSRC, PLLXTPRE, PLLMUL and USBPRE
	RCC_CFGR_PLL_RESET_MASK = 0xFF80FFFF

	RCC_CFGR2_PREDIV_Msk = 0xF

	// USARTxSW, I2CxSW and TIMxSW
	RCC_CFGR3_RESET_MASK = 0xFF00FCCC

	RCC_AHBENR_IOPEEN    = 1 << 21
	RCC_APB2ENR_SYSCFGEN = 1 << 0
)

// Embedded flash interface
const (
	FLASH_ACR_LATENCY_Msk = 0x7
	FLASH_ACR_HLFCYA      = 1 << 3
	FLASH_ACR_PRFTBE      = 1 << 4
	FLASH_ACR_PRFTBS      = 1 << 5
)

// Cortex-M4 SysTick and SCB.SHPR3
const (
	SYST_CSR_ENABLE    = 1 << 0
	SYST_CSR_TICKINT   = 1 << 1
	SYST_CSR_CLKSOURCE = 1 << 2
	SYST_CSR_COUNTFLAG = 1 << 16

	SYST_RVR_RELOAD_Msk = 0xFFFFFF

	SCB_SHPR3_PRI15_Pos = 24
	SCB_SHPR3_PRI15_Msk = 0xFF
)

// Peripheral base addresses, used by targets to map the blocks below
const (
	RCCBase     = 0x40021000
	FlashBase   = 0x40022000
	SysTickBase = 0xE000E010
	SCBSHPR3    = 0xE000ED20
)

// HSIFrequency is the internal RC oscillator, which clocks the core out of reset
const HSIFrequency = 8000000

// RCCRegisters holds the RCC registers touched during clock bring-up
type RCCRegisters struct {
	CR      Register32 // 0x00
	CFGR    Register32 // 0x04
	CIR     Register32 // 0x08
	AHBENR  Register32 // 0x14
	APB2ENR Register32 // 0x18
	CFGR2   Register32 // 0x2C
	CFGR3   Register32 // 0x30
}

// FlashRegisters holds the flash access control register
type FlashRegisters struct {
	ACR Register32 // 0x00
}

// SysTickRegisters holds the SysTick block and the SCB priority register for it.
// RCC is optional; when set, the SYSCFG clock is enabled with the tick.
type SysTickRegisters struct {
	CSR   Register32 // 0xE000E010
	RVR   Register32 // 0xE000E014
	CVR   Register32 // 0xE000E018
	SHPR3 Register32 // 0xE000ED20
	RCC   *RCCRegisters
}

// hpreBits encodes an AHB divider. Unsupported values select /1.
func hpreBits(div uint32) uint32 {
	switch div {
	case 2:
		return 0x8
	case 4:
		return 0x9
	case 8:
		return 0xA
	case 16:
		return 0xB
	case 64:
		return 0xC
	case 128:
		return 0xD
	case 256:
		return 0xE
	case 512:
		return 0xF
	}
	return 0
}

// ppreBits encodes an APB divider. Unsupported values select /1.
func ppreBits(div uint32) uint32 {
	switch div {
	case 2:
		return 0x4
	case 4:
		return 0x5
	case 8:
		return 0x6
	case 16:
		return 0x7
	}
	return 0
}

// pllMulBits encodes a PLL multiplier in the 2..16 range
func pllMulBits(mul uint32) uint32 {
	if mul < 2 {
		return 0
	}
	return (mul - 2) & RCC_CFGR_PLLMUL_Msk
}

// predivBits encodes the HSE PLL input divider in the 1..16 range
func predivBits(div uint32) uint32 {
	if div < 1 {
		return 0
	}
	return (div - 1) & RCC_CFGR2_PREDIV_Msk
}
