package sim

import "clockwork/core"

// Board is a simulated STM32F3 with the boot sequence the firmware runs
type Board struct {
	Clock *ClockTree
	Tick  *SysTick

	Result core.ClockResult
	Config core.TickConfig
}

// NewBoard returns a board in its reset state
func NewBoard() *Board {
	return &Board{
		Clock: NewClockTree(),
		Tick:  NewSysTick(),
	}
}

// Controller returns a clock controller wired to the board's registers
func (b *Board) Controller(plan core.ClockPlan) *core.ClockController {
	return core.NewClockController(b.Clock.RCC(), b.Clock.Flash(), plan)
}

// Boot brings up the clocks for plan, then starts the 1ms tick at the
// resulting frequency
func (b *Board) Boot(plan core.ClockPlan) error {
	return b.BootWith(b.Controller(plan))
}

// BootWith is Boot with a caller-configured controller
func (b *Board) BootWith(c *core.ClockController) error {
	b.Result = c.InitializeClocks()
	cfg, err := core.InitTimekeeping(b.Tick.Registers(b.Clock.RCC()), b.Result.Hz)
	if err != nil {
		return err
	}
	b.Config = cfg
	return nil
}

// RunMs advances simulated time by ms milliseconds at the current SYSCLK
func (b *Board) RunMs(ms uint32) int {
	return b.Tick.AdvanceMs(ms, b.Clock.SysClkHz())
}
