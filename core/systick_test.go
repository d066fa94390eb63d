package core_test

import (
	"errors"
	"testing"

	"clockwork/core"
	"clockwork/sim"
)

func TestReloadFor(t *testing.T) {
	cases := []struct {
		hz, reload uint32
	}{
		{72000000, 71999},
		{16000000, 15999},
		{8000000, 7999},
		{1000, 0},
	}
	for _, c := range cases {
		got, err := core.ReloadFor(c.hz)
		if err != nil {
			t.Errorf("ReloadFor(%d): unexpected error %v", c.hz, err)
			continue
		}
		if got != c.reload {
			t.Errorf("ReloadFor(%d): expected %d, got %d", c.hz, c.reload, got)
		}
	}
}

func TestInitTimekeepingRejectsLowFrequency(t *testing.T) {
	tick := sim.NewSysTick()
	_, err := core.InitTimekeeping(tick.Registers(nil), 999)
	if !errors.Is(err, core.ErrFrequencyTooLow) {
		t.Fatalf("Expected ErrFrequencyTooLow, got %v", err)
	}
	if tick.Enabled() {
		t.Error("SysTick must stay disabled on error")
	}
}

func TestInitTimekeepingRegisters(t *testing.T) {
	board := sim.NewBoard()
	board.Tick.SHPR3.Value = 0xFF00FF00 // PendSV and SysTick at lowest priority
	board.Tick.CVR.Value = 1234
	core.SetTicks(500)

	cfg, err := core.InitTimekeeping(board.Tick.Registers(board.Clock.RCC()), 72000000)
	if err != nil {
		t.Fatalf("InitTimekeeping failed: %v", err)
	}

	if cfg.Reload != 71999 || board.Tick.RVR.Value != 71999 {
		t.Errorf("Expected reload 71999, config=%d RVR=%d", cfg.Reload, board.Tick.RVR.Value)
	}
	if board.Tick.CVR.Value != 0 {
		t.Errorf("Expected CVR cleared, got %d", board.Tick.CVR.Value)
	}
	want := uint32(core.SYST_CSR_ENABLE | core.SYST_CSR_TICKINT | core.SYST_CSR_CLKSOURCE)
	if board.Tick.CSR.Value != want {
		t.Errorf("Expected CSR 0x%x, got 0x%x", want, board.Tick.CSR.Value)
	}
	if board.Tick.Priority() != 0 {
		t.Errorf("Expected SysTick priority 0, got %d", board.Tick.Priority())
	}
	if board.Tick.SHPR3.Value&0x00FFFFFF != 0x0000FF00 {
		t.Errorf("Other SHPR3 fields changed: 0x%08x", board.Tick.SHPR3.Value)
	}
	if board.Clock.APB2ENR.Value&core.RCC_APB2ENR_SYSCFGEN == 0 {
		t.Error("Expected SYSCFG clock enabled")
	}
	if core.NowMs() != 0 {
		t.Errorf("Expected tick counter reset to 0, got %d", core.NowMs())
	}
}

func TestTickCountMatchesFirings(t *testing.T) {
	board := sim.NewBoard()
	if err := board.Boot(core.PlanHSEBypass72); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	fired := board.RunMs(250)
	if fired != 250 {
		t.Errorf("Expected 250 interrupts, got %d", fired)
	}
	if core.NowMs() != 250 {
		t.Errorf("Expected NowMs 250, got %d", core.NowMs())
	}

	// Half a millisecond does not produce a tick
	board.Tick.Advance(36000)
	if core.NowMs() != 250 {
		t.Errorf("Expected NowMs still 250, got %d", core.NowMs())
	}
	board.Tick.Advance(36000)
	if core.NowMs() != 251 {
		t.Errorf("Expected NowMs 251, got %d", core.NowMs())
	}
}

func TestTickAfterFallbackRunsAtHSIRate(t *testing.T) {
	board := sim.NewBoard()
	board.Clock.HSEReadyAfter = sim.Never
	if err := board.Boot(core.PlanHSEBypass72); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}

	if board.Result.Status != core.StatusFellBack {
		t.Fatalf("Expected fallback, got %s", board.Result.Status)
	}
	if board.Config.Reload != 7999 {
		t.Errorf("Expected reload 7999 at 8MHz, got %d", board.Config.Reload)
	}
	board.RunMs(10)
	if core.NowMs() != 10 {
		t.Errorf("Expected 10ms, got %d", core.NowMs())
	}
}

func TestNowMsIdempotent(t *testing.T) {
	board := sim.NewBoard()
	if err := board.Boot(core.PlanHSI64); err != nil {
		t.Fatalf("Boot failed: %v", err)
	}
	board.RunMs(3)
	a := core.NowMs()
	b := core.NowMs()
	if a != b {
		t.Errorf("NowMs changed without a tick: %d then %d", a, b)
	}
}
