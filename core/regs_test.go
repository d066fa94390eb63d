package core

import "testing"

func TestReg32Bits(t *testing.T) {
	var r Reg32
	r.SetBits(0x5)
	r.ClearBits(0x1)
	if r.Get() != 0x4 {
		t.Errorf("Expected 0x4, got 0x%x", r.Get())
	}
	if !r.HasBits(0x6) {
		t.Error("HasBits should report any matching bit")
	}
	if r.HasBits(0x1) {
		t.Error("HasBits(0x1) should be false")
	}
}

func TestReg32ReplaceBits(t *testing.T) {
	r := Reg32{Value: 0xFFFFFFFF}
	r.ReplaceBits(0x2, RCC_CFGR_PPRE1_Msk, RCC_CFGR_PPRE1_Pos)
	want := uint32(0xFFFFFFFF&^(0x7<<8) | 0x2<<8)
	if r.Get() != want {
		t.Errorf("Expected 0x%08x, got 0x%08x", want, r.Get())
	}
}

func TestReg32Hooks(t *testing.T) {
	writes := 0
	var prev uint32
	r := Reg32{
		OnWrite: func(r *Reg32, old uint32) {
			writes++
			prev = old
		},
		OnRead: func(r *Reg32) { r.Value |= 0x100 },
	}
	r.Set(0x1)
	r.SetBits(0x2)
	if writes != 2 {
		t.Errorf("Expected 2 writes, got %d", writes)
	}
	if prev != 0x101 {
		t.Errorf("Expected previous value 0x101, got 0x%x", prev)
	}
	if r.Get() != 0x103 {
		t.Errorf("Expected 0x103, got 0x%x", r.Get())
	}
}

func TestPrescalerEncoding(t *testing.T) {
	cases := []struct {
		div, hpre, ppre uint32
	}{
		{1, 0x0, 0x0},
		{2, 0x8, 0x4},
		{4, 0x9, 0x5},
		{8, 0xA, 0x6},
		{16, 0xB, 0x7},
	}
	for _, c := range cases {
		if got := hpreBits(c.div); got != c.hpre {
			t.Errorf("hpreBits(%d): expected 0x%x, got 0x%x", c.div, c.hpre, got)
		}
		if got := ppreBits(c.div); got != c.ppre {
			t.Errorf("ppreBits(%d): expected 0x%x, got 0x%x", c.div, c.ppre, got)
		}
	}
	if pllMulBits(9) != 0x7 || pllMulBits(16) != 0xE {
		t.Errorf("Unexpected PLLMUL encoding: x9=0x%x x16=0x%x", pllMulBits(9), pllMulBits(16))
	}
	if predivBits(1) != 0 || predivBits(2) != 1 {
		t.Errorf("Unexpected PREDIV encoding: /1=%d /2=%d", predivBits(1), predivBits(2))
	}
}
