package plans

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clockwork/core"
)

func TestEmbeddedPlansMatchFirmware(t *testing.T) {
	all := All()
	firmware := core.BuiltinPlans()
	require.Len(t, all, len(firmware))

	for i, info := range all {
		plan, err := info.ClockPlan()
		require.NoError(t, err)
		assert.Equal(t, firmware[i], plan, info.Name)
		assert.Equal(t, plan.TargetHz, plan.SysClkHz(), "%s: multiplier does not reach target", info.Name)
		assert.Equal(t, core.FlashLatencyFor(plan.TargetHz), plan.FlashLatency, info.Name)
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"hsi-64mhz", "hsi-64mhz"},
		{"HSI", "hsi-64mhz"},
		{"crystal", "hse-72mhz"},
		{"default", "hse-bypass-72mhz"},
		{"stlink", "hse-bypass-72mhz"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, err := All().Find(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Name)
		})
	}

	_, err := All().Find("pll-128mhz")
	assert.True(t, errors.Is(err, ErrPlanNotFound))
}

func TestParseDefaults(t *testing.T) {
	doc := []byte(`
plans:
  - name: hsi-32mhz
    source: hsi
    pllMul: 8
    targetHz: 32000000
`)
	ps, err := Parse(doc)
	require.NoError(t, err)
	require.Len(t, ps, 1)

	plan, err := ps[0].ClockPlan()
	require.NoError(t, err)
	assert.Equal(t, uint32(core.HSIFrequency), plan.SourceHz)
	assert.Equal(t, uint32(1), plan.PLLPrediv)
	assert.Equal(t, uint32(1), plan.AHBDiv)
	assert.Equal(t, uint32(1), plan.APB1Div)
	assert.Equal(t, uint32(1), plan.APB2Div)
	assert.Equal(t, uint32(1), plan.FlashLatency)
	assert.Equal(t, plan.TargetHz, plan.SysClkHz())
}

func TestParseRejectsUnknownSource(t *testing.T) {
	_, err := Parse([]byte("plans:\n  - name: lse\n    source: lse\n"))
	assert.ErrorIs(t, err, ErrUnknownSource)

	_, err = Parse([]byte("plans: [unterminated"))
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"hsi-64mhz", "hse-72mhz", "hse-bypass-72mhz"}, All().Names())
}

func TestParseKeepsExplicitZeroLatency(t *testing.T) {
	ps, err := Parse([]byte(`
plans:
  - name: hse-72mhz-no-wait
    source: hse
    sourceHz: 8000000
    pllMul: 9
    targetHz: 72000000
    flashLatency: 0
`))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	require.NotNil(t, ps[0].FlashLatency)

	plan, err := ps[0].ClockPlan()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), plan.FlashLatency)
}

func TestParseSourceCaseInsensitive(t *testing.T) {
	ps, err := Parse([]byte(`
plans:
  - name: hsi-upper
    source: HSI
    pllMul: 16
    targetHz: 64000000
`))
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "hsi", ps[0].Source)

	plan, err := ps[0].ClockPlan()
	require.NoError(t, err)
	assert.Equal(t, core.SourceHSI, plan.Source)
	assert.Equal(t, uint32(core.HSIFrequency), plan.SourceHz)
	assert.Equal(t, plan.TargetHz, plan.SysClkHz())
}
