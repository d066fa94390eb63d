package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"clockwork/host/monitor"
	"clockwork/plans"
)

func TestListPlans(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listPlans(&out, plans.All()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "RELOAD")
	assert.Contains(t, lines[1], "hsi-64mhz")
	assert.Contains(t, lines[1], "63999")
	assert.Contains(t, lines[2], "hse-72mhz")
	assert.Contains(t, lines[2], "71999")
	assert.Contains(t, lines[3], "hse-bypass-72mhz")
}

func TestShowPlan(t *testing.T) {
	info, err := plans.All().Find("hse")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, showPlan(&out, info))
	assert.Contains(t, out.String(), "sysclk:")
	assert.Contains(t, out.String(), "72 MHz")
	assert.Contains(t, out.String(), "pclk1:")
	assert.Contains(t, out.String(), "36 MHz (/2)")
	assert.NotContains(t, out.String(), "warning")
}

func TestShowPlanWarnings(t *testing.T) {
	ps, err := plans.Parse([]byte(`
plans:
  - name: overclocked
    source: hse
    sourceHz: 8000000
    pllMul: 9
    targetHz: 64000000
    flashLatency: 1
`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, showPlan(&out, ps[0]))
	assert.Contains(t, out.String(), "pll output does not match target")
	assert.Contains(t, out.String(), "pclk1 above 36 MHz")
	assert.Contains(t, out.String(), "flash latency below 2")
}

func TestShowPlanWarnsOnExplicitZeroLatency(t *testing.T) {
	ps, err := plans.Parse([]byte(`
plans:
  - name: no-wait-states
    source: hse
    sourceHz: 8000000
    pllMul: 9
    targetHz: 72000000
    apb1Div: 2
    flashLatency: 0
`))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, showPlan(&out, ps[0]))
	assert.Contains(t, out.String(), "0 wait states")
	assert.Contains(t, out.String(), "flash latency below 2")
}

func TestStatsCommand(t *testing.T) {
	log := filepath.Join(t.TempDir(), "boot.log")
	require.NoError(t, os.WriteFile(log, []byte(
		"@0.0 clock source=hse-bypass status=locked hz=72000000 polls=2\n"+
			"@1000.0 tick ms=1000 up=1000\n"+
			"@2000.0 tick ms=2000 up=2000\n"+
			"@3000.0 tick ms=3000 up=3000\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", log})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), "status=locked sysclk=72 MHz")
	assert.Contains(t, out.String(), "3 ticks")
	assert.Contains(t, out.String(), "drift:")
}

func TestMhz(t *testing.T) {
	assert.Equal(t, "72 MHz", mhz(72000000))
	assert.Equal(t, "0.500 MHz", mhz(500000))
}

func TestReportWarnsOnBadClockLine(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	saved := logger
	logger = zap.New(core)
	defer func() { logger = saved }()

	recs, err := monitor.ReadAll(strings.NewReader(
		"clock source=hse status=locked hz=72000000\n" +
			"tick ms=1000\ntick ms=2000\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, report(&out, recs, 1000))
	assert.Contains(t, out.String(), "clock: no result seen")

	entries := logs.FilterMessage("bad clock line").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "clock source=hse status=locked hz=72000000", entries[0].ContextMap()["line"])
	assert.Contains(t, entries[0].ContextMap()["error"], "missing field")
}
