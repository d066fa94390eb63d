package main

import (
	"encoding/json"
	"go/build/constraint"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTargetTags(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile("stm32f303.json")
	require.NoError(t, err)

	var spec struct {
		Inherits     []string `json:"inherits"`
		BuildTags    []string `json:"build-tags"`
		LinkerScript string   `json:"linkerscript"`
	}
	require.NoError(t, json.Unmarshal(data, &spec))
	assert.Equal(t, []string{"cortex-m4"}, spec.Inherits)
	assert.FileExists(t, filepath.Base(spec.LinkerScript))
	return spec.BuildTags
}

// selected returns the firmware files a build with tags compiles
func selected(t *testing.T, tags []string) []string {
	t.Helper()
	set := map[string]bool{"tinygo": true}
	for _, tag := range tags {
		set[tag] = true
	}

	files, err := filepath.Glob("*.go")
	require.NoError(t, err)

	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		line, _, _ := strings.Cut(string(data), "\n")
		expr, err := constraint.Parse(line)
		require.NoError(t, err, f)
		if expr.Eval(func(tag string) bool { return set[tag] }) {
			out = append(out, f)
		}
	}
	return out
}

func TestTargetSelectsFirmware(t *testing.T) {
	tags := loadTargetTags(t)
	require.Contains(t, tags, "stm32f303")

	tests := []struct {
		extra []string
		plan  string
	}{
		{nil, "plan_bypass.go"},
		{[]string{"clk_hse"}, "plan_hse.go"},
		{[]string{"clk_hsi"}, "plan_hsi.go"},
		{[]string{"clk_hsi", "clk_hse"}, "plan_hse.go"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(append([]string{"default"}, tt.extra...), "+"), func(t *testing.T) {
			files := selected(t, append(append([]string{}, tags...), tt.extra...))
			assert.ElementsMatch(t, []string{"gpio.go", "main.go", "registers.go", tt.plan}, files)
		})
	}
}

func TestHostBuildSelectsNothing(t *testing.T) {
	files := selected(t, []string{"linux", "amd64"})
	// without the chip tag nothing builds
	assert.Empty(t, files)
}
