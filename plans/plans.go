// Package plans loads clock plans from YAML for the host tools.
package plans

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"clockwork/core"
)

//go:embed plans.yaml
var rawPlans []byte

var builtin Plans

var (
	ErrPlanNotFound  = errors.New("plan not found")
	ErrUnknownSource = errors.New("unknown clock source")
)

// All returns the embedded plans
func All() Plans {
	return builtin
}

type Plans []PlanInfo
type PlanInfo struct {
	Name         string   `yaml:"name"`
	Aliases      []string `yaml:"aliases"`
	Source       string   `yaml:"source"`
	SourceHz     uint32   `yaml:"sourceHz"`
	PLLPrediv    uint32   `yaml:"pllPrediv"`
	PLLMul       uint32   `yaml:"pllMul"`
	TargetHz     uint32   `yaml:"targetHz"`
	AHBDiv       uint32   `yaml:"ahbDiv"`
	APB1Div      uint32   `yaml:"apb1Div"`
	APB2Div      uint32   `yaml:"apb2Div"`
	FlashLatency *uint32  `yaml:"flashLatency"` // nil when the file leaves it out
	Prefetch     bool     `yaml:"prefetch"`
}

// ClockPlan converts the file form into the firmware's plan
func (p PlanInfo) ClockPlan() (core.ClockPlan, error) {
	src, ok := core.ParseClockSource(strings.ToLower(p.Source))
	if !ok {
		return core.ClockPlan{}, fmt.Errorf("plan %s: %w %q", p.Name, ErrUnknownSource, p.Source)
	}
	latency := core.FlashLatencyFor(p.TargetHz)
	if p.FlashLatency != nil {
		latency = *p.FlashLatency
	}
	return core.ClockPlan{
		Name:         p.Name,
		Source:       src,
		SourceHz:     p.SourceHz,
		PLLPrediv:    p.PLLPrediv,
		PLLMul:       p.PLLMul,
		TargetHz:     p.TargetHz,
		AHBDiv:       p.AHBDiv,
		APB1Div:      p.APB1Div,
		APB2Div:      p.APB2Div,
		FlashLatency: latency,
		Prefetch:     p.Prefetch,
	}, nil
}

// Find looks a plan up by name or alias
func (t Plans) Find(name string) (PlanInfo, error) {
	name = strings.ToLower(name)
	for _, plan := range t {
		if plan.Name == name || slices.Contains(plan.Aliases, name) {
			return plan, nil
		}
	}
	return PlanInfo{}, fmt.Errorf("%w: %s", ErrPlanNotFound, name)
}

// Names returns the plan names in file order
func (t Plans) Names() []string {
	names := make([]string, len(t))
	for i, plan := range t {
		names[i] = plan.Name
	}
	return names
}

// Parse decodes a plans document
func Parse(data []byte) (Plans, error) {
	var doc struct {
		Elements Plans `yaml:"plans"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plans: %w", err)
	}
	for i := range doc.Elements {
		applyDefaults(&doc.Elements[i])
		if _, err := doc.Elements[i].ClockPlan(); err != nil {
			return nil, err
		}
	}
	return doc.Elements, nil
}

// Load reads a plans file; an empty path returns the embedded plans
func Load(path string) (Plans, error) {
	if path == "" {
		return builtin, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plans %s: %w", path, err)
	}
	return Parse(data)
}

// applyDefaults fills dividers left out of a plan file with /1 and derives
// an omitted flash latency from the target frequency. An explicit
// flashLatency, 0 included, is kept as written.
func applyDefaults(p *PlanInfo) {
	p.Source = strings.ToLower(p.Source)
	if p.PLLPrediv == 0 {
		p.PLLPrediv = 1
	}
	if p.AHBDiv == 0 {
		p.AHBDiv = 1
	}
	if p.APB1Div == 0 {
		p.APB1Div = 1
	}
	if p.APB2Div == 0 {
		p.APB2Div = 1
	}
	if p.Source == "hsi" && p.SourceHz == 0 {
		p.SourceHz = core.HSIFrequency
	}
	if p.FlashLatency == nil {
		latency := core.FlashLatencyFor(p.TargetHz)
		p.FlashLatency = &latency
	}
}

func init() {
	t, err := Parse(rawPlans)
	if err != nil {
		panic(err)
	}
	builtin = t
}
