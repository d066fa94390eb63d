// Package monitor parses the board's console log and measures the heartbeat.
package monitor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Kind classifies a console line
type Kind int

const (
	KindRaw Kind = iota
	KindClock
	KindTick
	KindSysTick
	KindTiming
	KindNotice
)

func (k Kind) String() string {
	switch k {
	case KindClock:
		return "clock"
	case KindTick:
		return "tick"
	case KindSysTick:
		return "systick"
	case KindTiming:
		return "timing"
	case KindNotice:
		return "notice"
	}
	return "raw"
}

var ErrMissingField = errors.New("missing field")

// Record is one parsed console line
type Record struct {
	Kind Kind
	// Event is the timing event name for KindTiming, the bracketed tag
	// for KindNotice
	Event  string
	Fields map[string]string
	Raw    string

	// HostMs is the host receive time in ms since capture start
	HostMs      float64
	HasHostTime bool
}

// ClockInfo is the result of clock bring-up as the board reported it
type ClockInfo struct {
	Source string
	Status string
	Hz     uint32
	Polls  uint32
}

// Locked reports whether the PLL drove SYSCLK from the requested source
func (c ClockInfo) Locked() bool {
	return c.Status == "locked"
}

// Uint returns a numeric field
func (r Record) Uint(key string) (uint64, error) {
	v, ok := r.Fields[key]
	if !ok {
		return 0, fmt.Errorf("%s %s: %w", r.Kind, key, ErrMissingField)
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", r.Kind, key, err)
	}
	return n, nil
}

// Clock decodes a KindClock record
func (r Record) Clock() (ClockInfo, error) {
	if r.Kind != KindClock {
		return ClockInfo{}, fmt.Errorf("not a clock record: %s", r.Kind)
	}
	hz, err := r.Uint("hz")
	if err != nil {
		return ClockInfo{}, err
	}
	polls, err := r.Uint("polls")
	if err != nil {
		return ClockInfo{}, err
	}
	return ClockInfo{
		Source: r.Fields["source"],
		Status: r.Fields["status"],
		Hz:     uint32(hz),
		Polls:  uint32(polls),
	}, nil
}

// TickMs returns the board time of a KindTick record
func (r Record) TickMs() (uint32, error) {
	ms, err := r.Uint("ms")
	return uint32(ms), err
}

// ParseLine classifies one console line. A line that does not tokenize is
// kept as KindRaw.
func ParseLine(line string) Record {
	line = strings.TrimRight(line, "\r\n")
	rec := Record{Kind: KindRaw, Raw: line}

	// Captured lines carry the host time as a leading @ms token
	if strings.HasPrefix(line, "@") {
		stamp, text, _ := strings.Cut(line[1:], " ")
		if ms, err := strconv.ParseFloat(stamp, 64); err == nil {
			rec.HostMs = ms
			rec.HasHostTime = true
			line = text
			rec.Raw = text
		}
	}

	tokens, err := shlex.Split(line)
	if err != nil || len(tokens) == 0 {
		return rec
	}

	head, rest := tokens[0], tokens[1:]
	switch {
	case head == "clock":
		rec.Kind = KindClock
	case head == "tick":
		rec.Kind = KindTick
	case head == "systick":
		rec.Kind = KindSysTick
	case head == "[TIMING]" && len(rest) > 0:
		rec.Kind = KindTiming
		rec.Event = strings.TrimSuffix(rest[0], "!")
		rest = rest[1:]
	case strings.HasPrefix(head, "[") && strings.HasSuffix(head, "]"):
		rec.Kind = KindNotice
		rec.Event = strings.Trim(head, "[]")
		return rec
	default:
		return rec
	}

	rec.Fields = make(map[string]string, len(rest))
	for _, tok := range rest {
		k, v, ok := strings.Cut(tok, "=")
		if !ok {
			continue
		}
		rec.Fields[k] = v
	}
	return rec
}
