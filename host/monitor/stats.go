package monitor

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrTooFewTicks = errors.New("need at least two tick records")

// Stats summarizes the heartbeat lines of a log
type Stats struct {
	Ticks int

	// Intervals between consecutive heartbeats in board milliseconds
	MeanMs   float64
	StdDevMs float64
	MinMs    float64
	MaxMs    float64

	// NominalMs is the heartbeat period the intervals are compared to
	NominalMs float64
	// PeriodErrorMs is MeanMs - NominalMs
	PeriodErrorMs float64

	// DriftPPM is how fast the board's millisecond counter runs against
	// the host clock, from a least squares fit of board time on host
	// time. Zero unless every tick carries a host time.
	DriftPPM    float64
	HasHostTime bool
}

// Summarize computes heartbeat statistics over the tick records
func Summarize(records []Record, nominalMs float64) (Stats, error) {
	var board, host []float64
	hasHost := true
	for _, r := range records {
		if r.Kind != KindTick {
			continue
		}
		ms, err := r.TickMs()
		if err != nil {
			return Stats{}, err
		}
		board = append(board, float64(ms))
		host = append(host, r.HostMs)
		hasHost = hasHost && r.HasHostTime
	}
	if len(board) < 2 {
		return Stats{}, ErrTooFewTicks
	}

	intervals := make([]float64, 0, len(board)-1)
	for i := 1; i < len(board); i++ {
		intervals = append(intervals, boardDelta(board[i-1], board[i]))
	}
	mean, std := stat.MeanStdDev(intervals, nil)

	s := Stats{
		Ticks:         len(board),
		MeanMs:        mean,
		StdDevMs:      std,
		MinMs:         math.Inf(1),
		MaxMs:         math.Inf(-1),
		NominalMs:     nominalMs,
		PeriodErrorMs: mean - nominalMs,
	}
	for _, v := range intervals {
		s.MinMs = math.Min(s.MinMs, v)
		s.MaxMs = math.Max(s.MaxMs, v)
	}

	if hasHost && host[len(host)-1] > host[0] {
		// Unwrap board time so the fit is monotonic across a counter wrap
		unwrapped := make([]float64, len(board))
		for i := range board {
			if i == 0 {
				unwrapped[i] = board[0]
				continue
			}
			unwrapped[i] = unwrapped[i-1] + intervals[i-1]
		}
		_, slope := stat.LinearRegression(host, unwrapped, nil, false)
		s.DriftPPM = (slope - 1) * 1e6
		s.HasHostTime = true
	}
	return s, nil
}

// boardDelta is the wrap-safe distance between two 32-bit ms readings
func boardDelta(prev, next float64) float64 {
	return float64(uint32(next) - uint32(prev))
}
