package monitor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Monitor reads console lines from a board and stamps them with the host
// receive time
type Monitor struct {
	src   io.Reader
	start time.Time
	now   func() time.Time

	// Capture, if set, receives every line prefixed with its host time in
	// the form ParseLine accepts
	Capture io.Writer

	records []Record
}

// New returns a monitor reading from src
func New(src io.Reader) *Monitor {
	return &Monitor{src: src, now: time.Now}
}

// Records returns everything read so far
func (m *Monitor) Records() []Record {
	return m.records
}

// Clock returns the last clock result the board reported
func (m *Monitor) Clock() (ClockInfo, bool) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].Kind == KindClock {
			if c, err := m.records[i].Clock(); err == nil {
				return c, true
			}
		}
	}
	return ClockInfo{}, false
}

// Run reads lines until src ends or ctx is done, calling fn for each
// record when fn is not nil. Cancelling ctx is not an error.
func (m *Monitor) Run(ctx context.Context, fn func(Record)) error {
	m.start = m.now()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(m.src)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return fmt.Errorf("read console: %w", err)
				}
				return nil
			}
			rec, err := m.add(line)
			if err != nil {
				return err
			}
			if fn != nil {
				fn(rec)
			}
		}
	}
}

func (m *Monitor) add(line string) (Record, error) {
	rec := ParseLine(line)
	if !rec.HasHostTime {
		rec.HostMs = float64(m.now().Sub(m.start)) / float64(time.Millisecond)
		rec.HasHostTime = true
	}
	m.records = append(m.records, rec)

	if m.Capture != nil {
		stamp := strconv.FormatFloat(rec.HostMs, 'f', 3, 64)
		if _, err := fmt.Fprintf(m.Capture, "@%s %s\n", stamp, rec.Raw); err != nil {
			return rec, fmt.Errorf("write capture: %w", err)
		}
	}
	return rec, nil
}

// ReadAll parses a captured or plain log
func ReadAll(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		out = append(out, ParseLine(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return out, nil
}
