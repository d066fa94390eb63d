package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clockwork/host/monitor"
	"clockwork/host/serial"
)

var (
	monitorOpts = struct {
		device   string
		baud     int
		duration time.Duration
		period   float64
		capture  string
		quiet    bool
	}{}

	monitorCmd = &cobra.Command{
		Use:   "monitor",
		Short: "Read the board console and report clock and heartbeat timing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := serial.Open(&serial.Config{
				Device:      monitorOpts.device,
				Baud:        monitorOpts.baud,
				ReadTimeout: 0,
			})
			if err != nil {
				return err
			}
			defer port.Close()
			if err := port.Flush(); err != nil {
				logger.Warn("flush failed",
					zap.String("device", monitorOpts.device),
					zap.Error(err))
			}
			logger.Info("monitoring board console",
				zap.String("device", monitorOpts.device),
				zap.Int("baud", monitorOpts.baud),
				zap.Duration("duration", monitorOpts.duration))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if monitorOpts.duration > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, monitorOpts.duration)
				defer cancel()
			}

			m := monitor.New(port)
			if monitorOpts.capture != "" {
				f, err := os.Create(monitorOpts.capture)
				if err != nil {
					return fmt.Errorf("create capture: %w", err)
				}
				defer f.Close()
				m.Capture = f
			}

			out := cmd.OutOrStdout()
			err = m.Run(ctx, func(r monitor.Record) {
				if !monitorOpts.quiet || r.Kind == monitor.KindClock {
					fmt.Fprintf(out, "%10.1f  %s\n", r.HostMs, r.Raw)
				}
			})
			if err != nil {
				return err
			}
			return report(out, m.Records(), monitorOpts.period)
		},
	}

	statsOpts = struct {
		period float64
	}{}

	statsCmd = &cobra.Command{
		Use:   "stats <logfile>",
		Short: "Analyze a captured console log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			recs, err := monitor.ReadAll(f)
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), recs, statsOpts.period)
		},
	}
)

func init() {
	monitorCmd.Flags().StringVarP(&monitorOpts.device, "device", "d", "/dev/ttyACM0", "serial device path")
	monitorCmd.Flags().IntVarP(&monitorOpts.baud, "baud", "b", serial.DefaultBaud, "baud rate")
	monitorCmd.Flags().DurationVarP(&monitorOpts.duration, "duration", "t", 0, "stop after this long (0 = until interrupted)")
	monitorCmd.Flags().Float64Var(&monitorOpts.period, "period", 1000, "nominal heartbeat period in ms")
	monitorCmd.Flags().StringVarP(&monitorOpts.capture, "capture", "o", "", "write a timestamped copy of the log")
	monitorCmd.Flags().BoolVarP(&monitorOpts.quiet, "quiet", "q", false, "only print the clock result and the summary")

	statsCmd.Flags().Float64Var(&statsOpts.period, "period", 1000, "nominal heartbeat period in ms")
}

func report(w io.Writer, recs []monitor.Record, period float64) error {
	var clock *monitor.ClockInfo
	for _, r := range recs {
		if r.Kind != monitor.KindClock {
			continue
		}
		c, err := r.Clock()
		if err != nil {
			logger.Warn("bad clock line",
				zap.String("line", r.Raw),
				zap.Error(err))
			continue
		}
		clock = &c
	}
	if clock == nil {
		fmt.Fprintln(w, "clock: no result seen (board booted before the port opened?)")
	} else {
		fmt.Fprintf(w, "clock: source=%s status=%s sysclk=%s hse polls=%d\n",
			clock.Source, clock.Status, mhz(clock.Hz), clock.Polls)
	}

	s, err := monitor.Summarize(recs, period)
	if err != nil {
		fmt.Fprintf(w, "heartbeat: %v\n", err)
		return nil
	}
	fmt.Fprintf(w, "heartbeat: %d ticks, interval %.3f ms mean, %.3f ms stddev, %.0f..%.0f ms\n",
		s.Ticks, s.MeanMs, s.StdDevMs, s.MinMs, s.MaxMs)
	fmt.Fprintf(w, "period error: %+.3f ms against %.0f ms\n", s.PeriodErrorMs, s.NominalMs)
	if s.HasHostTime {
		fmt.Fprintf(w, "drift: %+.1f ppm against host clock\n", s.DriftPPM)
	}
	return nil
}
