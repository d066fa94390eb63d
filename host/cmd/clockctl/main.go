package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// no-op until main builds the development logger
	logger = zap.NewNop()

	rootCmd = &cobra.Command{
		Use:   "clockctl",
		Short: "Inspect STM32F3 clock plans and watch a running board",
		Long: "clockctl lists the clock plans the firmware can be built with, and reads the " +
			"board's console to report the clock bring-up result and heartbeat timing.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.AddCommand(plansCmd, showCmd, monitorCmd, statsCmd)
}

func main() {
	if l, err := zap.NewDevelopment(); err == nil {
		logger = l
	}
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("clockctl failed", zap.Error(err))
	}
}
