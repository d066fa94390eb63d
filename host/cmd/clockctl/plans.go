package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clockwork/core"
	"clockwork/plans"
)

var (
	plansOpts = struct {
		file string
	}{}

	plansCmd = &cobra.Command{
		Use:   "plans",
		Short: "List clock plans",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := plans.Load(plansOpts.file)
			if err != nil {
				return err
			}
			return listPlans(cmd.OutOrStdout(), all)
		},
	}

	showCmd = &cobra.Command{
		Use:   "show <plan>",
		Short: "Print one clock plan in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := plans.Load(plansOpts.file)
			if err != nil {
				return err
			}
			info, err := all.Find(args[0])
			if err != nil {
				return err
			}
			return showPlan(cmd.OutOrStdout(), info)
		},
	}
)

func init() {
	plansCmd.Flags().StringVarP(&plansOpts.file, "file", "f", "", "plans YAML file (default: built-in plans)")
	showCmd.Flags().StringVarP(&plansOpts.file, "file", "f", "", "plans YAML file (default: built-in plans)")
}

func listPlans(w io.Writer, all plans.Plans) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSOURCE\tSYSCLK\tHCLK\tPCLK1\tPCLK2\tRELOAD\tLATENCY")
	for _, info := range all {
		p, err := info.ClockPlan()
		if err != nil {
			return err
		}
		reload, err := core.ReloadFor(p.TargetHz)
		if err != nil {
			return fmt.Errorf("plan %s: %w", p.Name, err)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%d\n", p.Name, p.Source,
			mhz(p.SysClkHz()), mhz(p.HCLK()), mhz(p.PCLK1()), mhz(p.PCLK2()), reload, p.FlashLatency)
	}
	return tw.Flush()
}

func showPlan(w io.Writer, info plans.PlanInfo) error {
	p, err := info.ClockPlan()
	if err != nil {
		return err
	}
	reload, err := core.ReloadFor(p.TargetHz)
	if err != nil {
		return fmt.Errorf("plan %s: %w", p.Name, err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", p.Name)
	if len(info.Aliases) > 0 {
		fmt.Fprintf(tw, "aliases:\t%v\n", info.Aliases)
	}
	fmt.Fprintf(tw, "source:\t%s (%s)\n", p.Source, mhz(p.SourceHz))
	fmt.Fprintf(tw, "pll input:\t%s\n", mhz(p.PLLInputHz()))
	fmt.Fprintf(tw, "pll mul:\tx%d\n", p.PLLMul)
	fmt.Fprintf(tw, "sysclk:\t%s\n", mhz(p.SysClkHz()))
	fmt.Fprintf(tw, "target:\t%s\n", mhz(p.TargetHz))
	fmt.Fprintf(tw, "hclk:\t%s (/%d)\n", mhz(p.HCLK()), p.AHBDiv)
	fmt.Fprintf(tw, "pclk1:\t%s (/%d)\n", mhz(p.PCLK1()), p.APB1Div)
	fmt.Fprintf(tw, "pclk2:\t%s (/%d)\n", mhz(p.PCLK2()), p.APB2Div)
	fmt.Fprintf(tw, "flash:\t%d wait states, prefetch %v\n", p.FlashLatency, p.Prefetch)
	fmt.Fprintf(tw, "systick reload:\t%d\n", reload)
	if p.SysClkHz() != p.TargetHz {
		fmt.Fprintf(tw, "warning:\tpll output does not match target\n")
	}
	if p.PCLK1() > 36000000 {
		fmt.Fprintf(tw, "warning:\tpclk1 above 36 MHz\n")
	}
	if want := core.FlashLatencyFor(p.TargetHz); p.FlashLatency < want {
		fmt.Fprintf(tw, "warning:\tflash latency below %d for this frequency\n", want)
	}
	return tw.Flush()
}

func mhz(hz uint32) string {
	if hz%1000000 == 0 {
		return fmt.Sprintf("%d MHz", hz/1000000)
	}
	return fmt.Sprintf("%.3f MHz", float64(hz)/1e6)
}
