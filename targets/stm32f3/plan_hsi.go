//go:build stm32f303 && clk_hsi && !clk_hse

package main

import "clockwork/core"

var bootPlan = core.PlanHSI64
