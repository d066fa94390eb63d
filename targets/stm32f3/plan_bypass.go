//go:build stm32f303 && !clk_hsi && !clk_hse

package main

import "clockwork/core"

// The ST-Link's 8MHz MCO drives OSC_IN on the Discovery board
var bootPlan = core.PlanHSEBypass72
