//go:build stm32f303 && clk_hse

package main

import "clockwork/core"

// For boards with an 8MHz crystal fitted at X2
var bootPlan = core.PlanHSE72
