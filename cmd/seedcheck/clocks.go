package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"seed-go/clocktree"
)

var clocksCmd = &cobra.Command{
	Use:   "clocks",
	Short: "Derive the clock tree for the plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(planPath)
		if err != nil {
			return err
		}
		d, err := clocktree.Derive(clocktree.ClockSpec{
			CrystalHz:     plan.CrystalHz,
			TargetSysHz:   plan.TargetSysHz,
			TargetAudioHz: plan.TargetAudioHz,
		})
		if err != nil {
			return err
		}
		out.head("clocks")
		out.row("sys", mhz(d.SysHz))
		out.row("peripheral", mhz(d.PeripheralHz))
		out.row("timer", mhz(d.TimerHz))
		out.row("spi kernel", mhz(d.PLL1QHz))
		out.row("adc kernel", mhz(d.PLL2PHz))
		out.row("sai kernel", mhz(d.PLL3PHz))
		for i, p := range [...]clocktree.PLLConfig{d.PLL1, d.PLL2, d.PLL3} {
			out.head(fmt.Sprintf("pll%d", i+1))
			out.row("m/n/frac", fmt.Sprintf("%d/%d/%d", p.M, p.N, p.FracN))
			out.row("p/q/r", fmt.Sprintf("%d/%d/%d", p.P, p.Q, p.R))
			out.row("range", fmt.Sprintf("%d wide=%v", p.Range, p.WideVCO))
			out.row("p out", mhz(p.PHz))
			if p.Q != 0 {
				out.row("q out", mhz(p.QHz))
			}
			if p.R != 0 {
				out.row("r out", mhz(p.RHz))
			}
		}
		out.ok("clock tree reachable")
		return nil
	},
}
