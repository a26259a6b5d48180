package main

import (
	"fmt"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/cobra"

	"seed-go/memguard"
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Check the SDRAM protection region and show its encoding",
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(planPath)
		if err != nil {
			return err
		}
		r := memguard.Region{Base: plan.SDRAM.Base, Size: plan.SDRAM.SizeBytes, Index: uint32(plan.SDRAM.Region)}
		if err := r.Validate(); err != nil {
			return err
		}
		a := r.Aligned()
		out.head("memory guard")
		out.row("region", a.Index)
		out.row("base", fmt.Sprintf("0x%08X", a.Base))
		out.row("size", bytesize.New(float64(a.Size)).String())
		out.row("RBAR", fmt.Sprintf("0x%08X", a.Base))
		out.row("RASR", fmt.Sprintf("0x%08X", memguard.EncodeRASR(a)))
		if a.Base != r.Base {
			out.color(ansiYellow, "base aligned down from 0x%08X\n", r.Base)
		}
		out.ok("region valid")
		return nil
	},
}
