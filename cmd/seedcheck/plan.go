package main

import (
	"fmt"
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"seed-go/services/config"
	"seed-go/types"
)

// loadPlan overlays the YAML at path on the embedded plan for the
// selected device.
func loadPlan(path string) (types.BoardPlan, error) {
	plan, err := config.NewConfigService().Plan(device)
	if err != nil || path == "" {
		return plan, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return plan, err
	}
	if err := yaml.UnmarshalStrict(b, &plan); err != nil {
		return plan, err
	}
	return plan, nil
}

var (
	planOpts = struct {
		sdramSize string
	}{}

	planCmd = &cobra.Command{
		Use:   "plan",
		Short: "Print the effective board plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := loadPlan(planPath)
			if err != nil {
				return err
			}
			if planOpts.sdramSize != "" {
				sz, err := bytesize.Parse(planOpts.sdramSize)
				if err != nil {
					return err
				}
				plan.SDRAM.SizeBytes = uint32(sz)
			}
			if err := plan.Validate(); err != nil {
				return err
			}
			b, err := yaml.Marshal(plan)
			if err != nil {
				return err
			}
			if _, err := out.w.Write(b); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out.w, "# fingerprint 0x%04x\n", plan.Fingerprint())
			return err
		},
	}
)

func init() {
	planCmd.Flags().StringVar(&planOpts.sdramSize, "sdram-size", "", "Override the guarded SDRAM size, e.g. 32MB")
}
