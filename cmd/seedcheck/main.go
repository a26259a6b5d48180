// Command seedcheck inspects and simulates board bring-up on the host.
package main

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"seed-go/services/config"
)

var (
	planPath string
	device   = "seed"

	rootCmd = &cobra.Command{
		Use:           "seedcheck",
		Short:         "Check and simulate audio module bring-up",
		Long:          "Derive clocks, check the memory guard and run a simulated bring-up from a board plan, or follow the firmware log over serial.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&planPath, "plan", "p", "", "Board plan YAML laid over the device plan")
	rootCmd.PersistentFlags().StringVarP(&device, "device", "d", device, "Embedded device plan: "+strings.Join(devices(), ", "))
	rootCmd.AddCommand(planCmd, clocksCmd, guardCmd, simulateCmd, monitorCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		out.fail(err)
		os.Exit(1)
	}
}

func devices() []string {
	d := config.Devices()
	sort.Strings(d)
	return d
}
