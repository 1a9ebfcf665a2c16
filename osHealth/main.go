// This package checks host resource usage against configured limits.
//
// A snapshot run collects CPU, memory and per-filesystem disk usage,
// compares every value against its limit and renders the result. The
// same building blocks back both the osHealth subcommand and the
// interactive console.

package osHealth

import (
	"fmt"
	"time"

	"github.com/monobilisim/hostkit/common"
	"github.com/spf13/cobra"
)

// LimitsFromConfig returns the thresholds the configuration file and
// defaults establish at startup.
func LimitsFromConfig() Limits {
	return Limits{
		CPU:    common.Config.Thresholds.Cpu,
		Memory: common.Config.Thresholds.Ram,
		Disk:   common.Config.Thresholds.Disk,
	}
}

// BuildReport runs one collection pass and evaluates it against the
// given limits.
func BuildReport(collector *Collector, limits Limits) *Report {
	return &Report{
		Host:      CollectHostInfo(),
		Results:   Evaluate(collector.Collect(), limits),
		Limits:    limits,
		Collected: time.Now(),
	}
}

// Snapshot collects, evaluates and renders one health report with the
// given limits.
func Snapshot(limits Limits) string {
	return BuildReport(NewCollector(), limits).Render()
}

// Main is the entry point of the osHealth subcommand.
func Main(cmd *cobra.Command, args []string) {
	common.Init()
	fmt.Println(Snapshot(LimitsFromConfig()))
}
