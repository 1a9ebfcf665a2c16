// This package lists and signals processes for the operator console.

package procMon

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"
)

// ParseSortKey normalizes operator input into a SortKey.
func ParseSortKey(input string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "", "cpu":
		return SortCPU, nil
	case "mem", "memory", "ram":
		return SortMemory, nil
	}
	return "", fmt.Errorf("unknown sort key %q: use cpu or memory", input)
}

// ParsePID validates a numeric process ID from operator input.
func ParsePID(input string) (int32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, errors.New("PID must not be empty")
	}
	pid, err := strconv.ParseInt(input, 10, 32)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid PID %q: must be a positive integer", input)
	}
	return int32(pid), nil
}

// ListTop returns the busiest processes ordered by the sort key,
// truncated to n entries. Per-process read failures leave the affected
// field zeroed instead of dropping the row.
func ListTop(n int, key SortKey) ([]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		info := ProcessInfo{PID: p.Pid}
		if value, err := p.CPUPercent(); err == nil {
			info.CPU = value
		}
		if value, err := p.MemoryPercent(); err == nil {
			info.Memory = value
		}
		if stats, err := p.MemoryInfo(); err == nil && stats != nil {
			info.RSS = stats.RSS
		}
		if value, err := p.Username(); err == nil {
			info.User = value
		}
		if value, err := p.Name(); err == nil {
			info.Command = value
		}
		infos = append(infos, info)
	}

	sortProcesses(infos, key)
	if n > 0 && len(infos) > n {
		infos = infos[:n]
	}
	return infos, nil
}

func sortProcesses(infos []ProcessInfo, key SortKey) {
	sort.SliceStable(infos, func(i, j int) bool {
		if key == SortMemory {
			return infos[i].Memory > infos[j].Memory
		}
		return infos[i].CPU > infos[j].CPU
	})
}

// Kill delivers a termination signal: SIGTERM by default, SIGKILL when
// force is set. A PID without a live process is a plain error.
func Kill(pid int32, force bool) error {
	p, err := process.NewProcess(pid)
	if err != nil {
		return fmt.Errorf("no process with PID %d", pid)
	}

	if force {
		err = p.Kill()
	} else {
		err = p.Terminate()
	}
	if err != nil {
		return fmt.Errorf("signal PID %d: %w", pid, err)
	}

	signal := "SIGTERM"
	if force {
		signal = "SIGKILL"
	}
	log.Info().
		Str("component", "procMon").
		Int32("pid", pid).
		Str("signal", signal).
		Msg("Signal delivered")
	return nil
}

// Main is the entry point of the procMon subcommand.
func Main(cmd *cobra.Command, args []string) {
	common.Init()

	count, _ := cmd.Flags().GetInt("count")
	sortFlag, _ := cmd.Flags().GetString("sort")

	key, err := ParseSortKey(sortFlag)
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}

	procs, err := ListTop(count, key)
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(RenderProcesses(procs, key))
}
