// This file implements metric collection through ordered source chains.
//
// Every metric kind has a list of sources tried in sequence: gopsutil
// first, then parsing the output of the classic command-line tools.
// When a source fails the next one is tried; when the whole chain is
// exhausted the metric is omitted from the report instead of being
// reported as zero.

package osHealth

import (
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/monobilisim/hostkit/common"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// CPUSource yields an overall CPU usage percentage.
type CPUSource interface {
	Name() string
	CPUPercent() (float64, error)
}

// MemorySource yields used and total memory in bytes.
type MemorySource interface {
	Name() string
	MemoryUsage() (used uint64, total uint64, err error)
}

// DiskSource yields the mounted device-backed filesystems in the order
// the underlying facility reports them.
type DiskSource interface {
	Name() string
	Mounts() ([]MountUsage, error)
}

// Collector gathers host metrics through its source chains.
type Collector struct {
	CPU    []CPUSource
	Memory []MemorySource
	Disk   []DiskSource

	// Mountpoints with one of these prefixes are skipped.
	ExcludedMountpoints []string
	// Fstype allowlist; empty allows every device-backed filesystem.
	Filesystems []string
}

// NewCollector returns a Collector with the default source chains and
// the filesystem filters from the loaded configuration.
func NewCollector() *Collector {
	return &Collector{
		CPU:                 []CPUSource{PsutilCPU{}, MpstatCPU{}, TopCPU{}},
		Memory:              []MemorySource{PsutilMemory{}, FreeMemory{}},
		Disk:                []DiskSource{PsutilDisk{}, DFDisk{}},
		ExcludedMountpoints: common.Config.Health.Excluded_Mountpoints,
		Filesystems:         common.Config.Health.Filesystems,
	}
}

// Collect walks the source chains and returns every metric that could
// be measured. Order is fixed: CPU, memory, then disks as reported.
func (c *Collector) Collect() []Metric {
	metrics := make([]Metric, 0, 8)

	if m, ok := c.collectCPU(); ok {
		metrics = append(metrics, m)
	}
	if m, ok := c.collectMemory(); ok {
		metrics = append(metrics, m)
	}
	metrics = append(metrics, c.collectDisk()...)

	return metrics
}

func (c *Collector) collectCPU() (Metric, bool) {
	for _, src := range c.CPU {
		value, err := src.CPUPercent()
		if err != nil {
			log.Debug().
				Str("component", "osHealth").
				Str("source", src.Name()).
				Err(err).
				Msg("CPU source failed, trying next")
			continue
		}
		if !validPercent(value) {
			log.Warn().
				Str("component", "osHealth").
				Str("source", src.Name()).
				Float64("value", value).
				Msg("Discarding out-of-range CPU reading")
			continue
		}
		return Metric{Kind: MetricCPU, Value: value}, true
	}

	log.Warn().Str("component", "osHealth").Msg("No CPU source available, omitting CPU metric")
	return Metric{}, false
}

func (c *Collector) collectMemory() (Metric, bool) {
	for _, src := range c.Memory {
		used, total, err := src.MemoryUsage()
		if err != nil {
			log.Debug().
				Str("component", "osHealth").
				Str("source", src.Name()).
				Err(err).
				Msg("Memory source failed, trying next")
			continue
		}
		if total == 0 {
			continue
		}

		// Rounded half away from zero to a whole percent.
		value := math.Round(float64(used) / float64(total) * 100)
		if !validPercent(value) {
			log.Warn().
				Str("component", "osHealth").
				Str("source", src.Name()).
				Float64("value", value).
				Msg("Discarding out-of-range memory reading")
			continue
		}
		return Metric{Kind: MetricMemory, Value: value, Used: used, Total: total}, true
	}

	log.Warn().Str("component", "osHealth").Msg("No memory source available, omitting memory metric")
	return Metric{}, false
}

func (c *Collector) collectDisk() []Metric {
	for _, src := range c.Disk {
		mounts, err := src.Mounts()
		if err != nil {
			log.Debug().
				Str("component", "osHealth").
				Str("source", src.Name()).
				Err(err).
				Msg("Disk source failed, trying next")
			continue
		}

		metrics := make([]Metric, 0, len(mounts))
		for _, m := range mounts {
			if c.mountExcluded(m.Mountpoint) {
				log.Debug().
					Str("component", "osHealth").
					Str("mountpoint", m.Mountpoint).
					Msg("Skipping excluded mountpoint")
				continue
			}
			if len(c.Filesystems) > 0 && m.Fstype != "" && !slices.Contains(c.Filesystems, m.Fstype) {
				continue
			}
			if !validPercent(m.UsedPercent) {
				log.Warn().
					Str("component", "osHealth").
					Str("mountpoint", m.Mountpoint).
					Float64("value", m.UsedPercent).
					Msg("Discarding out-of-range disk reading")
				continue
			}
			metrics = append(metrics, Metric{
				Kind:   MetricDisk,
				Label:  m.Mountpoint,
				Value:  m.UsedPercent,
				Used:   m.Used,
				Total:  m.Total,
				Device: m.Device,
			})
		}
		return metrics
	}

	log.Warn().Str("component", "osHealth").Msg("No disk source available, omitting disk metrics")
	return nil
}

func (c *Collector) mountExcluded(mountpoint string) bool {
	for _, prefix := range c.ExcludedMountpoints {
		if strings.HasPrefix(mountpoint, prefix) {
			return true
		}
	}
	return false
}

func validPercent(v float64) bool {
	return v >= 0 && v <= 100
}

// PsutilCPU samples CPU utilization with gopsutil.
type PsutilCPU struct {
	Interval time.Duration
}

func (s PsutilCPU) Name() string { return "gopsutil" }

func (s PsutilCPU) CPUPercent() (float64, error) {
	interval := s.Interval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}
	percents, err := cpu.Percent(interval, false)
	if err != nil {
		return 0, err
	}
	if len(percents) == 0 {
		return 0, errors.New("no cpu utilization data")
	}
	return percents[0], nil
}

// MpstatCPU derives usage as 100 minus the %idle column of mpstat.
type MpstatCPU struct{}

func (MpstatCPU) Name() string { return "mpstat" }

func (MpstatCPU) CPUPercent() (float64, error) {
	out, err := runCommand("mpstat", "1", "1")
	if err != nil {
		return 0, err
	}
	idle, ok := ParseMpstatIdle(out)
	if !ok {
		return 0, errors.New("no parseable %idle value in mpstat output")
	}
	return 100 - idle, nil
}

// TopCPU derives usage as 100 minus the idle field of the top summary.
type TopCPU struct{}

func (TopCPU) Name() string { return "top" }

func (TopCPU) CPUPercent() (float64, error) {
	out, err := runCommand("top", "-bn1")
	if err != nil {
		return 0, err
	}
	idle, ok := ParseTopIdle(out)
	if !ok {
		return 0, errors.New("no parseable idle value in top output")
	}
	return 100 - idle, nil
}

// PsutilMemory reads virtual memory statistics with gopsutil.
type PsutilMemory struct{}

func (PsutilMemory) Name() string { return "gopsutil" }

func (PsutilMemory) MemoryUsage() (uint64, uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, err
	}
	return vm.Used, vm.Total, nil
}

// FreeMemory parses the output of free.
type FreeMemory struct{}

func (FreeMemory) Name() string { return "free" }

func (FreeMemory) MemoryUsage() (uint64, uint64, error) {
	out, err := runCommand("free", "-b")
	if err != nil {
		return 0, 0, err
	}
	used, total, ok := ParseFreeMemory(out)
	if !ok {
		return 0, 0, errors.New("no parseable memory summary in free output")
	}
	return used, total, nil
}

// PsutilDisk lists device-backed partitions with gopsutil.
type PsutilDisk struct{}

func (PsutilDisk) Name() string { return "gopsutil" }

func (PsutilDisk) Mounts() ([]MountUsage, error) {
	partitions, err := disk.Partitions(false)
	if err != nil {
		return nil, err
	}

	var mounts []MountUsage
	for _, partition := range partitions {
		usage, err := disk.Usage(partition.Mountpoint)
		if err != nil {
			log.Debug().
				Str("component", "osHealth").
				Str("mountpoint", partition.Mountpoint).
				Err(err).
				Msg("Failed to read disk usage")
			continue
		}
		if usage.Total == 0 {
			continue
		}
		mounts = append(mounts, MountUsage{
			Device:      partition.Device,
			Mountpoint:  partition.Mountpoint,
			Fstype:      partition.Fstype,
			Used:        usage.Used,
			Total:       usage.Total,
			UsedPercent: usage.UsedPercent,
		})
	}
	if len(mounts) == 0 {
		return nil, errors.New("no mounted filesystems visible")
	}
	return mounts, nil
}

// DFDisk parses the output of df.
type DFDisk struct{}

func (DFDisk) Name() string { return "df" }

func (DFDisk) Mounts() ([]MountUsage, error) {
	out, err := runCommand("df", "-P")
	if err != nil {
		return nil, err
	}
	mounts := ParseDFOutput(out)
	if len(mounts) == 0 {
		return nil, errors.New("no device-backed mounts in df output")
	}
	return mounts, nil
}

// CollectHostInfo gathers the informational report header. Failures
// leave fields zeroed; nothing here is thresholded.
func CollectHostInfo() HostInfo {
	var info HostInfo

	if hostname, err := os.Hostname(); err == nil {
		info.Hostname = hostname
	}
	if hi, err := host.Info(); err == nil {
		info.Platform = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		info.Uptime = formatUptime(hi.Uptime)
	}
	if avg, err := load.Avg(); err == nil {
		info.Load1 = avg.Load1
		info.Load5 = avg.Load5
		info.Load15 = avg.Load15
		info.HasLoad = true
	}
	if count, err := cpu.Counts(true); err == nil {
		info.CPUCount = count
	}

	return info
}

func formatUptime(seconds uint64) string {
	d := time.Duration(seconds) * time.Second
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// runCommand executes a tool from PATH and returns its stdout. A tool
// that is not installed is an error the caller treats as "try the next
// source".
func runCommand(name string, args ...string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not available: %w", name, err)
	}
	cmd := exec.Command(path, args...)
	// Pin the locale so column layouts and labels stay parseable.
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", name, err)
	}
	return string(out), nil
}
