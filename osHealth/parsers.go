// This file implements the text parsers for the fallback collectors.
//
// Each parser is a pure function over raw command output so it can be
// unit-tested without invoking the command:
// - ParseMpstatIdle(): %idle column of `mpstat 1 1`
// - ParseTopIdle(): idle field of the `top -bn1` Cpu(s) summary line
// - ParseFreeMemory(): used/total bytes from `free -b`
// - ParseDFOutput(): per-mount usage from `df -P`

package osHealth

import (
	"strconv"
	"strings"
)

// MountUsage is one mounted filesystem as reported by a disk source.
type MountUsage struct {
	Device      string
	Mountpoint  string
	Fstype      string
	Used        uint64
	Total       uint64
	UsedPercent float64
}

// ParseMpstatIdle extracts the all-CPU %idle value from mpstat output.
// It locates the %idle column in the header row and reads it from the
// Average row, falling back to the first per-interval "all" row. The
// boolean is false when no parseable idle value exists.
//
// The column is keyed from the end of the row: the Average row carries
// fewer leading fields than the per-interval rows, and locales that
// print AM/PM add one more.
func ParseMpstatIdle(text string) (float64, bool) {
	lines := strings.Split(text, "\n")

	fromEnd := -1
	for _, line := range lines {
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "%idle" {
				fromEnd = len(fields) - 1 - i
				break
			}
		}
		if fromEnd >= 0 {
			break
		}
	}
	if fromEnd < 0 {
		return 0, false
	}

	var fallback []string
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) <= fromEnd+1 || !hasAllField(fields) {
			continue
		}
		if strings.HasPrefix(fields[0], "Average") {
			return parsePercentField(fields[len(fields)-1-fromEnd])
		}
		if fallback == nil {
			fallback = fields
		}
	}
	if fallback != nil {
		return parsePercentField(fallback[len(fallback)-1-fromEnd])
	}
	return 0, false
}

// hasAllField reports whether the row aggregates all CPUs. The "all"
// marker sits in the CPU column, within the first three fields.
func hasAllField(fields []string) bool {
	for _, f := range fields[:min(3, len(fields))] {
		if f == "all" {
			return true
		}
	}
	return false
}

// ParseTopIdle extracts the idle percentage from the Cpu(s) summary
// line of `top -bn1` batch output.
func ParseTopIdle(text string) (float64, bool) {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, "Cpu(s)") {
			continue
		}
		_, rest, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		for _, segment := range strings.Split(rest, ",") {
			fields := strings.Fields(segment)
			switch {
			case len(fields) == 2 && fields[1] == "id":
				return parsePercentField(fields[0])
			case len(fields) == 1 && strings.HasSuffix(fields[0], "%id"):
				// Older top releases glue the unit to the value.
				return parsePercentField(strings.TrimSuffix(fields[0], "%id"))
			}
		}
	}
	return 0, false
}

// ParseFreeMemory extracts used and total bytes from `free -b` output.
func ParseFreeMemory(text string) (used uint64, total uint64, ok bool) {
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 || fields[0] != "Mem:" {
			continue
		}
		total, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		used, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return 0, 0, false
		}
		if total == 0 {
			return 0, 0, false
		}
		return used, total, true
	}
	return 0, 0, false
}

// ParseDFOutput extracts device-backed mounts from `df -P` output,
// preserving row order. Pseudo-filesystems (proc, tmpfs, overlay and
// anything else not backed by a /dev node) are skipped.
func ParseDFOutput(text string) []MountUsage {
	var mounts []MountUsage

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i == 0 {
			continue // header row
		}
		fields := strings.Fields(line)
		if len(fields) < 6 {
			continue
		}
		device := fields[0]
		if !strings.HasPrefix(device, "/dev") {
			continue
		}

		blocks, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		used, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			continue
		}
		pct, err := strconv.ParseFloat(strings.TrimSuffix(fields[4], "%"), 64)
		if err != nil {
			continue
		}

		mounts = append(mounts, MountUsage{
			Device:      device,
			Mountpoint:  strings.Join(fields[5:], " "),
			Used:        used * 1024,
			Total:       blocks * 1024,
			UsedPercent: pct,
		})
	}

	return mounts
}

// parsePercentField parses a single numeric field, tolerating locales
// that print a decimal comma.
func parsePercentField(field string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(field, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
