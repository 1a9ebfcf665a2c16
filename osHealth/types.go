// This file defines the types used in the osHealth package
//
// It provides the following types:
// - MetricKind, Metric: a single measured usage percentage
// - Limits: the session alert thresholds
// - AlertResult: the outcome of comparing one Metric to its limit
// - Report: everything the formatter needs to render one snapshot

package osHealth

import "time"

// MetricKind names the resource a Metric measures.
type MetricKind string

const (
	MetricCPU    MetricKind = "cpu"
	MetricMemory MetricKind = "memory"
	MetricDisk   MetricKind = "disk"
)

// Metric is one named usage percentage, created per report invocation
// and discarded after rendering. Disk metrics carry the mountpoint in
// Label and byte totals for the detail table; memory carries bytes too.
type Metric struct {
	Kind   MetricKind
	Label  string  // mountpoint for disk metrics, empty otherwise
	Value  float64 // percent, 0-100
	Used   uint64  // bytes, disk and memory only
	Total  uint64  // bytes, disk and memory only
	Device string  // disk metrics only
}

// Limits holds the alert thresholds for one report generation. It is
// passed by value into evaluation so the evaluator stays pure; the
// session shell owns the mutable copy.
type Limits struct {
	CPU    int
	Memory int
	Disk   int
}

// For returns the limit that applies to the given metric kind.
func (l Limits) For(kind MetricKind) int {
	switch kind {
	case MetricCPU:
		return l.CPU
	case MetricMemory:
		return l.Memory
	default:
		return l.Disk
	}
}

// AlertResult pairs a Metric with the limit it was compared against.
// Immutable once computed; one per metric per report.
type AlertResult struct {
	Metric   Metric
	Limit    int
	Exceeded bool
}

// HostInfo is the informational report header: identity, platform and
// load context. None of it is evaluated against thresholds.
type HostInfo struct {
	Hostname string
	Platform string
	Uptime   string
	Load1    float64
	Load5    float64
	Load15   float64
	CPUCount int
	HasLoad  bool
}

// Report is one health snapshot ready for rendering.
type Report struct {
	Host      HostInfo
	Results   []AlertResult
	Limits    Limits
	Collected time.Time
}
