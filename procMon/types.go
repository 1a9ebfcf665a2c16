package procMon

// ProcessInfo is one row of the process table.
type ProcessInfo struct {
	PID     int32
	User    string
	CPU     float64
	Memory  float32
	RSS     uint64
	Command string
}

// SortKey selects the process table ordering.
type SortKey string

const (
	SortCPU    SortKey = "cpu"
	SortMemory SortKey = "memory"
)
