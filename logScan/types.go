package logScan

// Match is one keyword hit in a scanned file.
type Match struct {
	File   string
	LineNo int
	Line   string
}

// Summary reports what a scan covered and found.
type Summary struct {
	Matches      []Match
	FilesScanned int
	FilesSkipped int
	CapReached   bool
}
