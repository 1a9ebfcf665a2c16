package backup

import "errors"

// ErrNotRoot is returned when the backup destination cannot be
// prepared for lack of privileges.
var ErrNotRoot = errors.New("backup destination requires root privileges")

// Result summarizes a finished archive run.
type Result struct {
	ArchivePath string
	Files       int
	Bytes       int64
	Skipped     int
}
