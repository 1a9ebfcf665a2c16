package common

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
)

// Version is injected at build time via -ldflags.
var Version = "devel"

// Init loads configuration and applies environment toggles. It must run
// before any component handler.
func Init() {
	InitZerolog()

	if NoColor() {
		RemoveColors()
	}

	ConfInit("hostkit", &Config)

	if Config.Identifier == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		Config.Identifier = hostname
	}

	log.Debug().
		Str("component", "init").
		Str("identifier", Config.Identifier).
		Msg("Initialization completed")
}

// IsRoot reports whether the process runs with effective uid 0. User
// account mutations and some backups require it.
func IsRoot() bool {
	return os.Geteuid() == 0
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// ConvertBytes renders a byte count with a binary unit suffix. Units of
// MB and above keep two decimals, smaller ones are whole numbers.
func ConvertBytes(bytes uint64) string {
	sizes := []string{"B", "KB", "MB", "GB", "TB", "PB"}

	if bytes == 0 {
		return "0 B"
	}

	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizes)-1 {
		value /= 1024
		i++
	}

	if i >= 2 {
		return fmt.Sprintf("%.2f %s", value, sizes[i])
	}
	return fmt.Sprintf("%.0f %s", value, sizes[i])
}
