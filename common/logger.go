package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitZerolog configures the global logger: pretty console output on
// stderr plus JSON lines appended to the hostkit log file. Stdout is
// left untouched because the interactive menu protocol owns it.
func InitZerolog() {
	userMode := os.Geteuid() != 0

	lvl := os.Getenv("HOSTKIT_LOGLEVEL")
	if lvl == "" {
		lvl = "info"
	}

	level, err := zerolog.ParseLevel(lvl)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return filepath.Base(file) + ":" + strconv.Itoa(line)
	}
	zerolog.TimeFieldFormat = time.RFC3339

	logfilePath := "/var/log/hostkit.log"
	if userMode {
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			stateHome = os.Getenv("HOME") + "/.local/state"
		}
		if err := os.MkdirAll(stateHome+"/hostkit", 0755); err == nil {
			logfilePath = stateHome + "/hostkit/hostkit.log"
		}
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    NoColor(),
	}

	var output io.Writer = consoleWriter
	logFile, err := os.OpenFile(logfilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v, logging to stderr only\n", logfilePath, err)
	} else {
		output = zerolog.MultiLevelWriter(consoleWriter, logFile)
	}

	log.Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Caller().
		Str("component", "hostkit").
		Str("version", Version).
		Logger()
}

// NoColor reports whether colored output has been disabled via the
// HOSTKIT_NOCOLOR environment variable.
func NoColor() bool {
	v := os.Getenv("HOSTKIT_NOCOLOR")
	return v == "true" || v == "1"
}
