// This package scans log directories for a keyword.
//
// Rotated .gz files are read through a transparent gzip reader, so a
// scan covers both the live log and its compressed history. Matching
// is a case-insensitive substring test, never a regex, because the
// operator input is a literal keyword.

package logScan

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// DefaultMaxMatches caps a scan when neither the caller nor the
// configuration sets a limit.
const DefaultMaxMatches = 200

// Scan walks dir and collects keyword matches from regular files,
// capped at maxMatches (<= 0 takes the configured default). An empty
// keyword is an input error; unreadable files are skipped and counted.
func Scan(dir string, keyword string, maxMatches int) (*Summary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.New("keyword must not be empty")
	}
	if maxMatches <= 0 {
		maxMatches = common.Config.Logscan.Max_Matches
	}
	if maxMatches <= 0 {
		maxMatches = DefaultMaxMatches
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("log directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	needle := strings.ToLower(keyword)
	summary := &Summary{}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			summary.FilesSkipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		matches, err := scanFile(path, needle, maxMatches-len(summary.Matches))
		if err != nil {
			log.Debug().Str("component", "logScan").Str("path", path).Err(err).Msg("Skipping unreadable file")
			summary.FilesSkipped++
			return nil
		}
		summary.FilesScanned++
		summary.Matches = append(summary.Matches, matches...)

		if len(summary.Matches) >= maxMatches {
			summary.CapReached = true
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if summary.FilesScanned == 0 {
		log.Warn().Str("component", "logScan").Str("dir", dir).Msg("No readable files in log directory")
	}
	return summary, nil
}

func scanFile(path string, needle string, limit int) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}

	var matches []Match
	scanner := bufio.NewScanner(reader)
	// Log lines can be long; the default token size is too small.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		matches = append(matches, Match{File: path, LineNo: lineNo, Line: line})
		if len(matches) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

// Main is the entry point of the logScan subcommand.
func Main(cmd *cobra.Command, args []string) {
	common.Init()

	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = common.Config.Logscan.Directory
	}
	maxMatches, _ := cmd.Flags().GetInt("max")

	summary, err := Scan(dir, args[0], maxMatches)
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(RenderSummary(summary, args[0]))
}
