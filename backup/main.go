// This package creates tar.gz archives of a filesystem path.
//
// Archives are written with archive/tar and compress/gzip, not an
// external tar binary, so the result does not depend on host tooling.
// Entry names are stored relative to the parent of the source path, so
// extraction reproduces the source under its own basename.

package backup

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/monobilisim/hostkit/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// ArchiveName builds the timestamped file name for a source path.
func ArchiveName(source string, now time.Time) string {
	base := filepath.Base(filepath.Clean(source))
	if base == "/" || base == "." || base == "" {
		base = "root"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("backup_%s_%s.tar.gz", base, now.Format("2006-01-02_15-04-05"))
}

// CreateArchive archives source into destDir and returns the archive
// path with file and byte counts. Unreadable entries are skipped and
// counted, never fatal. The destination directory is created when
// absent.
func CreateArchive(source string, destDir string) (*Result, error) {
	sourceInfo, err := os.Stat(source)
	if err != nil {
		return nil, fmt.Errorf("source path: %w", err)
	}

	if sourceInfo.IsDir() {
		if err := rejectNestedDest(source, destDir); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		if errors.Is(err, fs.ErrPermission) && os.Geteuid() != 0 {
			return nil, fmt.Errorf("create %s: %w", destDir, ErrNotRoot)
		}
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	archivePath := filepath.Join(destDir, ArchiveName(source, time.Now()))
	out, err := os.Create(archivePath)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) && os.Geteuid() != 0 {
			return nil, fmt.Errorf("create %s: %w", archivePath, ErrNotRoot)
		}
		return nil, fmt.Errorf("create archive: %w", err)
	}

	result := &Result{ArchivePath: archivePath}
	if err := writeArchive(out, source, result); err != nil {
		out.Close()
		os.Remove(archivePath)
		return nil, err
	}
	if err := out.Close(); err != nil {
		os.Remove(archivePath)
		return nil, fmt.Errorf("close archive: %w", err)
	}

	if info, err := os.Stat(archivePath); err == nil {
		result.Bytes = info.Size()
	}

	log.Info().
		Str("component", "backup").
		Str("archive", archivePath).
		Int("files", result.Files).
		Int("skipped", result.Skipped).
		Msg("Archive created")
	return result, nil
}

// rejectNestedDest refuses a destination inside the tree being
// archived; the walk would otherwise pick up the growing archive.
func rejectNestedDest(source string, destDir string) error {
	absSource, err := filepath.Abs(source)
	if err != nil {
		return err
	}
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return err
	}
	if absDest == absSource || strings.HasPrefix(absDest+string(filepath.Separator), absSource+string(filepath.Separator)) {
		return fmt.Errorf("backup directory %s lies inside %s", destDir, source)
	}
	return nil
}

func writeArchive(out io.Writer, source string, result *Result) error {
	gz := gzip.NewWriter(out)
	tw := tar.NewWriter(gz)

	parent := filepath.Dir(filepath.Clean(source))

	walkErr := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Str("component", "backup").Str("path", path).Err(err).Msg("Skipping unreadable entry")
			result.Skipped++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		info, err := d.Info()
		if err != nil {
			log.Warn().Str("component", "backup").Str("path", path).Err(err).Msg("Skipping unreadable entry")
			result.Skipped++
			return nil
		}

		rel, err := filepath.Rel(parent, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		switch {
		case info.IsDir():
			header, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			header.Name = name + "/"
			return tw.WriteHeader(header)

		case info.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				log.Warn().Str("component", "backup").Str("path", path).Err(err).Msg("Skipping unreadable symlink")
				result.Skipped++
				return nil
			}
			header, err := tar.FileInfoHeader(info, target)
			if err != nil {
				return err
			}
			header.Name = name
			return tw.WriteHeader(header)

		case info.Mode().IsRegular():
			// Open before writing the header; a header without its
			// body corrupts the archive.
			f, err := os.Open(path)
			if err != nil {
				log.Warn().Str("component", "backup").Str("path", path).Err(err).Msg("Skipping unreadable entry")
				result.Skipped++
				return nil
			}
			defer f.Close()

			header, err := tar.FileInfoHeader(info, "")
			if err != nil {
				return err
			}
			header.Name = name
			if err := tw.WriteHeader(header); err != nil {
				return err
			}
			if _, err := io.Copy(tw, f); err != nil {
				return fmt.Errorf("archive %s: %w", path, err)
			}
			result.Files++
			return nil

		default:
			// Sockets, devices and FIFOs have no archivable content.
			log.Debug().Str("component", "backup").Str("path", path).Msg("Skipping special file")
			return nil
		}
	})
	if walkErr != nil {
		tw.Close()
		gz.Close()
		return walkErr
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return gz.Close()
}

// Main is the entry point of the backup subcommand.
func Main(cmd *cobra.Command, args []string) {
	common.Init()

	destDir := common.Config.Backup.Directory
	if len(args) > 1 {
		destDir = args[1]
	}

	result, err := CreateArchive(args[0], destDir)
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}

	line := fmt.Sprintf("Archived %d files to %s (%s)",
		result.Files, result.ArchivePath, common.ConvertBytes(uint64(result.Bytes)))
	fmt.Println(common.SuccessLine(line))
	if result.Skipped > 0 {
		fmt.Println(common.WarnLine(fmt.Sprintf("%d entries were skipped as unreadable", result.Skipped)))
	}
}
