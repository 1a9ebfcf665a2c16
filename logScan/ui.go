package logScan

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/monobilisim/hostkit/common"
)

const maxDisplayLine = 200

// RenderSummary formats a scan result for the terminal.
func RenderSummary(s *Summary, keyword string) string {
	var sb strings.Builder
	sb.WriteString(common.SectionTitle(fmt.Sprintf("Log matches for %q", keyword)))
	sb.WriteString("\n")

	if len(s.Matches) == 0 {
		sb.WriteString(common.WarnLine(fmt.Sprintf("No matches in %d scanned files", s.FilesScanned)))
		return sb.String()
	}

	for _, m := range s.Matches {
		sb.WriteString(fmt.Sprintf("  %s:%d: %s\n", m.File, m.LineNo, clipLine(m.Line)))
	}

	sb.WriteString(common.SuccessLine(fmt.Sprintf("%d matches in %d files", len(s.Matches), s.FilesScanned)))
	if s.CapReached {
		sb.WriteString("\n")
		sb.WriteString(common.WarnLine("Match cap reached, further matches not shown"))
	}
	if s.FilesSkipped > 0 {
		sb.WriteString("\n")
		sb.WriteString(common.WarnLine(fmt.Sprintf("%d files were skipped as unreadable", s.FilesSkipped)))
	}
	return sb.String()
}

func clipLine(line string) string {
	line = strings.TrimSpace(line)
	if len(line) <= maxDisplayLine {
		return line
	}
	// The cut must land on a rune boundary or the clipped line is no
	// longer valid UTF-8.
	cut := maxDisplayLine
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}
