package procMon

import (
	"fmt"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderProcesses formats the process table.
func RenderProcesses(procs []ProcessInfo, key SortKey) string {
	var sb strings.Builder
	sb.WriteString(common.SectionTitle(fmt.Sprintf("Top Processes by %s", key)))
	sb.WriteString("\n")

	if len(procs) == 0 {
		sb.WriteString(common.WarnLine("No processes visible"))
		return sb.String()
	}

	rows := make([][]string, 0, len(procs))
	for _, p := range procs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.PID),
			p.User,
			fmt.Sprintf("%.1f", p.CPU),
			fmt.Sprintf("%.1f", p.Memory),
			common.ConvertBytes(p.RSS),
			p.Command,
		})
	}

	table := tablewriter.NewTable(&sb, tablewriter.WithRendition(tw.Rendition{
		Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		Symbols: tw.NewSymbols(tw.StyleMarkdown),
	}))
	table.Header([]string{"PID", "User", "CPU%", "MEM%", "RSS", "Command"})
	table.Bulk(rows)
	table.Render()

	return strings.TrimRight(sb.String(), "\n")
}
