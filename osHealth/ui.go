// This file renders health reports for the terminal.

package osHealth

import (
	"fmt"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// metricLabel returns the display name of a metric.
func metricLabel(m Metric) string {
	switch m.Kind {
	case MetricCPU:
		return "CPU Usage"
	case MetricMemory:
		return "RAM Usage"
	default:
		return m.Label
	}
}

// Render returns the complete boxed report.
func (r *Report) Render() string {
	title := "hostkit osHealth"
	if r.Host.Hostname != "" {
		title = "hostkit osHealth @ " + r.Host.Hostname
	}
	return common.DisplayBox(title, r.RenderAll())
}

// RenderAll renders the report sections without the outer box: the
// host header, every collected metric against its limit, the alert
// list and a per-filesystem detail table.
func (r *Report) RenderAll() string {
	var sb strings.Builder

	sb.WriteString(common.SectionTitle("System"))
	sb.WriteString("\n")
	sb.WriteString(common.SimpleStatusListItem("Platform", orUnknown(r.Host.Platform), true))
	sb.WriteString("\n")
	sb.WriteString(common.SimpleStatusListItem("Uptime", orUnknown(r.Host.Uptime), true))
	sb.WriteString("\n")
	if r.Host.HasLoad {
		sb.WriteString(common.SimpleStatusListItem(
			"Load average",
			fmt.Sprintf("%.2f %.2f %.2f", r.Host.Load1, r.Host.Load5, r.Host.Load15),
			true))
		sb.WriteString("\n")
	}
	if r.Host.CPUCount > 0 {
		sb.WriteString(common.SimpleStatusListItem("CPU cores", fmt.Sprintf("%d", r.Host.CPUCount), true))
		sb.WriteString("\n")
	}
	sb.WriteString(common.SimpleStatusListItem("Last checked", r.Collected.Format("2006-01-02 15:04:05"), true))
	sb.WriteString("\n")

	sb.WriteString("\n")
	sb.WriteString(common.SectionTitle("Resource Usage"))
	sb.WriteString("\n")
	if len(r.Results) == 0 {
		sb.WriteString(common.WarnLine("No metrics could be collected on this host"))
		sb.WriteString("\n")
	}
	for _, result := range r.Results {
		sb.WriteString(common.StatusListItem(
			metricLabel(result.Metric),
			fmt.Sprintf("%d%%", result.Limit),
			fmt.Sprintf("%.0f%%", result.Metric.Value),
			!result.Exceeded))
		sb.WriteString("\n")
	}

	alerts := Alerts(r.Results)
	sb.WriteString("\n")
	sb.WriteString(common.SectionTitle("Alerts"))
	sb.WriteString("\n")
	if len(alerts) == 0 {
		sb.WriteString(common.SimpleStatusListItem("All usage", "within limits", true))
		sb.WriteString("\n")
	}
	for _, alert := range alerts {
		sb.WriteString(common.SimpleStatusListItem(
			metricLabel(alert.Metric),
			fmt.Sprintf("%.0f%% (limit %d%%)", alert.Metric.Value, alert.Limit),
			false))
		sb.WriteString("\n")
	}

	if table := r.renderDiskTable(); table != "" {
		sb.WriteString("\n")
		sb.WriteString(common.SectionTitle("Filesystems"))
		sb.WriteString("\n")
		sb.WriteString(table)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderDiskTable formats the per-filesystem rows. Empty when no disk
// metric survived collection.
func (r *Report) renderDiskTable() string {
	rows := make([][]string, 0, len(r.Results))
	for _, result := range r.Results {
		if result.Metric.Kind != MetricDisk {
			continue
		}
		rows = append(rows, []string{
			fmt.Sprintf("%.0f%%", result.Metric.Value),
			common.ConvertBytes(result.Metric.Used),
			common.ConvertBytes(result.Metric.Total),
			result.Metric.Device,
			result.Metric.Label,
		})
	}
	if len(rows) == 0 {
		return ""
	}

	output := &strings.Builder{}
	table := tablewriter.NewTable(output, tablewriter.WithRendition(tw.Rendition{
		Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		Symbols: tw.NewSymbols(tw.StyleMarkdown),
	}))
	table.Header([]string{"%", "Used", "Total", "Partition", "Mount Point"})
	table.Bulk(rows)
	table.Render()

	return output.String()
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
