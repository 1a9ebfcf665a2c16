package userAdmin

import (
	"strconv"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// RenderAccounts formats the account list as a table.
func RenderAccounts(accounts []Account) string {
	var sb strings.Builder
	sb.WriteString(common.SectionTitle("Login Accounts"))
	sb.WriteString("\n")

	if len(accounts) == 0 {
		sb.WriteString(common.WarnLine("No regular login accounts found"))
		return sb.String()
	}

	rows := make([][]string, 0, len(accounts))
	for _, account := range accounts {
		rows = append(rows, []string{
			account.Name,
			strconv.Itoa(account.UID),
			account.Home,
			account.Shell,
		})
	}

	table := tablewriter.NewTable(&sb, tablewriter.WithRendition(tw.Rendition{
		Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		Symbols: tw.NewSymbols(tw.StyleMarkdown),
	}))
	table.Header([]string{"User", "UID", "Home", "Shell"})
	table.Bulk(rows)
	table.Render()

	return strings.TrimRight(sb.String(), "\n")
}
