package main

import (
	"fmt"
	"os"

	"github.com/monobilisim/hostkit/backup"
	"github.com/monobilisim/hostkit/common"
	"github.com/monobilisim/hostkit/console"
	"github.com/monobilisim/hostkit/logScan"
	"github.com/monobilisim/hostkit/osHealth"
	"github.com/monobilisim/hostkit/procMon"
	"github.com/monobilisim/hostkit/userAdmin"
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:     "hostkit",
	Short:   "Interactive Linux host maintenance console",
	Version: common.Version,
	Run:     console.Main,
}

func main() {
	var osHealthCmd = &cobra.Command{
		Use:   "osHealth",
		Short: "One-shot host health report",
		Run:   osHealth.Main,
	}

	var procMonCmd = &cobra.Command{
		Use:   "procMon",
		Short: "Show the busiest processes",
		Run:   procMon.Main,
	}
	procMonCmd.Flags().IntP("count", "c", 15, "Number of processes to show")
	procMonCmd.Flags().StringP("sort", "s", "cpu", "Sort key: cpu or memory")

	var backupCmd = &cobra.Command{
		Use:   "backup <source> [destDir]",
		Short: "Create a tar.gz archive of a path",
		Args:  cobra.RangeArgs(1, 2),
		Run:   backup.Main,
	}

	var logScanCmd = &cobra.Command{
		Use:   "logScan <keyword>",
		Short: "Scan log files for a keyword",
		Args:  cobra.ExactArgs(1),
		Run:   logScan.Main,
	}
	logScanCmd.Flags().StringP("dir", "d", "", "Log directory, defaults to the configured one")
	logScanCmd.Flags().IntP("max", "m", 0, "Match cap, defaults to the configured one")

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage local login accounts",
	}

	var userAddCmd = &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account with a home directory",
		Args:  cobra.ExactArgs(1),
		Run:   userAdmin.AddMain,
	}

	var userRemoveCmd = &cobra.Command{
		Use:   "remove <name>",
		Short: "Delete an account and its home directory",
		Args:  cobra.ExactArgs(1),
		Run:   userAdmin.RemoveMain,
	}

	var userPasswdCmd = &cobra.Command{
		Use:   "passwd <name>",
		Short: "Change an account password",
		Args:  cobra.ExactArgs(1),
		Run:   userAdmin.PasswdMain,
	}

	var userListCmd = &cobra.Command{
		Use:   "list",
		Short: "List regular login accounts",
		Run:   userAdmin.ListMain,
	}

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userRemoveCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userListCmd)

	RootCmd.AddCommand(osHealthCmd)
	RootCmd.AddCommand(procMonCmd)
	RootCmd.AddCommand(backupCmd)
	RootCmd.AddCommand(logScanCmd)
	RootCmd.AddCommand(userCmd)

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
