// This file implements the menu actions. Every action prints its own
// success or failure line and returns an error only when the input
// stream itself fails, so one bad operation never ends the session.

package console

import (
	"fmt"
	"strconv"

	"github.com/monobilisim/hostkit/common"
	"github.com/monobilisim/hostkit/logScan"
	"github.com/monobilisim/hostkit/procMon"
	"github.com/monobilisim/hostkit/userAdmin"
)

func (c *Console) userMenu() error {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, common.SectionTitle("User Management"))
		fmt.Fprintln(c.out, common.MenuItem("1", "List accounts"))
		fmt.Fprintln(c.out, common.MenuItem("2", "Add user"))
		fmt.Fprintln(c.out, common.MenuItem("3", "Remove user"))
		fmt.Fprintln(c.out, common.MenuItem("4", "Change password"))
		fmt.Fprintln(c.out, common.MenuItem("0", "Back"))

		choice, err := c.readLine("Select an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			accounts, err := c.users.ListUsers()
			if err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, userAdmin.RenderAccounts(accounts))

		case "2":
			name, err := c.readLine("Username to add: ")
			if err != nil {
				return err
			}
			if err := c.users.AddUser(name); err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, common.SuccessLine("User "+name+" created"))

		case "3":
			name, err := c.readLine("Username to remove: ")
			if err != nil {
				return err
			}
			confirm, err := c.readLine("Remove the account and its home directory? [y/N]: ")
			if err != nil {
				return err
			}
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(c.out, common.WarnLine("Removal cancelled"))
				continue
			}
			if err := c.users.RemoveUser(name); err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, common.SuccessLine("User "+name+" removed"))

		case "4":
			name, err := c.readLine("Username: ")
			if err != nil {
				return err
			}
			password, err := c.readSecret("New password: ")
			if err != nil {
				return err
			}
			if err := c.users.ChangePassword(name, password); err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, common.SuccessLine("Password for "+name+" changed"))

		case "0":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(c.out, common.FailLine("Unknown option "+choice))
		}
	}
}

func (c *Console) processMenu() error {
	for {
		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out, common.SectionTitle("Process Monitor"))
		fmt.Fprintln(c.out, common.MenuItem("1", "Top processes by CPU"))
		fmt.Fprintln(c.out, common.MenuItem("2", "Top processes by memory"))
		fmt.Fprintln(c.out, common.MenuItem("3", "Kill a process (SIGTERM)"))
		fmt.Fprintln(c.out, common.MenuItem("4", "Force kill a process (SIGKILL)"))
		fmt.Fprintln(c.out, common.MenuItem("0", "Back"))

		choice, err := c.readLine("Select an option: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1", "2":
			key := procMon.SortCPU
			if choice == "2" {
				key = procMon.SortMemory
			}
			procs, err := c.listTop(15, key)
			if err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, procMon.RenderProcesses(procs, key))

		case "3", "4":
			input, err := c.readLine("PID to signal: ")
			if err != nil {
				return err
			}
			pid, err := procMon.ParsePID(input)
			if err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			force := choice == "4"
			if err := c.kill(pid, force); err != nil {
				fmt.Fprintln(c.out, common.FailLine(err.Error()))
				continue
			}
			fmt.Fprintln(c.out, common.SuccessLine(fmt.Sprintf("Signal sent to PID %d", pid)))

		case "0":
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(c.out, common.FailLine("Unknown option "+choice))
		}
	}
}

func (c *Console) backupAction() error {
	source, err := c.readLine("Path to back up: ")
	if err != nil {
		return err
	}
	if source == "" {
		fmt.Fprintln(c.out, common.FailLine("Path must not be empty"))
		return nil
	}

	defaultDir := common.Config.Backup.Directory
	dest, err := c.readLine(fmt.Sprintf("Destination directory (enter for %s): ", defaultDir))
	if err != nil {
		return err
	}
	if dest == "" {
		dest = defaultDir
	}

	result, err := c.archive(source, dest)
	if err != nil {
		fmt.Fprintln(c.out, common.FailLine(err.Error()))
		return nil
	}

	line := fmt.Sprintf("Archived %d files to %s (%s)",
		result.Files, result.ArchivePath, common.ConvertBytes(uint64(result.Bytes)))
	fmt.Fprintln(c.out, common.SuccessLine(line))
	if result.Skipped > 0 {
		fmt.Fprintln(c.out, common.WarnLine(fmt.Sprintf("%d entries were skipped as unreadable", result.Skipped)))
	}
	return nil
}

func (c *Console) scanAction() error {
	keyword, err := c.readLine("Keyword to search for: ")
	if err != nil {
		return err
	}

	defaultDir := common.Config.Logscan.Directory
	dir, err := c.readLine(fmt.Sprintf("Log directory (enter for %s): ", defaultDir))
	if err != nil {
		return err
	}
	if dir == "" {
		dir = defaultDir
	}

	summary, err := c.scan(dir, keyword, 0)
	if err != nil {
		fmt.Fprintln(c.out, common.FailLine(err.Error()))
		return nil
	}
	fmt.Fprintln(c.out, logScan.RenderSummary(summary, keyword))
	return nil
}

// configureThresholds updates the session limits in place. Invalid
// input keeps the previous value; empty input keeps it silently.
func (c *Console) configureThresholds() error {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, common.SectionTitle("Alert Thresholds"))

	var err error
	if c.limits.CPU, err = c.promptLimit("CPU", c.limits.CPU); err != nil {
		return err
	}
	if c.limits.Memory, err = c.promptLimit("RAM", c.limits.Memory); err != nil {
		return err
	}
	if c.limits.Disk, err = c.promptLimit("Disk", c.limits.Disk); err != nil {
		return err
	}

	fmt.Fprintln(c.out, common.SuccessLine(fmt.Sprintf(
		"Thresholds now CPU %d%%, RAM %d%%, Disk %d%% (this session only)",
		c.limits.CPU, c.limits.Memory, c.limits.Disk)))
	return nil
}

func (c *Console) promptLimit(label string, current int) (int, error) {
	input, err := c.readLine(fmt.Sprintf("%s limit in %% (current %d, enter keeps it): ", label, current))
	if err != nil {
		return current, err
	}
	if input == "" {
		return current, nil
	}

	value, convErr := strconv.Atoi(input)
	if convErr != nil || value < 0 || value > 100 {
		fmt.Fprintln(c.out, common.FailLine(fmt.Sprintf("Invalid limit %q, keeping %d", input, current)))
		return current, nil
	}
	return value, nil
}
