// This package drives the interactive maintenance session: a numbered
// menu on stdin/stdout dispatching synchronously to the component
// handlers.
//
// The console owns the session threshold values. They start from the
// configuration, are adjusted only through the menu, and are passed by
// value into report generation; nothing is written back to disk.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/monobilisim/hostkit/backup"
	"github.com/monobilisim/hostkit/common"
	"github.com/monobilisim/hostkit/logScan"
	"github.com/monobilisim/hostkit/osHealth"
	"github.com/monobilisim/hostkit/procMon"
	"github.com/monobilisim/hostkit/userAdmin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Console runs the interactive session. The component entry points are
// function fields so tests can script a whole session without touching
// the host.
type Console struct {
	in     *bufio.Reader
	out    io.Writer
	limits osHealth.Limits
	users  *userAdmin.Manager

	snapshot func(osHealth.Limits) string
	listTop  func(int, procMon.SortKey) ([]procMon.ProcessInfo, error)
	kill     func(int32, bool) error
	archive  func(string, string) (*backup.Result, error)
	scan     func(string, string, int) (*logScan.Summary, error)

	isTerminal bool
}

// New returns a console bound to the given streams, with thresholds
// taken from the loaded configuration.
func New(in io.Reader, out io.Writer) *Console {
	c := &Console{
		in:       bufio.NewReader(in),
		out:      out,
		limits:   osHealth.LimitsFromConfig(),
		users:    userAdmin.NewManager(),
		snapshot: osHealth.Snapshot,
		listTop:  procMon.ListTop,
		kill:     procMon.Kill,
		archive:  backup.CreateArchive,
		scan:     logScan.Scan,
	}
	if f, ok := in.(*os.File); ok {
		c.isTerminal = term.IsTerminal(int(f.Fd()))
	}
	return c
}

// Run drives the menu until quit or EOF. The returned error reports
// stream failures only; action failures are printed and the session
// continues.
func (c *Console) Run() error {
	fmt.Fprintln(c.out, common.DisplayBox("hostkit console", c.header()))

	for {
		c.printMenu()
		choice, err := c.readLine("Select an option: ")
		if err != nil {
			return quitOnEOF(c.out, err)
		}

		var actionErr error
		switch choice {
		case "1":
			fmt.Fprintln(c.out, c.snapshot(c.limits))
		case "2":
			actionErr = c.userMenu()
		case "3":
			actionErr = c.processMenu()
		case "4":
			actionErr = c.backupAction()
		case "5":
			actionErr = c.scanAction()
		case "6":
			actionErr = c.configureThresholds()
		case "0", "q", "quit", "exit":
			fmt.Fprintln(c.out, "Bye.")
			return nil
		case "":
			continue
		default:
			fmt.Fprintln(c.out, common.FailLine("Unknown option "+choice))
		}
		if actionErr != nil {
			return quitOnEOF(c.out, actionErr)
		}
	}
}

// quitOnEOF turns end of input into a normal quit.
func quitOnEOF(out io.Writer, err error) error {
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(out, "Bye.")
		return nil
	}
	return err
}

func (c *Console) header() string {
	identifier := common.Config.Identifier
	if identifier == "" {
		if hostname, err := os.Hostname(); err == nil {
			identifier = hostname
		}
	}
	return fmt.Sprintf("Linux host maintenance for %s\nThresholds: CPU %d%%  RAM %d%%  Disk %d%%",
		identifier, c.limits.CPU, c.limits.Memory, c.limits.Disk)
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, common.SectionTitle("Main Menu"))
	fmt.Fprintln(c.out, common.MenuItem("1", "Host health report"))
	fmt.Fprintln(c.out, common.MenuItem("2", "User management"))
	fmt.Fprintln(c.out, common.MenuItem("3", "Process monitor"))
	fmt.Fprintln(c.out, common.MenuItem("4", "Backup a path"))
	fmt.Fprintln(c.out, common.MenuItem("5", "Scan logs for a keyword"))
	fmt.Fprintln(c.out, common.MenuItem("6", "Configure alert thresholds"))
	fmt.Fprintln(c.out, common.MenuItem("0", "Quit"))
}

// readLine prompts and reads one trimmed input line. A final line
// without a newline is still delivered before EOF surfaces.
func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, common.Prompt(prompt))
	line, err := c.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads a password, without echo when the session runs on a
// real terminal.
func (c *Console) readSecret(prompt string) (string, error) {
	if c.isTerminal {
		return userAdmin.PromptPassword(prompt)
	}
	return c.readLine(prompt)
}

// Main starts the interactive console; bare invocation lands here.
func Main(cmd *cobra.Command, args []string) {
	common.Init()
	if err := New(os.Stdin, os.Stdout).Run(); err != nil {
		log.Error().Str("component", "console").Err(err).Msg("Session aborted")
		os.Exit(1)
	}
}
