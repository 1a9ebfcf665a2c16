package console

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"
	"testing"

	"github.com/monobilisim/hostkit/backup"
	"github.com/monobilisim/hostkit/common"
	"github.com/monobilisim/hostkit/logScan"
	"github.com/monobilisim/hostkit/osHealth"
	"github.com/monobilisim/hostkit/procMon"
	"github.com/monobilisim/hostkit/userAdmin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	common.RemoveColors()
	os.Exit(m.Run())
}

// session records what the scripted console dispatched.
type session struct {
	console *Console
	out     *bytes.Buffer

	snapshotLimits []osHealth.Limits
	killedPIDs     []int32
	killForced     []bool
	killErr        error
	archiveCalls   [][2]string
	archiveErr     error
	scanCalls      [][2]string
}

func scripted(input string) *session {
	s := &session{out: &bytes.Buffer{}}

	c := New(strings.NewReader(input), s.out)
	c.limits = osHealth.Limits{CPU: 80, Memory: 80, Disk: 80}
	c.snapshot = func(l osHealth.Limits) string {
		s.snapshotLimits = append(s.snapshotLimits, l)
		return fmt.Sprintf("snapshot cpu=%d ram=%d disk=%d", l.CPU, l.Memory, l.Disk)
	}
	c.listTop = func(n int, key procMon.SortKey) ([]procMon.ProcessInfo, error) {
		return []procMon.ProcessInfo{{PID: 1, Command: "init"}}, nil
	}
	c.kill = func(pid int32, force bool) error {
		s.killedPIDs = append(s.killedPIDs, pid)
		s.killForced = append(s.killForced, force)
		return s.killErr
	}
	c.archive = func(source, dest string) (*backup.Result, error) {
		s.archiveCalls = append(s.archiveCalls, [2]string{source, dest})
		if s.archiveErr != nil {
			return nil, s.archiveErr
		}
		return &backup.Result{ArchivePath: dest + "/backup_x.tar.gz", Files: 3, Bytes: 1024}, nil
	}
	c.scan = func(dir, keyword string, max int) (*logScan.Summary, error) {
		s.scanCalls = append(s.scanCalls, [2]string{dir, keyword})
		return &logScan.Summary{FilesScanned: 1}, nil
	}

	s.console = c
	return s
}

func TestRunQuitsOnZero(t *testing.T) {
	s := scripted("0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "Main Menu")
	assert.Contains(t, s.out.String(), "Bye.")
}

func TestRunQuitsOnEOF(t *testing.T) {
	s := scripted("")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "Bye.")
}

func TestRunQuitsOnEOFInsideSubmenu(t *testing.T) {
	s := scripted("2\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "User Management")
	assert.Contains(t, s.out.String(), "Bye.")
}

func TestRunUnknownOption(t *testing.T) {
	s := scripted("9\n0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "Unknown option 9")
	assert.Contains(t, s.out.String(), "Bye.")
}

func TestHealthReportUsesSessionLimits(t *testing.T) {
	s := scripted("1\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.snapshotLimits, 1)
	assert.Equal(t, osHealth.Limits{CPU: 80, Memory: 80, Disk: 80}, s.snapshotLimits[0])
}

func TestConfigureThresholds(t *testing.T) {
	// Set CPU to 75, keep RAM, set disk to 90, then run a report.
	s := scripted("6\n75\n\n90\n1\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.snapshotLimits, 1)
	assert.Equal(t, osHealth.Limits{CPU: 75, Memory: 80, Disk: 90}, s.snapshotLimits[0])
	assert.Contains(t, s.out.String(), "Thresholds now CPU 75%, RAM 80%, Disk 90%")
}

func TestConfigureThresholdsRejectsGarbage(t *testing.T) {
	// "abc" and out-of-range values keep the previous limits.
	s := scripted("6\nabc\n150\n-3\n1\n0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), `Invalid limit "abc", keeping 80`)
	assert.Contains(t, s.out.String(), `Invalid limit "150", keeping 80`)
	assert.Contains(t, s.out.String(), `Invalid limit "-3", keeping 80`)

	require.Len(t, s.snapshotLimits, 1)
	assert.Equal(t, osHealth.Limits{CPU: 80, Memory: 80, Disk: 80}, s.snapshotLimits[0])
}

func TestProcessMenuKill(t *testing.T) {
	s := scripted("3\n3\n4321\n0\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.killedPIDs, 1)
	assert.Equal(t, int32(4321), s.killedPIDs[0])
	assert.False(t, s.killForced[0])
	assert.Contains(t, s.out.String(), "Signal sent to PID 4321")
}

func TestProcessMenuForceKill(t *testing.T) {
	s := scripted("3\n4\n4321\n0\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.killForced, 1)
	assert.True(t, s.killForced[0])
}

func TestProcessMenuKillFailureKeepsSessionAlive(t *testing.T) {
	s := scripted("3\n3\n424242\n0\n0\n")
	s.killErr = errors.New("no process with PID 424242")

	require.NoError(t, s.console.Run())
	out := s.out.String()
	assert.Contains(t, out, "no process with PID 424242")
	assert.Contains(t, out, "Bye.", "session continues after a failed kill")
}

func TestProcessMenuRejectsMalformedPID(t *testing.T) {
	s := scripted("3\n3\n12x\n0\n0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "invalid PID")
	assert.Empty(t, s.killedPIDs)
}

func TestProcessMenuListsTop(t *testing.T) {
	s := scripted("3\n1\n0\n0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "init")
}

func TestBackupActionUsesDefaultDir(t *testing.T) {
	old := common.Config.Backup.Directory
	common.Config.Backup.Directory = "/var/backups/hostkit"
	defer func() { common.Config.Backup.Directory = old }()

	s := scripted("4\n/etc/hostkit\n\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.archiveCalls, 1)
	assert.Equal(t, "/etc/hostkit", s.archiveCalls[0][0])
	assert.Equal(t, "/var/backups/hostkit", s.archiveCalls[0][1])
	assert.Contains(t, s.out.String(), "Archived 3 files")
}

func TestBackupActionFailureKeepsSessionAlive(t *testing.T) {
	s := scripted("4\n/nope\n/tmp\n0\n")
	s.archiveErr = errors.New("source path: no such file or directory")

	require.NoError(t, s.console.Run())
	out := s.out.String()
	assert.Contains(t, out, "no such file or directory")
	assert.Contains(t, out, "Bye.")
}

func TestBackupActionRejectsEmptyPath(t *testing.T) {
	s := scripted("4\n\n0\n")

	require.NoError(t, s.console.Run())
	assert.Contains(t, s.out.String(), "Path must not be empty")
	assert.Empty(t, s.archiveCalls)
}

func TestScanAction(t *testing.T) {
	old := common.Config.Logscan.Directory
	common.Config.Logscan.Directory = "/var/log"
	defer func() { common.Config.Logscan.Directory = old }()

	s := scripted("5\nerror\n\n0\n")

	require.NoError(t, s.console.Run())
	require.Len(t, s.scanCalls, 1)
	assert.Equal(t, "/var/log", s.scanCalls[0][0])
	assert.Equal(t, "error", s.scanCalls[0][1])
}

type consoleRunner struct {
	calls []string
}

func (r *consoleRunner) Run(name string, args []string, stdin string) (string, error) {
	r.calls = append(r.calls, name)
	return "", nil
}

func testUserManager(runner userAdmin.Runner, euid int, existing ...string) *userAdmin.Manager {
	return &userAdmin.Manager{
		Runner: runner,
		Lookup: func(name string) (*user.User, error) {
			for _, n := range existing {
				if n == name {
					return &user.User{Username: name}, nil
				}
			}
			return nil, user.UnknownUserError(name)
		},
		Euid: func() int { return euid },
	}
}

func TestUserMenuAdd(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n2\ndeploy\n0\n0\n")
	s.console.users = testUserManager(runner, 0)

	require.NoError(t, s.console.Run())
	assert.Equal(t, []string{"useradd"}, runner.calls)
	assert.Contains(t, s.out.String(), "User deploy created")
}

func TestUserMenuAddWithoutRoot(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n2\ndeploy\n0\n0\n")
	s.console.users = testUserManager(runner, 1000)

	require.NoError(t, s.console.Run())
	assert.Empty(t, runner.calls)
	assert.Contains(t, s.out.String(), "requires root")
	assert.Contains(t, s.out.String(), "Bye.")
}

func TestUserMenuRemoveNeedsConfirmation(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n3\ndeploy\nn\n0\n0\n")
	s.console.users = testUserManager(runner, 0, "deploy")

	require.NoError(t, s.console.Run())
	assert.Empty(t, runner.calls)
	assert.Contains(t, s.out.String(), "Removal cancelled")
}

func TestUserMenuRemoveConfirmed(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n3\ndeploy\ny\n0\n0\n")
	s.console.users = testUserManager(runner, 0, "deploy")

	require.NoError(t, s.console.Run())
	assert.Equal(t, []string{"userdel"}, runner.calls)
	assert.Contains(t, s.out.String(), "User deploy removed")
}

func TestUserMenuChangePassword(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n4\ndeploy\ns3cret\n0\n0\n")
	s.console.users = testUserManager(runner, 0, "deploy")

	require.NoError(t, s.console.Run())
	assert.Equal(t, []string{"chpasswd"}, runner.calls)
	assert.Contains(t, s.out.String(), "Password for deploy changed")
}

func TestUserMenuRejectsEmptyUsername(t *testing.T) {
	runner := &consoleRunner{}
	s := scripted("2\n2\n\n0\n0\n")
	s.console.users = testUserManager(runner, 0)

	require.NoError(t, s.console.Run())
	assert.Empty(t, runner.calls)
	assert.Contains(t, s.out.String(), "username must not be empty")
}
