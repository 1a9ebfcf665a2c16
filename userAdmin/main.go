// This package manages local login accounts.
//
// Mutating operations require root and shell out to the standard
// tooling (useradd, userdel, chpasswd); the account existence checks
// run first so the operator gets a clear message instead of tool
// output. Listing reads the passwd database directly.

package userAdmin

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strconv"
	"strings"

	"github.com/monobilisim/hostkit/common"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// usernameRe is the default useradd NAME_REGEX.
var usernameRe = regexp.MustCompile(`^[a-z_][a-z0-9_-]*\$?$`)

// Manager performs the account operations. The command runner, the
// account lookup and the euid getter are injectable for tests.
type Manager struct {
	Runner     Runner
	Lookup     func(name string) (*user.User, error)
	Euid       func() int
	PasswdPath string
}

// NewManager returns a Manager wired to the host.
func NewManager() *Manager {
	return &Manager{
		Runner:     ExecRunner{},
		Lookup:     user.Lookup,
		Euid:       os.Geteuid,
		PasswdPath: "/etc/passwd",
	}
}

// ValidateUsername rejects names useradd would refuse or that would
// break the passwd format.
func ValidateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("username must not be empty")
	}
	if strings.ContainsAny(name, " \t") || name != strings.TrimSpace(name) {
		return errors.New("username must not contain whitespace")
	}
	if len(name) > 32 {
		return errors.New("username must be at most 32 characters")
	}
	if !usernameRe.MatchString(name) {
		return errors.New("username contains invalid characters")
	}
	return nil
}

// ValidatePassword rejects passwords that would break the chpasswd
// line protocol.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password must not be empty")
	}
	if strings.ContainsAny(password, "\n\r") {
		return errors.New("password must not contain line breaks")
	}
	return nil
}

func (m *Manager) requireRoot() error {
	if m.Euid() != 0 {
		return ErrNotRoot
	}
	return nil
}

func (m *Manager) exists(name string) (bool, error) {
	_, err := m.Lookup(name)
	if err == nil {
		return true, nil
	}
	var unknown user.UnknownUserError
	if errors.As(err, &unknown) {
		return false, nil
	}
	return false, fmt.Errorf("lookup %s: %w", name, err)
}

// AddUser creates a new account with a home directory.
func (m *Manager) AddUser(name string) error {
	if err := ValidateUsername(name); err != nil {
		return err
	}
	if err := m.requireRoot(); err != nil {
		return err
	}
	exists, err := m.exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%s: %w", name, ErrUserExists)
	}

	if _, err := m.Runner.Run("useradd", []string{"-m", name}, ""); err != nil {
		return err
	}
	log.Info().Str("component", "userAdmin").Str("user", name).Msg("Account created")
	return nil
}

// RemoveUser deletes an account together with its home directory.
func (m *Manager) RemoveUser(name string) error {
	if err := ValidateUsername(name); err != nil {
		return err
	}
	if err := m.requireRoot(); err != nil {
		return err
	}
	exists, err := m.exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", name, ErrUserMissing)
	}

	if _, err := m.Runner.Run("userdel", []string{"-r", name}, ""); err != nil {
		return err
	}
	log.Info().Str("component", "userAdmin").Str("user", name).Msg("Account removed")
	return nil
}

// ChangePassword sets a new password through chpasswd.
func (m *Manager) ChangePassword(name string, password string) error {
	if err := ValidateUsername(name); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	if err := m.requireRoot(); err != nil {
		return err
	}
	exists, err := m.exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s: %w", name, ErrUserMissing)
	}

	if _, err := m.Runner.Run("chpasswd", nil, name+":"+password+"\n"); err != nil {
		return err
	}
	log.Info().Str("component", "userAdmin").Str("user", name).Msg("Password changed")
	return nil
}

// ListUsers returns the regular login accounts: uid 1000 and above
// with a usable login shell.
func (m *Manager) ListUsers() ([]Account, error) {
	data, err := os.ReadFile(m.PasswdPath)
	if err != nil {
		return nil, fmt.Errorf("read passwd database: %w", err)
	}

	var accounts []Account
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) < 7 {
			continue
		}
		uid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		shell := fields[6]
		if uid < 1000 || uid == 65534 {
			continue
		}
		if strings.HasSuffix(shell, "nologin") || strings.HasSuffix(shell, "false") {
			continue
		}
		accounts = append(accounts, Account{
			Name:  fields[0],
			UID:   uid,
			Home:  fields[5],
			Shell: shell,
		})
	}
	return accounts, nil
}

// PromptPassword reads a password from stdin, suppressing echo when
// stdin is a terminal.
func PromptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		defer fmt.Println()
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// AddMain is the entry point of the user add subcommand.
func AddMain(cmd *cobra.Command, args []string) {
	common.Init()
	if err := NewManager().AddUser(args[0]); err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(common.SuccessLine("User " + args[0] + " created"))
}

// RemoveMain is the entry point of the user remove subcommand.
func RemoveMain(cmd *cobra.Command, args []string) {
	common.Init()
	if err := NewManager().RemoveUser(args[0]); err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(common.SuccessLine("User " + args[0] + " removed"))
}

// PasswdMain is the entry point of the user passwd subcommand.
func PasswdMain(cmd *cobra.Command, args []string) {
	common.Init()
	password, err := PromptPassword("New password for " + args[0] + ": ")
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	if err := NewManager().ChangePassword(args[0], password); err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(common.SuccessLine("Password for " + args[0] + " changed"))
}

// ListMain is the entry point of the user list subcommand.
func ListMain(cmd *cobra.Command, args []string) {
	common.Init()
	accounts, err := NewManager().ListUsers()
	if err != nil {
		fmt.Println(common.FailLine(err.Error()))
		os.Exit(1)
	}
	fmt.Println(RenderAccounts(accounts))
}
