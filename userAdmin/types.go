package userAdmin

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

var (
	// ErrNotRoot is returned when an account operation runs without
	// root privileges.
	ErrNotRoot = errors.New("operation requires root privileges")

	// ErrUserExists is returned by AddUser for an existing account.
	ErrUserExists = errors.New("user already exists")

	// ErrUserMissing is returned when the named account does not exist.
	ErrUserMissing = errors.New("user does not exist")
)

// Account is one login account from the passwd database.
type Account struct {
	Name  string
	UID   int
	Home  string
	Shell string
}

// Runner executes one system command with optional stdin. Account
// operations go through a Runner so tests never touch the host.
type Runner interface {
	Run(name string, args []string, stdin string) (string, error)
}

// ExecRunner runs commands through os/exec, capturing output.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args []string, stdin string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not available: %w", name, err)
	}

	cmd := exec.Command(path, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return stdout.String(), fmt.Errorf("%s failed: %w: %s", name, err, msg)
		}
		return stdout.String(), fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.String(), nil
}
