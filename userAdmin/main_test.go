package userAdmin

import (
	"errors"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runnerCall struct {
	name  string
	args  []string
	stdin string
}

type fakeRunner struct {
	calls []runnerCall
	err   error
}

func (f *fakeRunner) Run(name string, args []string, stdin string) (string, error) {
	f.calls = append(f.calls, runnerCall{name: name, args: args, stdin: stdin})
	return "", f.err
}

func knownUsers(names ...string) func(string) (*user.User, error) {
	return func(name string) (*user.User, error) {
		for _, n := range names {
			if n == name {
				return &user.User{Username: name}, nil
			}
		}
		return nil, user.UnknownUserError(name)
	}
}

func testManager(runner Runner, euid int, existing ...string) *Manager {
	return &Manager{
		Runner: runner,
		Lookup: knownUsers(existing...),
		Euid:   func() int { return euid },
	}
}

func TestValidateUsername(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"bad name",
		"tab\tname",
		"Upper",
		"-flag",
		"a:b",
		"name\n",
		strings.Repeat("a", 33),
	}
	for _, name := range bad {
		assert.Error(t, ValidateUsername(name), "name %q", name)
	}

	good := []string{"deploy", "web_user", "user-1", "_svc", "svc$"}
	for _, name := range good {
		assert.NoError(t, ValidateUsername(name), "name %q", name)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("line\nbreak"))
	assert.Error(t, ValidatePassword("carriage\rreturn"))

	// chpasswd splits on the first colon only.
	assert.NoError(t, ValidatePassword("s3cret:with:colons"))
}

func TestAddUserRequiresRoot(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 1000)

	err := m.AddUser("deploy")

	require.ErrorIs(t, err, ErrNotRoot)
	assert.Empty(t, runner.calls)
}

func TestAddUserRejectsExisting(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0, "deploy")

	err := m.AddUser("deploy")

	require.ErrorIs(t, err, ErrUserExists)
	assert.Empty(t, runner.calls)
}

func TestAddUserRejectsMalformedName(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0)

	assert.Error(t, m.AddUser(""))
	assert.Error(t, m.AddUser("  "))
	assert.Empty(t, runner.calls)
}

func TestAddUserRunsUseradd(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0)

	err := m.AddUser("deploy")

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "useradd", runner.calls[0].name)
	assert.Equal(t, []string{"-m", "deploy"}, runner.calls[0].args)
}

func TestRemoveUserMissing(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0)

	err := m.RemoveUser("ghost")

	require.ErrorIs(t, err, ErrUserMissing)
	assert.Empty(t, runner.calls)
}

func TestRemoveUserRunsUserdel(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0, "deploy")

	err := m.RemoveUser("deploy")

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "userdel", runner.calls[0].name)
	assert.Equal(t, []string{"-r", "deploy"}, runner.calls[0].args)
}

func TestChangePasswordPipesChpasswd(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0, "deploy")

	err := m.ChangePassword("deploy", "s3cret")

	require.NoError(t, err)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "chpasswd", runner.calls[0].name)
	assert.Empty(t, runner.calls[0].args)
	assert.Equal(t, "deploy:s3cret\n", runner.calls[0].stdin)
}

func TestChangePasswordValidates(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0, "deploy")

	assert.Error(t, m.ChangePassword("deploy", ""))
	assert.Error(t, m.ChangePassword("deploy", "nl\nnl"))
	assert.Error(t, m.ChangePassword("", "s3cret"))
	assert.Empty(t, runner.calls)
}

func TestChangePasswordMissingUser(t *testing.T) {
	runner := &fakeRunner{}
	m := testManager(runner, 0)

	err := m.ChangePassword("ghost", "s3cret")

	require.ErrorIs(t, err, ErrUserMissing)
	assert.Empty(t, runner.calls)
}

func TestRunnerFailureSurfaces(t *testing.T) {
	runner := &fakeRunner{err: errors.New("useradd failed: exit status 1")}
	m := testManager(runner, 0)

	err := m.AddUser("deploy")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "useradd failed")
}

const passwdFixture = `root:x:0:0:root:/root:/bin/bash
daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin
deploy:x:1000:1000:Deploy:/home/deploy:/bin/bash
svc:x:1001:1001::/home/svc:/usr/sbin/nologin
nobody:x:65534:65534:nobody:/nonexistent:/usr/sbin/nologin
ana:x:1002:1002::/home/ana:/bin/zsh
`

func TestListUsers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "passwd")
	require.NoError(t, os.WriteFile(path, []byte(passwdFixture), 0644))

	m := NewManager()
	m.PasswdPath = path

	accounts, err := m.ListUsers()

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "deploy", accounts[0].Name)
	assert.Equal(t, 1000, accounts[0].UID)
	assert.Equal(t, "/home/deploy", accounts[0].Home)
	assert.Equal(t, "ana", accounts[1].Name)
}

func TestListUsersMissingDatabase(t *testing.T) {
	m := NewManager()
	m.PasswdPath = filepath.Join(t.TempDir(), "nope")

	_, err := m.ListUsers()

	assert.Error(t, err)
}

func TestRenderAccounts(t *testing.T) {
	out := RenderAccounts([]Account{
		{Name: "deploy", UID: 1000, Home: "/home/deploy", Shell: "/bin/bash"},
	})

	assert.Contains(t, out, "| deploy")
	assert.Contains(t, out, "1000")
	assert.Contains(t, out, "|-")

	empty := RenderAccounts(nil)
	assert.Contains(t, empty, "No regular login accounts")
}
