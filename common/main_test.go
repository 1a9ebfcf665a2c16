package common

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	RemoveColors()
	os.Exit(m.Run())
}

func TestConvertBytes(t *testing.T) {
	assert.Equal(t, "0 B", ConvertBytes(0))
	assert.Equal(t, "512 B", ConvertBytes(512))
	assert.Equal(t, "1 KB", ConvertBytes(1024))
	assert.Equal(t, "1.00 MB", ConvertBytes(1024*1024))
	assert.Equal(t, "1.50 GB", ConvertBytes(3*1024*1024*1024/2))
	assert.Equal(t, "4.00 TB", ConvertBytes(4*1024*1024*1024*1024))
}

func TestFileExists(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "hostkit_exists_*.txt")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	assert.True(t, FileExists(tmpFile.Name()))
	assert.False(t, FileExists(tmpFile.Name()+".missing"))
}

func TestStatusListItem(t *testing.T) {
	ok := StatusListItem("RAM Usage", "80%", "43%", true)
	assert.Contains(t, ok, "RAM Usage")
	assert.Contains(t, ok, "less than")
	assert.Contains(t, ok, "80%")
	assert.Contains(t, ok, "(43%)")

	bad := StatusListItem("RAM Usage", "80%", "95%", false)
	assert.Contains(t, bad, "more than")
}

func TestSimpleStatusListItem(t *testing.T) {
	line := SimpleStatusListItem("/data", "92% used", false)
	assert.Contains(t, line, "/data")
	assert.Contains(t, line, "is")
	assert.Contains(t, line, "92% used")
}

func TestDisplayBoxContainsTitleAndContent(t *testing.T) {
	out := DisplayBox("hostkit", "body text")
	assert.Contains(t, out, "hostkit")
	assert.Contains(t, out, "body text")
	// Rounded border corners from lipgloss.
	assert.True(t, strings.Contains(out, "╭") || strings.Contains(out, "("))
}

func TestMenuItem(t *testing.T) {
	line := MenuItem("1", "Host health report")
	assert.Contains(t, line, "1)")
	assert.Contains(t, line, "Host health report")
}
