package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInteractive_NonFile(t *testing.T) {
	assert.False(t, IsInteractive(&bytes.Buffer{}))
	assert.False(t, IsInteractive(nil))
}

func TestIsInteractive_RegularFile(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, IsInteractive(f))
}

func TestIsInteractive_DumbTerminal(t *testing.T) {
	t.Setenv("TERM", "dumb")

	assert.False(t, IsInteractive(os.Stderr))
}
