package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "website.log")
	f, err := NewLogFile(fname)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.Write([]byte("first\n"))
	require.NoError(t, err)

	rotated := fname + ".1"
	require.NoError(t, os.Rename(fname, rotated))
	_, err = f.Write([]byte("second\n"))
	require.NoError(t, err)

	require.NoError(t, os.Remove(fname))
	_, err = f.Write([]byte("third\n"))
	require.NoError(t, err)

	b, err := os.ReadFile(rotated)
	require.NoError(t, err)
	assert.Equal(t, "first\n", string(b))

	b, err = os.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "third\n", string(b))
}

func TestNewLogFile_error(t *testing.T) {
	_, err := NewLogFile(filepath.Join(t.TempDir(), "missing", "website.log"))
	require.ErrorContains(t, err, "open")
}
