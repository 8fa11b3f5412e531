package server

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
)

// systemdActivated reports whether systemd passed us a listening socket as
// fd 3.
func systemdActivated() bool {
	return os.Getenv("LISTEN_PID") == strconv.Itoa(os.Getpid())
}

func systemdListener() (net.Listener, error) {
	l, err := net.FileListener(os.NewFile(3, "systemd socket"))
	if err != nil {
		return nil, fmt.Errorf("http/server: listener from systemd socket: %w",
			err)
	}
	return l, nil
}

// unixListener listens on path, replacing a socket left by a previous run.
// Zero perm keeps the permissions given by umask.
func unixListener(path string, perm os.FileMode) (*net.UnixListener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("http/server: socket directory: %w", err)
	}

	err := os.Remove(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("http/server: remove stale socket: %w", err)
	}

	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, fmt.Errorf("http/server: listen on %q: %w", path, err)
	}
	l.SetUnlinkOnClose(true)

	if perm != 0 {
		if err := os.Chmod(path, perm); err != nil {
			l.Close()
			return nil, fmt.Errorf("http/server: chmod %q to %v: %w", path, perm,
				err)
		}
	}
	return l, nil
}
