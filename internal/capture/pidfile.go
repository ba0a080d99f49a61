package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrMalformedPidFile is returned by PidFile.Read for content that is not a pid.
var ErrMalformedPidFile = errors.New("malformed pid file")

// PidFile marks a running recording. Its presence is the recording state.
type PidFile struct {
	Path string
}

// Write records pid, creating the parent directory when needed.
func (p PidFile) Write(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.Path), 0o755); err != nil {
		return fmt.Errorf("failed to create pid file directory: %w", err)
	}
	if err := os.WriteFile(p.Path, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}
	return nil
}

// Read returns the recorded pid. A missing marker yields an error matching
// fs.ErrNotExist.
func (p PidFile) Read() (int, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("%w: %s", ErrMalformedPidFile, p.Path)
	}
	return pid, nil
}

// Remove deletes the marker. Removing a missing marker is not an error.
func (p PidFile) Remove() error {
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove pid file: %w", err)
	}
	return nil
}

// Exists reports whether the marker is present.
func (p PidFile) Exists() bool {
	_, err := os.Stat(p.Path)
	return err == nil
}
