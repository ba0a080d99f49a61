package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/lestrrat-go/strftime"
)

// LegacySaveDirEnv is the deprecated directory fallback read from the
// environment.
const LegacySaveDirEnv = "SWAYCAP_SAVE_DIR"

// Destination holds the command line overrides for where a capture goes.
type Destination struct {
	// Output is the full file path; it bypasses directory and filename
	// resolution when set
	Output string
	// SaveDir takes precedence over the configured directory
	SaveDir string
}

// Filename renders a strftime pattern at now.
func Filename(pattern string, now time.Time) (string, error) {
	name, err := strftime.Format(pattern, now)
	if err != nil {
		return "", fmt.Errorf("invalid filename pattern %q: %w", pattern, err)
	}
	return name, nil
}

// Path returns the file a capture of the mode configured by section is
// written to, creating its directory when missing.
func (d Destination) Path(section config.Section, now time.Time) (string, error) {
	if d.Output != "" {
		return config.ExpandHome(d.Output)
	}

	dir, err := d.Directory(section)
	if err != nil {
		return "", err
	}
	name, err := Filename(section.String("filename"), now)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// Directory resolves the save directory: SaveDir, then the section's
// directory, then the legacy environment variable, then the home directory.
func (d Destination) Directory(section config.Section) (string, error) {
	if d.SaveDir != "" {
		return config.ExpandHome(d.SaveDir)
	}
	if dir := section.String("directory"); dir != "" {
		return config.ExpandHome(dir)
	}
	if dir := os.Getenv(LegacySaveDirEnv); dir != "" {
		logger.WithComponent("capture").Warn().
			Str("env", LegacySaveDirEnv).
			Msgf("%s is deprecated, set %s.directory in the config file instead", LegacySaveDirEnv, section.Name())
		return config.ExpandHome(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}
