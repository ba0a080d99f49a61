package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Placeholders holds the values substituted into the screencast pid_file
// setting.
type Placeholders struct {
	RuntimeDir     string
	WaylandDisplay string
	UID            int
}

// CurrentPlaceholders reads the placeholder values from the environment.
func CurrentPlaceholders() Placeholders {
	uid := os.Getuid()
	p := Placeholders{
		RuntimeDir:     os.Getenv("XDG_RUNTIME_DIR"),
		WaylandDisplay: os.Getenv("WAYLAND_DISPLAY"),
		UID:            uid,
	}
	if p.RuntimeDir == "" {
		p.RuntimeDir = fmt.Sprintf("/run/user/%d", uid)
	}
	if p.WaylandDisplay == "" {
		p.WaylandDisplay = "wayland-0"
	}
	return p
}

// Expand substitutes ${XDG_RUNTIME_DIR}, ${WAYLAND_DISPLAY} and ${UID}.
// Other text, including other ${...} forms, is left untouched.
func (p Placeholders) Expand(s string) string {
	return strings.NewReplacer(
		"${XDG_RUNTIME_DIR}", p.RuntimeDir,
		"${WAYLAND_DISPLAY}", p.WaylandDisplay,
		"${UID}", strconv.Itoa(p.UID),
	).Replace(s)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
