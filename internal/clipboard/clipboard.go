package clipboard

import (
	"context"
	"fmt"
	"os"

	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
)

// Writer copies files to the Wayland clipboard with wl-copy
type Writer struct {
	runner execx.Runner
}

// New creates a clipboard Writer
func New(runner execx.Runner) *Writer {
	return &Writer{runner: runner}
}

// CopyFile writes the content of path to the clipboard, announcing it as
// mimeType when one is given.
func (w *Writer) CopyFile(ctx context.Context, path, mimeType string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s for the clipboard: %w", path, err)
	}
	defer f.Close()

	var args []string
	if mimeType != "" {
		args = append(args, "--type", mimeType)
	}
	if _, err := w.runner.Run(ctx, execx.Command("wl-copy", args...).WithStdin(f)); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}

	logger.WithComponent("clipboard").Debug().Str("path", path).Msg("Copied to clipboard")
	return nil
}
