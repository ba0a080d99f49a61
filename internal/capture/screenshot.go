package capture

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/bryanchriswhite/swaycap/internal/notify"
	"github.com/bryanchriswhite/swaycap/internal/target"
)

var imageMimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"ppm":  "image/x-portable-pixmap",
}

// Screenshot captures still images with grim.
type Screenshot struct {
	deps Deps
}

// NewScreenshot creates the screenshot mode
func NewScreenshot(deps Deps) *Screenshot {
	return &Screenshot{deps: deps}
}

func (s *Screenshot) Name() string        { return "screenshot" }
func (s *Screenshot) DisplayName() string { return "Screenshot" }
func (s *Screenshot) Video() bool         { return false }

func (s *Screenshot) Section() config.Section {
	return s.deps.Config.Section(s.Name())
}

func (s *Screenshot) EarlyExit(context.Context) (bool, error) {
	return false, nil
}

func (s *Screenshot) Capture(ctx context.Context, area target.Area, path string) error {
	log := logger.WithComponent("screenshot")
	section := s.Section()

	imageType := section.String("type")
	if _, err := s.deps.Runner.Run(ctx, execx.Command("grim", s.args(area, path)...)); err != nil {
		return fmt.Errorf("grim failed: %w", err)
	}
	log.Info().Str("path", path).Str("area", area.String()).Msg("Screenshot saved")

	if !section.Bool("copy") {
		return nil
	}
	if err := s.deps.Clipboard.CopyFile(ctx, path, imageMimeTypes[imageType]); err != nil {
		log.Warn().Err(err).Msg("Failed to copy screenshot to clipboard")
	}
	return nil
}

func (s *Screenshot) args(area target.Area, path string) []string {
	section := s.Section()

	var args []string
	if area.Output != "" {
		args = append(args, "-o", area.Output)
	}
	if area.Geometry != "" {
		args = append(args, "-g", area.Geometry)
	}
	if section.Bool("cursor") {
		args = append(args, "-c")
	}
	imageType := section.String("type")
	args = append(args, "-t", imageType)
	if quality, ok := section.OptionalInt("quality"); ok && imageType == "jpeg" {
		args = append(args, "-q", strconv.Itoa(quality))
	}
	return append(args, path)
}

func (s *Screenshot) Actions() []notify.Action {
	return notify.StillActions(s.deps.tools())
}

// Icon is the screenshot itself
func (s *Screenshot) Icon(path string) string {
	return path
}
