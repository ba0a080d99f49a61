package capture

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/bryanchriswhite/swaycap/internal/notify"
	"github.com/bryanchriswhite/swaycap/internal/picker"
	"github.com/bryanchriswhite/swaycap/internal/target"
	"golang.org/x/sys/unix"
)

// Prompts and choices shown before a recording starts
const (
	AudioPrompt   = "Record audio"
	ConfirmPrompt = "Start recording"
)

var (
	audioChoices   = []string{"Yes", "No"}
	confirmChoices = []string{"Start recording", "Cancel"}
)

// Screencast records video with wf-recorder. Invoking it while a recording
// is running stops that recording instead.
type Screencast struct {
	deps Deps
	pid  PidFile
}

// NewScreencast creates the screencast mode. The pid file path comes from
// screencast.pid_file with placeholders expanded.
func NewScreencast(deps Deps) *Screencast {
	s := &Screencast{deps: deps}
	s.pid = PidFile{Path: deps.Placeholders.Expand(s.Section().String("pid_file"))}
	return s
}

func (s *Screencast) Name() string        { return "screencast" }
func (s *Screencast) DisplayName() string { return "Screencast" }
func (s *Screencast) Video() bool         { return true }

func (s *Screencast) Section() config.Section {
	return s.deps.Config.Section(s.Name())
}

// PidFile returns the recording marker
func (s *Screencast) PidFile() PidFile {
	return s.pid
}

// EarlyExit stops the running recording named by the pid file. A marker
// whose process is gone is stale: it is removed and the invocation goes on.
func (s *Screencast) EarlyExit(ctx context.Context) (bool, error) {
	log := logger.WithComponent("screencast")

	pid, err := s.pid.Read()
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case errors.Is(err, ErrMalformedPidFile):
		log.Warn().Err(err).Msg("Removing unreadable pid file")
		return false, s.pid.Remove()
	case err != nil:
		return false, fmt.Errorf("failed to read pid file: %w", err)
	}

	if err := s.deps.signal(pid, unix.SIGINT); err != nil {
		if errors.Is(err, unix.ESRCH) {
			log.Warn().Int("pid", pid).Str("pid_file", s.pid.Path).Msg("Removing stale pid file")
			return false, s.pid.Remove()
		}
		return false, fmt.Errorf("failed to stop recording (pid %d): %w", pid, err)
	}

	log.Info().Int("pid", pid).Msg("Stopping screencast")
	notify.Send(ctx, s.deps.Notifier, notify.Notification{
		Title: "Stopping screencast",
		Icon:  "media-playback-stop",
	})
	return true, nil
}

func (s *Screencast) Capture(ctx context.Context, area target.Area, path string) (err error) {
	log := logger.WithComponent("screencast")

	audio, err := s.audio(ctx)
	if err != nil {
		return err
	}
	choice, err := s.deps.Picker.Pick(ctx, ConfirmPrompt, confirmChoices)
	if err != nil {
		return err
	}
	if choice != 0 {
		return picker.Cancelf("recording not started")
	}

	proc, err := s.deps.Runner.Start(ctx, execx.Command("wf-recorder", s.args(area, audio, path)...))
	if err != nil {
		return fmt.Errorf("failed to start wf-recorder: %w", err)
	}
	defer func() {
		if rmErr := s.pid.Remove(); rmErr != nil && err == nil {
			err = rmErr
		}
	}()

	if err := s.pid.Write(proc.Pid()); err != nil {
		_ = s.deps.signal(proc.Pid(), unix.SIGINT)
		_ = proc.Wait()
		return err
	}
	log.Info().Int("pid", proc.Pid()).Str("path", path).Bool("audio", audio).Msg("Recording")

	if err := proc.Wait(); err != nil && !execx.Interrupted(err) {
		return fmt.Errorf("wf-recorder failed: %w", err)
	}
	log.Info().Str("path", path).Msg("Screencast saved")
	return nil
}

// audio resolves screencast.audio, asking when it is "ask".
func (s *Screencast) audio(ctx context.Context) (bool, error) {
	switch s.Section().String("audio") {
	case "yes":
		return true, nil
	case "no":
		return false, nil
	}
	choice, err := s.deps.Picker.Pick(ctx, AudioPrompt, audioChoices)
	if err != nil {
		return false, err
	}
	return choice == 0, nil
}

func (s *Screencast) args(area target.Area, audio bool, path string) []string {
	section := s.Section()

	var args []string
	if area.Output != "" {
		args = append(args, "-o", area.Output)
	}
	if area.Geometry != "" {
		args = append(args, "-g", area.Geometry)
	}
	if codec := section.String("codec"); codec != "" {
		args = append(args, "-c", codec)
	}
	if audio {
		args = append(args, "--audio")
	}
	args = append(args, section.StringSlice("args")...)
	return append(args, "-f", path)
}

func (s *Screencast) Actions() []notify.Action {
	return notify.VideoActions(s.deps.tools())
}

// Icon is empty: videos get no preview
func (s *Screencast) Icon(string) string {
	return ""
}
