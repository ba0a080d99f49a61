package picker

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
)

// AreaSelector lets the user draw or pick a region on screen.
type AreaSelector interface {
	// Geometry returns "x,y WxH". With candidates, the selection is
	// restricted to those rectangles.
	Geometry(ctx context.Context, candidates []string) (string, error)

	// Output returns the name of the output the user clicked.
	Output(ctx context.Context) (string, error)
}

// Slurp is an AreaSelector backed by slurp.
type Slurp struct {
	runner execx.Runner
	extra  []string
}

// NewSlurp builds a Slurp with the extra arguments of the slurp section.
func NewSlurp(runner execx.Runner, section config.Section) *Slurp {
	return &Slurp{runner: runner, extra: section.StringSlice("args")}
}

func (s *Slurp) Geometry(ctx context.Context, candidates []string) (string, error) {
	cmd := execx.Command("slurp", slices.Clone(s.extra)...)
	if len(candidates) > 0 {
		cmd.Args = append(cmd.Args, "-r")
		cmd = cmd.WithStdin(strings.NewReader(strings.Join(candidates, "\n") + "\n"))
	}
	return s.run(ctx, cmd, "no area selected")
}

func (s *Slurp) Output(ctx context.Context) (string, error) {
	cmd := execx.Command("slurp", append(slices.Clone(s.extra), "-o", "-r", "-f", "%o")...)
	return s.run(ctx, cmd, "no output selected")
}

func (s *Slurp) run(ctx context.Context, cmd execx.Cmd, reason string) (string, error) {
	out, err := s.runner.Run(ctx, cmd)
	if err != nil {
		if execx.IsExit(err) {
			return "", Cancelf("%s", reason)
		}
		return "", fmt.Errorf("slurp failed: %w", err)
	}
	answer := strings.TrimSpace(string(out))
	if answer == "" {
		return "", Cancelf("%s", reason)
	}
	return answer, nil
}
