package picker

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
)

// Picker presents text choices and returns the index of the chosen one.
// A dismissed picker returns a *CancelError.
type Picker interface {
	Pick(ctx context.Context, prompt string, choices []string) (int, error)
}

// Strategy describes how one menu program is driven.
type Strategy struct {
	Program string
	// Index is true when the program prints the chosen index instead of
	// the chosen line.
	Index bool
	Args  func(prompt string) []string
}

// Strategies are the supported menu programs keyed by picker.program.
var Strategies = map[string]Strategy{
	"fuzzel": {
		Program: "fuzzel",
		Index:   true,
		Args: func(prompt string) []string {
			return []string{"--dmenu", "--index", "--prompt", prompt + ": "}
		},
	},
	"rofi": {
		Program: "rofi",
		Index:   true,
		Args: func(prompt string) []string {
			return []string{"-dmenu", "-i", "-format", "i", "-p", prompt}
		},
	},
	"wofi": {
		Program: "wofi",
		Args: func(prompt string) []string {
			return []string{"--dmenu", "--prompt", prompt}
		},
	},
	"bemenu": {
		Program: "bemenu",
		Args: func(prompt string) []string {
			return []string{"-p", prompt}
		},
	},
	"dmenu": {
		Program: "dmenu",
		Args: func(prompt string) []string {
			return []string{"-p", prompt}
		},
	},
}

// Menu is a Picker running a dmenu-style program.
type Menu struct {
	runner   execx.Runner
	strategy Strategy
	extra    []string
}

// NewMenu selects the strategy named by the picker section once.
func NewMenu(runner execx.Runner, section config.Section) (*Menu, error) {
	name := section.String("program")
	strategy, ok := Strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown picker program %q", name)
	}
	return &Menu{
		runner:   runner,
		strategy: strategy,
		extra:    section.StringSlice("args"),
	}, nil
}

func (m *Menu) Pick(ctx context.Context, prompt string, choices []string) (int, error) {
	if len(choices) == 0 {
		return 0, Cancelf("nothing to choose from")
	}

	args := append(m.strategy.Args(prompt), m.extra...)
	stdin := strings.NewReader(strings.Join(choices, "\n") + "\n")

	out, err := m.runner.Run(ctx, execx.Command(m.strategy.Program, args...).WithStdin(stdin))
	if err != nil {
		if execx.IsExit(err) {
			return 0, Cancelf("%s: no selection", strings.ToLower(prompt))
		}
		return 0, fmt.Errorf("picker failed: %w", err)
	}

	answer := strings.TrimRight(string(out), "\r\n")
	if answer == "" {
		return 0, Cancelf("%s: no selection", strings.ToLower(prompt))
	}

	idx, err := m.parse(answer, choices)
	if err != nil {
		return 0, err
	}
	logger.WithComponent("picker").Debug().Str("prompt", prompt).Str("choice", choices[idx]).Msg("Picked")
	return idx, nil
}

func (m *Menu) parse(answer string, choices []string) (int, error) {
	if m.strategy.Index {
		idx, err := strconv.Atoi(strings.TrimSpace(answer))
		if err == nil && idx == -1 {
			// rofi reports free text typed into the menu as -1
			return 0, Cancelf("%q is not one of the choices", answer)
		}
		if err != nil || idx < 0 || idx >= len(choices) {
			return 0, fmt.Errorf("%s returned an invalid index %q", m.strategy.Program, answer)
		}
		return idx, nil
	}
	idx := slices.Index(choices, answer)
	if idx < 0 {
		// free text typed into the menu
		return 0, Cancelf("%q is not one of the choices", answer)
	}
	return idx, nil
}
