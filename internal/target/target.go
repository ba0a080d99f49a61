// Package target models what the user can capture and how each choice is
// narrowed down to an Area for the capture tools.
package target

import (
	"context"
	"fmt"
	"strings"

	"github.com/bryanchriswhite/swaycap/internal/compositor"
	"github.com/bryanchriswhite/swaycap/internal/picker"
)

// Area is the resolved capture target. Both fields empty means every output.
type Area struct {
	Output   string
	Geometry string
}

// IsZero reports whether the area covers all outputs.
func (a Area) IsZero() bool {
	return a.Output == "" && a.Geometry == ""
}

func (a Area) String() string {
	switch {
	case a.IsZero():
		return "all outputs"
	case a.Output != "" && a.Geometry != "":
		return a.Output + " " + a.Geometry
	case a.Output != "":
		return a.Output
	default:
		return a.Geometry
	}
}

// Selection is one entry of the capture menu.
type Selection interface {
	// ID is the stable machine-readable identifier
	ID() string
	// Label is shown to the user
	Label() string
	// Resolve narrows the selection down to an Area, asking the user when needed
	Resolve(ctx context.Context) (Area, error)
}

// Selection identifiers.
const (
	IDRegion        = "region"
	IDAllOutputs    = "all-outputs"
	IDFocusedWindow = "focused-window"
	IDSelectWindow  = "select-window"
	IDFocusedOutput = "focused-output"
	IDSelectOutput  = "select-output"
	IDWindow        = "window"
	IDOutput        = "output"
)

// BaseIDs are the identifiers accepted on the command line, in menu order.
var BaseIDs = []string{
	IDRegion,
	IDAllOutputs,
	IDFocusedWindow,
	IDSelectWindow,
	IDFocusedOutput,
	IDSelectOutput,
}

// Env holds the collaborators selections resolve against.
type Env struct {
	Compositor compositor.Source
	Area       picker.AreaSelector
}

// Region is a freely drawn rectangle.
type Region struct {
	Env Env
}

func (Region) ID() string    { return IDRegion }
func (Region) Label() string { return "Region" }

func (r Region) Resolve(ctx context.Context) (Area, error) {
	geometry, err := r.Env.Area.Geometry(ctx, nil)
	if err != nil {
		return Area{}, err
	}
	return Area{Geometry: geometry}, nil
}

// AllOutputs covers every output. Only still capture supports it.
type AllOutputs struct{}

func (AllOutputs) ID() string    { return IDAllOutputs }
func (AllOutputs) Label() string { return "All outputs" }

func (AllOutputs) Resolve(context.Context) (Area, error) {
	return Area{}, nil
}

// FocusedWindow is the window holding keyboard focus.
type FocusedWindow struct {
	Env Env
}

func (FocusedWindow) ID() string    { return IDFocusedWindow }
func (FocusedWindow) Label() string { return "Focused window" }

func (f FocusedWindow) Resolve(ctx context.Context) (Area, error) {
	windows, err := f.Env.Compositor.Windows(ctx)
	if err != nil {
		return Area{}, err
	}
	for _, w := range windows {
		if w.Focused {
			return Area{Geometry: w.Geometry()}, nil
		}
	}
	return Area{}, picker.Cancelf("no focused window")
}

// SelectWindow lets the user click one of the visible windows.
type SelectWindow struct {
	Env Env
}

func (SelectWindow) ID() string    { return IDSelectWindow }
func (SelectWindow) Label() string { return "Select window" }

func (s SelectWindow) Resolve(ctx context.Context) (Area, error) {
	windows, err := s.Env.Compositor.Windows(ctx)
	if err != nil {
		return Area{}, err
	}
	if len(windows) == 0 {
		return Area{}, picker.Cancelf("no windows to select")
	}
	candidates := make([]string, len(windows))
	for i, w := range windows {
		candidates[i] = w.Geometry()
	}
	geometry, err := s.Env.Area.Geometry(ctx, candidates)
	if err != nil {
		return Area{}, err
	}
	return Area{Geometry: geometry}, nil
}

// FocusedOutput is the output holding focus.
type FocusedOutput struct {
	Env Env
}

func (FocusedOutput) ID() string    { return IDFocusedOutput }
func (FocusedOutput) Label() string { return "Focused output" }

func (f FocusedOutput) Resolve(ctx context.Context) (Area, error) {
	outputs, err := f.Env.Compositor.Outputs(ctx)
	if err != nil {
		return Area{}, err
	}
	for _, o := range outputs {
		if o.Focused {
			return Area{Output: o.Name}, nil
		}
	}
	return Area{}, picker.Cancelf("no focused output")
}

// SelectOutput lets the user click one of the active outputs.
type SelectOutput struct {
	Env Env
}

func (SelectOutput) ID() string    { return IDSelectOutput }
func (SelectOutput) Label() string { return "Select output" }

func (s SelectOutput) Resolve(ctx context.Context) (Area, error) {
	outputs, err := s.Env.Compositor.Outputs(ctx)
	if err != nil {
		return Area{}, err
	}
	if len(outputs) == 0 {
		return Area{}, picker.Cancelf("no outputs to select")
	}
	name, err := s.Env.Area.Output(ctx)
	if err != nil {
		return Area{}, err
	}
	return Area{Output: name}, nil
}

// Window is a window discovered in the compositor tree.
type Window struct {
	compositor.Window
}

func (Window) ID() string { return IDWindow }

func (w Window) Label() string {
	name := strings.TrimSpace(w.Name)
	if name == "" {
		name = w.Geometry()
	}
	return "Window: " + name
}

func (w Window) Resolve(context.Context) (Area, error) {
	return Area{Geometry: w.Geometry()}, nil
}

// Output is an active output reported by the compositor.
type Output struct {
	compositor.Output
}

func (Output) ID() string { return IDOutput }

func (o Output) Label() string {
	if o.Model != nil && *o.Model != "" {
		return fmt.Sprintf("Output: %s (%s)", o.Name, *o.Model)
	}
	return "Output: " + o.Name
}

func (o Output) Resolve(context.Context) (Area, error) {
	return Area{Output: o.Name}, nil
}

// Base returns the base selection named id. allOutputs reports whether the
// capture mode supports AllOutputs.
func Base(id string, env Env, allOutputs bool) (Selection, error) {
	switch id {
	case IDRegion:
		return Region{Env: env}, nil
	case IDAllOutputs:
		if !allOutputs {
			return nil, fmt.Errorf("selection %q is not supported for recording", id)
		}
		return AllOutputs{}, nil
	case IDFocusedWindow:
		return FocusedWindow{Env: env}, nil
	case IDSelectWindow:
		return SelectWindow{Env: env}, nil
	case IDFocusedOutput:
		return FocusedOutput{Env: env}, nil
	case IDSelectOutput:
		return SelectOutput{Env: env}, nil
	default:
		return nil, fmt.Errorf("unknown selection %q (use %s)", id, strings.Join(BaseIDs, ", "))
	}
}

// Choices builds the capture menu: the base selections, then every window
// in tree walk order, then every active output.
func Choices(ctx context.Context, env Env, allOutputs bool) ([]Selection, error) {
	windows, err := env.Compositor.Windows(ctx)
	if err != nil {
		return nil, err
	}
	outputs, err := env.Compositor.Outputs(ctx)
	if err != nil {
		return nil, err
	}

	choices := make([]Selection, 0, len(BaseIDs)+len(windows)+len(outputs))
	for _, id := range BaseIDs {
		if id == IDAllOutputs && !allOutputs {
			continue
		}
		sel, err := Base(id, env, allOutputs)
		if err != nil {
			return nil, err
		}
		choices = append(choices, sel)
	}
	for _, w := range windows {
		choices = append(choices, Window{Window: w})
	}
	for _, o := range outputs {
		choices = append(choices, Output{Output: o})
	}
	return choices, nil
}

// Labels returns the labels of selections in order.
func Labels(selections []Selection) []string {
	labels := make([]string, len(selections))
	for i, s := range selections {
		labels[i] = s.Label()
	}
	return labels
}
