package compositor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bryanchriswhite/swaycap/internal/execx"
	"github.com/bryanchriswhite/swaycap/internal/logger"
)

// Source provides snapshots of the compositor state
type Source interface {
	// Windows returns every capturable window in tree walk order
	Windows(ctx context.Context) ([]Window, error)

	// Outputs returns the active outputs
	Outputs(ctx context.Context) ([]Output, error)
}

// Rect is a rectangle in global compositor coordinates
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Node is one element of the sway container tree
type Node struct {
	Name          *string `json:"name"`
	Rect          Rect    `json:"rect"`
	Focused       bool    `json:"focused"`
	Visible       bool    `json:"visible"`
	PID           *int    `json:"pid"`
	Nodes         []Node  `json:"nodes"`
	FloatingNodes []Node  `json:"floating_nodes"`
}

// Window is a capturable leaf of the container tree
type Window struct {
	Name    string
	X       int
	Y       int
	Width   int
	Height  int
	Focused bool
}

// Geometry formats the window rectangle the way grim, slurp and
// wf-recorder expect it: "x,y WxH".
func (w Window) Geometry() string {
	return fmt.Sprintf("%d,%d %dx%d", w.X, w.Y, w.Width, w.Height)
}

// Output is an active display output
type Output struct {
	Name    string  `json:"name"`
	Model   *string `json:"model"`
	Focused bool    `json:"focused"`
	Active  bool    `json:"active"`
}

// Walk collects the capturable windows below n. Floating children of a
// container come before its tiled children, depth first. A node without
// children is a window only when it is visible and owned by a process.
func Walk(n Node) []Window {
	var out []Window
	walk(&n, &out)
	return out
}

func walk(n *Node, out *[]Window) {
	if len(n.FloatingNodes) == 0 && len(n.Nodes) == 0 {
		if n.Visible && n.PID != nil {
			w := Window{
				X:       n.Rect.X,
				Y:       n.Rect.Y,
				Width:   n.Rect.Width,
				Height:  n.Rect.Height,
				Focused: n.Focused,
			}
			if n.Name != nil {
				w.Name = *n.Name
			}
			*out = append(*out, w)
		}
		return
	}
	for i := range n.FloatingNodes {
		walk(&n.FloatingNodes[i], out)
	}
	for i := range n.Nodes {
		walk(&n.Nodes[i], out)
	}
}

// ActiveOutputs keeps the outputs that are currently active.
func ActiveOutputs(outputs []Output) []Output {
	active := make([]Output, 0, len(outputs))
	for _, o := range outputs {
		if o.Active {
			active = append(active, o)
		}
	}
	return active
}

// Sway queries sway through swaymsg
type Sway struct {
	runner  execx.Runner
	program string
}

// NewSway creates a Source backed by swaymsg
func NewSway(runner execx.Runner) *Sway {
	return &Sway{runner: runner, program: "swaymsg"}
}

// Tree returns the raw container tree.
func (s *Sway) Tree(ctx context.Context) (Node, error) {
	var root Node
	if err := s.query(ctx, "get_tree", &root); err != nil {
		return Node{}, err
	}
	return root, nil
}

// Windows returns every capturable window.
func (s *Sway) Windows(ctx context.Context) ([]Window, error) {
	root, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	windows := Walk(root)
	logger.WithComponent("compositor").Debug().Int("count", len(windows)).Msg("Windows discovered")
	return windows, nil
}

// Outputs returns the active outputs.
func (s *Sway) Outputs(ctx context.Context) ([]Output, error) {
	var outputs []Output
	if err := s.query(ctx, "get_outputs", &outputs); err != nil {
		return nil, err
	}
	active := ActiveOutputs(outputs)
	logger.WithComponent("compositor").Debug().Int("count", len(active)).Msg("Outputs discovered")
	return active, nil
}

func (s *Sway) query(ctx context.Context, msgType string, v any) error {
	out, err := s.runner.Run(ctx, execx.Command(s.program, "-t", msgType, "-r"))
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", s.program, msgType, err)
	}
	if err := json.Unmarshal(out, v); err != nil {
		return fmt.Errorf("malformed %s reply: %w", msgType, err)
	}
	return nil
}
