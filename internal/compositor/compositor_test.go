package compositor

import (
	"context"
	"testing"

	"github.com/bryanchriswhite/swaycap/internal/execx/execxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeJSON = `{
  "name": "root",
  "rect": {"x": 0, "y": 0, "width": 3840, "height": 1080},
  "nodes": [
    {
      "name": "DP-1",
      "nodes": [
        {
          "name": "1",
          "floating_nodes": [
            {"name": "float", "rect": {"x": 100, "y": 50, "width": 640, "height": 480},
             "visible": true, "pid": 300}
          ],
          "nodes": [
            {"name": "tiled", "rect": {"x": 0, "y": 0, "width": 1920, "height": 1080},
             "visible": true, "focused": true, "pid": 200},
            {"name": "hidden", "rect": {"x": 0, "y": 0, "width": 10, "height": 10},
             "visible": false, "pid": 201},
            {"name": "placeholder", "rect": {"x": 0, "y": 0, "width": 10, "height": 10},
             "visible": true}
          ]
        }
      ]
    }
  ]
}`

func TestWalk_FloatingBeforeTiled(t *testing.T) {
	root := Node{
		Nodes: []Node{{
			FloatingNodes: []Node{leaf("float", true, 1)},
			Nodes:         []Node{leaf("tiled", true, 2)},
		}},
	}
	windows := Walk(root)
	require.Len(t, windows, 2)
	assert.Equal(t, "float", windows[0].Name)
	assert.Equal(t, "tiled", windows[1].Name)
}

func TestWalk_SkipsInvisibleAndPidless(t *testing.T) {
	deep := Node{Nodes: []Node{{Nodes: []Node{{
		Nodes: []Node{
			leaf("hidden", false, 1),
			{Name: strPtr("nopid"), Visible: true},
			leaf("kept", true, 3),
		},
		FloatingNodes: []Node{leaf("hidden-float", false, 4)},
	}}}}}

	windows := Walk(deep)
	require.Len(t, windows, 1)
	assert.Equal(t, "kept", windows[0].Name)
}

func TestWalk_ContainersAreNotWindows(t *testing.T) {
	pid := 10
	container := Node{Name: strPtr("workspace"), Visible: true, PID: &pid, Nodes: []Node{leaf("app", true, 11)}}
	windows := Walk(container)
	require.Len(t, windows, 1)
	assert.Equal(t, "app", windows[0].Name)
}

func TestWindow_Geometry(t *testing.T) {
	w := Window{X: -10, Y: 20, Width: 300, Height: 400}
	assert.Equal(t, "-10,20 300x400", w.Geometry())
}

func TestSway_Windows(t *testing.T) {
	fake := execxtest.New()
	fake.Queue("swaymsg", execxtest.Response{Stdout: treeJSON})

	windows, err := NewSway(fake).Windows(context.Background())
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, Window{Name: "float", X: 100, Y: 50, Width: 640, Height: 480}, windows[0])
	assert.Equal(t, "tiled", windows[1].Name)
	assert.True(t, windows[1].Focused)

	calls := fake.CallsTo("swaymsg")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-t", "get_tree", "-r"}, calls[0].Args)
}

func TestSway_Outputs(t *testing.T) {
	fake := execxtest.New()
	fake.Queue("swaymsg", execxtest.Response{Stdout: `[
		{"name": "eDP-1", "model": "0x1234", "focused": true, "active": true},
		{"name": "HDMI-A-1", "model": null, "focused": false, "active": false},
		{"name": "DP-2", "model": "U2720Q", "focused": false, "active": true}
	]`})

	outputs, err := NewSway(fake).Outputs(context.Background())
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	assert.Equal(t, "eDP-1", outputs[0].Name)
	assert.True(t, outputs[0].Focused)
	assert.Equal(t, "DP-2", outputs[1].Name)
	assert.Equal(t, []string{"-t", "get_outputs", "-r"}, fake.CallsTo("swaymsg")[0].Args)
}

func TestSway_Failures(t *testing.T) {
	fake := execxtest.New()
	fake.Queue("swaymsg",
		execxtest.Response{Err: execxtest.Exit("swaymsg", 2)},
		execxtest.Response{Stdout: "not json"},
		execxtest.Response{Stdout: `{"name": "root"}`},
	)
	s := NewSway(fake)

	_, err := s.Windows(context.Background())
	assert.ErrorContains(t, err, "swaymsg get_tree failed")

	_, err = s.Windows(context.Background())
	assert.ErrorContains(t, err, "malformed get_tree reply")

	_, err = s.Outputs(context.Background())
	assert.ErrorContains(t, err, "malformed get_outputs reply")
}

func leaf(name string, visible bool, pid int) Node {
	return Node{Name: strPtr(name), Visible: visible, PID: &pid}
}

func strPtr(s string) *string {
	return &s
}
