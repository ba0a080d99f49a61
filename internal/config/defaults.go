package config

// AppName is used for the config directory, notification app name and
// default pid marker.
const AppName = "swaycap"

// Schema describes every key a configuration file may contain.
var Schema = Dict(Fields{
	"log_level": Enum("debug", "info", "warn", "error"),
	"picker": Dict(Fields{
		"program": Enum("fuzzel", "rofi", "wofi", "bemenu", "dmenu"),
		"args":    List(KindString),
	}),
	"slurp": Dict(Fields{
		"args": List(KindString),
	}),
	"screenshot": Dict(Fields{
		"directory": Type(KindString, KindNull),
		"filename":  Type(KindString),
		"type":      Enum("png", "jpeg", "ppm"),
		"quality":   Type(KindInt, KindNull),
		"cursor":    Type(KindBool),
		"copy":      Type(KindBool),
	}),
	"screencast": Dict(Fields{
		"directory": Type(KindString, KindNull),
		"filename":  Type(KindString),
		"pid_file":  Type(KindString),
		"audio":     Enum("ask", "yes", "no"),
		"codec":     Type(KindString, KindNull),
		"args":      List(KindString),
	}),
	"notification": Dict(Fields{
		"backend": Enum("dbus", "notify-send"),
		"timeout": Type(KindInt),
	}),
	"notification_actions": Dict(Fields{
		"edit": Dict(Fields{
			"command": List(KindString),
		}),
		"delete": Dict(Fields{}),
		"drag_and_drop": Dict(Fields{
			"command": List(KindString),
		}),
		"open": Dict(Fields{
			"command": List(KindString),
		}),
	}),
})

// Defaults returns a fresh copy of the built-in configuration tree.
func Defaults() map[string]any {
	return map[string]any{
		"log_level": "info",
		"picker": map[string]any{
			"program": "fuzzel",
			"args":    []any{},
		},
		"slurp": map[string]any{
			"args": []any{},
		},
		"screenshot": map[string]any{
			"directory": nil,
			"filename":  "%Y-%m-%d_%H-%M-%S.png",
			"type":      "png",
			"quality":   nil,
			"cursor":    false,
			"copy":      true,
		},
		"screencast": map[string]any{
			"directory": nil,
			"filename":  "%Y-%m-%d_%H-%M-%S.mp4",
			"pid_file":  "${XDG_RUNTIME_DIR}/" + AppName + "-${WAYLAND_DISPLAY}.pid",
			"audio":     "ask",
			"codec":     nil,
			"args":      []any{},
		},
		"notification": map[string]any{
			"backend": "dbus",
			"timeout": -1,
		},
		"notification_actions": map[string]any{
			"edit": map[string]any{
				"command": []any{"swappy", "-f"},
			},
			"delete": map[string]any{},
			"drag_and_drop": map[string]any{
				"command": []any{"dragon-drop", "--and-exit"},
			},
			"open": map[string]any{
				"command": []any{"xdg-open"},
			},
		},
	}
}
