package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bryanchriswhite/swaycap/internal/app"
	"github.com/bryanchriswhite/swaycap/internal/capture"
	"github.com/bryanchriswhite/swaycap/internal/config"
	"github.com/bryanchriswhite/swaycap/internal/logger"
	"github.com/bryanchriswhite/swaycap/internal/target"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

var (
	cfgFile    string
	saveDir    string
	dumpConfig bool
	rootCmd    = &cobra.Command{
		Use:   "swaycap",
		Short: "swaycap - screenshots and screencasts for sway",
		Long: `swaycap captures a region, window or output of a sway session.

A menu lists what can be captured: a drawn region, all outputs, the focused
or a clicked window, the focused or a clicked output, and every window and
output by name. The capture is saved, screenshots are copied to the clipboard,
and a notification offers to edit, delete, drag or open the file.

With --video the capture is a screencast recorded by wf-recorder. Running
swaycap --video again while recording stops the recording.`,
		Example: `  # Pick a target from the menu and take a screenshot
  swaycap

  # Screenshot a drawn region straight away
  swaycap --selection region

  # Record the focused output, or stop the running recording
  swaycap --video --selection focused-output

  # Show the effective configuration
  swaycap --dump-config`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE:          runRoot,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/swaycap/config.yaml)")
	flags.StringP("selection", "s", "", "capture target, skipping the menu ("+strings.Join(target.BaseIDs, ", ")+")")
	// not bound to viper: SWAYCAP_SAVE_DIR is the deprecated fallback below the config file
	flags.StringVarP(&saveDir, "save-dir", "d", "", "directory to save captures in")
	flags.StringP("output", "o", "", "file to save the capture to")
	flags.BoolP("video", "v", false, "record a screencast instead of taking a screenshot")
	flags.String("log-level", "", "log level ("+strings.Join(logger.Levels, ", ")+")")
	flags.BoolVar(&dumpConfig, "dump-config", false, "print the effective configuration and exit")

	// Bind flags to viper
	viper.BindPFlag("selection", flags.Lookup("selection"))
	viper.BindPFlag("output", flags.Lookup("output"))
	viper.BindPFlag("video", flags.Lookup("video"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("SWAYCAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	level := viper.GetString("log_level")
	if level == "" {
		level = cfg.Section().String("log_level")
	}
	logger.Init(level, logger.IsTerminal())
	if cfg.Path() != "" {
		logger.WithComponent("config").Debug().Str("path", cfg.Path()).Msg("Configuration loaded")
	}

	if dumpConfig {
		data, err := cfg.Dump()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, app.Options{
		Selection: viper.GetString("selection"),
		Video:     viper.GetBool("video"),
		Destination: capture.Destination{
			Output:  viper.GetString("output"),
			SaveDir: saveDir,
		},
	}, app.Deps{})
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
