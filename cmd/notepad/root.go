package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad"
	"github.com/aretw0/notepad/internal/platform"
	"github.com/aretw0/notepad/pkg/core"
)

var (
	verbose    bool
	filePath   string
	configPath string
	adapter    string
	readOnly   bool

	cfg platform.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notepad",
	Short: "A minimal note-taking tool",
	Long: `Notepad keeps an ordered list of short text notes in a single file.
Run it without a subcommand to open the interactive shell.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = platform.LoadConfig(resolveConfigPath(), cmd.Flags().Changed("config"))
		if err != nil {
			fatal("Error loading config", err)
		}

		level := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
	},
	Run: func(cmd *cobra.Command, args []string) {
		runShell()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&filePath, "file", "f", "", "Notes file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&adapter, "adapter", "", "Storage adapter: fs or sqlite (default: by extension)")
	rootCmd.PersistentFlags().BoolVar(&readOnly, "read-only", false, "Never write to the notes file")
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return platform.DefaultConfigPath()
}

// storeOptions merges the config file with the flags; flags win.
func storeOptions(cfg platform.Config, path, adapter string, readOnly bool) (string, []notepad.Option) {
	opts := cfg.Options()
	if adapter != "" {
		opts = append(opts, notepad.WithAdapter(adapter))
	}
	if readOnly {
		opts = append(opts, notepad.WithReadOnly(true))
	}
	opts = append(opts, notepad.WithLogger(slog.Default()))

	if path == "" {
		path = cfg.Path
	}
	return path, opts
}

// openService builds the service from the global flags, exiting on failure.
func openService() *core.Service {
	path, opts := storeOptions(cfg, filePath, adapter, readOnly)
	svc, err := notepad.New(path, opts...)
	if err != nil {
		fatal("Error opening notes", err)
	}
	return svc
}
