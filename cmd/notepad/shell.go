package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aretw0/notepad/internal/app"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Open the interactive notes shell",
	Long: `Shell lists your notes and lets you add, edit and delete them.
Type a line to add it as a note; /help shows the available commands.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runShell()
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell() {
	svc := openService()
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	console, restore, err := app.OpenConsole(os.Stdin, os.Stdout)
	if err != nil {
		fatal("Error opening terminal", err)
	}
	defer restore()

	a := app.New(svc, app.WithLogger(slog.Default()))
	if err := app.NewShell(a, console).Run(ctx); err != nil {
		restore()
		fatal("Error reading input", err)
	}
}
