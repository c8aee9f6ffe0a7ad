package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	notelifecycle "github.com/aretw0/notepad/pkg/adapters/lifecycle"
	"github.com/aretw0/notepad/pkg/core"
)

var watchDiff bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the list every time the notes file changes",
	Long:  `Watch prints the notes, then prints them again whenever the file is changed by another process. Press Ctrl-C to stop.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService()
		defer svc.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := watchNotes(ctx, svc, os.Stdout, watchDiff); err != nil {
			fatal("Error watching notes", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchDiff, "diff", false, "Print only the lines that changed")
}

// watchNotes renders the list once and again after each change event,
// until ctx is cancelled. With diff set, only changed lines are printed
// after the first rendering.
func watchNotes(ctx context.Context, svc *core.Service, w io.Writer, diff bool) error {
	events, err := svc.Watch(ctx)
	if err != nil {
		return err
	}

	source := notelifecycle.NewSource(events, notelifecycle.WithLogger(slog.Default()))
	if err := source.Start(ctx); err != nil {
		return err
	}

	previous, err := renderNotes(ctx, svc)
	if err != nil {
		return err
	}
	fmt.Fprint(w, previous)

	for e := range source.Events() {
		slog.Debug("store changed", "event", e.String())
		current, err := renderNotes(ctx, svc)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "\n-- %s --\n", e)
		if diff {
			fmt.Fprint(w, lineDiff(previous, current))
		} else {
			fmt.Fprint(w, current)
		}
		previous = current
	}
	return nil
}

func renderNotes(ctx context.Context, svc *core.Service) (string, error) {
	var buf bytes.Buffer
	if err := listNotes(ctx, svc, &buf, false); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// lineDiff returns the removed and added lines between two renderings,
// prefixed with "- " and "+ ".
func lineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	if out.Len() == 0 {
		return "(no visible change)\n"
	}
	return out.String()
}
