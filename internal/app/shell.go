package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/notepad/pkg/core"
)

const (
	promptNew  = "note> "
	promptEdit = "edit> "
)

const shellHelp = `Type a line and press Enter to add it as a note.
End a line with \ to continue the note on the next line.

  /list          show all notes
  /edit N        load note N into the draft; the next line replaces it
  /delete N      delete note N
  /cancel        abandon the current edit
  /help          show this help
  /quit          leave (Ctrl-D works too)
`

// Shell is the interactive presentation layer. It owns nothing but the
// console; all state lives in the App.
type Shell struct {
	app     *App
	console Console
}

// NewShell binds an App to a console.
func NewShell(app *App, console Console) *Shell {
	return &Shell{app: app, console: console}
}

// Run loads the notes, prints them and processes input until EOF or /quit.
func (s *Shell) Run(ctx context.Context) error {
	if err := s.app.Load(ctx); err != nil {
		s.printf("warning: could not load notes (%v); starting with an empty list\n", err)
	}
	s.printf("My Notes (type /help for commands)\n")
	RenderList(s.console, s.app.Snapshot().Notes)

	var pending []string
	for {
		if ctx.Err() != nil {
			return nil
		}
		s.updatePrompt(len(pending) > 0)

		line, err := s.console.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		// Continuation lines build a multi-line draft.
		if strings.HasSuffix(line, `\`) {
			pending = append(pending, strings.TrimSuffix(line, `\`))
			continue
		}
		if len(pending) > 0 {
			line = strings.Join(append(pending, line), "\n")
			pending = nil
		} else if strings.HasPrefix(line, "/") {
			if quit := s.command(ctx, line); quit {
				return nil
			}
			continue
		}

		s.app.SetDraft(line)
		s.submit(ctx)
	}
}

func (s *Shell) updatePrompt(continuing bool) {
	switch {
	case continuing:
		s.console.SetPrompt("...   ")
	case s.app.Snapshot().Editing():
		s.console.SetPrompt(promptEdit)
	default:
		s.console.SetPrompt(promptNew)
	}
}

func (s *Shell) submit(ctx context.Context) {
	outcome, err := s.app.Submit(ctx)
	switch {
	case err != nil && outcome == Ignored:
		s.printf("error: %v\n", err)
	case err != nil:
		s.printf("note %s, but saving failed: %v\n", outcome, err)
	case outcome != Ignored:
		s.printf("note %s\n", outcome)
	}
}

// command runs a slash command and reports whether the shell should exit.
func (s *Shell) command(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit", "/q":
		return true

	case "/help", "/?":
		s.printf("%s", shellHelp)

	case "/list", "/ls":
		RenderList(s.console, s.app.Snapshot().Notes)

	case "/cancel":
		s.app.CancelEdit()
		s.printf("edit cancelled\n")

	case "/edit":
		note, err := s.app.Resolve(arg)
		if err != nil {
			s.printf("error: %v\n", err)
			return false
		}
		if err := s.app.BeginEdit(note.ID); err != nil {
			s.printf("error: %v\n", err)
			return false
		}
		s.printf("editing note %s; current content:\n%s\n", arg, indent(note.Content))

	case "/delete", "/rm":
		note, err := s.app.Resolve(arg)
		if err != nil {
			s.printf("error: %v\n", err)
			return false
		}
		if err := s.app.Delete(ctx, note.ID); err != nil {
			if errors.Is(err, core.ErrNoteNotFound) {
				s.printf("error: %v\n", err)
			} else {
				s.printf("note deleted, but saving failed: %v\n", err)
			}
			return false
		}
		s.printf("note deleted\n")

	default:
		s.printf("unknown command %s (type /help)\n", name)
	}
	return false
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.console, format, args...)
}

// RenderList writes the numbered list of notes, or a hint when there are none.
func RenderList(w io.Writer, notes core.Collection) {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notes yet. Start adding some!")
		return
	}
	fmt.Fprintln(w, "Your Notes")
	for i, n := range notes {
		first, rest, _ := strings.Cut(n.Content, "\n")
		fmt.Fprintf(w, "%3d. %s\n", i+1, first)
		if rest != "" {
			fmt.Fprintln(w, indent(rest))
		}
	}
}

func indent(text string) string {
	return "     " + strings.ReplaceAll(text, "\n", "\n     ")
}
