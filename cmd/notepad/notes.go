package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/notepad/internal/app"
	"github.com/aretw0/notepad/pkg/core"
)

// loadApp builds the state container used by the one-shot commands.
// Unlike the shell, mutating commands refuse to run on top of a file that
// could not be read, so they never overwrite it with a near-empty list.
func loadApp(ctx context.Context, svc app.Notes, mutating bool) (*app.App, error) {
	a := app.New(svc, app.WithLogger(slog.Default()))
	if err := a.Load(ctx); err != nil {
		if mutating {
			return nil, err
		}
		slog.Warn("showing an empty list", "error", err)
	}
	return a, nil
}

func listNotes(ctx context.Context, svc app.Notes, w io.Writer, asJSON bool) error {
	a, err := loadApp(ctx, svc, false)
	if err != nil {
		return err
	}
	notes := a.Snapshot().Notes

	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(notes)
	}
	app.RenderList(w, notes)
	return nil
}

func addNote(ctx context.Context, svc app.Notes, w io.Writer, text string) error {
	a, err := loadApp(ctx, svc, true)
	if err != nil {
		return err
	}
	outcome, err := a.Add(ctx, text)
	if err != nil {
		return err
	}
	if outcome == app.Ignored {
		fmt.Fprintln(w, "Nothing to add: note is blank")
		return nil
	}
	notes := a.Snapshot().Notes
	fmt.Fprintf(w, "Note added: %d (%s)\n", len(notes), notes[len(notes)-1].ID)
	return nil
}

func editNote(ctx context.Context, svc app.Notes, w io.Writer, ref, text string) error {
	a, err := loadApp(ctx, svc, true)
	if err != nil {
		return err
	}
	note, err := a.Resolve(ref)
	if err != nil {
		return err
	}
	outcome, err := a.Edit(ctx, note.ID, text)
	if err != nil {
		return err
	}
	if outcome == app.Ignored {
		fmt.Fprintln(w, "Nothing to save: note is blank")
		return nil
	}
	fmt.Fprintf(w, "Note edited: %s\n", note.ID)
	return nil
}

func deleteNote(ctx context.Context, svc app.Notes, w io.Writer, ref string) error {
	a, err := loadApp(ctx, svc, true)
	if err != nil {
		return err
	}
	note, err := a.Resolve(ref)
	if err != nil {
		return err
	}
	if err := a.Delete(ctx, note.ID); err != nil {
		return err
	}
	fmt.Fprintf(w, "Note deleted: %s\n", note.ID)
	return nil
}

func joinText(args []string) string {
	return strings.Join(args, " ")
}

var _ app.Notes = (*core.Service)(nil)
