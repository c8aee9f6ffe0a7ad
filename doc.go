// Package notepad is the composition root of a minimal note-taking tool.
//
// It wires the core domain (an ordered collection of notes loaded and saved
// as a whole) to a storage adapter: a single JSON or YAML file written
// atomically, or a SQLite database.
//
// Usage:
//
//	svc, err := notepad.New("", notepad.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	notes, err := svc.LoadNotes(ctx)
//	next, _ := notes.Add("Buy milk", nil)
//	err = svc.SaveNotes(ctx, next)
package notepad
