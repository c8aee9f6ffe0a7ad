package app_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notepad/internal/app"
	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/core"
)

// recorder is an in-memory app.Notes that counts saves.
type recorder struct {
	saved   core.Collection
	saves   int
	loadErr error
	saveErr error
}

func (r *recorder) LoadNotes(ctx context.Context) (core.Collection, error) {
	if r.loadErr != nil {
		return core.Collection{}, r.loadErr
	}
	return r.saved.Clone(), nil
}

func (r *recorder) SaveNotes(ctx context.Context, notes core.Collection) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = notes.Clone()
	return nil
}

func letters() core.IDGenerator {
	i := 0
	return func() string {
		i++
		return string(rune('A' + i - 1))
	}
}

func TestApp_Scenario(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	svc := core.NewService(fs.NewStore(fs.Config{Path: path}), nil)
	a := app.New(svc, app.WithIDGenerator(letters()))

	require.NoError(t, a.Load(ctx))
	assert.Empty(t, a.Snapshot().Notes)

	outcome, err := a.Add(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, app.Added, outcome)
	assert.Equal(t, core.Collection{{ID: "A", Content: "Buy milk"}}, loadFile(t, path))

	_, err = a.Add(ctx, "Walk dog")
	require.NoError(t, err)
	assert.Equal(t, core.Collection{
		{ID: "A", Content: "Buy milk"},
		{ID: "B", Content: "Walk dog"},
	}, a.Snapshot().Notes)

	outcome, err = a.Edit(ctx, "A", "Buy oat milk")
	require.NoError(t, err)
	assert.Equal(t, app.Edited, outcome)
	assert.Equal(t, core.Collection{
		{ID: "A", Content: "Buy oat milk"},
		{ID: "B", Content: "Walk dog"},
	}, a.Snapshot().Notes)

	require.NoError(t, a.Delete(ctx, "B"))

	// A fresh load through a new container sees exactly the final state.
	fresh := app.New(core.NewService(fs.NewStore(fs.Config{Path: path}), nil))
	require.NoError(t, fresh.Load(ctx))
	assert.Equal(t, core.Collection{{ID: "A", Content: "Buy oat milk"}}, fresh.Snapshot().Notes)
}

func loadFile(t *testing.T, path string) core.Collection {
	t.Helper()
	notes, err := fs.NewStore(fs.Config{Path: path}).Load(context.Background())
	require.NoError(t, err)
	return notes
}

func TestApp_BlankSubmissionIsNoop(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	a := app.New(rec, app.WithIDGenerator(letters()))
	_, err := a.Add(ctx, "keep")
	require.NoError(t, err)
	require.Equal(t, 1, rec.saves)

	for _, text := range []string{"", "   ", "\t\n"} {
		outcome, err := a.Add(ctx, text)
		require.NoError(t, err)
		assert.Equal(t, app.Ignored, outcome)
	}

	// Blank edits are ignored too, leaving the marker in place.
	require.NoError(t, a.BeginEdit("A"))
	a.SetDraft("  ")
	outcome, err := a.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Ignored, outcome)
	assert.True(t, a.Snapshot().Editing())

	assert.Equal(t, 1, rec.saves, "blank submissions must not save")
	assert.Equal(t, core.Collection{{ID: "A", Content: "keep"}}, rec.saved)
}

func TestApp_SubmitClearsDraftAndMarker(t *testing.T) {
	ctx := context.Background()
	a := app.New(&recorder{}, app.WithIDGenerator(letters()))

	a.SetDraft("first")
	_, err := a.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.State{Notes: core.Collection{{ID: "A", Content: "first"}}}, a.Snapshot())

	require.NoError(t, a.BeginEdit("A"))
	s := a.Snapshot()
	assert.Equal(t, "first", s.Draft)
	assert.Equal(t, "A", s.EditingID)

	a.SetDraft("  first, revised  ")
	outcome, err := a.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, app.Edited, outcome)

	s = a.Snapshot()
	assert.Empty(t, s.Draft)
	assert.False(t, s.Editing())
	assert.Equal(t, "  first, revised  ", s.Notes[0].Content, "content is stored as typed")

	require.NoError(t, a.BeginEdit("A"))
	a.CancelEdit()
	assert.Equal(t, app.State{Notes: s.Notes}, a.Snapshot())
}

func TestApp_DeleteClearsEditOfDeletedNote(t *testing.T) {
	ctx := context.Background()
	a := app.New(&recorder{}, app.WithIDGenerator(letters()))
	_, _ = a.Add(ctx, "one")
	_, _ = a.Add(ctx, "two")

	require.NoError(t, a.BeginEdit("B"))
	require.NoError(t, a.Delete(ctx, "A"))
	assert.Equal(t, "B", a.Snapshot().EditingID, "deleting another note keeps the edit")

	require.NoError(t, a.Delete(ctx, "B"))
	s := a.Snapshot()
	assert.False(t, s.Editing())
	assert.Empty(t, s.Draft)
	assert.Empty(t, s.Notes)
}

func TestApp_UnknownIDs(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	a := app.New(rec)

	assert.ErrorIs(t, a.BeginEdit("nope"), core.ErrNoteNotFound)
	assert.ErrorIs(t, a.Delete(ctx, "nope"), core.ErrNoteNotFound)
	_, err := a.Edit(ctx, "nope", "x")
	assert.ErrorIs(t, err, core.ErrNoteNotFound)
	assert.Equal(t, 0, rec.saves)
}

func TestApp_LoadFailureStartsEmpty(t *testing.T) {
	readErr := &core.StorageReadError{Path: "notes.json", Err: errors.New("invalid json")}
	a := app.New(&recorder{loadErr: readErr})

	err := a.Load(context.Background())
	assert.True(t, core.IsReadError(err))
	assert.NotNil(t, a.Snapshot().Notes)
	assert.Empty(t, a.Snapshot().Notes)
}

func TestApp_LoadCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0644))
	a := app.New(core.NewService(fs.NewStore(fs.Config{Path: path}), nil))

	err := a.Load(context.Background())
	assert.True(t, core.IsReadError(err))
	assert.Empty(t, a.Snapshot().Notes)
}

func TestApp_SaveFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	writeErr := &core.StorageWriteError{Path: "notes.json", Err: errors.New("disk full")}
	rec := &recorder{saveErr: writeErr}
	a := app.New(rec, app.WithIDGenerator(letters()))

	outcome, err := a.Add(ctx, "unsaved")
	assert.Equal(t, app.Added, outcome)
	assert.True(t, core.IsWriteError(err))
	assert.Equal(t, core.Collection{{ID: "A", Content: "unsaved"}}, a.Snapshot().Notes)
	assert.Empty(t, a.Snapshot().Draft)
}

func TestApp_Resolve(t *testing.T) {
	ctx := context.Background()
	a := app.New(&recorder{}, app.WithIDGenerator(letters()))
	for i := 0; i < 3; i++ {
		_, err := a.Add(ctx, fmt.Sprintf("note %d", i+1))
		require.NoError(t, err)
	}

	note, err := a.Resolve("B")
	require.NoError(t, err)
	assert.Equal(t, "note 2", note.Content)

	note, err = a.Resolve(" 3 ")
	require.NoError(t, err)
	assert.Equal(t, "C", note.ID)

	for _, ref := range []string{"0", "4", "-1", "", "Z"} {
		_, err := a.Resolve(ref)
		assert.ErrorIs(t, err, core.ErrNoteNotFound, "ref %q", ref)
	}
}

func TestApp_SnapshotIsACopy(t *testing.T) {
	a := app.New(&recorder{}, app.WithIDGenerator(letters()))
	_, _ = a.Add(context.Background(), "original")

	s := a.Snapshot()
	s.Notes[0].Content = "tampered"
	assert.Equal(t, "original", a.Snapshot().Notes[0].Content)
}

func TestApp_BlankShortcutsKeepState(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	a := app.New(rec, app.WithIDGenerator(letters()))
	_, err := a.Add(ctx, "keep")
	require.NoError(t, err)

	require.NoError(t, a.BeginEdit("A"))
	a.SetDraft("work in progress")
	before := a.Snapshot()

	outcome, err := a.Add(ctx, "   ")
	require.NoError(t, err)
	assert.Equal(t, app.Ignored, outcome)
	assert.Equal(t, before, a.Snapshot())

	outcome, err = a.Edit(ctx, "A", "\t")
	require.NoError(t, err)
	assert.Equal(t, app.Ignored, outcome)
	assert.Equal(t, before, a.Snapshot())
	assert.Equal(t, 1, rec.saves)
}

func TestApp_InvalidUTF8MatchesPersisted(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.json")
	a := app.New(core.NewService(fs.NewStore(fs.Config{Path: path}), nil), app.WithIDGenerator(letters()))

	_, err := a.Add(ctx, "bad \xff\xfe bytes")
	require.NoError(t, err)

	inMemory := a.Snapshot().Notes
	assert.Equal(t, core.Collection{{ID: "A", Content: "bad \uFFFD bytes"}}, inMemory)
	assert.Equal(t, inMemory, loadFile(t, path))
}
