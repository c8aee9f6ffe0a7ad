package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notepad/internal/app"
	"github.com/aretw0/notepad/pkg/adapters/fs"
	"github.com/aretw0/notepad/pkg/core"
)

func runShell(t *testing.T, notes app.Notes, input string) string {
	t.Helper()
	var out bytes.Buffer
	a := app.New(notes, app.WithIDGenerator(letters()))
	shell := app.NewShell(a, app.NewStreamConsole(strings.NewReader(input), &out))
	require.NoError(t, shell.Run(context.Background()))
	return out.String()
}

func TestShell_AddEditDelete(t *testing.T) {
	rec := &recorder{}
	input := strings.Join([]string{
		"Buy milk",
		"Walk dog",
		"   ",
		"/edit 1",
		"Buy oat milk",
		"/delete 2",
		"/list",
		"/quit",
		"never read",
	}, "\n")

	out := runShell(t, rec, input)

	assert.Equal(t, core.Collection{{ID: "A", Content: "Buy oat milk"}}, rec.saved)
	assert.Equal(t, 4, rec.saves, "two adds, one edit, one delete")
	assert.Contains(t, out, "No notes yet. Start adding some!")
	assert.Contains(t, out, "note added")
	assert.Contains(t, out, "note edited")
	assert.Contains(t, out, "note deleted")
	assert.Contains(t, out, "  1. Buy oat milk\n")
	assert.NotContains(t, out, "never read")
}

func TestShell_MultiLineNote(t *testing.T) {
	rec := &recorder{}
	out := runShell(t, rec, "first line\\\nsecond line\n/list\n")

	require.Len(t, rec.saved, 1)
	assert.Equal(t, "first line\nsecond line", rec.saved[0].Content)
	assert.Contains(t, out, "  1. first line\n     second line\n")
}

func TestShell_ShowsExistingNotes(t *testing.T) {
	rec := &recorder{saved: core.Collection{{ID: "x", Content: "from disk"}}}
	out := runShell(t, rec, "")

	assert.Contains(t, out, "Your Notes\n  1. from disk\n")
}

func TestShell_Errors(t *testing.T) {
	t.Run("Load Failure", func(t *testing.T) {
		rec := &recorder{loadErr: &core.StorageReadError{Path: "notes.json", Err: errors.New("bad json")}}
		out := runShell(t, rec, "")
		assert.Contains(t, out, "warning: could not load notes")
		assert.Contains(t, out, "No notes yet. Start adding some!")
	})

	t.Run("Save Failure", func(t *testing.T) {
		rec := &recorder{saveErr: &core.StorageWriteError{Path: "notes.json", Err: errors.New("disk full")}}
		out := runShell(t, rec, "hello\n/list\n")
		assert.Contains(t, out, "note added, but saving failed")
		assert.Contains(t, out, "  1. hello\n")
	})

	t.Run("Bad References", func(t *testing.T) {
		out := runShell(t, &recorder{}, "/edit 3\n/delete\n/frobnicate\n")
		assert.Equal(t, 2, strings.Count(out, "error: note not found"))
		assert.Contains(t, out, "unknown command /frobnicate")
	})
}

func TestShell_CancelEdit(t *testing.T) {
	rec := &recorder{}
	runShell(t, rec, "original\n/edit 1\n/cancel\nsecond\n")

	assert.Equal(t, core.Collection{
		{ID: "A", Content: "original"},
		{ID: "B", Content: "second"},
	}, rec.saved)
}

func TestRenderList(t *testing.T) {
	var buf bytes.Buffer
	app.RenderList(&buf, nil)
	assert.Equal(t, "No notes yet. Start adding some!\n", buf.String())

	buf.Reset()
	app.RenderList(&buf, core.Collection{{ID: "a", Content: "one"}, {ID: "b", Content: "two\nlines"}})
	assert.Equal(t, "Your Notes\n  1. one\n  2. two\n     lines\n", buf.String())
}

func TestShell_LeadingBlankLinesPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.yaml")
	svc := core.NewService(fs.NewStore(fs.Config{Path: path}), nil)

	runShell(t, svc, "\\\n\\\nlead\n")

	assert.Equal(t, core.Collection{{ID: "A", Content: "\n\nlead"}}, loadFile(t, path))
}

func TestStreamConsole_ReadLine(t *testing.T) {
	long := strings.Repeat("x", 3<<20)
	console := app.NewStreamConsole(strings.NewReader("first\r\n"+long+"\nlast"), &bytes.Buffer{})

	for _, want := range []string{"first", long, "last"} {
		line, err := console.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, want, line)
	}
	_, err := console.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func TestShell_LongLine(t *testing.T) {
	rec := &recorder{}
	long := strings.Repeat("y", 2<<20)
	runShell(t, rec, long+"\n")

	require.Len(t, rec.saved, 1)
	assert.Len(t, rec.saved[0].Content, len(long))
}
