package notes

import (
	"errors"
	"testing"

	"github.com/entrhq/rolodex/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSaver struct {
	calls int
	err   error
}

func (s *countingSaver) Save() error {
	s.calls++
	return s.err
}

func mustAdd(t *testing.T, nb *Notebook, title, content string, tags ...string) *Note {
	t.Helper()
	n, err := NewNote(title, content, tags)
	require.NoError(t, err)
	require.NoError(t, nb.AddNote(n))
	return n
}

func keyOf(t *testing.T, err error) string {
	t.Helper()
	keyed, ok := types.AsKeyed(err)
	require.True(t, ok, "expected keyed error, got %v", err)
	return keyed.Key()
}

func TestNewNote(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		tags     []string
		wantTags []string
		key      string
	}{
		{name: "tags are lowered and sorted", title: "Groceries", tags: []string{"Shop", "home"}, wantTags: []string{"home", "shop"}},
		{name: "title is trimmed", title: "  ok ", wantTags: nil},
		{name: "title too short", title: "a", key: "invalid_title_length"},
		{name: "tag too long", title: "Groceries", tags: []string{"abcdefghijklmnopq"}, key: "invalid_tag_length"},
		{name: "tag with punctuation", title: "Groceries", tags: []string{"a-b"}, key: "invalid_tag_format"},
		{name: "tag repeated in another case", title: "Groceries", tags: []string{"home", "HOME"}, key: "duplicate_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNote(tt.title, "text", tt.tags)
			if tt.key != "" {
				assert.Equal(t, tt.key, keyOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, -1, n.ID())
			assert.Equal(t, tt.wantTags, n.Tags())
		})
	}
}

func TestAddNote(t *testing.T) {
	saver := &countingSaver{}
	nb := NewNotebook(WithSaver(saver))

	first := mustAdd(t, nb, "Groceries", "milk")
	second := mustAdd(t, nb, "Ideas", "")
	assert.Equal(t, 0, first.ID())
	assert.Equal(t, 1, second.ID())
	assert.Equal(t, 2, saver.calls)

	dup, err := NewNote("GROCERIES", "bread", nil)
	require.NoError(t, err)
	assert.Equal(t, "duplicate_title", keyOf(t, nb.AddNote(dup)))
	assert.Equal(t, 2, nb.Len())
	assert.True(t, nb.HasTitle(" ideas "))
}

func TestChangeTitle(t *testing.T) {
	nb := NewNotebook()
	n := mustAdd(t, nb, "Groceries", "")
	mustAdd(t, nb, "Ideas", "")

	require.NoError(t, nb.ChangeTitle(n, "groceries"), "own title in another case")
	assert.Equal(t, "duplicate_title", keyOf(t, nb.ChangeTitle(n, "IDEAS")))
	assert.Equal(t, "invalid_title_length", keyOf(t, nb.ChangeTitle(n, "x")))
	assert.Equal(t, "groceries", n.Title())
}

func TestRemoveNoteAfterTitleChange(t *testing.T) {
	nb := NewNotebook()
	n := mustAdd(t, nb, "Groceries", "same text")
	other := mustAdd(t, nb, "Shopping", "same text")

	require.NoError(t, nb.ChangeTitle(n, "Weekly groceries"))
	require.NoError(t, nb.RemoveNote(n))
	assert.Equal(t, []*Note{other}, nb.Notes())

	var notFound *types.NotFoundError
	require.ErrorAs(t, nb.RemoveNote(n), &notFound)
	assert.Equal(t, "note_not_found", notFound.Key())
}

func TestChangeContent(t *testing.T) {
	saver := &countingSaver{}
	nb := NewNotebook(WithSaver(saver))
	n := mustAdd(t, nb, "Groceries", "milk")

	require.NoError(t, nb.ChangeContent(n, ""))
	assert.Equal(t, "", n.Content())
	assert.Equal(t, 2, saver.calls)

	draft, err := NewNote("Draft", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "note_not_found", keyOf(t, nb.ChangeContent(draft, "x")))
}

func TestTags(t *testing.T) {
	nb := NewNotebook()
	n := mustAdd(t, nb, "Groceries", "", "shop")

	t.Run("added tag is stored lower-cased and found case-insensitively", func(t *testing.T) {
		require.NoError(t, nb.AddTag(n, "Urgent"))
		assert.Equal(t, []string{"shop", "urgent"}, n.Tags())
		assert.Equal(t, []*Note{n}, nb.FindByTag("urgent"))
		assert.Equal(t, []*Note{n}, nb.FindByTag("URG"))
	})

	t.Run("duplicate tag leaves note unchanged", func(t *testing.T) {
		assert.Equal(t, "duplicate_tag", keyOf(t, nb.AddTag(n, "URGENT")))
		assert.Equal(t, []string{"shop", "urgent"}, n.Tags())
	})

	t.Run("tags stay sorted", func(t *testing.T) {
		require.NoError(t, nb.AddTag(n, "a1"))
		assert.Equal(t, []string{"a1", "shop", "urgent"}, n.Tags())
	})

	t.Run("remove is case-insensitive", func(t *testing.T) {
		require.NoError(t, nb.RemoveTag(n, "A1"))
		assert.Equal(t, []string{"shop", "urgent"}, n.Tags())

		var tagErr *types.TagNotFoundError
		require.ErrorAs(t, nb.RemoveTag(n, "missing"), &tagErr)
		assert.Equal(t, "Groceries", tagErr.Title)
	})
}

func TestFind(t *testing.T) {
	nb := NewNotebook()
	groceries := mustAdd(t, nb, "Groceries", "buy milk", "shop", "weekly")
	ideas := mustAdd(t, nb, "Ideas", "a shopping app", "work")
	trip := mustAdd(t, nb, "Trip", "pack", "travel")

	assert.Equal(t, []*Note{ideas}, nb.FindNotes("SHOPPING"))
	assert.Equal(t, []*Note{groceries}, nb.FindByTag("shop"))
	assert.Equal(t, []*Note{groceries, ideas}, nb.Find("shop"), "union keeps collection order without duplicates")
	assert.Equal(t, []*Note{trip}, nb.FindByTag("tra*"))
	assert.Equal(t, []*Note{groceries, ideas}, nb.FindByTag("w?*"))
	assert.Empty(t, nb.FindByTag("zzz"))
	assert.Len(t, nb.FindNotes(""), 3)
	assert.Equal(t, []string{"shop", "travel", "weekly", "work"}, nb.Tags())
}

func mustRehydrate(t *testing.T, id int, title string, tags ...string) *Note {
	t.Helper()
	n, err := Rehydrate(id, title, "", tags)
	require.NoError(t, err)
	return n
}

func TestNotebookRestore(t *testing.T) {
	nb := NewNotebook()
	stored := []*Note{
		mustRehydrate(t, 2, "Groceries", "Shop", "home"),
		mustRehydrate(t, 9, "Ideas"),
	}
	require.NoError(t, nb.Restore(stored, 4))
	assert.Equal(t, 10, nb.Seq())
	assert.Equal(t, []string{"home", "shop"}, stored[0].Tags())

	err := NewNotebook().Restore([]*Note{
		mustRehydrate(t, 1, "Same"),
		mustRehydrate(t, 2, "SAME"),
	}, 0)
	assert.Error(t, err)
}

func TestRehydrateValidates(t *testing.T) {
	tests := []struct {
		name  string
		title string
		tags  []string
		want  string
	}{
		{name: "empty title", title: "", want: "invalid_title_length"},
		{name: "short tag", title: "Ideas", tags: []string{"x"}, want: "invalid_tag_length"},
		{name: "bad tag", title: "Ideas", tags: []string{"no spaces"}, want: "invalid_tag_format"},
		{name: "repeated tag", title: "Ideas", tags: []string{"Shop", "shop"}, want: "duplicate_tag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Rehydrate(1, tt.title, "", tt.tags)
			assert.Nil(t, n)
			assert.Equal(t, tt.want, keyOf(t, err))
		})
	}
}

func TestAddZeroNote(t *testing.T) {
	saver := &countingSaver{}
	nb := NewNotebook(WithSaver(saver))

	err := nb.AddNote(&Note{})
	assert.Equal(t, "invalid_title_length", keyOf(t, err))
	assert.Equal(t, 0, nb.Len())
	assert.Zero(t, saver.calls)
}

func TestAutosaveFailure(t *testing.T) {
	saver := &countingSaver{err: errors.New("read-only filesystem")}
	nb := NewNotebook(WithSaver(saver))

	n, err := NewNote("Groceries", "", nil)
	require.NoError(t, err)
	err = nb.AddNote(n)

	var persistErr *types.PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Equal(t, "persistence_save_failed", persistErr.Key())
	assert.Equal(t, 1, nb.Len())
}
