package parse

import (
	"testing"

	"github.com/randalmurphal/editkit/edit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(files MemFiles) *Session {
	return &Session{Files: files}
}

func TestPlanBuilder_AccumulatesPerFile(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{
		"a.go": {"one", "two"},
		"b.go": {"x"},
	}))

	fe, err := b.Edit("a.go")
	require.NoError(t, err)
	fe.AddReplacement(edit.Replacement{StartLine: 0, EndLine: 1, NewLines: []string{"ONE"}})

	again, err := b.Edit("a.go")
	require.NoError(t, err)
	assert.Same(t, fe, again, "same file accumulates into one FileEdit")
	again.AddReplacement(edit.Replacement{StartLine: 1, EndLine: 2, NewLines: []string{"TWO"}})

	_, err = b.Edit("b.go")
	require.NoError(t, err)

	edits := b.Edits()
	require.Len(t, edits, 2)
	assert.Equal(t, "a.go", edits[0].FilePath, "first-touch order")
	assert.Len(t, edits[0].Replacements, 2)
	assert.Equal(t, []string{"one", "two"}, edits[0].PreviousLines)
}

func TestPlanBuilder_UnknownFile(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{}))

	_, err := b.Edit("ghost.go")
	require.Error(t, err)
	var ee *EditError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "ghost.go", ee.File)
}

func TestPlanBuilder_CreationOfExisting(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{"a.go": {""}}))

	_, err := b.Creation("a.go")
	assert.Error(t, err)
}

func TestPlanBuilder_Creation(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{}))

	fe, err := b.Creation("new.go")
	require.NoError(t, err)
	assert.True(t, fe.IsCreation)
	assert.Empty(t, fe.PreviousLines)
}

func TestPlanBuilder_DeletionOverridesEdits(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{"a.go": {"x"}}))

	fe, err := b.Edit("a.go")
	require.NoError(t, err)
	fe.AddReplacement(edit.Replacement{StartLine: 0, EndLine: 1})

	require.NoError(t, b.Deletion("a.go"))

	edits := b.Edits()
	require.Len(t, edits, 1)
	assert.True(t, edits[0].IsDeletion)
	assert.Empty(t, edits[0].Replacements)
	assert.NoError(t, edits[0].Validate())
}

func TestPlanBuilder_EditAfterDeletion(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{"a.go": {"x"}}))
	require.NoError(t, b.Deletion("a.go"))

	_, err := b.Edit("a.go")
	assert.Error(t, err)
}

func TestPlanBuilder_Rename(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{"old.go": {"content"}}))

	require.NoError(t, b.Rename("old.go", "new.go"))

	edits := b.Edits()
	require.Len(t, edits, 1)
	assert.Equal(t, "old.go", edits[0].FilePath)
	assert.Equal(t, "new.go", edits[0].RenamePath)
}

func TestPlanBuilder_RenameTargetExists(t *testing.T) {
	b := NewPlanBuilder(testSession(MemFiles{
		"old.go":   {"a"},
		"taken.go": {"b"},
	}))

	err := b.Rename("old.go", "taken.go")
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	assert.False(t, IsRegistered("no-such-format"))

	_, err := New("no-such-format")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	assert.Panics(t, func() { MustNew("no-such-format") })
}
