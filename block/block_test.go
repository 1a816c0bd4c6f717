package block

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/editkit/display"
	"github.com/randalmurphal/editkit/edit"
	"github.com/randalmurphal/editkit/parse"
	"github.com/randalmurphal/editkit/stream"
)

func newSession(files parse.MemFiles) (*parse.Session, *display.Recorder) {
	rec := display.NewRecorder()
	return &parse.Session{Files: files, Printer: rec}, rec
}

func parseString(t *testing.T, text string, files parse.MemFiles, chunkSize int) (*parse.ParsedResponse, *display.Recorder) {
	t.Helper()
	sess, rec := newSession(files)
	resp, err := New().StreamAndParse(context.Background(), stream.FromString(text, chunkSize), sess)
	require.NoError(t, err)
	return resp, rec
}

func updated(t *testing.T, fe *edit.FileEdit) []string {
	t.Helper()
	lines, err := fe.UpdatedLines()
	require.NoError(t, err)
	return lines
}

func TestStreamAndParseInsert(t *testing.T) {
	files := parse.MemFiles{"temp.py": {"# Line 1", "# Line 2"}}
	response := "I'll add a comment between the two lines.\n" +
		"@@start\n" +
		`{"file": "temp.py", "action": "insert", "insert-after-line": 1}` + "\n" +
		"@@code\n" +
		"# inserted\n" +
		"@@end\n"

	// Chunk boundaries must not matter, markers included.
	for _, size := range []int{0, 1, 3, 7, 64} {
		resp, _ := parseString(t, response, files, size)

		require.Len(t, resp.FileEdits, 1, "chunk size %d", size)
		fe := resp.FileEdits[0]
		assert.Equal(t, "temp.py", fe.FilePath)
		require.Len(t, fe.Replacements, 1)
		assert.Equal(t, edit.Replacement{StartLine: 1, EndLine: 1, NewLines: []string{"# inserted"}}, fe.Replacements[0])
		assert.Equal(t, []string{"# Line 1", "# inserted", "# Line 2"}, updated(t, fe))

		assert.Equal(t, response, resp.FullResponse)
		assert.Equal(t, "I'll add a comment between the two lines.\n", resp.Conversation)
		assert.False(t, resp.Interrupted)
	}
}

func TestStreamAndParseReplace(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one", "two", "three", "four"}}
	text := "@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 3}` + "\n" +
		"@@code\n" +
		"TWO\n" +
		"THREE\n" +
		"@@end\n"

	resp, _ := parseString(t, text, files, 5)
	require.Len(t, resp.FileEdits, 1)
	fe := resp.FileEdits[0]
	require.Len(t, fe.Replacements, 1)
	assert.Equal(t, edit.Replacement{StartLine: 1, EndLine: 3, NewLines: []string{"TWO", "THREE"}}, fe.Replacements[0])
	assert.Equal(t, []string{"one", "TWO", "THREE", "four"}, updated(t, fe))
}

func TestStreamAndParseDeleteLines(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one", "two", "three"}}
	text := "@@start\n" +
		`{"file": "a.go", "action": "delete", "start-line": 2, "end-line": 2}` + "\n" +
		"@@end\n"

	resp, _ := parseString(t, text, files, 4)
	require.Len(t, resp.FileEdits, 1)
	fe := resp.FileEdits[0]
	require.Len(t, fe.Replacements, 1)
	assert.Empty(t, fe.Replacements[0].NewLines)
	assert.Equal(t, []string{"one", "three"}, updated(t, fe))
}

func TestStreamAndParseFileLevel(t *testing.T) {
	files := parse.MemFiles{"old.go": {"x"}, "gone.go": {"y"}}
	text := "@@start\n" +
		`{"file": "new.go", "action": "create-file"}` + "\n" +
		"@@code\n" +
		"package main\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "gone.go", "action": "delete-file"}` + "\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "old.go", "action": "rename-file", "name": "renamed.go"}` + "\n" +
		"@@end\n"

	resp, _ := parseString(t, text, files, 9)
	require.Len(t, resp.FileEdits, 3)

	create := resp.FileEdits[0]
	assert.True(t, create.IsCreation)
	assert.Equal(t, []string{"package main"}, updated(t, create))

	del := resp.FileEdits[1]
	assert.True(t, del.IsDeletion)
	assert.Equal(t, "gone.go", del.FilePath)

	ren := resp.FileEdits[2]
	assert.Equal(t, "old.go", ren.FilePath)
	assert.Equal(t, "renamed.go", ren.RenamePath)
}

func TestPartialFailureIsolation(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one", "two", "three"}}
	text := "@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 1, "end-line": 1}` + "\n" +
		"@@code\n" +
		"ONE\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "a.go", "action": replace oops}` + "\n" +
		"@@code\n" +
		"never applied\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 3, "end-line": 3}` + "\n" +
		"@@code\n" +
		"THREE\n" +
		"@@end\n"

	resp, rec := parseString(t, text, files, 6)

	require.Len(t, resp.FileEdits, 1)
	fe := resp.FileEdits[0]
	require.Len(t, fe.Replacements, 2)
	assert.Equal(t, []string{"ONE", "two", "THREE"}, updated(t, fe))
	assert.Contains(t, rec.Text(), "[edit skipped]")
	assert.NotContains(t, rec.Text(), "never applied")
}

func TestSkippedSemanticErrors(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one"}}
	cases := []struct {
		name string
		meta string
	}{
		{"unknown file", `{"file": "nope.go", "action": "insert", "insert-after-line": 0}`},
		{"unknown action", `{"file": "a.go", "action": "explode"}`},
		{"missing action", `{"file": "a.go"}`},
		{"missing file", `{"action": "insert", "insert-after-line": 0}`},
		{"inverted range", `{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 1}`},
		{"range past end", `{"file": "a.go", "action": "replace", "start-line": 1, "end-line": 9}`},
		{"disagreeing insert", `{"file": "a.go", "action": "insert", "insert-before-line": 1, "insert-after-line": 1}`},
		{"create existing", `{"file": "a.go", "action": "create-file"}`},
		{"rename missing name", `{"file": "a.go", "action": "rename-file"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			text := "@@start\n" + tc.meta + "\n@@code\nbody\n@@end\n"
			resp, rec := parseString(t, text, files, 0)
			assert.Empty(t, resp.FileEdits)
			assert.Contains(t, rec.Text(), "[edit skipped]")
		})
	}
}

func TestCodeOnCodelessAction(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one"}}
	text := "@@start\n" +
		`{"file": "a.go", "action": "delete-file"}` + "\n" +
		"@@code\n" +
		"stray\n" +
		"@@end\n"

	resp, rec := parseString(t, text, files, 0)
	assert.Empty(t, resp.FileEdits)
	assert.Contains(t, rec.Text(), "[edit skipped]")
}

func TestEOFSynthesizesClose(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one", "two"}}

	t.Run("missing end after code", func(t *testing.T) {
		text := "@@start\n" +
			`{"file": "a.go", "action": "replace", "start-line": 1, "end-line": 1}` + "\n" +
			"@@code\n" +
			"ONE"
		resp, _ := parseString(t, text, files, 3)
		require.Len(t, resp.FileEdits, 1)
		assert.Equal(t, []string{"ONE", "two"}, updated(t, resp.FileEdits[0]))
	})

	t.Run("missing end after metadata", func(t *testing.T) {
		text := "@@start\n" +
			`{"file": "a.go", "action": "delete", "start-line": 2, "end-line": 2}`
		resp, _ := parseString(t, text, files, 3)
		require.Len(t, resp.FileEdits, 1)
		assert.Equal(t, []string{"one"}, updated(t, resp.FileEdits[0]))
	})

	t.Run("start closes previous block", func(t *testing.T) {
		text := "@@start\n" +
			`{"file": "a.go", "action": "replace", "start-line": 1, "end-line": 1}` + "\n" +
			"@@code\n" +
			"ONE\n" +
			"@@start\n" +
			`{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 2}` + "\n" +
			"@@code\n" +
			"TWO\n" +
			"@@end\n"
		resp, _ := parseString(t, text, files, 0)
		require.Len(t, resp.FileEdits, 1)
		assert.Equal(t, []string{"ONE", "TWO"}, updated(t, resp.FileEdits[0]))
	})
}

func TestInterruptionKeepsFinalizedEdits(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one", "two"}}
	head := "@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 1, "end-line": 1}` + "\n" +
		"@@code\n" +
		"ONE\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 2}` + "\n" +
		"@@code\n" +
		"half-writ"

	ctx, cancel := context.WithCancel(context.Background())
	chunks := make(chan stream.Chunk)
	go func() {
		chunks <- stream.Chunk{Content: head}
		cancel()
	}()

	sess, _ := newSession(files)
	resp, err := New().StreamAndParse(ctx, chunks, sess)
	require.NoError(t, err)

	assert.True(t, resp.Interrupted)
	require.Len(t, resp.FileEdits, 1)
	fe := resp.FileEdits[0]
	require.Len(t, fe.Replacements, 1)
	assert.Equal(t, []string{"ONE", "two"}, updated(t, fe))
}

func TestStreamErrorAborts(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one"}}
	chunks := make(chan stream.Chunk, 2)
	chunks <- stream.Chunk{Content: "some prose\n"}
	chunks <- stream.Chunk{Err: context.DeadlineExceeded}
	close(chunks)

	sess, _ := newSession(files)
	_, err := New().StreamAndParse(context.Background(), chunks, sess)
	require.Error(t, err)
}

func TestConversationStripsBlocks(t *testing.T) {
	files := parse.MemFiles{"a.go": {"one"}}
	text := "Before.\n" +
		"@@start\n" +
		`{"file": "a.go", "action": "delete", "start-line": 1, "end-line": 1}` + "\n" +
		"@@end\n" +
		"After.\n"

	resp, rec := parseString(t, text, files, 2)
	assert.Equal(t, "Before.\nAfter.\n", resp.Conversation)

	// Prose was echoed; the metadata line never was.
	assert.Contains(t, rec.Text(), "Before.")
	assert.Contains(t, rec.Text(), "After.")
	assert.NotContains(t, rec.Text(), `"action"`)
}

func TestPreviewOutput(t *testing.T) {
	files := parse.MemFiles{"temp.py": {"# Line 1", "# Line 2"}}
	text := "@@start\n" +
		`{"file": "temp.py", "action": "insert", "insert-after-line": 1}` + "\n" +
		"@@code\n" +
		"# inserted\n" +
		"@@end\n"

	_, rec := parseString(t, text, files, 0)
	out := rec.Text()
	assert.Contains(t, out, "temp.py: insert before line 2")
	assert.Contains(t, out, "   1   # Line 1")
	assert.Contains(t, out, "   2 + # inserted")
	assert.Contains(t, out, "   2   # Line 2")
}

func TestRegistered(t *testing.T) {
	f, err := parse.New(FormatName)
	require.NoError(t, err)
	assert.Equal(t, FormatName, f.Name())
}

func TestRoundTrip(t *testing.T) {
	files := parse.MemFiles{
		"a.go":   {"one", "two", "three", "four"},
		"old.go": {"x", "y"},
		"b.go":   {"only"},
	}
	text := "Here is the plan.\n" +
		"@@start\n" +
		`{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 3}` + "\n" +
		"@@code\n" +
		"TWO\n" +
		"THREE\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "a.go", "action": "insert", "insert-before-line": 1}` + "\n" +
		"@@code\n" +
		"ZERO\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "new.go", "action": "create-file"}` + "\n" +
		"@@code\n" +
		"package new\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "b.go", "action": "delete-file"}` + "\n" +
		"@@end\n" +
		"@@start\n" +
		`{"file": "old.go", "action": "rename-file", "name": "renamed.go"}` + "\n" +
		"@@end\n"

	first, _ := parseString(t, text, files, 0)

	wire, err := New().Serialize(first)
	require.NoError(t, err)

	second, _ := parseString(t, wire, files, 3)

	assert.Equal(t, strings.TrimSpace(first.Conversation), strings.TrimSpace(second.Conversation))
	require.Equal(t, len(first.FileEdits), len(second.FileEdits))
	for i := range first.FileEdits {
		assert.Equal(t, first.FileEdits[i], second.FileEdits[i])
	}
}
