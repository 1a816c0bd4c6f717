package block

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMetadataJSON(t *testing.T) {
	m, err := decodeMetadata(`{"file": "a.go", "action": "replace", "start-line": 2, "end-line": 3}`)
	require.NoError(t, err)
	assert.Equal(t, "a.go", m.File)
	assert.Equal(t, "replace", m.Action)
	require.NotNil(t, m.StartLine)
	assert.Equal(t, FlexInt(2), *m.StartLine)
	require.NotNil(t, m.EndLine)
	assert.Equal(t, FlexInt(3), *m.EndLine)
}

func TestDecodeMetadataQuotedNumbers(t *testing.T) {
	m, err := decodeMetadata(`{"file": "a.go", "action": "insert", "insert-after-line": "12"}`)
	require.NoError(t, err)
	require.NotNil(t, m.InsertAfter)
	assert.Equal(t, FlexInt(12), *m.InsertAfter)
}

func TestDecodeMetadataYAMLFallback(t *testing.T) {
	m, err := decodeMetadata("file: a.go\naction: delete\nstart-line: 1\nend-line: '4'")
	require.NoError(t, err)
	assert.Equal(t, "a.go", m.File)
	assert.Equal(t, "delete", m.Action)
	require.NotNil(t, m.EndLine)
	assert.Equal(t, FlexInt(4), *m.EndLine)
}

func TestDecodeMetadataMalformed(t *testing.T) {
	_, err := decodeMetadata(`{"file": }`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed metadata")
}

func TestDecodeMetadataNullValuesRejected(t *testing.T) {
	cases := []string{
		"file:",
		"file: a.go\naction:",
	}
	for _, text := range cases {
		_, err := decodeMetadata(text)
		require.Error(t, err, "input %q", text)
		assert.Contains(t, err.Error(), "malformed metadata")
	}
}

func TestFlexIntMarshal(t *testing.T) {
	data, err := json.Marshal(FlexInt(7))
	require.NoError(t, err)
	assert.Equal(t, "7", string(data))
}

func TestMetadataSchema(t *testing.T) {
	text, err := MetadataSchemaJSON()
	require.NoError(t, err)
	assert.Contains(t, text, `"insert-after-line"`)
	assert.Contains(t, text, `"create-file"`)
}
