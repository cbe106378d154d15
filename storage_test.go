package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	c := NewCanvas()
	a := c.AddBox(1, 2, "first\nsecond")
	gone := c.AddBox(30, 2, "gone")
	b := c.AddBox(20, 8, "B, with comma")
	conn := c.AddConnection(a, b)
	c.DeleteBox(gone)

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf, -3, 5))
	assert.True(t, strings.HasPrefix(buf.String(), "FLOWCHART\nVERSION:2\nBOXES:2\n"))

	loaded, pan, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, point{-3, 5}, pan)
	require.Len(t, loaded.Boxes(), 2)
	require.Len(t, loaded.Connections(), 1)

	box, ok := loaded.Box(a)
	require.True(t, ok)
	assert.Equal(t, "first\nsecond", box.GetText())
	assert.Equal(t, point{1, 2}, point{box.X, box.Y})
	box, ok = loaded.Box(b)
	require.True(t, ok)
	assert.Equal(t, "B, with comma", box.GetText())

	got, ok := loaded.Connection(conn)
	require.True(t, ok)
	assert.Equal(t, a, got.FromID)
	assert.Equal(t, b, got.ToID)
	assert.True(t, got.ArrowTo)
	assert.False(t, got.ArrowFrom)

	// The removed id stays retired.
	assert.Equal(t, conn+1, loaded.AddBox(0, 0, "new"))
}

func TestSaveToFile(t *testing.T) {
	t.Parallel()
	c := NewCanvas()
	c.AddBox(1, 1, "A")
	path := filepath.Join(t.TempDir(), "chart.txt")
	require.NoError(t, c.SaveToFile(path, 0, 0))

	loaded, _, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, loaded.Boxes(), 1)

	_, _, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorContains(t, err, "failed to load")
}

func TestLoadLegacy(t *testing.T) {
	t.Parallel()
	const legacy = `FLOWCHART
BOXES:3
0,0,12,3,Start
20,0,10,4,two\nlines
5,10,Old
CONNECTIONS:2
0,1,11,1,20,1,1,3|15:1
1,2
TEXTS:1
4,4,note
HIGHLIGHTS:1
1,1,3
PAN:2,3
`
	c, pan, err := Load(strings.NewReader(legacy))
	require.NoError(t, err)
	assert.Equal(t, point{2, 3}, pan)

	require.Len(t, c.Boxes(), 3)
	start, ok := c.Box(1)
	require.True(t, ok)
	assert.Equal(t, "Start", start.GetText())
	assert.Equal(t, 12, start.Width)
	two, _ := c.Box(2)
	assert.Equal(t, "two\nlines", two.GetText())
	old, _ := c.Box(3)
	assert.Equal(t, point{5, 10}, point{old.X, old.Y})

	require.Len(t, c.Connections(), 2)
	first := c.Connections()[0]
	assert.Equal(t, 4, first.ID)
	assert.Equal(t, 1, first.FromID)
	assert.Equal(t, 2, first.ToID)
	assert.True(t, first.ArrowFrom)
	assert.True(t, first.ArrowTo)
	second := c.Connections()[1]
	assert.Equal(t, 2, second.FromID)
	assert.Equal(t, 3, second.ToID)
	assert.True(t, second.ArrowTo)
}

func TestLoadLegacyDanglingConnection(t *testing.T) {
	t.Parallel()
	const legacy = "FLOWCHART\nBOXES:1\n0,0,A\nCONNECTIONS:1\n0,5\n"
	c, _, err := Load(strings.NewReader(legacy))
	require.NoError(t, err)
	assert.Len(t, c.Boxes(), 1)
	assert.Empty(t, c.Connections())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		err   string
	}{
		{name: "header", input: "NOT A CHART\n", err: errInvalidFormat.Error()},
		{name: "empty", input: "", err: errInvalidFormat.Error()},
		{name: "version", input: "FLOWCHART\nVERSION:9\n", err: "unsupported version"},
		{name: "count", input: "FLOWCHART\nVERSION:2\nBOXES:x\n", err: "invalid boxes count"},
		{name: "truncated", input: "FLOWCHART\nVERSION:2\nBOXES:2\n1,0,0,8,3,A\n", err: "missing boxes data"},
		{name: "box", input: "FLOWCHART\nVERSION:2\nBOXES:1\n1,0,zero,8,3,A\n", err: "not a number"},
		{name: "connection", input: "FLOWCHART\nVERSION:2\nCONNECTIONS:1\n1,2\n", err: "connection"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Load(strings.NewReader(tc.input))
			assert.ErrorContains(t, err, tc.err)
		})
	}
}
