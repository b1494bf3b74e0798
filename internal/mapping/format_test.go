package mapping

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSequence(t *testing.T) {
	assert.Equal(t, `\x80\x81`, FormatSequence([]byte{0x80, 0x81}))
	assert.Equal(t, `\x0A\xFF`, FormatSequence([]byte{0x0a, 0xff}))
	assert.Equal(t, "", FormatSequence(nil))
}

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
		err  bool
	}{
		{`\x80\x81`, []byte{0x80, 0x81}, false},
		{`\xe2\x80\x99`, []byte{0xe2, 0x80, 0x99}, false},
		{`\xA`, []byte{0x0a}, false},
		{``, nil, true},
		{`x80`, nil, true},
		{`\x`, nil, true},
		{`\x80\x`, nil, true},
		{`\x800`, nil, true},
		{`\xZZ`, nil, true},
		{`\x80 `, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSequence(tt.in)
			if tt.err {
				require.ErrorIs(t, err, ErrBadEscape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine(t *testing.T) {
	bad, repl, err := ParseLine([]byte(`\x80\x81:?`))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80, 0x81}, bad)
	assert.True(t, repl.Equal(Resolved([]byte("?"))))

	_, repl, err = ParseLine([]byte(`\x80:TODO`))
	require.NoError(t, err)
	assert.False(t, repl.IsResolved())

	_, repl, err = ParseLine([]byte(`\x80:`))
	require.NoError(t, err)
	v, ok := repl.Value()
	assert.True(t, ok, "empty replacement is a deletion, not unresolved")
	assert.Empty(t, v)

	_, repl, err = ParseLine([]byte(`\x80:a:b`))
	require.NoError(t, err)
	assert.Equal(t, "a:b", repl.String())

	_, _, err = ParseLine([]byte(`\x80`))
	assert.ErrorIs(t, err, ErrMissingSeparator)

	_, _, err = ParseLine([]byte(`\xG0:x`))
	assert.ErrorIs(t, err, ErrBadEscape)
}

func TestFormatLine(t *testing.T) {
	line, err := FormatLine(Mapping{ID: 1, Bad: []byte{0xe2, 0x80, 0x99}, Replacement: Resolved([]byte("'"))})
	require.NoError(t, err)
	assert.Equal(t, `\xE2\x80\x99:'`, string(line))

	line, err = FormatLine(Mapping{ID: 2, Bad: []byte{0x80}})
	require.NoError(t, err)
	assert.Equal(t, `\x80:TODO`, string(line))

	_, err = FormatLine(Mapping{ID: 3, Bad: []byte{0x80}, Replacement: Resolved([]byte("a\nb"))})
	assert.ErrorIs(t, err, ErrNotRepresentable)

	_, err = FormatLine(Mapping{ID: 4, Bad: []byte{0x80}, Replacement: Resolved([]byte("TODO"))})
	assert.ErrorIs(t, err, ErrNotRepresentable)

	// A trailing CR would be lost on read; "\r" alone would come back as a deletion.
	_, err = FormatLine(Mapping{ID: 5, Bad: []byte{0x80}, Replacement: Resolved([]byte("x\r"))})
	assert.ErrorIs(t, err, ErrNotRepresentable)

	_, err = FormatLine(Mapping{ID: 6, Bad: []byte{0x80}, Replacement: Resolved([]byte("\r"))})
	assert.ErrorIs(t, err, ErrNotRepresentable)

	line, err = FormatLine(Mapping{ID: 7, Bad: []byte{0x80}, Replacement: Resolved([]byte("a\rb"))})
	require.NoError(t, err)
	assert.Equal(t, "\\x80:a\rb", string(line))
}

func TestRead(t *testing.T) {
	input := "\\xE2\\x80\\x99:'\n\n\\x80:TODO\n\\xC3\\xA9:\xc3\xa9\n"
	tbl, err := Read(strings.NewReader(input))
	require.NoError(t, err)

	ms := tbl.Mappings()
	require.Len(t, ms, 3)
	assert.Equal(t, 1, ms[0].ID)
	assert.Equal(t, "'", ms[0].Replacement.String())
	assert.Equal(t, 2, ms[1].ID)
	assert.False(t, ms[1].Resolved())
	assert.Equal(t, 3, ms[2].ID)
	assert.Equal(t, "\xc3\xa9", ms[2].Replacement.String())
}

func TestRead_MalformedLineIsFatal(t *testing.T) {
	input := "\\x80:a\n\\xQQ:b\n"
	_, err := Read(strings.NewReader(input))
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Equal(t, `\xQQ:b`, perr.Text)
	assert.ErrorIs(t, err, ErrBadEscape)
}

func TestRead_DuplicateIsFatal(t *testing.T) {
	_, err := Read(strings.NewReader("\\x80:a\n\\x80:b\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestWriteReadRoundTrip(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte{0xe2, 0x80, 0x99}, Resolved([]byte("'"))))
	require.NoError(t, tbl.Add([]byte{0x80}, Unresolved()))
	require.NoError(t, tbl.Add([]byte{0x81}, Resolved(nil)))
	require.NoError(t, tbl.Add([]byte{0xc3, 0x83, 0xc2, 0xa9}, Resolved([]byte{0xc3, 0xa9})))
	require.NoError(t, tbl.Add([]byte{0x9d}, Resolved([]byte("a:b"))))
	require.NoError(t, tbl.Add([]byte{0x8d}, Resolved([]byte("a\rb"))))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))

	got, err := Read(&buf)
	require.NoError(t, err)

	want := tbl.Mappings()
	have := got.Mappings()
	require.Len(t, have, len(want))
	for i := range want {
		assert.True(t, want[i].Equal(have[i]), "mapping %d: want %+v, got %+v", i, want[i], have[i])
	}
}

func TestWrite_Format(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte{0x80, 0x81}, Resolved([]byte("?"))))
	tbl.AddIfNew([]byte{0x82})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl))
	assert.Equal(t, "\\x80\\x81:?\n\\x82:TODO\n", buf.String())
}

func TestLoad_MissingFileIsEmptyTable(t *testing.T) {
	tbl, err := Load(filepath.Join(t.TempDir(), "mappings.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.txt")
	require.NoError(t, os.WriteFile(path, []byte("no separator here\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSeparator)
	assert.Contains(t, err.Error(), path)
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.txt")

	tbl := NewTable()
	tbl.AddIfNew([]byte{0x80, 0x81})
	tbl.AddIfNew([]byte{0x82})
	require.NoError(t, Save(path, tbl))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\\x80\\x81:TODO\n\\x82:TODO\n", string(raw))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, tbl.Mappings(), loaded.Mappings())
}

func TestSave_UnrepresentableLeavesFileIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.txt")
	require.NoError(t, os.WriteFile(path, []byte("\\x80:TODO\n"), 0o644))

	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte{0x80}, Resolved([]byte("line\nbreak"))))

	err := Save(path, tbl)
	require.ErrorIs(t, err, ErrNotRepresentable)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\\x80:TODO\n", string(raw))
}

func TestWrite_TrailingCarriageReturn(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte{0x80}, Resolved([]byte("x\r"))))

	var buf bytes.Buffer
	err := Write(&buf, tbl)
	assert.ErrorIs(t, err, ErrNotRepresentable)

	err = Save(filepath.Join(t.TempDir(), "mappings.txt"), tbl)
	assert.ErrorIs(t, err, ErrNotRepresentable)
}

func TestHexValue(t *testing.T) {
	for c, want := range map[byte]byte{'0': 0, '9': 9, 'a': 10, 'F': 15} {
		got, ok := HexValue(c)
		assert.True(t, ok, "%q", c)
		assert.Equal(t, want, got, "%q", c)
	}
	_, ok := HexValue('g')
	assert.False(t, ok)
}
