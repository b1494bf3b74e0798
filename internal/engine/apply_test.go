package engine

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_SingleMapping(t *testing.T) {
	tbl := newTable(t, `\x80\x81:?`)

	res := Apply(tbl, []byte("A\x80\x81B"))
	assert.Equal(t, "A?B", string(res.Output))
	require.Len(t, res.Applied, 1)
	assert.Equal(t, 1, res.Applied[0].Count())
	assert.Equal(t, 1, res.Replaced())
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	tbl := newTable(t, `\x80:x`)
	buf := []byte("a\x80b")
	orig := bytes.Clone(buf)

	Apply(tbl, buf)
	assert.Equal(t, orig, buf)
}

func TestApply_LongestMatchFirst(t *testing.T) {
	tbl := newTable(t,
		`\xC3\x83:X`,
		"\\xC3\\x83\\xC2\\xA9:\xc3\xa9",
	)

	res := Apply(tbl, []byte("caf\xc3\x83\xc2\xa9 \xc3\x83"))
	assert.Equal(t, "caf\xc3\xa9 X", string(res.Output))

	require.Len(t, res.Applied, 2)
	assert.Equal(t, 2, res.Applied[0].Mapping.ID, "longer mapping runs first")
	assert.Equal(t, 1, res.Applied[0].Count())
	assert.Equal(t, 1, res.Applied[1].Count(), "shorter rule only fires outside the longer match")
}

func TestApply_UnresolvedBlocksShorterAndEqual(t *testing.T) {
	tbl := newTable(t,
		`\x80\x81:TODO`,
		`\x80:a`,
		`\x82\x83:b`,
	)

	in := "\x80\x81 \x80 \x82\x83"
	res := Apply(tbl, []byte(in))
	assert.Equal(t, in, string(res.Output))
	assert.Empty(t, res.Applied)
	assert.Equal(t, 0, res.Replaced())
}

func TestApply_LongerResolvedBeatsShorterUnresolved(t *testing.T) {
	tbl := newTable(t,
		`\x80:TODO`,
		`\x80\x81:X`,
	)

	res := Apply(tbl, []byte("A\x80\x81B\x80"))
	assert.Equal(t, "AXB\x80", string(res.Output))
	require.Len(t, res.Applied, 1)
	assert.Equal(t, 2, res.Applied[0].Mapping.ID)
}

func TestApply_NonOverlappingLeftToRight(t *testing.T) {
	tbl := newTable(t, `\x80\x80:Y`)

	res := Apply(tbl, []byte("\x80\x80\x80"))
	assert.Equal(t, "Y\x80", string(res.Output))
	assert.Equal(t, 1, res.Replaced())
}

func TestApply_MappingIsNotRevisited(t *testing.T) {
	tbl := newTable(t,
		`\x81:Z`,
		"\\x80:\x81",
	)

	res := Apply(tbl, []byte("\x80\x81"))
	assert.Equal(t, "\x81Z", string(res.Output))
}

func TestApply_Deletion(t *testing.T) {
	tbl := newTable(t, `\xEF\xBB\xBF:`)

	res := Apply(tbl, []byte("\xef\xbb\xbfhello"))
	assert.Equal(t, "hello", string(res.Output))

	occ := res.Applied[0].Occurrences[0]
	assert.True(t, occ.After.Empty())
	assert.Equal(t, 0, occ.After.From)
}

func TestApply_OccurrenceOffsets(t *testing.T) {
	tbl := newTable(t, `\x80\x81:?`)

	res := Apply(tbl, []byte("A\x80\x81B\x80\x81"))
	assert.Equal(t, "A?B?", string(res.Output))

	occs := res.Applied[0].Occurrences
	require.Len(t, occs, 2)

	assert.Equal(t, 1, occs[0].Offset())
	assert.Equal(t, "\x80\x81", string(occs[0].Before.Value()))
	assert.Equal(t, 1, occs[0].After.From)
	assert.Equal(t, "?", string(occs[0].After.Value()))

	assert.Equal(t, 4, occs[1].Offset())
	assert.Equal(t, 3, occs[1].After.From)
	assert.Equal(t, "?", string(occs[1].After.Value()))

	before, after := occs[1].After.Window(30)
	assert.Equal(t, "A?B", string(before))
	assert.Empty(t, after)
}

func TestApply_ZeroCountApplicationsRecorded(t *testing.T) {
	tbl := newTable(t, `\x80:a`, `\x81:b`)

	res := Apply(tbl, []byte("\x81"))
	require.Len(t, res.Applied, 2)
	assert.Equal(t, 0, res.Applied[0].Count())
	assert.Equal(t, 1, res.Applied[1].Count())
}

func TestApply_Idempotent(t *testing.T) {
	tbl := newTable(t,
		`\xE2\x80\x99:'`,
		`\xE2\x80\x9C:"`,
		`\xE2\x80\x9D:"`,
		`\x96:-`,
		`\xA0: `,
	)

	in := []byte("\xe2\x80\x9cIt\xe2\x80\x99s\xa0fine\xe2\x80\x9d \x96 ok")
	once := Apply(tbl, in).Output
	twice := Apply(tbl, once)

	assert.Equal(t, `"It's fine" - ok`, string(once))
	assert.Equal(t, once, twice.Output)
	assert.Equal(t, 0, twice.Replaced())
}

func TestApply_EmptyInput(t *testing.T) {
	res := Apply(newTable(t, `\x80:a`), nil)
	assert.NotNil(t, res.Output)
	assert.Empty(t, res.Output)
}
