package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddIfNew_Idempotent(t *testing.T) {
	tbl := NewTable()

	id, added := tbl.AddIfNew([]byte("\x80\x81"))
	assert.Equal(t, 1, id)
	assert.True(t, added)

	id, added = tbl.AddIfNew([]byte("\x82"))
	assert.Equal(t, 2, id)
	assert.True(t, added)

	id, added = tbl.AddIfNew([]byte("\x80\x81"))
	assert.Equal(t, 1, id)
	assert.False(t, added)

	assert.Equal(t, 2, tbl.Len())
}

func TestAddIfNew_CopiesInput(t *testing.T) {
	tbl := NewTable()
	bad := []byte("\x80")
	tbl.AddIfNew(bad)
	bad[0] = 0x90

	assert.True(t, tbl.Contains([]byte("\x80")))
	assert.False(t, tbl.Contains([]byte("\x90")))
}

func TestFindAndResolution(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte("\xe2\x80\x99"), Resolved([]byte("'"))))
	require.NoError(t, tbl.Add([]byte("\x80"), Unresolved()))

	m, ok := tbl.Find([]byte("\xe2\x80\x99"))
	require.True(t, ok)
	assert.Equal(t, 1, m.ID)
	assert.True(t, m.Resolved())

	_, ok = tbl.Find([]byte("\x99"))
	assert.False(t, ok)

	assert.True(t, tbl.Contains([]byte("\x80")))
	assert.True(t, tbl.IsResolved([]byte("\xe2\x80\x99")))
	assert.False(t, tbl.IsResolved([]byte("\x80")), "unresolved mapping")
	assert.False(t, tbl.IsResolved([]byte("\x81")), "missing mapping")
}

func TestIsReplacementTarget(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte("\xc3\x83\xc2\xa9"), Resolved([]byte("\xc3\xa9"))))
	require.NoError(t, tbl.Add([]byte("\x80"), Unresolved()))
	require.NoError(t, tbl.Add([]byte("\x81"), Resolved(nil)))

	assert.True(t, tbl.IsReplacementTarget([]byte("\xc3\xa9")))
	assert.False(t, tbl.IsReplacementTarget([]byte("\xc3")), "prefix only")
	assert.False(t, tbl.IsReplacementTarget([]byte(TodoMarker)), "unresolved is not a target")
	assert.True(t, tbl.IsReplacementTarget([]byte{}), "deletion targets the empty sequence")
}

func TestAdd_RejectsDuplicateAndEmpty(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte("\x80"), Unresolved()))

	err := tbl.Add([]byte("\x80"), Resolved([]byte("x")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")

	err = tbl.Add(nil, Unresolved())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")

	assert.Equal(t, 1, tbl.Len())
}

func TestMappings_ReturnsCopyInIDOrder(t *testing.T) {
	tbl := NewTable()
	tbl.AddIfNew([]byte("\x82"))
	tbl.AddIfNew([]byte("\x80\x81"))

	ms := tbl.Mappings()
	require.Len(t, ms, 2)
	assert.Equal(t, 1, ms[0].ID)
	assert.Equal(t, []byte("\x82"), ms[0].Bad)
	assert.Equal(t, 2, ms[1].ID)

	ms[0].ID = 99
	assert.Equal(t, 1, tbl.Mappings()[0].ID)
}

func TestStats(t *testing.T) {
	tbl := NewTable()
	require.NoError(t, tbl.Add([]byte("\x80"), Resolved([]byte("a"))))
	require.NoError(t, tbl.Add([]byte("\x81"), Unresolved()))
	require.NoError(t, tbl.Add([]byte("\x82"), Unresolved()))

	assert.Equal(t, Stats{Total: 3, Resolved: 1, Unresolved: 2}, tbl.Stats())
}

func TestReplacement_States(t *testing.T) {
	u := Unresolved()
	assert.False(t, u.IsResolved())
	_, ok := u.Value()
	assert.False(t, ok)
	assert.Equal(t, "TODO", u.String())

	var zero Replacement
	assert.True(t, zero.Equal(u), "zero value is unresolved")

	d := Resolved(nil)
	v, ok := d.Value()
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.False(t, d.Equal(u))

	assert.True(t, Resolved([]byte("x")).Equal(Resolved([]byte("x"))))
	assert.False(t, Resolved([]byte("x")).Equal(Resolved([]byte("y"))))
}
