package extent

import (
	"bytes"
	"fmt"
)

// Kind distinguishes clean extents from suspicious ones.
type Kind int

const (
	// Clean extents hold bytes outside the matched class.
	Clean Kind = iota
	// Suspicious extents hold a maximal run of matched bytes.
	Suspicious
)

func (k Kind) String() string {
	switch k {
	case Clean:
		return "clean"
	case Suspicious:
		return "suspicious"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Extent is a read-only view over buf[From..To], both offsets inclusive.
// To == From-1 denotes a zero-length extent at From.
//
// The owning buffer must not be mutated while the extent is in use.
type Extent struct {
	buf  []byte
	From int
	To   int
	Kind Kind
}

// New creates an extent over buf[from..to]. It panics if the range does not
// lie within buf, since every caller derives offsets from buf itself.
func New(buf []byte, from, to int, kind Kind) Extent {
	if from < 0 || to < from-1 || to >= len(buf) {
		panic(fmt.Sprintf("extent: range [%d, %d] out of bounds for buffer of length %d", from, to, len(buf)))
	}
	return Extent{buf: buf, From: from, To: to, Kind: kind}
}

// Value returns the bytes covered by the extent. The slice aliases the
// owning buffer.
func (e Extent) Value() []byte {
	return e.buf[e.From : e.To+1 : e.To+1]
}

// Len returns the number of bytes covered.
func (e Extent) Len() int {
	return e.To - e.From + 1
}

// Empty reports whether the extent covers no bytes.
func (e Extent) Empty() bool {
	return e.Len() == 0
}

// Buffer returns the buffer the extent is a view over.
func (e Extent) Buffer() []byte {
	return e.buf
}

// Key returns the extent's bytes as a string, suitable as a map key.
func (e Extent) Key() string {
	return string(e.Value())
}

// Equal reports whether both extents cover the same bytes. Offsets and
// owning buffers are ignored.
func (e Extent) Equal(other Extent) bool {
	return bytes.Equal(e.Value(), other.Value())
}

// Compare orders extents by their bytes, like bytes.Compare.
func (e Extent) Compare(other Extent) int {
	return bytes.Compare(e.Value(), other.Value())
}

// Window returns up to width bytes on each side of the extent, clipped to
// the owning buffer.
func (e Extent) Window(width int) (before, after []byte) {
	if width < 0 {
		width = 0
	}
	start := max(e.From-width, 0)
	end := min(e.To+1+width, len(e.buf))
	return e.buf[start:e.From], e.buf[e.To+1 : end]
}

func (e Extent) String() string {
	return fmt.Sprintf("%s[%d:%d]%q", e.Kind, e.From, e.To, e.Value())
}
