package extent

// IsHigh reports whether b lies in the high half of the byte space.
func IsHigh(b byte) bool {
	return b >= 0x80
}

// Partitioner splits buffers on maximal runs of bytes accepted by Match.
type Partitioner struct {
	Match func(byte) bool
}

// Default partitions on high bytes (0x80-0xFF).
var Default = Partitioner{Match: IsHigh}

// Partition splits buf using the default partitioner.
func Partition(buf []byte) []Extent {
	return Default.Partition(buf)
}

// Partition returns extents that cover buf exactly once, in order,
// alternating clean and suspicious and starting and ending with a clean
// extent. Clean extents may be empty; suspicious extents never are.
//
// buf is not modified.
func (p Partitioner) Partition(buf []byte) []Extent {
	var parts []Extent
	pos := 0
	for {
		start := p.next(buf, pos)
		if start < 0 {
			parts = append(parts, New(buf, pos, len(buf)-1, Clean))
			return parts
		}
		end := start
		for end < len(buf) && p.Match(buf[end]) {
			end++
		}
		parts = append(parts,
			New(buf, pos, start-1, Clean),
			New(buf, start, end-1, Suspicious),
		)
		pos = end
	}
}

// next returns the index of the first matching byte at or after pos, or -1.
func (p Partitioner) next(buf []byte, pos int) int {
	for i := pos; i < len(buf); i++ {
		if p.Match(buf[i]) {
			return i
		}
	}
	return -1
}

// SuspiciousOf returns every second extent starting at index 1, which for
// Partition output is exactly the suspicious runs.
func SuspiciousOf(parts []Extent) []Extent {
	var out []Extent
	for i := 1; i < len(parts); i += 2 {
		out = append(out, parts[i])
	}
	return out
}
