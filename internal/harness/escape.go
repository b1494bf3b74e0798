package harness

import (
	"fmt"
	"strings"

	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// DecodeEscapes turns scenario text into raw bytes. \xHH (exactly two hex
// digits) is one byte, \n a newline and \\ a backslash. Anything else after
// a backslash is an error. Other characters are copied as UTF-8.
func DecodeEscapes(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("trailing backslash at offset %d", i)
		}
		switch s[i+1] {
		case '\\':
			out = append(out, '\\')
			i++
		case 'n':
			out = append(out, '\n')
			i++
		case 'x':
			if i+3 >= len(s) {
				return nil, fmt.Errorf("short \\x escape at offset %d", i)
			}
			hi, ok1 := mapping.HexValue(s[i+2])
			lo, ok2 := mapping.HexValue(s[i+3])
			if !ok1 || !ok2 {
				return nil, fmt.Errorf("bad \\x escape %q at offset %d", s[i:i+4], i)
			}
			out = append(out, hi<<4|lo)
			i += 3
		default:
			return nil, fmt.Errorf("unknown escape \\%c at offset %d", s[i+1], i)
		}
	}
	return out, nil
}

// Escape is the inverse of DecodeEscapes. Printable ASCII is kept, every
// other byte becomes \xHH.
func Escape(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c >= 0x20 && c < 0x7f:
			sb.WriteByte(c)
		default:
			mapping.WriteEscape(&sb, c)
		}
	}
	return sb.String()
}
