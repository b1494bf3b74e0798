package mapping

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/alphagov/character-encoding-cleaner/internal/atomicfile"
)

// DefaultPath is where the table lives when no path is configured.
const DefaultPath = "mappings.txt"

// TodoMarker is the persisted replacement of an unresolved mapping.
const TodoMarker = "TODO"

const hexDigits = "0123456789ABCDEF"

var (
	// ErrMissingSeparator is returned for a line without a ':'.
	ErrMissingSeparator = errors.New("missing ':' separator")

	// ErrBadEscape is returned when the bad sequence is not a run of \xHH
	// escapes.
	ErrBadEscape = errors.New("malformed \\x escape")

	// ErrNotRepresentable is returned when a mapping cannot be written in
	// the line format.
	ErrNotRepresentable = errors.New("replacement cannot be represented in the table format")
)

// ParseError reports a malformed line in a persisted table.
type ParseError struct {
	Line int    // 1-based line number
	Text string // offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatSequence renders b as \xHH escapes with uppercase hex digits.
func FormatSequence(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 4)
	for _, c := range b {
		WriteEscape(&sb, c)
	}
	return sb.String()
}

// WriteEscape appends c to sb as one \xHH escape.
func WriteEscape(sb *strings.Builder, c byte) {
	sb.WriteString(`\x`)
	sb.WriteByte(hexDigits[c>>4])
	sb.WriteByte(hexDigits[c&0x0f])
}

// ParseSequence decodes a run of \xH or \xHH escapes (either case).
func ParseSequence(s string) ([]byte, error) {
	if !strings.HasPrefix(s, `\x`) {
		return nil, ErrBadEscape
	}
	chunks := strings.Split(s, `\x`)[1:]
	out := make([]byte, 0, len(chunks))
	for _, chunk := range chunks {
		if len(chunk) == 0 || len(chunk) > 2 {
			return nil, ErrBadEscape
		}
		var v byte
		for i := 0; i < len(chunk); i++ {
			d, ok := HexValue(chunk[i])
			if !ok {
				return nil, ErrBadEscape
			}
			v = v<<4 | d
		}
		out = append(out, v)
	}
	return out, nil
}

// HexValue returns the value of one hex digit of either case.
func HexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParseLine decodes one persisted line (without its newline). Everything
// after the first ':' is the replacement, so replacements may contain ':'.
func ParseLine(line []byte) ([]byte, Replacement, error) {
	left, right, ok := bytes.Cut(line, []byte(":"))
	if !ok {
		return nil, Replacement{}, ErrMissingSeparator
	}
	bad, err := ParseSequence(string(left))
	if err != nil {
		return nil, Replacement{}, err
	}
	if string(right) == TodoMarker {
		return bad, Unresolved(), nil
	}
	return bad, Resolved(right), nil
}

// FormatLine renders a mapping as one persisted line, without the newline.
func FormatLine(m Mapping) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(FormatSequence(m.Bad))
	buf.WriteByte(':')

	value, ok := m.Replacement.Value()
	if !ok {
		buf.WriteString(TodoMarker)
		return buf.Bytes(), nil
	}
	// Read drops a trailing '\r' along with the newline.
	if bytes.IndexByte(value, '\n') >= 0 || bytes.HasSuffix(value, []byte{'\r'}) || string(value) == TodoMarker {
		return nil, fmt.Errorf("mapping %d: %w", m.ID, ErrNotRepresentable)
	}
	buf.Write(value)
	return buf.Bytes(), nil
}

// Read parses a persisted table. Blank lines are skipped; any other line
// that does not parse aborts with a *ParseError.
func Read(r io.Reader) (*Table, error) {
	t := NewTable()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		bad, repl, err := ParseLine(line)
		if err == nil {
			err = t.Add(bad, repl)
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: string(line), Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	return t, nil
}

// Write serializes every mapping in ID order, one line each.
func Write(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)
	for _, m := range t.mappings {
		line, err := FormatLine(*m)
		if err != nil {
			return err
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Load reads the table at path. A missing file yields an empty table: the
// first run has no history.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open mappings: %w", err)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// Save writes the table to path. The file is replaced atomically, so a
// failed save leaves the previous table intact.
func Save(path string, t *Table) error {
	var buf bytes.Buffer
	if err := Write(&buf, t); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
