// Package hint suggests what a suspicious byte run might have been meant to
// say, to help the operator fill in TODO entries. Hints are display-only;
// nothing here writes to the table or the output.
package hint

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// DefaultEncodings are consulted when no encodings are configured.
var DefaultEncodings = []string{"windows-1252"}

// Hint is one reading of a byte run.
type Hint struct {
	Source string `json:"source"` // "utf-8" or an IANA encoding name
	Text   string `json:"text"`
}

func (h Hint) String() string {
	return fmt.Sprintf("%s %q", h.Source, h.Text)
}

type codePage struct {
	name string
	enc  encoding.Encoding
}

// Hinter decodes runs with a fixed list of legacy code pages.
type Hinter struct {
	pages []codePage
}

// New resolves each IANA name (e.g. "windows-1252", "ISO-8859-15") to an
// encoding. Unknown or unsupported names are an error.
func New(names ...string) (*Hinter, error) {
	h := &Hinter{}
	for _, name := range names {
		enc, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		canonical, err := ianaindex.IANA.Name(enc)
		if err != nil {
			canonical = name
		}
		h.pages = append(h.pages, codePage{name: canonical, enc: enc})
	}
	return h, nil
}

// Lookup resolves an IANA encoding name.
func Lookup(name string) (encoding.Encoding, error) {
	enc, err := ianaindex.IANA.Encoding(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// For returns the readings of run: first as UTF-8 when it is valid UTF-8,
// then one per configured code page that decodes it without replacement
// characters.
func (h *Hinter) For(run []byte) []Hint {
	var out []Hint
	if utf8.Valid(run) {
		out = append(out, Hint{Source: "utf-8", Text: string(run)})
	}
	for _, p := range h.pages {
		decoded, err := p.enc.NewDecoder().Bytes(run)
		if err != nil || !utf8.Valid(decoded) || strings.ContainsRune(string(decoded), utf8.RuneError) {
			continue
		}
		out = append(out, Hint{Source: p.name, Text: string(decoded)})
	}
	return out
}
