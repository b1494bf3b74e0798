package report

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/alphagov/character-encoding-cleaner/internal/config"
	"github.com/alphagov/character-encoding-cleaner/internal/engine"
	"github.com/alphagov/character-encoding-cleaner/internal/extent"
	"github.com/alphagov/character-encoding-cleaner/internal/hint"
	"github.com/alphagov/character-encoding-cleaner/internal/mapping"
)

// Options control text rendering.
type Options struct {
	// Context is the number of bytes shown on each side of a match.
	Context int
	// Verbose shows every occurrence instead of the first per mapping.
	Verbose bool
	// Color is config.ColorAuto, ColorAlways or ColorNever.
	Color string
	// Hinter, when set, adds replacement hints to discoveries.
	Hinter *hint.Hinter
}

// Text renders human-readable reports.
type Text struct {
	w       io.Writer
	opts    Options
	removed lipgloss.Style
	added   lipgloss.Style
}

// NewText creates a text renderer writing to w.
func NewText(w io.Writer, opts Options) *Text {
	renderer := lipgloss.NewRenderer(w)
	switch opts.Color {
	case config.ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	case config.ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	}

	return &Text{
		w:    w,
		opts: opts,
		removed: renderer.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("1")),
		added: renderer.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("2")),
	}
}

// Applied reports every mapping that replaced something, with before and
// after context, and any mappings withheld by an unresolved one.
func (t *Text) Applied(res engine.Result) {
	for _, app := range res.Applied {
		if app.Count() == 0 {
			continue
		}
		repl, _ := app.Mapping.Replacement.Value()
		fmt.Fprintf(t.w, "\n%d: => %s\n", app.Mapping.ID, displayText(repl))

		occs := app.Occurrences
		if !t.opts.Verbose {
			occs = occs[:1]
		}
		for _, occ := range occs {
			fmt.Fprintln(t.w, t.inContext(occ.Before, t.removed, mapping.FormatSequence(occ.Before.Value()), displayText))
			fmt.Fprintln(t.w, t.inContext(occ.After, t.added, displayText(occ.After.Value()), displayText))
		}
		fmt.Fprintf(t.w, "   ... (replaced %d)\n", app.Count())
	}

	blocker, blocked := res.Plan.Blocker()
	if withheld := res.Plan.Withheld(); blocked && len(withheld) > 0 {
		fmt.Fprintf(t.w, "\n%d resolved mapping(s) withheld until mapping %d (%s) is resolved.\n",
			len(withheld), blocker.ID, mapping.FormatSequence(blocker.Bad))
	}
}

// Discovered reports the suspicious runs left in the output.
func (t *Text) Discovered(ds []engine.Discovery) {
	fmt.Fprintln(t.w, "\n\nRemaining unmapped bad sequences:")
	if len(ds) == 0 {
		fmt.Fprintln(t.w, "  None.")
		return
	}

	for _, d := range ds {
		line := fmt.Sprintf("%d: %s", d.Mapping.ID,
			t.inContext(d.Extent, t.removed, mapping.FormatSequence(d.Extent.Value()), terminalSafe))
		if d.New {
			line += " (new)"
		}
		fmt.Fprintln(t.w, line)

		if t.opts.Hinter == nil {
			continue
		}
		if hints := t.opts.Hinter.For(d.Extent.Value()); len(hints) > 0 {
			parts := make([]string, len(hints))
			for i, h := range hints {
				parts[i] = h.String()
			}
			fmt.Fprintf(t.w, "    hint: %s\n", strings.Join(parts, ", "))
		}
	}
}

// Output reports where the cleaned buffer went.
func (t *Text) Output(path string) {
	if path == "" {
		fmt.Fprintln(t.w, "\nNo output file requested.")
		return
	}
	fmt.Fprintf(t.w, "\nWrote cleaned file to %s.\n", path)
}

func (t *Text) inContext(e extent.Extent, style lipgloss.Style, match string, clean func([]byte) string) string {
	before, after := e.Window(t.opts.Context)
	return clean(before) + style.Render(match) + clean(after)
}

// displayText drops invalid UTF-8 and control characters, showing line
// breaks as \n.
func displayText(b []byte) string {
	s := strings.ToValidUTF8(string(b), "")
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.ReplaceAll(s, "\n", `\n`))
}

// terminalSafe keeps printable ASCII only.
func terminalSafe(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c < 0x20 || c >= 0x7f {
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
