// Package samples pairs loosely labeled sample text blocks into ordered
// (input, output) test cases.
package samples

import (
	"fmt"
	"log/slog"

	"judgetools/lib/judge"
	"judgetools/lib/textutil"
)

type block struct {
	text string
	name string
}

// Zipper consumes labeled text blocks in document order and groups them
// into pairs. Labels are advisory only: sites localize, restyle or omit
// them, so pairing is positional (input first, output second) and a label
// that contradicts its position is just a warning.
type Zipper struct {
	pairs    []judge.TestCase
	dangling *block
}

// Add appends one block. Text is normalized to LF line endings with a
// trailing newline so the pair is byte-for-byte what the judge compares
// against.
func (z *Zipper) Add(text, name string) {
	text = textutil.Textfile(textutil.Dos2Unix(text))

	if z.dangling == nil {
		if textutil.MatchName(name, textutil.OutputLikeNames) {
			slog.Warn("strange name for input string", "name", name)
		}
		z.dangling = &block{text: text, name: name}
		return
	}

	if textutil.MatchName(name, textutil.InputLikeNames) {
		slog.Warn("strange name for output string", "name", name)
	}
	name = z.dangling.name
	if name == "" {
		name = fmt.Sprintf("sample-%d", len(z.pairs)+1)
	}
	z.pairs = append(z.pairs, judge.TestCase{
		Name:   name,
		Input:  z.dangling.text,
		Output: text,
	})
	z.dangling = nil
}

// Pairs returns every complete pair collected so far, in first-seen
// order. A leftover dangling block is reported but does not discard the
// pairs already recovered.
func (z *Zipper) Pairs() []judge.TestCase {
	if z.dangling != nil {
		slog.Error("dangling sample string", "name", z.dangling.name)
	}
	return z.pairs
}
