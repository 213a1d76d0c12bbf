package ansi

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Cell is one character together with the style active when it was written.
type Cell struct {
	Char  rune
	Style Style
}

type elementKind uint8

const (
	elementCell elementKind = iota
	elementBackspace
	elementCarriageReturn
)

type element struct {
	kind elementKind
	cell Cell
}

// lineBuffer collects the cells and control markers of one \n-delimited line
// in the order they were scanned.
type lineBuffer struct {
	elems []element
}

func (l *lineBuffer) write(text string, style Style) {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		l.elems = append(l.elems, element{kind: elementCell, cell: Cell{Char: r, Style: style}})
		text = text[size:]
	}
}

func (l *lineBuffer) backspace() {
	l.elems = append(l.elems, element{kind: elementBackspace})
}

func (l *lineBuffer) carriageReturn() {
	l.elems = append(l.elems, element{kind: elementCarriageReturn})
}

func (l *lineBuffer) reset() {
	l.elems = l.elems[:0]
}

// finalize resolves backspaces first and carriage returns second, returning
// the characters that remain visible on the line.
func (l *lineBuffer) finalize() []Cell {
	return overwrite(removeBackspaces(l.elems))
}

// removeBackspaces repeats a left-to-right sweep that deletes every
// non-overlapping pair of "any element followed by a backspace" until a sweep
// deletes nothing. Backspace markers can themselves be the first element of a
// pair, so "hello\b\b\b" leaves "hell".
func removeBackspaces(elems []element) []element {
	limit := len(elems)/2 + 1
	for sweep := 0; ; sweep++ {
		if sweep > limit {
			panic(fmt.Sprintf("ansi: backspace removal did not converge after %d sweeps", sweep))
		}
		out := elems[:0]
		removed := false
		for i := 0; i < len(elems); {
			if i+1 < len(elems) && elems[i+1].kind == elementBackspace {
				i += 2
				removed = true
				continue
			}
			out = append(out, elems[i])
			i++
		}
		elems = out
		if !removed {
			return elems
		}
	}
}

// overwrite replays cells against a cursor column: a cell replaces whatever
// is at the cursor or extends the line, and a carriage return moves the
// cursor back to column 0 without erasing anything. Backspaces that had
// nothing before them are dropped.
func overwrite(elems []element) []Cell {
	var cells []Cell
	col := 0
	for _, e := range elems {
		switch e.kind {
		case elementCell:
			if col < len(cells) {
				cells[col] = e.cell
			} else {
				cells = append(cells, e.cell)
			}
			col++
		case elementCarriageReturn:
			col = 0
		}
	}
	return cells
}

// Run is a maximal span of characters sharing one style.
type Run struct {
	Text  string
	Style Style
}

// segment coalesces adjacent cells with identical style into runs.
func segment(cells []Cell) []Run {
	var runs []Run
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && c.Style != cells[i-1].Style {
			runs = append(runs, Run{Text: b.String(), Style: cells[i-1].Style})
			b.Reset()
		}
		b.WriteRune(c.Char)
	}
	if len(cells) > 0 {
		runs = append(runs, Run{Text: b.String(), Style: cells[len(cells)-1].Style})
	}
	return runs
}
