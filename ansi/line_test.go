package ansi

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// normalize runs one line through the buffer, treating \b and \r as markers.
func normalize(line string) string {
	var l lineBuffer
	for _, r := range line {
		switch r {
		case '\b':
			l.backspace()
		case '\r':
			l.carriageReturn()
		default:
			l.write(string(r), Style{})
		}
	}
	var b strings.Builder
	for _, c := range l.finalize() {
		b.WriteRune(c.Char)
	}
	return b.String()
}

func TestLineNormalization(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no controls", input: "hello", want: "hello"},
		{name: "one backspace", input: "hello\b", want: "hell"},
		{name: "two backspaces", input: "hello\b\b", want: "hel"},
		{name: "three backspaces", input: "hello\b\b\b", want: "hell"},
		{name: "four backspaces", input: "hello\b\b\b\b", want: "hel"},
		{name: "backspace mid text", input: "01hello\b goodbye", want: "01hell goodbye"},
		{name: "double backspace mid text", input: "02hello\b\b goodbye", want: "02hel goodbye"},
		{name: "triple backspace mid text", input: "03hello\b\b\b goodbye", want: "03hell goodbye"},
		{name: "leading backspace dropped", input: "\bab", want: "ab"},
		{name: "only backspaces", input: "\b\b\b", want: ""},
		{name: "carriage return overwrites", input: "this sentence\rthat", want: "that sentence"},
		{name: "carriage return longer rewrite", input: "ab\rxyz", want: "xyz"},
		{name: "repeated carriage returns", input: "12345\r\rab\rc", want: "cb345"},
		{name: "trailing carriage return", input: "abc\r", want: "abc"},
		{name: "progress bar", input: "10%\r50%\r100%", want: "100%"},
		{name: "backspace eats carriage return", input: "ab\r\bc", want: "abc"},
		{name: "backspace before overwrite", input: "abcd\b\rx", want: "xbc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalize(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRemoveBackspacesKeepsStyles(t *testing.T) {
	red := Style{Fg: IndexedColor(1)}
	var l lineBuffer
	l.write("ab", Style{})
	l.write("cd", red)
	l.backspace()
	l.carriageReturn()
	l.write("X", red)

	want := []Cell{{Char: 'X', Style: red}, {Char: 'b'}, {Char: 'c', Style: red}}
	if diff := cmp.Diff(want, l.finalize()); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestSegmentCoalesces(t *testing.T) {
	green := Style{Fg: IndexedColor(2)}
	cells := []Cell{{'a', Style{}}, {'b', Style{}}, {'c', green}, {'d', green}, {'e', Style{}}}
	want := []Run{{Text: "ab"}, {Text: "cd", Style: green}, {Text: "e"}}
	if diff := cmp.Diff(want, segment(cells)); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if got := segment(nil); got != nil {
		t.Errorf("empty line: got %v, want nil", got)
	}
}
