package ansi

import "strings"

type NodeKind uint8

const (
	NodeText  NodeKind = iota // Styled plain text
	NodeLink                  // Styled text that links to URL
	NodeBreak                 // Line separator; Text is "\n"
)

func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "text"
	case NodeLink:
		return "link"
	case NodeBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Node is one element of a rendered document.
type Node struct {
	Kind  NodeKind
	Text  string
	URL   string // NodeLink only
	Style Style
}

type Options struct {
	// Linkify turns http://, https:// and www. URLs into NodeLink nodes.
	Linkify bool
	// Serialization selects how node styles are presented when the nodes are
	// assembled into output. It does not change the nodes themselves.
	Serialization Serialization
	// StripUnknownSequences drops non-SGR CSI sequences instead of keeping
	// them as literal text.
	StripUnknownSequences bool
}

var lineBreak = Node{Kind: NodeBreak, Text: "\n"}

// Render transforms terminal output into styled nodes. Style state carries
// across lines and only an SGR reset clears it. Lines are separated by
// NodeBreak nodes; an empty line contributes only its break.
func Render(input string, opts Options) []Node {
	var (
		nodes []Node
		style Style
		line  lineBuffer
	)
	flush := func() {
		for _, run := range segment(line.finalize()) {
			if opts.Linkify {
				nodes = append(nodes, linkify(run)...)
			} else {
				nodes = append(nodes, Node{Kind: NodeText, Text: run.Text, Style: run.Style})
			}
		}
		line.reset()
	}

	sc := NewScanner(input)
	sc.StripSequences = opts.StripUnknownSequences
	for {
		tok, ok := sc.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case TokenText:
			line.write(tok.Text, style)
		case TokenSGR:
			style = style.Apply(tok.Params)
		case TokenCarriageReturn:
			line.carriageReturn()
		case TokenBackspace:
			line.backspace()
		case TokenLineFeed:
			flush()
			nodes = append(nodes, lineBreak)
		}
	}
	flush()
	return nodes
}

// PlainText concatenates the text of all nodes, line breaks included.
func PlainText(nodes []Node) string {
	var b strings.Builder
	for _, n := range nodes {
		b.WriteString(n.Text)
	}
	return b.String()
}

// Lines splits a node sequence at its breaks. The result always has one more
// entry than there are breaks.
func Lines(nodes []Node) [][]Node {
	lines := [][]Node{nil}
	for _, n := range nodes {
		if n.Kind == NodeBreak {
			lines = append(lines, nil)
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], n)
	}
	return lines
}
