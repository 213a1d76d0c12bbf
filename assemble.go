package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/mash/ansispan/ansi"
)

type Format string

const (
	FormatHTML Format = "html"
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatTerm Format = "term" // SGR + OSC 8 hyperlinks
)

func ParseFormat(value string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(value))); f {
	case FormatHTML, FormatJSON, FormatText, FormatTerm:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format %q (expected: html, json, text, term)", value)
	}
}

// Terminator is the string terminator used for OSC 8 sequences.
type Terminator string

const (
	TerminatorST  Terminator = "st"  // ESC \
	TerminatorBEL Terminator = "bel" // 0x07
)

func ParseTerminator(value string) (Terminator, error) {
	switch t := Terminator(strings.ToLower(strings.TrimSpace(value))); t {
	case "", TerminatorST:
		return TerminatorST, nil
	case TerminatorBEL:
		return TerminatorBEL, nil
	default:
		return "", fmt.Errorf("invalid terminator %q (expected: st, bel)", value)
	}
}

func (t Terminator) seq() string {
	if t == TerminatorBEL {
		return "\x07"
	}
	return "\x1b\\"
}

// Assembler converts rendered nodes into a concrete output format.
type Assembler struct {
	Format     Format
	Options    ansi.Options // also selects the style presentation
	ClassName  string       // FormatHTML: class of the <code> wrapper
	Terminator Terminator   // FormatTerm
}

func (a Assembler) Ext() string {
	switch a.Format {
	case FormatJSON:
		return ".json"
	case FormatText:
		return ".txt"
	case FormatTerm:
		return ".ansi"
	default:
		return ".html"
	}
}

func (a Assembler) ContentType() string {
	switch a.Format {
	case FormatJSON:
		return "application/json; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render runs the core pipeline over input with the assembler's options.
func (a Assembler) Render(input string) []ansi.Node {
	return ansi.Render(input, a.Options)
}

func (a Assembler) Write(w io.Writer, nodes []ansi.Node) error {
	var buf bytes.Buffer
	switch a.Format {
	case FormatJSON:
		if err := a.writeJSON(&buf, nodes); err != nil {
			return err
		}
	case FormatText:
		buf.WriteString(ansi.PlainText(nodes))
	case FormatTerm:
		a.writeTerm(&buf, nodes)
	default:
		a.writeHTML(&buf, nodes)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// writeHTML groups consecutive nodes of one style into a single span so that
// links sit inside the span of the text around them.
func (a Assembler) writeHTML(buf *bytes.Buffer, nodes []ansi.Node) {
	buf.WriteString("<code")
	if a.ClassName != "" {
		buf.WriteString(` class="`)
		buf.WriteString(html.EscapeString(a.ClassName))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")

	for i := 0; i < len(nodes); {
		n := nodes[i]
		if n.Kind == ansi.NodeBreak {
			buf.WriteString("\n")
			i++
			continue
		}
		j := i + 1
		for j < len(nodes) && nodes[j].Kind != ansi.NodeBreak && nodes[j].Style == n.Style {
			j++
		}

		p := ansi.Present(n.Style, a.Options.Serialization)
		buf.WriteString("<span")
		if len(p.Classes) > 0 {
			buf.WriteString(` class="`)
			buf.WriteString(html.EscapeString(p.ClassAttr()))
			buf.WriteString(`"`)
		}
		if len(p.Declarations) > 0 {
			buf.WriteString(` style="`)
			buf.WriteString(html.EscapeString(p.StyleAttr()))
			buf.WriteString(`"`)
		}
		buf.WriteString(">")
		for _, m := range nodes[i:j] {
			if m.Kind == ansi.NodeLink {
				buf.WriteString(`<a href="`)
				buf.WriteString(html.EscapeString(m.URL))
				buf.WriteString(`" target="_blank">`)
				buf.WriteString(html.EscapeString(m.Text))
				buf.WriteString("</a>")
				continue
			}
			buf.WriteString(html.EscapeString(m.Text))
		}
		buf.WriteString("</span>")
		i = j
	}
	buf.WriteString("</code>")
}

type jsonNode struct {
	Kind    string   `json:"kind"`
	Text    string   `json:"text"`
	URL     string   `json:"url,omitempty"`
	Classes []string `json:"classes,omitempty"`
	Style   string   `json:"style,omitempty"`
}

func (a Assembler) writeJSON(buf *bytes.Buffer, nodes []ansi.Node) error {
	out := make([]jsonNode, 0, len(nodes))
	for _, n := range nodes {
		jn := jsonNode{Kind: n.Kind.String(), Text: n.Text, URL: n.URL}
		if n.Kind != ansi.NodeBreak {
			p := ansi.Present(n.Style, a.Options.Serialization)
			jn.Classes = p.Classes
			jn.Style = p.StyleAttr()
		}
		out = append(out, jn)
	}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// writeTerm re-emits the normalized text with one SGR sequence per style
// change and links wrapped in OSC 8 hyperlinks.
func (a Assembler) writeTerm(buf *bytes.Buffer, nodes []ansi.Node) {
	var current ansi.Style
	for _, n := range nodes {
		if n.Kind != ansi.NodeBreak && n.Style != current {
			buf.WriteString(sgrSequence(n.Style))
			current = n.Style
		}
		if n.Kind == ansi.NodeLink {
			buf.Write(a.osc8Link(n.URL, n.Text))
			continue
		}
		buf.WriteString(n.Text)
	}
	if !current.IsDefault() {
		buf.WriteString("\x1b[0m")
	}
}

func (a Assembler) osc8Link(url, display string) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x1b]8;;")
	buf.WriteString(url)
	buf.WriteString(a.Terminator.seq())
	buf.WriteString(display)
	buf.WriteString("\x1b]8;;")
	buf.WriteString(a.Terminator.seq())
	return buf.Bytes()
}

var attrCodes = []struct {
	attr ansi.Attr
	code string
}{
	{ansi.AttrBold, "1"},
	{ansi.AttrDim, "2"},
	{ansi.AttrItalic, "3"},
	{ansi.AttrUnderline, "4"},
	{ansi.AttrInverse, "7"},
	{ansi.AttrHidden, "8"},
	{ansi.AttrStrikethrough, "9"},
}

// sgrSequence returns a reset followed by the codes that rebuild s.
func sgrSequence(s ansi.Style) string {
	params := []string{"0"}
	for _, ac := range attrCodes {
		if s.Has(ac.attr) {
			params = append(params, ac.code)
		}
	}
	params = append(params, colorParams(s.Fg, 30, 90, 38)...)
	params = append(params, colorParams(s.Bg, 40, 100, 48)...)
	return "\x1b[" + strings.Join(params, ";") + "m"
}

func colorParams(c ansi.Color, base, brightBase, extended int) []string {
	switch c.Kind {
	case ansi.ColorIndexed:
		if c.Index >= 8 {
			return []string{strconv.Itoa(brightBase + int(c.Index) - 8)}
		}
		return []string{strconv.Itoa(base + int(c.Index))}
	case ansi.ColorRGB:
		return []string{strconv.Itoa(extended), "2", strconv.Itoa(int(c.R)), strconv.Itoa(int(c.G)), strconv.Itoa(int(c.B))}
	default:
		return nil
	}
}
