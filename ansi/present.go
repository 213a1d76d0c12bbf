package ansi

import (
	"fmt"
	"strings"
)

// Serialization selects how a Style is expressed to a presentation layer.
type Serialization int

const (
	InlineAttributes Serialization = iota // CSS-like declarations
	NamedClasses                          // One class name per active attribute
)

func (s Serialization) String() string {
	if s == NamedClasses {
		return "classes"
	}
	return "inline"
}

type Declaration struct {
	Property string
	Value    string
}

// Presentation is the encoding of one Style. Inline serialization fills only
// Declarations; class serialization fills Classes and, for 24-bit colours that
// have no class, Declarations as well.
type Presentation struct {
	Classes      []string
	Declarations []Declaration
}

// StyleAttr renders the declarations as "prop: value;" pairs joined by spaces.
func (p Presentation) StyleAttr() string {
	parts := make([]string, len(p.Declarations))
	for i, d := range p.Declarations {
		parts[i] = d.Property + ": " + d.Value + ";"
	}
	return strings.Join(parts, " ")
}

func (p Presentation) ClassAttr() string {
	return strings.Join(p.Classes, " ")
}

func (p Presentation) IsEmpty() bool {
	return len(p.Classes) == 0 && len(p.Declarations) == 0
}

// Present maps a style to its presentation encoding.
func Present(s Style, ser Serialization) Presentation {
	if ser == NamedClasses {
		return presentClasses(s)
	}
	return presentInline(s)
}

var attrClasses = []struct {
	attr Attr
	name string
}{
	{AttrBold, "ansi-bold"},
	{AttrDim, "ansi-dim"},
	{AttrItalic, "ansi-italic"},
	{AttrUnderline, "ansi-underline"},
	{AttrStrikethrough, "ansi-strikethrough"},
	{AttrInverse, "ansi-reverse"},
	{AttrHidden, "ansi-hidden"},
}

func presentClasses(s Style) Presentation {
	var p Presentation
	for _, side := range []struct {
		c        Color
		suffix   string
		property string
	}{
		{s.Bg, "bg", "background-color"},
		{s.Fg, "fg", "color"},
	} {
		switch side.c.Kind {
		case ColorIndexed:
			p.Classes = append(p.Classes, colorClass(side.c.Index)+"-"+side.suffix)
		case ColorRGB:
			p.Classes = append(p.Classes, "ansi-truecolor-"+side.suffix)
			p.Declarations = append(p.Declarations, Declaration{side.property, cssRGB(side.c)})
		}
	}
	for _, ac := range attrClasses {
		if s.Has(ac.attr) {
			p.Classes = append(p.Classes, ac.name)
		}
	}
	return p
}

func colorClass(index uint8) string {
	if index >= 8 {
		return "ansi-bright-" + paletteNames[index-8]
	}
	return "ansi-" + paletteNames[index]
}

func presentInline(s Style) Presentation {
	var p Presentation
	fg, bg := s.Fg, s.Bg
	fgValue, bgValue := cssRGB(fg), cssRGB(bg)
	if s.Has(AttrInverse) {
		fgValue, bgValue = bgValue, fgValue
		if fgValue == "" {
			fgValue = "Canvas"
		}
		if bgValue == "" {
			bgValue = "CanvasText"
		}
	}
	if bgValue != "" {
		p.Declarations = append(p.Declarations, Declaration{"background-color", bgValue})
	}
	if fgValue != "" {
		p.Declarations = append(p.Declarations, Declaration{"color", fgValue})
	}
	if s.Has(AttrBold) {
		p.Declarations = append(p.Declarations, Declaration{"font-weight", "bold"})
	}
	if s.Has(AttrDim) {
		p.Declarations = append(p.Declarations, Declaration{"opacity", "0.5"})
	}
	if s.Has(AttrItalic) {
		p.Declarations = append(p.Declarations, Declaration{"font-style", "italic"})
	}
	var decorations []string
	if s.Has(AttrUnderline) {
		decorations = append(decorations, "underline")
	}
	if s.Has(AttrStrikethrough) {
		decorations = append(decorations, "line-through")
	}
	if len(decorations) > 0 {
		p.Declarations = append(p.Declarations, Declaration{"text-decoration", strings.Join(decorations, " ")})
	}
	if s.Has(AttrHidden) {
		p.Declarations = append(p.Declarations, Declaration{"visibility", "hidden"})
	}
	return p
}

// cssRGB formats c as rgb(r, g, b), or "" for the default colour.
func cssRGB(c Color) string {
	r, g, b, ok := c.RGB()
	if !ok {
		return ""
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", r, g, b)
}
