package ansi

type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed           // One of the 16 named palette entries
	ColorRGB               // 24-bit colour, also used for 256-colour indices >= 16
)

// Color is a comparable colour value. Index is meaningful for ColorIndexed,
// R, G and B for ColorRGB.
type Color struct {
	Kind    ColorKind
	Index   uint8
	R, G, B uint8
}

// DefaultColor is the terminal's default foreground or background.
var DefaultColor = Color{}

// IndexedColor returns palette entry i, which must be in 0-15.
func IndexedColor(i uint8) Color {
	return Color{Kind: ColorIndexed, Index: i & 0x0f}
}

func RGBColor(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

func (c Color) IsDefault() bool {
	return c.Kind == ColorDefault
}

// RGB resolves the colour to a concrete triple. ok is false for the default colour.
func (c Color) RGB() (r, g, b uint8, ok bool) {
	switch c.Kind {
	case ColorIndexed:
		p := palette[c.Index&0x0f]
		return p[0], p[1], p[2], true
	case ColorRGB:
		return c.R, c.G, c.B, true
	default:
		return 0, 0, 0, false
	}
}

// palette is the 16-colour table used for basic and bright SGR colours.
var palette = [16][3]uint8{
	{0, 0, 0},       // black
	{187, 0, 0},     // red
	{0, 187, 0},     // green
	{187, 187, 0},   // yellow
	{0, 0, 187},     // blue
	{187, 0, 187},   // magenta
	{0, 187, 187},   // cyan
	{255, 255, 255}, // white
	{85, 85, 85},    // bright black
	{255, 85, 85},   // bright red
	{0, 255, 0},     // bright green
	{255, 255, 85},  // bright yellow
	{85, 85, 255},   // bright blue
	{255, 85, 255},  // bright magenta
	{85, 255, 255},  // bright cyan
	{255, 255, 255}, // bright white
}

var paletteNames = [8]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

// cubeLevels are the channel intensities of the xterm 6x6x6 colour cube.
var cubeLevels = [6]uint8{0, 95, 135, 175, 215, 255}

// color256 maps an xterm 256-colour index onto the closed Color type:
// 0-15 stay indexed, the cube and grey ramp become RGB.
func color256(n int) Color {
	switch {
	case n < 16:
		return IndexedColor(uint8(n))
	case n < 232:
		n -= 16
		return RGBColor(cubeLevels[n/36], cubeLevels[(n/6)%6], cubeLevels[n%6])
	default:
		gray := uint8(8 + (n-232)*10)
		return RGBColor(gray, gray, gray)
	}
}

// Attr is a bitmask of boolean text attributes.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrInverse
	AttrHidden
	AttrStrikethrough
)

// Style is the immutable set of rendition attributes attached to a character.
// The zero value is the reset state. Styles compare with ==.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attr
}

func (s Style) Has(a Attr) bool {
	return s.Attrs&a != 0
}

func (s Style) IsDefault() bool {
	return s == Style{}
}

func (s Style) with(a Attr) Style {
	s.Attrs |= a
	return s
}

func (s Style) without(a Attr) Style {
	s.Attrs &^= a
	return s
}
