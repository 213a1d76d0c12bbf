package ansi

// Apply returns the style that results from applying one SGR parameter list
// on top of s. Parameters are applied left to right; unknown codes are ignored.
func (s Style) Apply(params []int) Style {
	if len(params) == 0 {
		return Style{}
	}
	for i := 0; i < len(params); i++ {
		code := params[i]
		switch code {
		case 0:
			s = Style{}
		case 1:
			s = s.with(AttrBold)
		case 2:
			s = s.with(AttrDim)
		case 3:
			s = s.with(AttrItalic)
		case 4:
			s = s.with(AttrUnderline)
		case 7:
			s = s.with(AttrInverse)
		case 8:
			s = s.with(AttrHidden)
		case 9:
			s = s.with(AttrStrikethrough)
		case 22:
			s = s.without(AttrBold | AttrDim)
		case 23:
			s = s.without(AttrItalic)
		case 24:
			s = s.without(AttrUnderline)
		case 27:
			s = s.without(AttrInverse)
		case 28:
			s = s.without(AttrHidden)
		case 29:
			s = s.without(AttrStrikethrough)
		case 38:
			c, n, ok := extendedColor(params[i+1:])
			if ok {
				s.Fg = c
			}
			i += n
		case 39:
			s.Fg = DefaultColor
		case 48:
			c, n, ok := extendedColor(params[i+1:])
			if ok {
				s.Bg = c
			}
			i += n
		case 49:
			s.Bg = DefaultColor
		default:
			switch {
			case code >= 30 && code <= 37:
				s.Fg = IndexedColor(uint8(code - 30))
			case code >= 40 && code <= 47:
				s.Bg = IndexedColor(uint8(code - 40))
			case code >= 90 && code <= 97:
				s.Fg = IndexedColor(uint8(code - 90 + 8))
			case code >= 100 && code <= 107:
				s.Bg = IndexedColor(uint8(code - 100 + 8))
			}
		}
	}
	return s
}

// extendedColor decodes the arguments following 38 or 48: "5;n" or "2;r;g;b".
// consumed is how many of args belong to the colour, even when it is invalid.
func extendedColor(args []int) (c Color, consumed int, ok bool) {
	if len(args) == 0 {
		return Color{}, 0, false
	}
	switch args[0] {
	case 5:
		if len(args) < 2 {
			return Color{}, len(args), false
		}
		if args[1] > 255 {
			return Color{}, 2, false
		}
		return color256(args[1]), 2, true
	case 2:
		if len(args) < 4 {
			return Color{}, len(args), false
		}
		r, g, b := args[1], args[2], args[3]
		if r > 255 || g > 255 || b > 255 {
			return Color{}, 4, false
		}
		return RGBColor(uint8(r), uint8(g), uint8(b)), 4, true
	default:
		return Color{}, 0, false
	}
}
