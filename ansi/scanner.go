package ansi

type TokenKind int

const (
	TokenText           TokenKind = iota // Plain text between control tokens
	TokenSGR                             // CSI Pm m - Select Graphic Rendition
	TokenCarriageReturn                  // \r
	TokenLineFeed                        // \n
	TokenBackspace                       // \b
	TokenSequence                        // Other complete CSI sequence; only produced when stripping
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenSGR:
		return "sgr"
	case TokenCarriageReturn:
		return "cr"
	case TokenLineFeed:
		return "lf"
	case TokenBackspace:
		return "bs"
	case TokenSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

type Token struct {
	Kind   TokenKind
	Text   string // raw bytes of the token
	Params []int  // TokenSGR: parsed parameters, empty for ESC[m
}

// maxParam caps SGR parameter values so that long digit runs cannot overflow.
const maxParam = 65535

// Scanner splits raw terminal output into tokens. It is single-pass: once
// Next reports false the scanner is exhausted.
type Scanner struct {
	data string
	pos  int

	// StripSequences makes the scanner recognise complete non-SGR CSI
	// sequences as TokenSequence instead of leaving them inside text.
	StripSequences bool
}

func NewScanner(data string) *Scanner {
	return &Scanner{data: data}
}

// Next returns the next token, or false when the input is exhausted.
func (s *Scanner) Next() (Token, bool) {
	if s.pos >= len(s.data) {
		return Token{}, false
	}
	start := s.pos

	switch s.data[start] {
	case '\r':
		s.pos++
		return Token{Kind: TokenCarriageReturn, Text: "\r"}, true
	case '\n':
		s.pos++
		return Token{Kind: TokenLineFeed, Text: "\n"}, true
	case '\b':
		s.pos++
		return Token{Kind: TokenBackspace, Text: "\b"}, true
	case 0x1b:
		if params, end, ok := parseSGRSequence(s.data, start); ok {
			s.pos = end
			return Token{Kind: TokenSGR, Text: s.data[start:end], Params: params}, true
		}
		if s.StripSequences {
			if end, ok := parseCSISequence(s.data, start); ok {
				s.pos = end
				return Token{Kind: TokenSequence, Text: s.data[start:end]}, true
			}
		}
	}

	// An ESC that did not introduce a recognised sequence is literal text.
	i := start + 1
	for i < len(s.data) && !s.startsToken(i) {
		i++
	}
	s.pos = i
	return Token{Kind: TokenText, Text: s.data[start:i]}, true
}

func (s *Scanner) startsToken(i int) bool {
	switch s.data[i] {
	case '\r', '\n', '\b':
		return true
	case 0x1b:
		if _, _, ok := parseSGRSequence(s.data, i); ok {
			return true
		}
		if s.StripSequences {
			_, ok := parseCSISequence(s.data, i)
			return ok
		}
	}
	return false
}

// parseSGRSequence recognises ESC [ (digits|;)* m starting at start.
func parseSGRSequence(data string, start int) (params []int, end int, ok bool) {
	if start+2 >= len(data) || data[start] != 0x1b || data[start+1] != '[' {
		return nil, 0, false
	}
	i := start + 2
	for i < len(data) && data[i] != 'm' {
		b := data[i]
		if (b < '0' || b > '9') && b != ';' {
			return nil, 0, false
		}
		i++
	}
	if i >= len(data) {
		return nil, 0, false
	}
	return parseCSIParams(data[start+2 : i]), i + 1, true
}

// parseCSISequence recognises ESC [ params intermediates final starting at start.
func parseCSISequence(data string, start int) (end int, ok bool) {
	if start+2 >= len(data) || data[start] != 0x1b || data[start+1] != '[' {
		return 0, false
	}
	i := start + 2
	for i < len(data) && isCSIParamByte(data[i]) {
		i++
	}
	for i < len(data) && isCSIIntermediateByte(data[i]) {
		i++
	}
	if i < len(data) && isCSIFinalByte(data[i]) {
		return i + 1, true
	}
	return 0, false
}

func isCSIFinalByte(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

func isCSIParamByte(b byte) bool {
	return b >= 0x30 && b <= 0x3f
}

func isCSIIntermediateByte(b byte) bool {
	return b >= 0x20 && b <= 0x2f
}

// parseCSIParams splits a parameter string on ';'. Empty fields count as 0;
// an empty string yields no parameters at all.
func parseCSIParams(params string) []int {
	if len(params) == 0 {
		return nil
	}
	var codes []int
	start := 0
	for i := 0; i <= len(params); i++ {
		if i == len(params) || params[i] == ';' {
			codes = append(codes, parseNumber(params[start:i]))
			start = i + 1
		}
	}
	return codes
}

func parseNumber(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= '0' && b <= '9' {
			n = n*10 + int(b-'0')
			if n > maxParam {
				n = maxParam
			}
		}
	}
	return n
}
