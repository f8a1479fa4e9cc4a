package pdftable

// A minimal tokenizer for PDF content streams: enough to feed the text
// operator interpreter. Dictionaries, names and inline images are consumed
// and discarded.

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokOperator
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(data []byte) []token {
	var toks []token
	i := 0
	n := len(data)

	for i < n {
		c := data[i]
		switch {
		case isWhitespace(c):
			i++
		case c == '%':
			for i < n && data[i] != '\n' {
				i++
			}
		case c == '(':
			s, next := readString(data, i)
			toks = append(toks, token{kind: tokString, text: s})
			i = next
		case c == '<':
			if i+1 < n && data[i+1] == '<' {
				// Dictionary: skip to the matching >>.
				depth := 0
				for i < n {
					if i+1 < n && data[i] == '<' && data[i+1] == '<' {
						depth++
						i += 2
					} else if i+1 < n && data[i] == '>' && data[i+1] == '>' {
						depth--
						i += 2
						if depth == 0 {
							break
						}
					} else {
						i++
					}
				}
			} else {
				s, next := readHexString(data, i)
				toks = append(toks, token{kind: tokString, text: s})
				i = next
			}
		case c == '[' || c == ']':
			i++
		case c == '/':
			i++
			for i < n && !isDelimiter(data[i]) && !isWhitespace(data[i]) {
				i++
			}
			toks = append(toks, token{kind: tokOther})
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			start := i
			i++
			for i < n && (data[i] == '.' || (data[i] >= '0' && data[i] <= '9')) {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: string(data[start:i])})
		default:
			start := i
			for i < n && !isDelimiter(data[i]) && !isWhitespace(data[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			toks = append(toks, token{kind: tokOperator, text: string(data[start:i])})
		}
	}
	return toks
}

// readString reads a parenthesised PDF string starting at data[i] == '('.
// Returns the decoded string and the index after the closing parenthesis.
func readString(data []byte, i int) (string, int) {
	i++ // consume '('
	depth := 1
	var raw []byte
	for i < len(data) {
		c := data[i]
		if c == '\\' && i+1 < len(data) {
			raw = append(raw, c, data[i+1])
			i += 2
			continue
		}
		if c == '(' {
			depth++
		} else if c == ')' {
			depth--
			if depth == 0 {
				i++
				break
			}
		}
		raw = append(raw, c)
		i++
	}
	return decodePDFString(raw), i
}

// readHexString reads a <hex> string starting at data[i] == '<'.
func readHexString(data []byte, i int) (string, int) {
	i++ // consume '<'
	var out []byte
	var hi byte
	haveHi := false
	for i < len(data) && data[i] != '>' {
		v, ok := hexVal(data[i])
		i++
		if !ok {
			continue
		}
		if !haveHi {
			hi = v
			haveHi = true
			continue
		}
		out = append(out, hi<<4|v)
		haveHi = false
	}
	if haveHi {
		out = append(out, hi<<4)
	}
	if i < len(data) {
		i++ // consume '>'
	}
	return string(out), i
}

func hexVal(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// decodePDFString handles basic PDF escape sequences.
func decodePDFString(raw []byte) string {
	var out []byte
	for i := 0; i < len(raw); i++ {
		if raw[i] != '\\' || i+1 >= len(raw) {
			out = append(out, raw[i])
			continue
		}
		i++
		switch raw[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '\\', '(', ')':
			out = append(out, raw[i])
		default:
			// Octal escape (e.g. \040 for space).
			if raw[i] >= '0' && raw[i] <= '7' {
				val := int(raw[i] - '0')
				for k := 0; k < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; k++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				out = append(out, byte(val))
			} else {
				out = append(out, raw[i])
			}
		}
	}
	return string(out)
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
