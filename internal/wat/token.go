package wat

import "fmt"

type tokenKind uint8

const (
	tokLParen tokenKind = iota
	tokRParen
	tokAtom
	tokString
)

type token struct {
	text string
	kind tokenKind
	line int
}

func tokenize(src string) ([]token, error) {
	var toks []token
	line := 1

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			line++
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == ';' && i+1 < len(src) && src[i+1] == ';':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '(' && i+1 < len(src) && src[i+1] == ';':
			start := line
			depth := 1
			i += 2
			for depth > 0 {
				if i >= len(src) {
					return nil, fmt.Errorf("line %d: unterminated block comment", start)
				}
				switch {
				case src[i] == '(' && i+1 < len(src) && src[i+1] == ';':
					depth++
					i += 2
				case src[i] == ';' && i+1 < len(src) && src[i+1] == ')':
					depth--
					i += 2
				default:
					if src[i] == '\n' {
						line++
					}
					i++
				}
			}
		case c == '(':
			toks = append(toks, token{"(", tokLParen, line})
			i++
		case c == ')':
			toks = append(toks, token{")", tokRParen, line})
			i++
		case c == '"':
			s, n, err := unquote(src[i:], line)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{s, tokString, line})
			i += n
		default:
			start := i
			for i < len(src) && !isDelimiter(src[i]) {
				i++
			}
			toks = append(toks, token{src[start:i], tokAtom, line})
		}
	}
	return toks, nil
}

func isDelimiter(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '(', ')', '"', ';':
		return true
	}
	return false
}

// unquote decodes the string literal at the start of s and returns it with
// the number of bytes consumed.
func unquote(s string, line int) (string, int, error) {
	var out []byte
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			return string(out), i + 1, nil
		case '\n':
			return "", 0, fmt.Errorf("line %d: newline in string", line)
		case '\\':
			if i+1 >= len(s) {
				return "", 0, fmt.Errorf("line %d: unterminated string", line)
			}
			i++
			switch e := s[i]; e {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '\\', '\'', '"':
				out = append(out, e)
			default:
				hi, ok1 := unhex(e)
				if i+1 >= len(s) {
					return "", 0, fmt.Errorf("line %d: unterminated string", line)
				}
				lo, ok2 := unhex(s[i+1])
				if !ok1 || !ok2 {
					return "", 0, fmt.Errorf("line %d: bad escape \\%c", line, e)
				}
				out = append(out, hi<<4|lo)
				i++
			}
		default:
			out = append(out, c)
		}
	}
	return "", 0, fmt.Errorf("line %d: unterminated string", line)
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
