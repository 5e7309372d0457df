package sqlguard

import "fmt"

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenNumber
	tokenString
	tokenQuotedIdent
	tokenSemicolon
	tokenSymbol
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func scan(input string) ([]token, error) {
	var tokens []token
	i := 0
	n := len(input)
	for i < n {
		c := input[i]
		switch {
		case isSpace(c):
			i++
		case c == '-' && i+1 < n && input[i+1] == '-':
			for i < n && input[i] != '\n' {
				i++
			}
		case c == '/' && i+1 < n && input[i+1] == '*':
			end, err := scanBlockComment(input, i)
			if err != nil {
				return nil, err
			}
			i = end
		case c == '\'':
			end, err := scanString(input, i, false)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenString, text: input[i:end], pos: i})
			i = end
		case c == '"':
			end, err := scanQuotedIdent(input, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokenQuotedIdent, text: input[i:end], pos: i})
			i = end
		case c == '$':
			end, ok, err := scanDollarString(input, i)
			if err != nil {
				return nil, err
			}
			if ok {
				tokens = append(tokens, token{kind: tokenString, text: input[i:end], pos: i})
				i = end
				break
			}
			tokens = append(tokens, token{kind: tokenSymbol, text: string(c), pos: i})
			i++
		case isWordStart(c):
			end := i + 1
			for end < n && isWordChar(input[end]) {
				end++
			}
			word := input[i:end]
			if end < n && input[end] == '\'' && (word == "E" || word == "e") {
				tokens = append(tokens, token{kind: tokenWord, text: word, pos: i})
				strEnd, err := scanString(input, end, true)
				if err != nil {
					return nil, err
				}
				tokens = append(tokens, token{kind: tokenString, text: input[end:strEnd], pos: end})
				i = strEnd
				break
			}
			tokens = append(tokens, token{kind: tokenWord, text: word, pos: i})
			i = end
		case c >= '0' && c <= '9':
			end := i + 1
			for end < n && (isWordChar(input[end]) || input[end] == '.') {
				end++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: input[i:end], pos: i})
			i = end
		case c == ';':
			tokens = append(tokens, token{kind: tokenSemicolon, text: ";", pos: i})
			i++
		default:
			tokens = append(tokens, token{kind: tokenSymbol, text: string(c), pos: i})
			i++
		}
	}
	return tokens, nil
}

func scanBlockComment(input string, start int) (int, error) {
	depth := 1
	i := start + 2
	n := len(input)
	for i < n && depth > 0 {
		switch {
		case i+1 < n && input[i] == '/' && input[i+1] == '*':
			depth++
			i += 2
		case i+1 < n && input[i] == '*' && input[i+1] == '/':
			depth--
			i += 2
		default:
			i++
		}
	}
	if depth > 0 {
		return 0, fmt.Errorf("unterminated block comment at offset %d", start)
	}
	return i, nil
}

func scanString(input string, start int, backslashEscapes bool) (int, error) {
	i := start + 1
	n := len(input)
	for i < n {
		c := input[i]
		switch {
		case backslashEscapes && c == '\\':
			i += 2
		case c == '\'':
			if i+1 < n && input[i+1] == '\'' {
				i += 2
				continue
			}
			return i + 1, nil
		default:
			i++
		}
	}
	return 0, fmt.Errorf("unterminated string literal at offset %d", start)
}

func scanQuotedIdent(input string, start int) (int, error) {
	i := start + 1
	n := len(input)
	for i < n {
		if input[i] == '"' {
			if i+1 < n && input[i+1] == '"' {
				i += 2
				continue
			}
			return i + 1, nil
		}
		i++
	}
	return 0, fmt.Errorf("unterminated quoted identifier at offset %d", start)
}

func scanDollarString(input string, start int) (int, bool, error) {
	i := start + 1
	n := len(input)
	if i < n && isWordStart(input[i]) {
		for i < n && isTagChar(input[i]) {
			i++
		}
	}
	if i >= n || input[i] != '$' {
		return 0, false, nil
	}
	delim := input[start : i+1]
	body := i + 1
	for body < n {
		if input[body] == '$' && body+len(delim) <= n && input[body:body+len(delim)] == delim {
			return body + len(delim), true, nil
		}
		body++
	}
	return 0, false, fmt.Errorf("unterminated dollar-quoted string at offset %d", start)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isWordStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isWordChar(c byte) bool {
	return isWordStart(c) || (c >= '0' && c <= '9') || c == '$'
}

func isTagChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
