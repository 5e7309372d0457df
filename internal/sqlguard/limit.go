package sqlguard

import (
	"fmt"
	"strings"
)

func EnsureLimit(sqlText string, defaultLimit int) string {
	if defaultLimit <= 0 {
		return sqlText
	}
	tokens, err := scan(sqlText)
	if err != nil || len(tokens) == 0 {
		return sqlText
	}

	// The clause goes right after the last real token: trailing comments
	// and the statement terminator stay behind it, so appended text can
	// never land inside a -- comment.
	insertAt := -1
	for _, tok := range tokens {
		if tok.kind == tokenSemicolon {
			continue
		}
		if tok.kind == tokenWord {
			switch strings.ToUpper(tok.text) {
			case "LIMIT", "FETCH":
				return sqlText
			}
		}
		insertAt = tok.pos + len(tok.text)
	}
	if insertAt < 0 {
		return sqlText
	}

	clause := fmt.Sprintf(" LIMIT %d", defaultLimit)
	return sqlText[:insertAt] + clause + sqlText[insertAt:]
}
