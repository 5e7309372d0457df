package sqlguard

import (
	"fmt"
	"strings"
)

type RejectKind string

const (
	RejectNone           RejectKind = ""
	RejectEmpty          RejectKind = "empty"
	RejectUnparseable    RejectKind = "unparseable"
	RejectMultiStatement RejectKind = "multi_statement"
	RejectNotSelect      RejectKind = "not_select"
	RejectKeyword        RejectKind = "forbidden_keyword"
)

type Verdict struct {
	Accepted bool
	Kind     RejectKind
	Detail   string
}

func (v Verdict) Reason() string {
	if v.Accepted {
		return ""
	}
	if v.Detail != "" {
		return v.Detail
	}
	return string(v.Kind)
}

var deniedKeywords = map[string]struct{}{
	"INSERT":    {},
	"UPDATE":    {},
	"DELETE":    {},
	"DROP":      {},
	"CREATE":    {},
	"ALTER":     {},
	"TRUNCATE":  {},
	"GRANT":     {},
	"REVOKE":    {},
	"EXEC":      {},
	"EXECUTE":   {},
	"CALL":      {},
	"DO":        {},
	"COPY":      {},
	"INTO":      {},
	"LOAD_FILE": {},
}

func Validate(sqlText string) (verdict Verdict) {
	defer func() {
		if r := recover(); r != nil {
			verdict = Verdict{Kind: RejectUnparseable, Detail: fmt.Sprintf("internal parser fault: %v", r)}
		}
	}()

	tokens, err := scan(sqlText)
	if err != nil {
		return Verdict{Kind: RejectUnparseable, Detail: err.Error()}
	}

	statements := splitStatements(tokens)
	if len(statements) == 0 {
		return Verdict{Kind: RejectEmpty, Detail: "query is empty"}
	}
	if len(statements) > 1 {
		return Verdict{Kind: RejectMultiStatement, Detail: fmt.Sprintf("expected a single statement, found %d", len(statements))}
	}

	statement := statements[0]
	head := statement[0]
	if head.kind != tokenWord {
		return Verdict{Kind: RejectNotSelect, Detail: fmt.Sprintf("statement starts with %q, only SELECT is allowed", head.text)}
	}
	switch strings.ToUpper(head.text) {
	case "SELECT", "WITH":
	default:
		return Verdict{Kind: RejectNotSelect, Detail: fmt.Sprintf("%s statements are not allowed, only SELECT", strings.ToUpper(head.text))}
	}

	for _, tok := range statement {
		if tok.kind != tokenWord {
			continue
		}
		word := strings.ToUpper(tok.text)
		if _, denied := deniedKeywords[word]; denied {
			return Verdict{Kind: RejectKeyword, Detail: fmt.Sprintf("forbidden keyword %s", word)}
		}
	}

	return Verdict{Accepted: true}
}

func splitStatements(tokens []token) [][]token {
	var statements [][]token
	var current []token
	for _, tok := range tokens {
		if tok.kind == tokenSemicolon {
			if len(current) > 0 {
				statements = append(statements, current)
				current = nil
			}
			continue
		}
		current = append(current, tok)
	}
	if len(current) > 0 {
		statements = append(statements, current)
	}
	return statements
}
