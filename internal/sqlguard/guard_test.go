package sqlguard

import (
	"strings"
	"testing"
)

func TestValidateAcceptsPlainSelect(t *testing.T) {
	verdict := Validate("SELECT company_name, ticker FROM companies WHERE country_name = 'Japan' LIMIT 10")
	if !verdict.Accepted {
		t.Fatalf("Validate() rejected: %s", verdict.Reason())
	}
	if verdict.Kind != RejectNone {
		t.Fatalf("Kind = %q, want none", verdict.Kind)
	}
}

func TestValidateAcceptsCTE(t *testing.T) {
	sql := `WITH risky AS (
		SELECT u3_company_number, dtd FROM risk_indicators WHERE dtd < 1.0
	)
	SELECT c.company_name, r.dtd FROM risky r JOIN companies c ON c.u3_company_number = r.u3_company_number`
	verdict := Validate(sql)
	if !verdict.Accepted {
		t.Fatalf("Validate() rejected CTE: %s", verdict.Reason())
	}
}

func TestValidateAcceptsTrailingSemicolon(t *testing.T) {
	verdict := Validate("SELECT 1;")
	if !verdict.Accepted {
		t.Fatalf("Validate() rejected trailing semicolon: %s", verdict.Reason())
	}
}

func TestValidateRejectsMutatingKeywordsAnyCase(t *testing.T) {
	statements := []string{
		"INSERT INTO companies VALUES (1)",
		"insert into companies values (1)",
		"UpDaTe companies SET ticker = 'X'",
		"DELETE FROM companies",
		"DROP TABLE companies",
		"drop table companies",
		"CREATE TABLE t (id int)",
		"ALTER TABLE companies ADD COLUMN x int",
		"TRUNCATE companies",
		"GRANT ALL ON companies TO public",
		"REVOKE ALL ON companies FROM public",
		"EXEC sp_who",
		"EXECUTE plan",
	}
	for _, sql := range statements {
		verdict := Validate(sql)
		if verdict.Accepted {
			t.Fatalf("Validate(%q) accepted, want rejection", sql)
		}
	}
}

func TestValidateRejectsMutationInsideSelect(t *testing.T) {
	verdict := Validate("SELECT * FROM companies WHERE 1=1; DELETE FROM companies")
	if verdict.Accepted {
		t.Fatal("Validate() accepted statement chain")
	}
	if verdict.Kind != RejectMultiStatement {
		t.Fatalf("Kind = %q, want %q", verdict.Kind, RejectMultiStatement)
	}
}

func TestValidateRejectsSelectInto(t *testing.T) {
	verdict := Validate("SELECT * INTO backup FROM companies")
	if verdict.Accepted {
		t.Fatal("Validate() accepted SELECT INTO")
	}
	if verdict.Kind != RejectKeyword {
		t.Fatalf("Kind = %q, want %q", verdict.Kind, RejectKeyword)
	}
}

func TestValidateRejectsOutfileAndLoadFile(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM companies INTO OUTFILE '/tmp/x'",
		"SELECT * FROM companies INTO DUMPFILE '/tmp/x'",
		"SELECT LOAD_FILE('/etc/passwd')",
	} {
		if Validate(sql).Accepted {
			t.Fatalf("Validate(%q) accepted, want rejection", sql)
		}
	}
}

func TestValidateRejectionNamesKeyword(t *testing.T) {
	verdict := Validate("DROP TABLE companies")
	if verdict.Accepted {
		t.Fatal("Validate() accepted DROP")
	}
	if !strings.Contains(verdict.Reason(), "DROP") {
		t.Fatalf("Reason() = %q, want mention of DROP", verdict.Reason())
	}
}

func TestValidateRejectsEmptyInput(t *testing.T) {
	for _, sql := range []string{"", "   ", "\n\t", ";", "; ;", "-- just a comment", "/* nothing */"} {
		verdict := Validate(sql)
		if verdict.Accepted {
			t.Fatalf("Validate(%q) accepted, want empty rejection", sql)
		}
		if verdict.Kind != RejectEmpty {
			t.Fatalf("Validate(%q) Kind = %q, want %q", sql, verdict.Kind, RejectEmpty)
		}
		if verdict.Reason() == "" {
			t.Fatalf("Validate(%q) returned empty reason", sql)
		}
	}
}

func TestValidateRejectsUnparseableInput(t *testing.T) {
	for _, sql := range []string{
		"SELECT 'unterminated",
		`SELECT "unterminated`,
		"SELECT /* unterminated",
		"SELECT $body$ unterminated",
	} {
		verdict := Validate(sql)
		if verdict.Accepted {
			t.Fatalf("Validate(%q) accepted, want unparseable rejection", sql)
		}
		if verdict.Kind != RejectUnparseable {
			t.Fatalf("Validate(%q) Kind = %q, want %q", sql, verdict.Kind, RejectUnparseable)
		}
	}
}

func TestValidateRejectsMultiStatement(t *testing.T) {
	verdict := Validate("SELECT 1; SELECT 2")
	if verdict.Accepted {
		t.Fatal("Validate() accepted two statements")
	}
	if verdict.Kind != RejectMultiStatement {
		t.Fatalf("Kind = %q, want %q", verdict.Kind, RejectMultiStatement)
	}
}

func TestValidateRejectsNonSelect(t *testing.T) {
	verdict := Validate("EXPLAIN SELECT * FROM companies")
	if verdict.Accepted {
		t.Fatal("Validate() accepted EXPLAIN")
	}
	if verdict.Kind != RejectNotSelect {
		t.Fatalf("Kind = %q, want %q", verdict.Kind, RejectNotSelect)
	}
}

func TestValidateAllowsKeywordLikeIdentifiers(t *testing.T) {
	for _, sql := range []string{
		"SELECT update_date, created_at FROM credit_events",
		"SELECT insert_order FROM companies",
		"SELECT dropped, altered FROM companies",
		"SELECT c.delete_flag FROM companies c",
	} {
		verdict := Validate(sql)
		if !verdict.Accepted {
			t.Fatalf("Validate(%q) rejected: %s", sql, verdict.Reason())
		}
	}
}

func TestValidateIgnoresKeywordsInsideLiterals(t *testing.T) {
	for _, sql := range []string{
		"SELECT * FROM credit_events WHERE action_name = 'DROP coverage'",
		"SELECT 'please INSERT here'",
		`SELECT "drop" FROM companies`,
		"SELECT * FROM companies -- DROP TABLE companies",
		"SELECT * /* DELETE FROM companies */ FROM companies",
		"SELECT 'it''s an UPDATE notice' FROM credit_events",
		"SELECT $doc$ DROP TABLE companies $doc$",
	} {
		verdict := Validate(sql)
		if !verdict.Accepted {
			t.Fatalf("Validate(%q) rejected: %s", sql, verdict.Reason())
		}
	}
}

func TestValidateHandlesEscapeStringLiterals(t *testing.T) {
	verdict := Validate(`SELECT E'\''; DROP TABLE companies; --' FROM companies`)
	if verdict.Accepted {
		t.Fatal("Validate() accepted statement hidden behind escape string")
	}
}

func TestValidateRejectsPostgresSideDoors(t *testing.T) {
	for _, sql := range []string{
		"COPY companies TO '/tmp/out.csv'",
		"DO $$ BEGIN PERFORM 1; END $$",
		"CALL refresh_everything()",
	} {
		if Validate(sql).Accepted {
			t.Fatalf("Validate(%q) accepted, want rejection", sql)
		}
	}
}

func TestValidateNeverPanics(t *testing.T) {
	inputs := []string{
		"",
		";;;;",
		"'",
		"$$$",
		"$1$ $",
		"\\",
		"\x00\x01\x02",
		strings.Repeat("(", 10000),
		"SELECT " + strings.Repeat("'a'|| ", 500) + "'z'",
	}
	for _, sql := range inputs {
		verdict := Validate(sql)
		if verdict.Accepted && strings.TrimSpace(sql) == "" {
			t.Fatalf("Validate(%q) accepted empty-ish input", sql)
		}
	}
}
