package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/creditbench/creditbench/internal/qa"
)

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestAskReturnsEnvelope(t *testing.T) {
	service := &fakeQA{
		generator: true,
		envelope: qa.Envelope{
			Question: "Which company has the lowest dtd?",
			SQL:      "SELECT company_name FROM companies LIMIT 1",
			Results:  qa.QueryResult{Columns: []string{"company_name"}, Rows: [][]any{{"Acme Corp"}}, RowCount: 1, Succeeded: true},
			Answer:   "Acme Corp has the lowest distance-to-default.",
			Success:  true,
		},
	}
	h := NewHandler(testConfig(t, nil), Dependencies{QA: service})

	rr := postJSON(t, h, "/v1/ask", `{"question":"Which company has the lowest dtd?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if service.lastQuestion != "Which company has the lowest dtd?" {
		t.Fatalf("question passed through = %q", service.lastQuestion)
	}

	var envelope qa.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Answer != "Acme Corp has the lowest distance-to-default." {
		t.Fatalf("answer = %q", envelope.Answer)
	}
	if envelope.Results.RowCount != 1 {
		t.Fatalf("row count = %d", envelope.Results.RowCount)
	}
}

func TestAskReturns200OnPipelineFailure(t *testing.T) {
	service := &fakeQA{
		generator: true,
		envelope: qa.Envelope{
			Question: "q",
			SQL:      "DROP TABLE companies",
			Results:  qa.QueryResult{Columns: []string{}, Rows: [][]any{}, Rejected: true, Error: "Unsafe SQL: DROP statements are not allowed, only SELECT"},
			Answer:   "Error executing SQL: Unsafe SQL: DROP statements are not allowed, only SELECT",
		},
	}
	h := NewHandler(testConfig(t, nil), Dependencies{QA: service})

	rr := postJSON(t, h, "/v1/ask", `{"question":"q"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var envelope qa.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if envelope.Success {
		t.Fatal("expected failure envelope")
	}
	if !envelope.Results.Rejected {
		t.Fatal("expected rejected result")
	}
}

func TestAskRejectsEmptyQuestion(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{QA: &fakeQA{generator: true}})

	rr := postJSON(t, h, "/v1/ask", `{"question":"   "}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "QUESTION_REQUIRED") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestAskRejectsMalformedBody(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{QA: &fakeQA{generator: true}})

	rr := postJSON(t, h, "/v1/ask", `{"question": 12`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "INVALID_JSON") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestAskWithoutGeneratorReturns503(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{QA: &fakeQA{generator: false}})

	rr := postJSON(t, h, "/v1/ask", `{"question":"q"}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "LLM_UNAVAILABLE") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestAskWithoutServiceReturns501(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})

	rr := postJSON(t, h, "/v1/ask", `{"question":"q"}`)
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestCompanyAskScopesToCompany(t *testing.T) {
	service := &fakeQA{
		generator:    true,
		companyFound: true,
		envelope: qa.Envelope{
			Question: "What is the latest dtd?",
			Answer:   "The latest dtd is 1.25.",
			Success:  true,
		},
	}
	h := NewHandler(testConfig(t, nil), Dependencies{QA: service})

	rr := postJSON(t, h, "/v1/companies/4242/ask", `{"question":"What is the latest dtd?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if service.lastCompany != 4242 {
		t.Fatalf("company number = %d", service.lastCompany)
	}
	if service.lastQuestion != "What is the latest dtd?" {
		t.Fatalf("question = %q", service.lastQuestion)
	}
}

func TestCompanyAskReturns404WhenCompanyMissing(t *testing.T) {
	service := &fakeQA{generator: true, companyFound: false}
	h := NewHandler(testConfig(t, nil), Dependencies{QA: service})

	rr := postJSON(t, h, "/v1/companies/999/ask", `{"question":"q"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "COMPANY_NOT_FOUND") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestCompanyAskRejectsBadNumber(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{QA: &fakeQA{generator: true}})

	for _, path := range []string{"/v1/companies/abc/ask", "/v1/companies/-4/ask", "/v1/companies/0/ask"} {
		rr := postJSON(t, h, path, `{"question":"q"}`)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", path, rr.Code)
		}
	}
}

func TestCompanyAskReturns500OnLookupError(t *testing.T) {
	service := &fakeQA{generator: true, companyErr: errors.New("connection refused")}
	h := NewHandler(testConfig(t, nil), Dependencies{QA: service})

	rr := postJSON(t, h, "/v1/companies/7/ask", `{"question":"q"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "COMPANY_LOOKUP_FAILED") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}
