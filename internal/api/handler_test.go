package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/creditbench/creditbench/internal/auth"
	"github.com/creditbench/creditbench/internal/config"
	"github.com/creditbench/creditbench/internal/qa"
)

type fakeQA struct {
	envelope     qa.Envelope
	result       qa.QueryResult
	companyFound bool
	companyErr   error
	generator    bool
	lastQuestion string
	lastCompany  int
	lastSQL      string
}

func (f *fakeQA) Answer(_ context.Context, question string) qa.Envelope {
	f.lastQuestion = question
	return f.envelope
}

func (f *fakeQA) AnswerForCompany(_ context.Context, number int, question string) (qa.Envelope, bool, error) {
	f.lastCompany = number
	f.lastQuestion = question
	if f.companyErr != nil {
		return qa.Envelope{}, false, f.companyErr
	}
	return f.envelope, f.companyFound, nil
}

func (f *fakeQA) ValidateAndExecute(_ context.Context, sqlText string) qa.QueryResult {
	f.lastSQL = sqlText
	return f.result
}

func (f *fakeQA) GeneratorAvailable() bool {
	return f.generator
}

func mapLookup(values map[string]string) config.LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

func testConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()
	cfg, err := config.Load("creditbench-api", mapLookup(env))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "creditbench-api") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestReadyEndpointWithoutCheck(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestReadyEndpointReturns503WhenDependencyFails(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{
		Readiness: func(context.Context) error {
			return errors.New("dependency down")
		},
	})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "dependency down") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestProtectedRouteRequiresAuth(t *testing.T) {
	cfg := testConfig(t, map[string]string{"CREDITBENCH_AUTH_REQUIRED": "true"})
	validator, err := auth.NewStaticAPIKeyValidator("k1:research-team:query_read")
	if err != nil {
		t.Fatalf("validator setup failed: %v", err)
	}

	h := NewHandler(cfg, Dependencies{
		AuthMiddleware: auth.Middleware(nil, validator),
		QA:             &fakeQA{},
	})

	unauthResp := httptest.NewRecorder()
	h.ServeHTTP(unauthResp, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	if unauthResp.Code != http.StatusUnauthorized {
		t.Fatalf("unauth status = %d", unauthResp.Code)
	}

	authReq := httptest.NewRequest(http.MethodGet, "/v1/schema", nil)
	authReq.Header.Set("X-API-Key", "k1")
	authResp := httptest.NewRecorder()
	h.ServeHTTP(authResp, authReq)
	if authResp.Code != http.StatusOK {
		t.Fatalf("auth status = %d, body = %s", authResp.Code, authResp.Body.String())
	}
}

func TestProtectedRouteRejectsMissingRole(t *testing.T) {
	cfg := testConfig(t, map[string]string{"CREDITBENCH_AUTH_REQUIRED": "true"})
	validator, err := auth.NewStaticAPIKeyValidator("k1:readonly:viewer")
	if err != nil {
		t.Fatalf("validator setup failed: %v", err)
	}

	h := NewHandler(cfg, Dependencies{
		AuthMiddleware: auth.Middleware(nil, validator),
		QA:             &fakeQA{generator: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"q"}`))
	req.Header.Set("X-API-Key", "k1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "query_read") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestAuthRequiredWithoutMiddlewareFailsClosed(t *testing.T) {
	cfg := testConfig(t, map[string]string{"CREDITBENCH_AUTH_REQUIRED": "true"})

	h := NewHandler(cfg, Dependencies{QA: &fakeQA{generator: true}})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"sql":"SELECT 1"}`)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "AUTH_MIDDLEWARE_MISSING") {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestSchemaEndpointListsTables(t *testing.T) {
	h := NewHandler(testConfig(t, nil), Dependencies{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}

	var body struct {
		Version string `json:"version"`
		Tables  []struct {
			Name string `json:"name"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if body.Version == "" {
		t.Fatal("expected schema version")
	}
	names := make(map[string]bool, len(body.Tables))
	for _, table := range body.Tables {
		names[table.Name] = true
	}
	for _, want := range []string{"companies", "industry_mapping", "credit_events", "risk_indicators", "macro_fx"} {
		if !names[want] {
			t.Fatalf("schema is missing table %q (got %v)", want, names)
		}
	}
}

func TestCombineReadinessChecksStopsOnFirstFailure(t *testing.T) {
	order := make([]int, 0, 3)
	combined := CombineReadinessChecks(
		func(context.Context) error {
			order = append(order, 1)
			return nil
		},
		func(context.Context) error {
			order = append(order, 2)
			return errors.New("boom")
		},
		func(context.Context) error {
			order = append(order, 3)
			return nil
		},
	)

	err := combined(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("execution order = %#v", order)
	}
}

func TestCheckDatasetConfig(t *testing.T) {
	cases := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{name: "postgres with dsn", env: nil, wantErr: false},
		{name: "duckdb with path", env: map[string]string{
			"CREDITBENCH_DATASET_BACKEND":     "duckdb",
			"CREDITBENCH_DATASET_DUCKDB_PATH": "/tmp/bench.duckdb",
		}, wantErr: false},
	}
	for _, tc := range cases {
		cfg := testConfig(t, tc.env)
		err := CheckDatasetConfig(cfg)(context.Background())
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}

	empty := config.Config{}
	empty.Dataset.Backend = config.DatasetBackendPostgres
	if err := CheckDatasetConfig(empty)(context.Background()); err == nil {
		t.Fatal("expected error for postgres without dsn")
	}
	empty.Dataset.Backend = "sqlite"
	if err := CheckDatasetConfig(empty)(context.Background()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
