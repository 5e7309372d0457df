package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/creditbench/creditbench/internal/llm"
	"github.com/creditbench/creditbench/internal/observability"
	"github.com/creditbench/creditbench/internal/schema"
	"github.com/creditbench/creditbench/internal/sqlguard"
	"github.com/creditbench/creditbench/internal/store"
)

type QueryResult struct {
	Columns   []string `json:"columns"`
	Rows      [][]any  `json:"rows"`
	RowCount  int      `json:"row_count"`
	Succeeded bool     `json:"succeeded"`
	Rejected  bool     `json:"rejected,omitempty"`
	Error     string   `json:"error,omitempty"`
}

type Envelope struct {
	Question string      `json:"question"`
	SQL      string      `json:"sql,omitempty"`
	Results  QueryResult `json:"results"`
	Answer   string      `json:"answer"`
	Success  bool        `json:"success"`
	Error    string      `json:"error,omitempty"`
}

type Options struct {
	Store         store.Querier
	Completer     llm.Completer
	Companies     store.CompanyDirectory
	Descriptor    schema.Descriptor
	Logger        *slog.Logger
	DefaultLimit  int
	MaxFormatRows int
	MaxTokens     int
	QueryTimeout  time.Duration
}

type Service struct {
	store         store.Querier
	completer     llm.Completer
	companies     store.CompanyDirectory
	sqlPrompt     string
	logger        *slog.Logger
	defaultLimit  int
	maxFormatRows int
	maxTokens     int
	queryTimeout  time.Duration
}

func NewService(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	descriptor := opts.Descriptor
	if descriptor.Text == "" {
		descriptor = schema.Default()
	}
	defaultLimit := opts.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	maxFormatRows := opts.MaxFormatRows
	if maxFormatRows <= 0 {
		maxFormatRows = 50
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	queryTimeout := opts.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 30 * time.Second
	}
	return &Service{
		store:         opts.Store,
		completer:     opts.Completer,
		companies:     opts.Companies,
		sqlPrompt:     sqlSystemPrompt(descriptor.Text),
		logger:        logger,
		defaultLimit:  defaultLimit,
		maxFormatRows: maxFormatRows,
		maxTokens:     maxTokens,
		queryTimeout:  queryTimeout,
	}, nil
}

func (s *Service) GeneratorAvailable() bool {
	return s.completer != nil
}

func (s *Service) Answer(ctx context.Context, question string) Envelope {
	envelope := Envelope{
		Question: question,
		Results:  QueryResult{Columns: []string{}, Rows: [][]any{}},
	}

	sqlText, err := s.generateSQL(ctx, question)
	if err != nil {
		s.logger.ErrorContext(ctx, "sql generation failed", slog.Any("error", err))
		observability.ObserveQuestion("generation_failed")
		envelope.Answer = fmt.Sprintf("Error generating SQL: %v", err)
		envelope.Error = fmt.Sprintf("SQL generation failed: %v", err)
		return envelope
	}
	envelope.SQL = sqlText

	result := s.ValidateAndExecute(ctx, sqlText)
	envelope.Results = result
	if !result.Succeeded {
		outcome := "execution_failed"
		if result.Rejected {
			outcome = "rejected"
		}
		observability.ObserveQuestion(outcome)
		envelope.Answer = fmt.Sprintf("Error executing SQL: %s", result.Error)
		envelope.Error = result.Error
		return envelope
	}

	table := FormatTable(result, s.maxFormatRows)
	answer, err := s.synthesizeAnswer(ctx, question, sqlText, result.RowCount, table)
	if err != nil {
		s.logger.WarnContext(ctx, "answer synthesis failed", slog.Any("error", err))
		observability.ObserveQuestion("degraded")
		envelope.Answer = fmt.Sprintf("Query succeeded but failed to generate answer: %v\n\nResults:\n%s", err, table)
		envelope.Success = true
		return envelope
	}

	s.logger.InfoContext(ctx, "question answered", slog.Int("rows", result.RowCount))
	observability.ObserveQuestion("answered")
	envelope.Answer = answer
	envelope.Success = true
	return envelope
}

func (s *Service) AnswerForCompany(ctx context.Context, companyNumber int, question string) (Envelope, bool, error) {
	if s.companies == nil {
		return Envelope{}, false, fmt.Errorf("company directory is not configured")
	}
	company, found, err := s.companies.CompanyByNumber(ctx, companyNumber)
	if err != nil {
		return Envelope{}, false, fmt.Errorf("look up company %d: %w", companyNumber, err)
	}
	if !found {
		return Envelope{}, false, nil
	}

	scoped := fmt.Sprintf("About the company %q (u3_company_number = %d", company.Name, company.Number)
	if company.Ticker != "" {
		scoped += fmt.Sprintf(", ticker %s", company.Ticker)
	}
	scoped += "): " + question

	envelope := s.Answer(ctx, scoped)
	envelope.Question = question
	return envelope, true, nil
}

func (s *Service) ValidateAndExecute(ctx context.Context, sqlText string) QueryResult {
	verdict := sqlguard.Validate(sqlText)
	if !verdict.Accepted {
		s.logger.WarnContext(ctx, "rejected unsafe sql",
			slog.String("kind", string(verdict.Kind)),
			slog.String("detail", verdict.Detail),
		)
		observability.ObserveGuardRejection(string(verdict.Kind))
		return QueryResult{
			Columns:  []string{},
			Rows:     [][]any{},
			Rejected: true,
			Error:    fmt.Sprintf("Unsafe SQL: %s", verdict.Reason()),
		}
	}

	capped := sqlguard.EnsureLimit(sqlText, s.defaultLimit)
	result, err := s.store.ExecuteReadOnly(ctx, capped, s.queryTimeout)
	if err != nil {
		s.logger.WarnContext(ctx, "query execution failed",
			slog.String("sql", capped),
			slog.Any("error", err),
		)
		observability.ObserveQueryError()
		return QueryResult{
			Columns: []string{},
			Rows:    [][]any{},
			Error:   fmt.Sprintf("Database error: %v", err),
		}
	}

	observability.ObserveQueryExecution(result.RowCount, result.Duration)
	return QueryResult{
		Columns:   result.Columns,
		Rows:      result.Rows,
		RowCount:  result.RowCount,
		Succeeded: true,
	}
}

func (s *Service) generateSQL(ctx context.Context, question string) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("no language model is configured")
	}
	start := time.Now()
	raw, err := s.completer.Complete(ctx, llm.Request{
		System:    s.sqlPrompt,
		User:      question,
		MaxTokens: s.maxTokens,
	})
	observability.ObserveLLMCall("generate_sql", time.Since(start), err == nil)
	if err != nil {
		return "", err
	}
	sqlText := stripMarkdownSQL(raw)
	if sqlText == "" {
		return "", fmt.Errorf("model returned empty SQL")
	}
	return sqlText, nil
}

func (s *Service) synthesizeAnswer(ctx context.Context, question, sqlText string, rowCount int, table string) (string, error) {
	if s.completer == nil {
		return "", fmt.Errorf("no language model is configured")
	}
	start := time.Now()
	answer, err := s.completer.Complete(ctx, llm.Request{
		System:    answerSystemPrompt,
		User:      answerUserPrompt(question, sqlText, rowCount, table),
		MaxTokens: s.maxTokens,
	})
	observability.ObserveLLMCall("synthesize_answer", time.Since(start), err == nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
