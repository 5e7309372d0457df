package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/creditbench/creditbench/internal/auth"
)

type askRequest struct {
	Question string `json:"question"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.QA == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QA_NOT_CONFIGURED", "question answering is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleQueryRead); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	if !deps.QA.GeneratorAvailable() {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "LLM_UNAVAILABLE", "no language model is configured", false, nil)
		return
	}

	question, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, deps.QA.Answer(r.Context(), question))
}

func handleCompanyAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.QA == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QA_NOT_CONFIGURED", "question answering is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleQueryRead); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}
	if !deps.QA.GeneratorAvailable() {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "LLM_UNAVAILABLE", "no language model is configured", false, nil)
		return
	}

	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number <= 0 {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_COMPANY_NUMBER", "company number must be a positive integer", false, nil)
		return
	}

	question, ok := decodeQuestion(w, r)
	if !ok {
		return
	}

	envelope, found, err := deps.QA.AnswerForCompany(r.Context(), number, question)
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "COMPANY_LOOKUP_FAILED", "failed to look up company", true, map[string]any{"details": err.Error()})
		return
	}
	if !found {
		writeError(r.Context(), w, http.StatusNotFound, "COMPANY_NOT_FOUND", "company was not found", false, map[string]any{"company_number": number})
		return
	}

	writeJSON(w, http.StatusOK, envelope)
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return "", false
	}
	question := strings.TrimSpace(request.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return "", false
	}
	return question, true
}
