package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/creditbench/creditbench/internal/auth"
	"github.com/creditbench/creditbench/internal/qa"
)

type queryRequest struct {
	SQL string `json:"sql"`
}

type queryResponse struct {
	SQL string `json:"sql"`
	qa.QueryResult
}

func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.QA == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "QUERY_NOT_CONFIGURED", "query execution is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleQueryRead); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var request queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid query request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(request.SQL) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REQUIRED", "sql is required", false, nil)
		return
	}

	result := deps.QA.ValidateAndExecute(r.Context(), request.SQL)
	status := http.StatusOK
	if result.Rejected {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, queryResponse{SQL: request.SQL, QueryResult: result})
}
