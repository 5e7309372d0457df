package api

import (
	"net/http"

	"github.com/creditbench/creditbench/internal/schema"
)

func handleSchema(deps Dependencies, w http.ResponseWriter, _ *http.Request) {
	descriptor := deps.Schema
	if descriptor.Version == "" {
		descriptor = schema.Default()
	}
	writeJSON(w, http.StatusOK, descriptor)
}
