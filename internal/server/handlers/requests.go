package handlers

import (
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/regosbridge/regosbridge/internal/errors"
	"github.com/regosbridge/regosbridge/internal/regos"
	"github.com/regosbridge/regosbridge/internal/store"
)

// RequestLogHandlers serves the dispatch request log.
type RequestLogHandlers struct {
	Store *store.Store
}

type requestLogResponse struct {
	Requests []regos.RequestRecord `json:"requests"`
	Count    int                   `json:"count"`
}

// List handles GET /api/v1/requests.
func (h *RequestLogHandlers) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		respondError(w, r, apperrors.NewInternalError("request log store is not configured"))
		return
	}

	query := r.URL.Query()
	filter := store.RequestLogFilter{
		Credential: query.Get("credential"),
		Endpoint:   query.Get("endpoint"),
		Kind:       regos.Kind(query.Get("outcome")),
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondError(w, r, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		filter.Limit = limit
	}

	if raw := query.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(w, r, apperrors.NewValidationError("since must be RFC3339"))
			return
		}
		filter.Since = since
	}

	records, err := h.Store.ListRequests(r.Context(), filter)
	if err != nil {
		respondError(w, r, apperrors.WrapDatabaseError(r.Context(), err, "failed to read request log"))
		return
	}

	respondJSON(w, http.StatusOK, requestLogResponse{Requests: records, Count: len(records)})
}
