package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/regosbridge/regosbridge/internal/dates"
	apperrors "github.com/regosbridge/regosbridge/internal/errors"
	"github.com/regosbridge/regosbridge/internal/format"
	"github.com/regosbridge/regosbridge/internal/i18n"
	"github.com/regosbridge/regosbridge/internal/regos"
	"github.com/regosbridge/regosbridge/internal/regos/reports"
	"github.com/regosbridge/regosbridge/internal/store"
)

// ReportHandlers serves the report endpoints.
type ReportHandlers struct {
	Reports    *reports.Service
	Translator *i18n.Translator
	Store      *store.Store
	Credential string
	Lang       string
	Clock      func() time.Time
}

// View selects how a report is rendered in the response.
type View string

const (
	ViewMessages View = "messages"
	ViewTables   View = "tables"
	ViewRaw      View = "raw"
)

type balanceRequest struct {
	PartnerID   int    `json:"partner_id"`
	FirmID      int    `json:"firm_id"`
	Period      string `json:"period,omitempty"`
	Range       string `json:"range,omitempty"`
	Lang        string `json:"lang,omitempty"`
	View        View   `json:"view,omitempty"`
	NewestFirst bool   `json:"newest_first,omitempty"`
	Totals      bool   `json:"totals,omitempty"`
}

type balanceResponse struct {
	View     View                       `json:"view"`
	Messages []string                   `json:"messages,omitempty"`
	Rendered string                     `json:"rendered,omitempty"`
	Rows     []reports.BalanceOperation `json:"rows,omitempty"`
}

// PartnerBalance handles POST /api/v1/reports/partner-balance.
func (h *ReportHandlers) PartnerBalance(w http.ResponseWriter, r *http.Request) {
	var req balanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid request body"))
		return
	}
	if req.PartnerID <= 0 {
		respondError(w, r, apperrors.NewValidationError("partner_id is required"))
		return
	}

	window, err := h.resolveWindow(req.Period, req.Range)
	if err != nil {
		respondError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid report period"))
		return
	}

	rows, err := h.Reports.PartnerBalance(r.Context(), h.Credential, reports.BalanceParams{
		PartnerID: req.PartnerID,
		FirmID:    req.FirmID,
		Range:     window,
	})
	if err != nil {
		respondError(w, r, apperrors.FromDispatchError(r.Context(), err))
		return
	}

	h.snapshot(r.Context(), "partner_balance", req.PartnerID, window, rows)

	lang := h.lang(req.Lang)
	resp := balanceResponse{View: h.view(req.View)}
	switch resp.View {
	case ViewRaw:
		resp.Rows = rows
	case ViewTables:
		if req.Totals {
			resp.Rendered = format.TotalTables(rows, h.Translator, lang)
		} else {
			resp.Rendered = format.BalanceTables(rows, h.Translator, format.BalanceOptions{Lang: lang, NewestFirst: req.NewestFirst})
		}
	default:
		if req.Totals {
			resp.Messages = format.TotalMessages(rows, h.Translator, lang)
		} else {
			resp.Messages = format.BalanceMessages(rows, h.Translator, format.BalanceOptions{Lang: lang, NewestFirst: req.NewestFirst})
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

type stockRequest struct {
	PartnerID     int    `json:"partner_id"`
	OperationType string `json:"operation_type"`
	ValueKind     string `json:"value_kind,omitempty"`
	Period        string `json:"period,omitempty"`
	Range         string `json:"range,omitempty"`
	Lang          string `json:"lang,omitempty"`
	View          View   `json:"view,omitempty"`
}

type stockResponse struct {
	View     View                           `json:"view"`
	Messages []string                       `json:"messages,omitempty"`
	Totals   format.StockTotals             `json:"totals"`
	Report   *reports.StockOperationsReport `json:"report,omitempty"`
}

// StockOperations handles POST /api/v1/reports/stock-operations.
func (h *ReportHandlers) StockOperations(w http.ResponseWriter, r *http.Request) {
	var req stockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid request body"))
		return
	}
	if req.PartnerID <= 0 {
		respondError(w, r, apperrors.NewValidationError("partner_id is required"))
		return
	}

	kind := format.ValueKind(req.ValueKind)
	if req.ValueKind == "" {
		kind = format.ValueCost
	}
	if !kind.Valid() {
		respondError(w, r, apperrors.NewValidationError("value_kind must be cost or price"))
		return
	}

	window, err := h.resolveWindow(req.Period, req.Range)
	if err != nil {
		respondError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid report period"))
		return
	}

	report, err := h.Reports.PartnerStockOperations(r.Context(), h.Credential, reports.StockParams{
		PartnerID:     req.PartnerID,
		OperationType: req.OperationType,
		Range:         window,
	})
	if err != nil {
		respondError(w, r, apperrors.FromDispatchError(r.Context(), err))
		return
	}

	h.snapshot(r.Context(), "stock_operations", req.PartnerID, window, report)

	lang := h.lang(req.Lang)
	resp := stockResponse{View: h.view(req.View)}
	if resp.View == ViewRaw {
		resp.Report = report
		_, totals, _ := format.StockMessages(report, h.Translator, lang, kind)
		resp.Totals = totals
	} else {
		messages, totals, err := format.StockMessages(report, h.Translator, lang, kind)
		if err != nil {
			respondError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid value kind"))
			return
		}
		resp.Messages = messages
		resp.Totals = totals
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *ReportHandlers) resolveWindow(period, rawRange string) (dates.Range, error) {
	now := time.Now()
	if h.Clock != nil {
		now = h.Clock()
	}
	if strings.TrimSpace(period) != "" {
		return dates.Period(period).Resolve(now)
	}
	return dates.ParseRange(rawRange, now)
}

func (h *ReportHandlers) lang(requested string) string {
	if requested != "" && h.Translator.Has(requested) {
		return requested
	}
	if h.Lang != "" {
		return h.Lang
	}
	return i18n.DefaultLanguage
}

func (h *ReportHandlers) view(v View) View {
	switch v {
	case ViewTables, ViewRaw:
		return v
	default:
		return ViewMessages
	}
}

// snapshot caches the raw payload keyed by its query window. Failures are
// logged upstream via the store; they never fail the request.
func (h *ReportHandlers) snapshot(ctx context.Context, report string, partnerID int, window dates.Range, payload any) {
	if h.Store == nil {
		return
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return
	}
	start, end := window.Unix()
	_ = h.Store.SaveSnapshot(ctx, store.Snapshot{
		Credential: regos.Fingerprint(h.Credential),
		Report:     report,
		PartnerID:  partnerID,
		StartDate:  start,
		EndDate:    end,
		Payload:    encoded,
	})
}
