package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/cleared-dev/books/internal/logger"
	"github.com/cleared-dev/books/internal/recon"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/source"
)

type handlers struct {
	deps Dependencies
}

// snapshot fetches fresh books for the request. It writes the error
// response itself and returns nil on failure.
func (h *handlers) snapshot(w http.ResponseWriter, r *http.Request) *source.Snapshot {
	if h.deps.Source == nil {
		writeError(w, r, http.StatusServiceUnavailable, "source_unavailable", "no books configured")
		return nil
	}
	snap, err := h.deps.Source.Fetch(r.Context())
	if err != nil {
		logger.FromContext(r.Context()).Error("fetching books", zap.Error(err))
		var fe *source.DataFetchError
		if errors.As(err, &fe) {
			writeError(w, r, http.StatusBadGateway, "data_fetch_failed", err.Error())
			return nil
		}
		writeError(w, r, http.StatusInternalServerError, "internal_error", "fetching books failed")
		return nil
	}
	return snap
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(r *http.Request, name string) (time.Time, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM-DD, got %q", name, v)
	}
	return t, nil
}

func queryRange(r *http.Request) (from, to time.Time, err error) {
	if from, err = queryDate(r, "from"); err != nil {
		return
	}
	if to, err = queryDate(r, "to"); err != nil {
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		err = fmt.Errorf("from %s is after to %s", from.Format(dateLayout), to.Format(dateLayout))
	}
	return
}

func (h *handlers) trialBalance(w http.ResponseWriter, r *http.Request) {
	asOn, err := queryDate(r, "as_on")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	tb, err := report.TrialBalance(snap, asOn, h.deps.Options)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toTrialBalance(tb))
}

func (h *handlers) balanceSheet(w http.ResponseWriter, r *http.Request) {
	asOn, err := queryDate(r, "as_on")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	bs, err := report.BalanceSheet(snap, asOn, h.deps.Options)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toBalanceSheet(bs))
}

func (h *handlers) profitLoss(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	pl, err := report.ProfitLoss(snap, from, to, h.deps.Options)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toProfitLoss(pl))
}

func (h *handlers) ageing(w http.ResponseWriter, r *http.Request) {
	asOn, err := queryDate(r, "as_on")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	if asOn.IsZero() {
		asOn = time.Now().UTC().Truncate(24 * time.Hour)
	}
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, toAgeing(report.Ageing(snap, asOn)))
}

func (h *handlers) ledgerStatement(w http.ResponseWriter, r *http.Request) {
	from, to, err := queryRange(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	stmt, err := report.LedgerStatement(snap, chi.URLParam(r, "id"), from, to)
	if errors.Is(err, report.ErrUnknownLedger) {
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toStatement(stmt))
}

func (h *handlers) listSessions(w http.ResponseWriter, r *http.Request) {
	if !h.reconAvailable(w, r) {
		return
	}
	sessions, err := h.deps.Recon.Store().List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	out := make([]sessionJSON, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSession(s))
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": out})
}

func (h *handlers) getSession(w http.ResponseWriter, r *http.Request) {
	if !h.reconAvailable(w, r) {
		return
	}
	sess, err := h.deps.Recon.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSession(sess))
}

type setReconciledRequest struct {
	Reconciled      *bool `json:"reconciled"`
	ExpectedVersion int64 `json:"expected_version"`
}

func (h *handlers) setReconciled(w http.ResponseWriter, r *http.Request) {
	if !h.reconAvailable(w, r) {
		return
	}
	var req setReconciledRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	if req.Reconciled == nil {
		writeError(w, r, http.StatusBadRequest, "invalid_parameter", "reconciled is required")
		return
	}

	sess, err := h.deps.Recon.SetReconciled(r.Context(), recon.ToggleCommand{
		SessionID:       chi.URLParam(r, "id"),
		ItemID:          chi.URLParam(r, "itemID"),
		Reconciled:      *req.Reconciled,
		ExpectedVersion: req.ExpectedVersion,
	})
	if err != nil {
		writeReconError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSession(sess))
}

func (h *handlers) reconAvailable(w http.ResponseWriter, r *http.Request) bool {
	if h.deps.Recon == nil {
		writeError(w, r, http.StatusServiceUnavailable, "recon_unavailable", "reconciliation is not configured")
		return false
	}
	return true
}

func writeReconError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recon.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, recon.ErrConflict):
		writeError(w, r, http.StatusConflict, "conflict", err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
