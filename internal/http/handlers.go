package http

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/export"
	applog "fintrack/internal/log"
	"fintrack/internal/report"
)

type stateResponse struct {
	core.Snapshot
	Revision uint64 `json:"revision"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, stateResponse{
		Snapshot: s.ledger.Snapshot(),
		Revision: s.ledger.Revision(),
	})
}

// displayTotals carries the totals rendered for the configured locale.
type displayTotals struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Balance string `json:"balance"`
}

type dashboardResponse struct {
	report.Dashboard
	Display displayTotals `json:"display"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	m, err := parseMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	d, hit := s.dashboards.Get(m)
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}

	writeJSON(w, r, http.StatusOK, dashboardResponse{
		Dashboard: d,
		Display: displayTotals{
			Income:  s.formatter.Money(d.Totals.Income),
			Expense: s.formatter.Money(d.Totals.Expense),
			Balance: s.formatter.Money(d.Totals.Balance),
		},
	})
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	draft, err := req.draft()
	if err != nil {
		writeError(w, r, err)
		return
	}

	t, added, err := s.ledger.AddTransaction(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !added {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, r, http.StatusCreated, t)
}

func (s *Server) handleReplaceTransactions(w http.ResponseWriter, r *http.Request) {
	var txns []core.Transaction
	if err := decodeJSON(w, r, &txns); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.ReplaceTransactions(r.Context(), txns); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"count": len(txns)})
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.AddCategory(r.Context(), req.Name); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string][]string{"categories": s.ledger.Snapshot().Categories})
}

func (s *Server) handleSetGoal(w http.ResponseWriter, r *http.Request) {
	category, err := pathParam(r, "category")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.ledger.SetGoal(r.Context(), category, string(req.Value)); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]core.Goals{"goals": s.ledger.Snapshot().Goals})
}

// pathParam returns a decoded URL parameter. chi routes on RawPath when the
// request carries escapes such as %2F, and the captured segment is then still
// encoded.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	decoded, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", errBadRequest, key, err)
	}
	return decoded, nil
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	m, err := parseMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txns := report.FilterByMonth(s.ledger.Snapshot().Transactions, m)

	// Render fully before writing so a failure can still become a 500.
	var buf bytes.Buffer
	n, err := export.WriteCSV(&buf, report.ExportRows(txns, s.formatter))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	applog.FromContext(r.Context()).WithComponent(applog.ComponentExport).InfoContext(r.Context(), "CSV exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldMonth, m.String(),
		applog.FieldTransactions, n)
}

type sheetsExportResponse struct {
	Range string `json:"range"`
	Rows  int    `json:"rows"`
}

func (s *Server) handleExportSheets(w http.ResponseWriter, r *http.Request) {
	m, err := parseMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	txns := report.FilterByMonth(s.ledger.Snapshot().Transactions, m)

	logger := applog.FromContext(r.Context()).WithComponent(applog.ComponentSheets)
	ref, err := s.exporter.WriteRows(r.Context(), export.Header, report.ExportRows(txns, s.formatter))
	if err != nil {
		logger.ErrorContext(r.Context(), "Sheets export failed",
			applog.FieldOperation, applog.OpExport, applog.FieldError, err)
		writeJSON(w, r, http.StatusBadGateway, errorBody{Error: "sheets export failed"})
		return
	}

	logger.InfoContext(r.Context(), "Sheets export written",
		applog.FieldOperation, applog.OpExport,
		applog.FieldMonth, m.String(),
		applog.FieldSheetsRef, ref,
		applog.FieldTransactions, len(txns))
	writeJSON(w, r, http.StatusOK, sheetsExportResponse{Range: ref, Rows: len(txns)})
}
