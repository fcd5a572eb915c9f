package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/report"
)

const maxBodyBytes = 1 << 20

// errBadRequest marks request bodies or path parameters that could not be decoded.
var errBadRequest = errors.New("malformed request")

// decodeJSON reads a single JSON value from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON value", errBadRequest)
	}
	return nil
}

// amountText keeps the amount as typed. Clients may send "12,50" or 12.5.
type amountText string

func (a *amountText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*a = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountText(s)
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return fmt.Errorf("amount must be a string or number")
		}
		*a = amountText(strconv.FormatFloat(f, 'f', -1, 64))
	}
	return nil
}

type transactionRequest struct {
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Amount      amountText `json:"amount"`
	Category    string     `json:"category"`
}

// draft converts the request into a ledger draft. An empty type stays empty
// so the ledger applies its default.
func (req transactionRequest) draft() (*ledger.Draft, error) {
	d := &ledger.Draft{
		Description: req.Description,
		Amount:      string(req.Amount),
		Category:    req.Category,
	}
	if strings.TrimSpace(req.Type) != "" {
		k, err := core.ParseKind(req.Type)
		if err != nil {
			return nil, err
		}
		d.Kind = k
	}
	return d, nil
}

type categoryRequest struct {
	Name string `json:"name"`
}

type goalRequest struct {
	Value amountText `json:"value"`
}

// parseMonth reads the month query parameter; absent means all months.
func parseMonth(r *http.Request) (report.Month, error) {
	return report.ParseMonth(strings.TrimSpace(r.URL.Query().Get("month")))
}
