package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	goption "google.golang.org/api/option"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing spreadsheet ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "id", CredentialsFile: "/does/not/exist.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestYearPrefixedName(t *testing.T) {
	cases := []struct {
		base string
		want string
	}{
		{"Export", "2024 Export"},
		{" Export ", "2024 Export"},
		{"2023 Export", "2023 Export"},
		{"1800 Export", "2024 1800 Export"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := yearPrefixedName(tc.base, 2024); got != tc.want {
			t.Fatalf("yearPrefixedName(%q) = %q, want %q", tc.base, got, tc.want)
		}
	}
}

func TestWriteRows_NilService(t *testing.T) {
	c := &Client{spreadsheetID: "test", sheetBase: "Export", now: time.Now}
	if _, err := c.WriteRows(context.Background(), []string{"h"}, slices.Values([][]string(nil))); err == nil {
		t.Fatal("expected error without service")
	}
}

func TestWriteRows_ClearsThenUpdates(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		body  struct {
			Values [][]string `json:"values"`
		}
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, r.Method)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
			io.WriteString(w, `{"spreadsheetId":"sheet-id"}`)
		case r.Method == http.MethodPut:
			if got := r.URL.Query().Get("valueInputOption"); got != "RAW" {
				t.Errorf("unexpected valueInputOption %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Errorf("decode body: %v", err)
			}
			io.WriteString(w, `{"spreadsheetId":"sheet-id","updatedRange":"'2024 Export'!A1:E3"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(context.Background(), Config{SpreadsheetID: "sheet-id", SheetName: "Export"},
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	c.now = func() time.Time { return time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC) }

	rows := [][]string{
		{"expense", "Bus", "4.4", "Transporte", "09/03/2024"},
		{"income", "Salary", "2000", "Salário", "10/03/2024"},
	}
	ref, err := c.WriteRows(context.Background(), []string{"Tipo", "Descrição", "Valor", "Categoria", "Data"}, slices.Values(rows))
	if err != nil {
		t.Fatalf("write rows: %v", err)
	}
	if ref != "'2024 Export'!A1:E3" {
		t.Fatalf("unexpected ref %q", ref)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(calls, []string{http.MethodPost, http.MethodPut}) {
		t.Fatalf("expected clear then update, got %v", calls)
	}
	if len(body.Values) != 3 || body.Values[0][0] != "Tipo" || body.Values[2][1] != "Salary" {
		t.Fatalf("unexpected values: %v", body.Values)
	}
}
