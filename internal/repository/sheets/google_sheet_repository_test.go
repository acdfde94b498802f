package sheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/estoque-admin/internal/config"
)

func TestWriteRowsClearsThenUpdates(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
		sent  sheetsapi.ValueRange
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		if strings.HasSuffix(r.URL.Path, ":clear") {
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{}`)
			return
		}
		_ = json.Unmarshal(body, &sent)
		if got := r.URL.Query().Get("valueInputOption"); got != "USER_ENTERED" {
			t.Errorf("valueInputOption = %q", got)
		}
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	service, err := sheetsapi.NewService(context.Background(), option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	repo := newRepository(service, config.SheetsConfig{SpreadsheetID: "sheet-1", Range: "Entradas!A1"}, nil)

	rows := [][]interface{}{{"ID", "Fornecedor"}, {float64(1), "Sul"}}
	if err := repo.WriteRows(context.Background(), rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}

	want := []string{
		"POST /v4/spreadsheets/sheet-1/values/Entradas!A1:clear",
		"PUT /v4/spreadsheets/sheet-1/values/Entradas!A1",
	}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(rows, sent.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceRowsRequiresRange(t *testing.T) {
	repo := newRepository(nil, config.SheetsConfig{}, nil)
	if err := repo.ReplaceRows(context.Background(), "", nil); err == nil {
		t.Fatalf("expected error for empty range")
	}
}
