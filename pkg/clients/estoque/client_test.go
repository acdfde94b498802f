package estoque

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/estoque-admin/internal/config"
	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/session"
)

type recorded struct {
	method string
	path   string
	query  string
	auth   string
	hasKey bool
	body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) at(i int) recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[i]
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, hasKey := r.Header["Authorization"]
		rec.mu.Lock()
		defer rec.mu.Unlock()
		rec.calls = append(rec.calls, recorded{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			hasKey: hasKey,
			body:   string(body),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newTestClient(t *testing.T, baseURL, token string) *APIClient {
	t.Helper()
	sess, err := session.Open(session.NewMemoryStore(token))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return NewClient(config.APIConfig{BaseURL: baseURL + "/", Timeout: 5 * time.Second}, sess)
}

func TestRequestWithoutTokenHasNoAuthorizationHeader(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `[]`)
	client := newTestClient(t, srv.URL, "")

	if _, err := client.ListProducts(context.Background(), ""); err != nil {
		t.Fatalf("list products: %v", err)
	}

	if calls.len() != 1 {
		t.Fatalf("calls = %d", calls.len())
	}
	if calls.at(0).hasKey {
		t.Fatalf("authorization header must be absent, got %q", calls.at(0).auth)
	}
}

func TestRequestWithTokenCarriesBearer(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `[]`)
	client := newTestClient(t, srv.URL, "abc")

	if _, err := client.ListEntries(context.Background(), "sul"); err != nil {
		t.Fatalf("list entries: %v", err)
	}

	got := calls.at(0)
	if got.auth != "Bearer abc" {
		t.Fatalf("authorization = %q, want %q", got.auth, "Bearer abc")
	}
	if got.path != "/v1/estoque/entradas-estoque/" || got.query != "search=sul" {
		t.Fatalf("request = %s?%s", got.path, got.query)
	}
}

func TestTokenChangesAreSeenByLaterRequests(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `[]`)
	client := newTestClient(t, srv.URL, "")

	if err := client.Session().Establish("fresh"); err != nil {
		t.Fatalf("establish: %v", err)
	}
	if _, err := client.ListCompanies(context.Background(), ""); err != nil {
		t.Fatalf("list companies: %v", err)
	}
	if err := client.Session().TearDown(); err != nil {
		t.Fatalf("teardown: %v", err)
	}
	if _, err := client.ListCompanies(context.Background(), ""); err != nil {
		t.Fatalf("list companies: %v", err)
	}

	if calls.at(0).auth != "Bearer fresh" {
		t.Fatalf("first call auth = %q", calls.at(0).auth)
	}
	if calls.at(1).hasKey {
		t.Fatalf("second call should be unauthenticated")
	}
	if calls.at(0).query != "" {
		t.Fatalf("empty search must not be sent, got %q", calls.at(0).query)
	}
}

func TestCreateEntrySendsPayload(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusCreated, `{"id": 41, "fornecedor": "Sul", "valor_compra_total": "10", "valor_frete": "0", "itens": []}`)
	client := newTestClient(t, srv.URL, "abc")

	payload := models.EntryPayload{
		Supplier:           "Sul",
		TotalPurchaseValue: decimal.RequireFromString("10"),
		FreightValue:       decimal.Zero,
		Items:              []models.EntryItemPayload{},
	}
	saved, err := client.CreateEntry(context.Background(), payload)
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	if saved.ID != 41 {
		t.Fatalf("saved id = %d", saved.ID)
	}

	got := calls.at(0)
	if got.method != http.MethodPost || got.path != "/v1/estoque/entradas-estoque/" {
		t.Fatalf("request = %s %s", got.method, got.path)
	}
	var sent map[string]any
	if err := json.Unmarshal([]byte(got.body), &sent); err != nil {
		t.Fatalf("decode sent body: %v", err)
	}
	want := map[string]any{
		"fornecedor":         "Sul",
		"data_compra":        nil,
		"valor_compra_total": "10",
		"valor_frete":        "0",
		"itens":              []any{},
	}
	if diff := cmp.Diff(want, sent); diff != "" {
		t.Fatalf("sent body mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateAndDeleteAddressByID(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"id": 9}`)
	client := newTestClient(t, srv.URL, "")

	if _, err := client.UpdateProduct(context.Background(), 9, models.ProductPayload{Name: "Arroz"}); err != nil {
		t.Fatalf("update product: %v", err)
	}
	if err := client.DeleteProductType(context.Background(), 3); err != nil {
		t.Fatalf("delete product type: %v", err)
	}

	if got := calls.at(0); got.method != http.MethodPut || got.path != "/v1/produtos/9/" {
		t.Fatalf("update request = %s %s", got.method, got.path)
	}
	if got := calls.at(1); got.method != http.MethodDelete || got.path != "/v1/product-types/3/" {
		t.Fatalf("delete request = %s %s", got.method, got.path)
	}
}

func TestErrorPayloadIsDecoded(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"nome": ["Este campo é obrigatório."], "itens": [{"quantidade": ["invalid"]}]}`)
	client := newTestClient(t, srv.URL, "")

	_, err := client.CreateCompany(context.Background(), models.CompanyPayload{})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", apiErr.StatusCode)
	}
	if got := apiErr.FieldMessage("nome"); got != "Este campo é obrigatório." {
		t.Fatalf("nome message = %q", got)
	}
	if diff := cmp.Diff([]string{"itens", "nome"}, apiErr.FieldNames()); diff != "" {
		t.Fatalf("field names mismatch (-want +got):\n%s", diff)
	}
	if apiErr.Detail != "" {
		t.Fatalf("unexpected detail %q", apiErr.Detail)
	}
	if apiErr.Message() == "" {
		t.Fatalf("message must fall back to the body")
	}
}

func TestDetailAndNotFound(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusNotFound, `{"detail": "Não encontrado."}`)
	client := newTestClient(t, srv.URL, "")

	_, err := client.GetEntry(context.Background(), 77)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message() != "Não encontrado." {
		t.Fatalf("message = %v", err)
	}
}

func TestLogin(t *testing.T) {
	srv, calls := newTestServer(t, http.StatusOK, `{"access_token": "tok-1", "token_type": "bearer"}`)
	client := newTestClient(t, srv.URL, "")

	resp, err := client.Login(context.Background(), "ana", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.AccessToken != "tok-1" {
		t.Fatalf("token = %q", resp.AccessToken)
	}
	got := calls.at(0)
	if got.path != "/v1/login/" {
		t.Fatalf("login path = %s", got.path)
	}
	var creds models.LoginRequest
	if err := json.Unmarshal([]byte(got.body), &creds); err != nil {
		t.Fatalf("decode login body: %v", err)
	}
	if diff := cmp.Diff(models.LoginRequest{Username: "ana", Password: "secret"}, creds); diff != "" {
		t.Fatalf("login body mismatch (-want +got):\n%s", diff)
	}
	if client.Session().Authenticated() {
		t.Fatalf("login must not establish the session by itself")
	}
}

func TestLoginWithoutTokenFails(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	client := newTestClient(t, srv.URL, "")

	if _, err := client.Login(context.Background(), "ana", "secret"); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestUnauthorized(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusUnauthorized, `{"detail": "Token inválido"}`)
	client := newTestClient(t, srv.URL, "bad")

	_, err := client.ListProducts(context.Background(), "")
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if StatusCode(errors.New("plain")) != 0 {
		t.Fatalf("plain errors have no status")
	}
}
