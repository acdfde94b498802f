package estoque

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/estoque-admin/internal/config"
	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/session"
)

const (
	loginPath        = "/v1/login/"
	entriesPath      = "/v1/estoque/entradas-estoque/"
	productsPath     = "/v1/produtos/"
	companiesPath    = "/v1/empresas/"
	productTypesPath = "/v1/product-types/"
)

// APIClient is a resty-backed client of the stock backend. Every request
// carries the bearer token of the session it was built with, if any.
type APIClient struct {
	httpClient *resty.Client
	session    *session.Session
}

// NewClient builds a backend client using the provided configuration values.
func NewClient(cfg config.APIConfig, sess *session.Session) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	c := &APIClient{httpClient: restyClient, session: sess}
	restyClient.OnBeforeRequest(c.authorize)
	return c
}

// Session returns the session attached to the client.
func (c *APIClient) Session() *session.Session { return c.session }

// authorize reads the token at send time so a login or logout performed after
// the client was built is honored by the next request.
func (c *APIClient) authorize(_ *resty.Client, req *resty.Request) error {
	if token := c.session.Token(); token != "" {
		req.SetHeader("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return nil
}

// Login exchanges credentials for an access token. It does not establish the
// session; the caller decides where the token goes.
func (c *APIClient) Login(ctx context.Context, username, password string) (models.LoginResponse, error) {
	var out models.LoginResponse
	err := c.do(ctx, http.MethodPost, loginPath, nil, models.LoginRequest{Username: username, Password: password}, &out)
	if err != nil {
		return models.LoginResponse{}, err
	}
	if out.AccessToken == "" {
		return models.LoginResponse{}, fmt.Errorf("login: response carried no access token")
	}
	return out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, query map[string]string, body, result any) error {
	req := c.httpClient.R().SetContext(ctx)
	for key, value := range query {
		if value != "" {
			req.SetQueryParam(key, value)
		}
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	return nil
}

func itemPath(collection string, id int64) string {
	return fmt.Sprintf("%s%d/", collection, id)
}
