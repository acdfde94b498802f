package estoque

import (
	"context"
	"net/http"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
)

// ListEntries returns stock entries, optionally filtered by supplier search.
func (c *APIClient) ListEntries(ctx context.Context, search string) ([]models.StockEntry, error) {
	var out []models.StockEntry
	err := c.do(ctx, http.MethodGet, entriesPath, map[string]string{"search": search}, nil, &out)
	return out, err
}

// GetEntry returns one stock entry with its nested items.
func (c *APIClient) GetEntry(ctx context.Context, id int64) (models.StockEntry, error) {
	var out models.StockEntry
	err := c.do(ctx, http.MethodGet, itemPath(entriesPath, id), nil, nil, &out)
	return out, err
}

// CreateEntry posts a new stock entry.
func (c *APIClient) CreateEntry(ctx context.Context, payload models.EntryPayload) (models.StockEntry, error) {
	var out models.StockEntry
	err := c.do(ctx, http.MethodPost, entriesPath, nil, payload, &out)
	return out, err
}

// UpdateEntry replaces an existing stock entry.
func (c *APIClient) UpdateEntry(ctx context.Context, id int64, payload models.EntryPayload) (models.StockEntry, error) {
	var out models.StockEntry
	err := c.do(ctx, http.MethodPut, itemPath(entriesPath, id), nil, payload, &out)
	return out, err
}

// DeleteEntry removes a stock entry.
func (c *APIClient) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(entriesPath, id), nil, nil, nil)
}

func (c *APIClient) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	var out []models.Product
	err := c.do(ctx, http.MethodGet, productsPath, map[string]string{"s": search}, nil, &out)
	return out, err
}

func (c *APIClient) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodGet, itemPath(productsPath, id), nil, nil, &out)
	return out, err
}

func (c *APIClient) CreateProduct(ctx context.Context, payload models.ProductPayload) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPost, productsPath, nil, payload, &out)
	return out, err
}

func (c *APIClient) UpdateProduct(ctx context.Context, id int64, payload models.ProductPayload) (models.Product, error) {
	var out models.Product
	err := c.do(ctx, http.MethodPut, itemPath(productsPath, id), nil, payload, &out)
	return out, err
}

func (c *APIClient) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(productsPath, id), nil, nil, nil)
}

func (c *APIClient) ListCompanies(ctx context.Context, search string) ([]models.Company, error) {
	var out []models.Company
	err := c.do(ctx, http.MethodGet, companiesPath, map[string]string{"s": search}, nil, &out)
	return out, err
}

func (c *APIClient) GetCompany(ctx context.Context, id int64) (models.Company, error) {
	var out models.Company
	err := c.do(ctx, http.MethodGet, itemPath(companiesPath, id), nil, nil, &out)
	return out, err
}

func (c *APIClient) CreateCompany(ctx context.Context, payload models.CompanyPayload) (models.Company, error) {
	var out models.Company
	err := c.do(ctx, http.MethodPost, companiesPath, nil, payload, &out)
	return out, err
}

func (c *APIClient) UpdateCompany(ctx context.Context, id int64, payload models.CompanyPayload) (models.Company, error) {
	var out models.Company
	err := c.do(ctx, http.MethodPut, itemPath(companiesPath, id), nil, payload, &out)
	return out, err
}

func (c *APIClient) DeleteCompany(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(companiesPath, id), nil, nil, nil)
}

func (c *APIClient) ListProductTypes(ctx context.Context, search string) ([]models.ProductType, error) {
	var out []models.ProductType
	err := c.do(ctx, http.MethodGet, productTypesPath, map[string]string{"s": search}, nil, &out)
	return out, err
}

func (c *APIClient) GetProductType(ctx context.Context, id int64) (models.ProductType, error) {
	var out models.ProductType
	err := c.do(ctx, http.MethodGet, itemPath(productTypesPath, id), nil, nil, &out)
	return out, err
}

func (c *APIClient) CreateProductType(ctx context.Context, payload models.ProductTypePayload) (models.ProductType, error) {
	var out models.ProductType
	err := c.do(ctx, http.MethodPost, productTypesPath, nil, payload, &out)
	return out, err
}

func (c *APIClient) UpdateProductType(ctx context.Context, id int64, payload models.ProductTypePayload) (models.ProductType, error) {
	var out models.ProductType
	err := c.do(ctx, http.MethodPut, itemPath(productTypesPath, id), nil, payload, &out)
	return out, err
}

func (c *APIClient) DeleteProductType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, itemPath(productTypesPath, id), nil, nil, nil)
}
