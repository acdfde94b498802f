package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
)

var (
	// ErrRecordUnavailable is returned when a record opened for editing cannot
	// be loaded. Callers go back to the list.
	ErrRecordUnavailable = errors.New("catalog: record unavailable")
)

// ValidationError lists required fields left empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "catalog: required fields missing: " + strings.Join(e.Fields, ", ")
}

// Backend is the catalog part of the REST API.
type Backend interface {
	ListCompanies(ctx context.Context, search string) ([]models.Company, error)
	GetCompany(ctx context.Context, id int64) (models.Company, error)
	CreateCompany(ctx context.Context, payload models.CompanyPayload) (models.Company, error)
	UpdateCompany(ctx context.Context, id int64, payload models.CompanyPayload) (models.Company, error)
	DeleteCompany(ctx context.Context, id int64) error

	ListProductTypes(ctx context.Context, search string) ([]models.ProductType, error)
	GetProductType(ctx context.Context, id int64) (models.ProductType, error)
	CreateProductType(ctx context.Context, payload models.ProductTypePayload) (models.ProductType, error)
	UpdateProductType(ctx context.Context, id int64, payload models.ProductTypePayload) (models.ProductType, error)
	DeleteProductType(ctx context.Context, id int64) error

	ListProducts(ctx context.Context, search string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)
	CreateProduct(ctx context.Context, payload models.ProductPayload) (models.Product, error)
	UpdateProduct(ctx context.Context, id int64, payload models.ProductPayload) (models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Service loads and saves catalog records through form drafts.
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// NewService creates a catalog service.
func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{backend: backend, logger: logger}
}

// CompanyDraft is the editable form of a company.
type CompanyDraft struct {
	ID       int64
	Name     string
	CNPJ     string
	IsActive bool
}

// Payload returns the body sent to the backend.
func (d CompanyDraft) Payload() models.CompanyPayload {
	return models.CompanyPayload{Name: strings.TrimSpace(d.Name), CNPJ: strings.TrimSpace(d.CNPJ), IsActive: d.IsActive}
}

func (s *Service) ListCompanies(ctx context.Context, search string) ([]models.Company, error) {
	return s.backend.ListCompanies(ctx, search)
}

func (s *Service) GetCompany(ctx context.Context, id int64) (models.Company, error) {
	return s.backend.GetCompany(ctx, id)
}

// LoadCompany returns the draft for id, or a new active company when id is 0.
func (s *Service) LoadCompany(ctx context.Context, id int64) (CompanyDraft, error) {
	if id == 0 {
		return CompanyDraft{IsActive: true}, nil
	}
	company, err := s.backend.GetCompany(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load company", zap.Int64("company_id", id), zap.Error(err))
		return CompanyDraft{}, fmt.Errorf("%w: company %d: %w", ErrRecordUnavailable, id, err)
	}
	return CompanyDraft{ID: company.ID, Name: company.Name, CNPJ: company.CNPJ, IsActive: company.IsActive}, nil
}

// SaveCompany creates or updates the company.
func (s *Service) SaveCompany(ctx context.Context, d CompanyDraft) (models.Company, error) {
	payload := d.Payload()
	if payload.Name == "" {
		return models.Company{}, &ValidationError{Fields: []string{"nome"}}
	}
	if d.ID == 0 {
		return s.backend.CreateCompany(ctx, payload)
	}
	return s.backend.UpdateCompany(ctx, d.ID, payload)
}

func (s *Service) DeleteCompany(ctx context.Context, id int64) error {
	return s.backend.DeleteCompany(ctx, id)
}

// ProductTypeDraft is the editable form of a product type.
type ProductTypeDraft struct {
	ID   int64
	Name string
}

func (d ProductTypeDraft) Payload() models.ProductTypePayload {
	return models.ProductTypePayload{Name: strings.TrimSpace(d.Name)}
}

func (s *Service) ListProductTypes(ctx context.Context, search string) ([]models.ProductType, error) {
	return s.backend.ListProductTypes(ctx, search)
}

func (s *Service) GetProductType(ctx context.Context, id int64) (models.ProductType, error) {
	return s.backend.GetProductType(ctx, id)
}

// LoadProductType returns the draft for id, or an empty one when id is 0.
func (s *Service) LoadProductType(ctx context.Context, id int64) (ProductTypeDraft, error) {
	if id == 0 {
		return ProductTypeDraft{}, nil
	}
	pt, err := s.backend.GetProductType(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load product type", zap.Int64("product_type_id", id), zap.Error(err))
		return ProductTypeDraft{}, fmt.Errorf("%w: product type %d: %w", ErrRecordUnavailable, id, err)
	}
	return ProductTypeDraft{ID: pt.ID, Name: pt.Name}, nil
}

func (s *Service) SaveProductType(ctx context.Context, d ProductTypeDraft) (models.ProductType, error) {
	payload := d.Payload()
	if payload.Name == "" {
		return models.ProductType{}, &ValidationError{Fields: []string{"nome"}}
	}
	if d.ID == 0 {
		return s.backend.CreateProductType(ctx, payload)
	}
	return s.backend.UpdateProductType(ctx, d.ID, payload)
}

func (s *Service) DeleteProductType(ctx context.Context, id int64) error {
	return s.backend.DeleteProductType(ctx, id)
}

// ProductDraft is the editable form of a product.
type ProductDraft struct {
	ID            int64
	Name          string
	Code          string
	Perishable    bool
	ExpiryDate    models.Date
	CompanyID     int64
	ProductTypeID int64
	Status        string
	ImageURL      string
}

// Payload returns the body sent to the backend. The expiry date is sent only
// for perishable products and the single image URL becomes a list.
func (d ProductDraft) Payload() models.ProductPayload {
	payload := models.ProductPayload{
		Name:        strings.TrimSpace(d.Name),
		Code:        strings.TrimSpace(d.Code),
		Perishable:  d.Perishable,
		Company:     d.CompanyID,
		ProductType: d.ProductTypeID,
		Status:      d.Status,
		Images:      []string{},
	}
	if d.Perishable {
		payload.ExpiryDate = d.ExpiryDate
	}
	if url := strings.TrimSpace(d.ImageURL); url != "" {
		payload.Images = []string{url}
	}
	return payload
}

// ProductOptions are the selectable companies and types of the product form.
// Err is set when they could not be loaded; the form stays usable.
type ProductOptions struct {
	Companies []models.Company
	Types     []models.ProductType
	Err       error
}

func (s *Service) ListProducts(ctx context.Context, search string) ([]models.Product, error) {
	return s.backend.ListProducts(ctx, search)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	return s.backend.GetProduct(ctx, id)
}

// LoadProduct returns the options and the draft for id (a new active product
// when id is 0). The detail endpoint names the company and type; they are
// resolved to ids against the options.
func (s *Service) LoadProduct(ctx context.Context, id int64) (ProductDraft, ProductOptions, error) {
	var opts ProductOptions
	companies, err := s.backend.ListCompanies(ctx, "")
	if err != nil {
		opts.Err = fmt.Errorf("load companies: %w", err)
	}
	types, err := s.backend.ListProductTypes(ctx, "")
	if err != nil && opts.Err == nil {
		opts.Err = fmt.Errorf("load product types: %w", err)
	}
	opts.Companies, opts.Types = companies, types
	if opts.Err != nil {
		s.logger.Warn("Product form options incomplete", zap.Error(opts.Err))
	}

	if id == 0 {
		return ProductDraft{Status: models.StatusActive}, opts, nil
	}

	product, err := s.backend.GetProduct(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to load product", zap.Int64("product_id", id), zap.Error(err))
		return ProductDraft{}, opts, fmt.Errorf("%w: product %d: %w", ErrRecordUnavailable, id, err)
	}

	draft := ProductDraft{
		ID:         product.ID,
		Name:       product.Name,
		Code:       product.Code,
		Perishable: product.Perishable,
		ExpiryDate: product.ExpiryDate,
		Status:     product.Status,
	}
	if len(product.Images) > 0 {
		draft.ImageURL = product.Images[0]
	}
	draft.CompanyID = resolveCompany(companies, product.Company)
	draft.ProductTypeID = resolveProductType(types, product.ProductType)
	return draft, opts, nil
}

// SaveProduct creates or updates the product.
func (s *Service) SaveProduct(ctx context.Context, d ProductDraft) (models.Product, error) {
	payload := d.Payload()
	var missing []string
	if payload.Name == "" {
		missing = append(missing, "nome")
	}
	if payload.Company == 0 {
		missing = append(missing, "empresa")
	}
	if payload.ProductType == 0 {
		missing = append(missing, "product_type")
	}
	if payload.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return models.Product{}, &ValidationError{Fields: missing}
	}

	if d.ID == 0 {
		return s.backend.CreateProduct(ctx, payload)
	}
	return s.backend.UpdateProduct(ctx, d.ID, payload)
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	return s.backend.DeleteProduct(ctx, id)
}

// ErrorMessage picks the text shown for a failed save: the server's message
// for field, else its detail, else fallback. Non-API errors use their text.
func ErrorMessage(err error, field, fallback string) string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return "Campos obrigatórios: " + strings.Join(validationErr.Fields, ", ")
	}
	var apiErr *estoque.APIError
	if !errors.As(err, &apiErr) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	if field != "" {
		if msg := apiErr.FieldMessage(field); msg != "" {
			return msg
		}
	}
	if apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

func resolveCompany(companies []models.Company, ref models.Ref) int64 {
	for _, c := range companies {
		if c.Name == string(ref) {
			return c.ID
		}
	}
	id, _ := strconv.ParseInt(string(ref), 10, 64)
	for _, c := range companies {
		if c.ID == id {
			return c.ID
		}
	}
	return 0
}

func resolveProductType(types []models.ProductType, ref models.Ref) int64 {
	for _, t := range types {
		if t.Name == string(ref) {
			return t.ID
		}
	}
	id, _ := strconv.ParseInt(string(ref), 10, 64)
	for _, t := range types {
		if t.ID == id {
			return t.ID
		}
	}
	return 0
}
