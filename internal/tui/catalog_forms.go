package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/service/catalog"
)

// CatalogForms prompts for company, product type and product records.
type CatalogForms struct {
	driver  PromptDriver
	service *catalog.Service
}

func NewCatalogForms(driver PromptDriver, service *catalog.Service) *CatalogForms {
	return &CatalogForms{driver: driver, service: service}
}

// Company creates (id 0) or edits a company.
func (f *CatalogForms) Company(ctx context.Context, id int64) (models.Company, error) {
	draft, err := f.service.LoadCompany(ctx, id)
	if err != nil {
		_ = f.driver.Info(ctx, "Erro ao carregar dados da empresa. O registro pode não existir.")
		return models.Company{}, err
	}

	for {
		if draft.Name, err = f.driver.Input(ctx, InputConfig{Message: "Nome", Default: draft.Name, Validator: required}); err != nil {
			return models.Company{}, err
		}
		if draft.CNPJ, err = f.driver.Input(ctx, InputConfig{Message: "CNPJ", Default: draft.CNPJ}); err != nil {
			return models.Company{}, err
		}
		statusIdx := 1
		if draft.IsActive {
			statusIdx = 0
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: "Status", Options: []string{"Ativo", "Inativo"}, DefaultIndex: statusIdx})
		if err != nil {
			return models.Company{}, err
		}
		draft.IsActive = idx == 0

		saved, err := f.service.SaveCompany(ctx, draft)
		if err == nil {
			return saved, f.driver.Info(ctx, fmt.Sprintf("Empresa #%d salva.", saved.ID))
		}
		if retry, infoErr := f.retry(ctx, err, "nome", "Erro ao salvar empresa."); !retry {
			return models.Company{}, errors.Join(err, infoErr)
		}
	}
}

// ProductType creates (id 0) or edits a product type.
func (f *CatalogForms) ProductType(ctx context.Context, id int64) (models.ProductType, error) {
	draft, err := f.service.LoadProductType(ctx, id)
	if err != nil {
		_ = f.driver.Info(ctx, "Erro ao carregar o tipo de produto. O registro pode não existir.")
		return models.ProductType{}, err
	}

	for {
		if draft.Name, err = f.driver.Input(ctx, InputConfig{Message: "Nome", Default: draft.Name, Validator: required}); err != nil {
			return models.ProductType{}, err
		}
		saved, err := f.service.SaveProductType(ctx, draft)
		if err == nil {
			return saved, f.driver.Info(ctx, fmt.Sprintf("Tipo de produto #%d salvo.", saved.ID))
		}
		if retry, infoErr := f.retry(ctx, err, "nome", "Erro ao salvar tipo de produto."); !retry {
			return models.ProductType{}, errors.Join(err, infoErr)
		}
	}
}

// Product creates (id 0) or edits a product.
func (f *CatalogForms) Product(ctx context.Context, id int64) (models.Product, error) {
	draft, opts, err := f.service.LoadProduct(ctx, id)
	if err != nil {
		_ = f.driver.Info(ctx, "Erro ao carregar o produto. O registro pode não existir.")
		return models.Product{}, err
	}
	if opts.Err != nil {
		_ = f.driver.Info(ctx, "Aviso: não foi possível carregar empresas ou tipos de produto.")
	}

	for {
		if err := f.productFields(ctx, &draft, opts); err != nil {
			return models.Product{}, err
		}
		saved, err := f.service.SaveProduct(ctx, draft)
		if err == nil {
			return saved, f.driver.Info(ctx, fmt.Sprintf("Produto #%d salvo.", saved.ID))
		}
		if retry, infoErr := f.retry(ctx, err, "nome", "Erro ao salvar produto."); !retry {
			return models.Product{}, errors.Join(err, infoErr)
		}
	}
}

func (f *CatalogForms) productFields(ctx context.Context, draft *catalog.ProductDraft, opts catalog.ProductOptions) error {
	var err error
	if draft.Name, err = f.driver.Input(ctx, InputConfig{Message: "Nome do produto", Default: draft.Name, Validator: required}); err != nil {
		return err
	}
	if draft.Code, err = f.driver.Input(ctx, InputConfig{Message: "Código", Default: draft.Code}); err != nil {
		return err
	}
	if draft.Perishable, err = f.driver.Confirm(ctx, ConfirmConfig{Message: "Perecível?", Default: draft.Perishable}); err != nil {
		return err
	}
	if draft.Perishable {
		value, err := f.driver.Input(ctx, InputConfig{Message: "Data de validade (AAAA-MM-DD)", Default: draft.ExpiryDate.String(), Validator: validDate})
		if err != nil {
			return err
		}
		draft.ExpiryDate, _ = models.ParseDate(strings.TrimSpace(value))
	}

	companies := make([]string, len(opts.Companies))
	current := 0
	for i, c := range opts.Companies {
		companies[i] = c.Name
		if c.ID == draft.CompanyID {
			current = i
		}
	}
	if len(companies) > 0 {
		idx, err := f.driver.Select(ctx, SelectConfig{Message: "Empresa", Options: companies, DefaultIndex: current})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(opts.Companies) {
			draft.CompanyID = opts.Companies[idx].ID
		}
	}

	types := make([]string, len(opts.Types))
	current = 0
	for i, t := range opts.Types {
		types[i] = t.Name
		if t.ID == draft.ProductTypeID {
			current = i
		}
	}
	if len(types) > 0 {
		idx, err := f.driver.Select(ctx, SelectConfig{Message: "Tipo de produto", Options: types, DefaultIndex: current})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(opts.Types) {
			draft.ProductTypeID = opts.Types[idx].ID
		}
	}

	statuses := []string{models.StatusActive, models.StatusInactive}
	statusIdx := 0
	if draft.Status == models.StatusInactive {
		statusIdx = 1
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: "Status", Options: []string{"Ativo", "Inativo"}, DefaultIndex: statusIdx})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(statuses) {
		draft.Status = statuses[idx]
	}

	draft.ImageURL, err = f.driver.Input(ctx, InputConfig{Message: "URL da imagem", Default: draft.ImageURL})
	return err
}

// retry shows why a save failed and asks whether to edit again.
func (f *CatalogForms) retry(ctx context.Context, err error, field, fallback string) (bool, error) {
	if infoErr := f.driver.Info(ctx, catalog.ErrorMessage(err, field, fallback)); infoErr != nil {
		return false, infoErr
	}
	return f.driver.Confirm(ctx, ConfirmConfig{Message: "Corrigir e tentar novamente?", Default: true})
}

// Credentials prompts for username and password.
func Credentials(ctx context.Context, driver PromptDriver) (string, string, error) {
	username, err := driver.Input(ctx, InputConfig{Message: "Usuário", Validator: required})
	if err != nil {
		return "", "", err
	}
	password, err := driver.Password(ctx, InputConfig{Message: "Senha"})
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(username), password, nil
}

// ConfirmDelete asks before deleting what.
func ConfirmDelete(ctx context.Context, driver PromptDriver, what string) (bool, error) {
	return driver.Confirm(ctx, ConfirmConfig{Message: fmt.Sprintf("Você tem certeza que deseja deletar %s?", what)})
}

func required(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("campo obrigatório")
	}
	return nil
}

func validDate(value string) error {
	if _, err := models.ParseDate(strings.TrimSpace(value)); err != nil {
		return errors.New("data inválida, use AAAA-MM-DD")
	}
	return nil
}
