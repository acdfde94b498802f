package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/service/catalog"
	"github.com/mamadbah2/estoque-admin/internal/tui"
	"github.com/mamadbah2/estoque-admin/pkg/logger"
)

// resource wires list/show/new/edit/delete for one catalog collection.
type resource struct {
	use     string
	alias   string
	short   string
	article string // "a empresa", "o produto"...
	list    func(ctx context.Context, search string) (func(io.Writer) error, error)
	show    func(ctx context.Context, id int64) (func(io.Writer) error, error)
	form    func(ctx context.Context, id int64) error
	remove  func(ctx context.Context, id int64) error
}

func (a *app) catalogService() *catalog.Service {
	return catalog.NewService(a.client, logger.Named(a.logger, "svc.catalog"))
}

func (a *app) catalogForms() *tui.CatalogForms {
	return tui.NewCatalogForms(a.driver, a.catalogService())
}

func newCompaniesCommand(a *app) *cobra.Command {
	return a.resourceCommand(resource{
		use: "companies", alias: "empresas", short: "Empresas", article: "a empresa",
		list: func(ctx context.Context, search string) (func(io.Writer) error, error) {
			companies, err := a.catalogService().ListCompanies(ctx, search)
			return func(w io.Writer) error { return tui.CompaniesTable(w, companies) }, err
		},
		show: func(ctx context.Context, id int64) (func(io.Writer) error, error) {
			company, err := a.catalogService().GetCompany(ctx, id)
			return func(w io.Writer) error { return tui.CompaniesTable(w, []models.Company{company}) }, err
		},
		form: func(ctx context.Context, id int64) error {
			_, err := a.catalogForms().Company(ctx, id)
			return err
		},
		remove: func(ctx context.Context, id int64) error { return a.catalogService().DeleteCompany(ctx, id) },
	})
}

func newProductTypesCommand(a *app) *cobra.Command {
	return a.resourceCommand(resource{
		use: "types", alias: "tipos", short: "Tipos de produto", article: "o tipo de produto",
		list: func(ctx context.Context, search string) (func(io.Writer) error, error) {
			types, err := a.catalogService().ListProductTypes(ctx, search)
			return func(w io.Writer) error { return tui.ProductTypesTable(w, types) }, err
		},
		show: func(ctx context.Context, id int64) (func(io.Writer) error, error) {
			pt, err := a.catalogService().GetProductType(ctx, id)
			return func(w io.Writer) error { return tui.ProductTypesTable(w, []models.ProductType{pt}) }, err
		},
		form: func(ctx context.Context, id int64) error {
			_, err := a.catalogForms().ProductType(ctx, id)
			return err
		},
		remove: func(ctx context.Context, id int64) error { return a.catalogService().DeleteProductType(ctx, id) },
	})
}

func newProductsCommand(a *app) *cobra.Command {
	return a.resourceCommand(resource{
		use: "products", alias: "produtos", short: "Produtos", article: "o produto",
		list: func(ctx context.Context, search string) (func(io.Writer) error, error) {
			products, err := a.catalogService().ListProducts(ctx, search)
			return func(w io.Writer) error { return tui.ProductsTable(w, products) }, err
		},
		show: func(ctx context.Context, id int64) (func(io.Writer) error, error) {
			product, err := a.catalogService().GetProduct(ctx, id)
			return func(w io.Writer) error { return tui.ProductsTable(w, []models.Product{product}) }, err
		},
		form: func(ctx context.Context, id int64) error {
			_, err := a.catalogForms().Product(ctx, id)
			return err
		},
		remove: func(ctx context.Context, id int64) error { return a.catalogService().DeleteProduct(ctx, id) },
	})
}

func (a *app) resourceCommand(r resource) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Aliases: []string{r.alias}, Short: r.short}

	var search string
	list := &cobra.Command{
		Use:     "list",
		Short:   "Lista os registros",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printList(cmd.Context(), r, search)
		},
	}
	list.Flags().StringVar(&search, "search", "", "filtra pelo nome")

	show := &cobra.Command{
		Use:     "show <id>",
		Short:   "Mostra um registro",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			render, err := r.show(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get %s %d: %w", r.use, id, err)
			}
			return render(a.out)
		},
	}

	create := &cobra.Command{
		Use:     "new",
		Short:   "Cadastra um registro",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.cancelled(r.form(cmd.Context(), 0))
		},
	}

	edit := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edita um registro",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			err = r.form(cmd.Context(), id)
			if errors.Is(err, catalog.ErrRecordUnavailable) {
				return a.printList(cmd.Context(), r, "")
			}
			return a.cancelled(err)
		},
	}

	remove := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Remove um registro",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := tui.ConfirmDelete(cmd.Context(), a.driver, fmt.Sprintf("%s #%d", r.article, id))
			if err != nil || !ok {
				return a.cancelled(err)
			}
			if err := r.remove(cmd.Context(), id); err != nil {
				return errors.New(catalog.ErrorMessage(err, "", "Erro ao remover."))
			}
			fmt.Fprintln(a.out, "Registro removido.")
			return nil
		},
	}

	cmd.AddCommand(list, show, create, edit, remove)
	return cmd
}

func (a *app) printList(ctx context.Context, r resource, search string) error {
	render, err := r.list(ctx, search)
	if err != nil {
		return fmt.Errorf("list %s: %w", r.use, err)
	}
	return render(a.out)
}
