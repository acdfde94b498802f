package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque-admin/internal/format"
	"github.com/mamadbah2/estoque-admin/internal/tui"
	"github.com/mamadbah2/estoque-admin/pkg/logger"
)

func newEntriesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entries",
		Aliases: []string{"entradas"},
		Short:   "Entradas de estoque",
	}

	var search string
	list := &cobra.Command{
		Use:     "list",
		Short:   "Lista as entradas de estoque",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := a.client.ListEntries(cmd.Context(), search)
			if err != nil {
				return fmt.Errorf("list entries: %w", err)
			}
			return tui.EntriesTable(a.out, entries)
		},
	}
	list.Flags().StringVar(&search, "search", "", "filtra por fornecedor")

	show := &cobra.Command{
		Use:     "show <id>",
		Short:   "Mostra uma entrada e seus itens",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			entry, err := a.client.GetEntry(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("get entry %d: %w", id, err)
			}
			labels := map[int64]string{}
			if products, err := a.client.ListProducts(cmd.Context(), ""); err == nil {
				for _, p := range products {
					labels[p.ID] = p.Label()
				}
			}
			return tui.EntryDetail(a.out, entry, labels)
		},
	}

	create := &cobra.Command{
		Use:     "new",
		Short:   "Cadastra uma entrada de estoque",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runEntryForm(cmd, 0)
		},
	}

	edit := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Edita uma entrada de estoque",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.runEntryForm(cmd, id)
		},
	}

	remove := &cobra.Command{
		Use:     "delete <id>",
		Short:   "Remove uma entrada de estoque",
		Args:    cobra.ExactArgs(1),
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ok, err := tui.ConfirmDelete(cmd.Context(), a.driver, fmt.Sprintf("a entrada #%d", id))
			if err != nil || !ok {
				return a.cancelled(err)
			}
			if err := a.client.DeleteEntry(cmd.Context(), id); err != nil {
				return fmt.Errorf("delete entry %d: %w", id, err)
			}
			fmt.Fprintf(a.out, "Entrada #%d removida.\n", id)
			return nil
		},
	}

	var limit int64
	history := &cobra.Command{
		Use:   "history <id>",
		Short: "Mostra o histórico de envios de uma entrada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			repo, err := a.openAudit(cmd.Context())
			if err != nil {
				return err
			}
			if repo == nil {
				return errors.New("MONGODB_URI is not configured")
			}
			defer func() { _ = repo.Close(cmd.Context()) }()

			records, err := repo.History(cmd.Context(), id, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(a.out, "Nenhum envio registrado.")
			}
			for _, r := range records {
				fmt.Fprintf(a.out, "%s  %-6s  itens descartados: %d\n", r.SubmittedAt.Local().Format("2006-01-02 15:04"), r.Action, r.DroppedRows)
			}
			return nil
		},
	}
	history.Flags().Int64Var(&limit, "limit", 20, "quantidade máxima de envios")

	cmd.AddCommand(list, show, create, edit, remove, history)
	return cmd
}

func (a *app) runEntryForm(cmd *cobra.Command, id int64) error {
	ctx := cmd.Context()
	form := tui.NewEntryForm(a.driver, logger.Named(a.logger, "tui.entries"))
	result, err := form.Run(ctx, a.client, id)
	switch {
	case errors.Is(err, tui.ErrRecordUnavailable):
		entries, listErr := a.client.ListEntries(ctx, "")
		if listErr != nil {
			return err
		}
		return tui.EntriesTable(a.out, entries)
	case err != nil:
		return a.cancelled(err)
	}

	a.recordSubmission(ctx, result)
	fmt.Fprintf(a.out, "Total: %s  Frete: %s\n", format.Currency(result.Entry.TotalPurchaseValue), format.Currency(result.Entry.FreightValue))
	return nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
