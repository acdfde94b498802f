package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/estoque-admin/internal/repository/sheets"
	"github.com/mamadbah2/estoque-admin/internal/repository/xlsx"
	"github.com/mamadbah2/estoque-admin/internal/service/reporting"
	"github.com/mamadbah2/estoque-admin/pkg/logger"
)

func newExportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Exporta as entradas de estoque",
	}

	toSheets := &cobra.Command{
		Use:     "sheets",
		Short:   "Sobrescreve a planilha configurada com as entradas",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.Sheets.Enabled() {
				return fmt.Errorf("GOOGLE_SHEET_EXPORT_ID is not configured")
			}
			repo, err := sheets.NewGoogleSheetRepository(cmd.Context(), a.cfg.Sheets, logger.Named(a.logger, "repo.sheets"))
			if err != nil {
				return fmt.Errorf("init sheets repository: %w", err)
			}
			return a.export(cmd, reporting.TargetSheets, repo)
		},
	}

	var out, sheet string
	toXLSX := &cobra.Command{
		Use:     "xlsx",
		Short:   "Grava as entradas em um arquivo .xlsx",
		Args:    cobra.NoArgs,
		PreRunE: a.requireSession,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.export(cmd, reporting.TargetXLSX, xlsx.NewWriter(out, sheet, logger.Named(a.logger, "repo.xlsx")))
		},
	}
	toXLSX.Flags().StringVar(&out, "out", "entradas.xlsx", "arquivo de saída")
	toXLSX.Flags().StringVar(&sheet, "sheet", xlsx.DefaultSheet, "nome da aba")

	cmd.AddCommand(toSheets, toXLSX)
	return cmd
}

func (a *app) export(cmd *cobra.Command, target string, w reporting.RowWriter) error {
	svc := reporting.NewService(a.client, nil, logger.Named(a.logger, "svc.reporting"))
	n, err := svc.Export(cmd.Context(), target, w)
	if err != nil {
		return fmt.Errorf("export %s: %w", target, err)
	}
	fmt.Fprintf(a.out, "%d linha(s) exportada(s).\n", n)
	return nil
}
