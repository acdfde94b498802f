package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/tui"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
)

var errInvalidCredentials = errors.New("invalid username or password")

func newLoginCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Autentica no backend e guarda o token de acesso",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			username, password, err := tui.Credentials(ctx, a.driver)
			if err != nil {
				return a.cancelled(err)
			}

			resp, err := a.client.Login(ctx, username, password)
			if err != nil {
				switch estoque.StatusCode(err) {
				case http.StatusBadRequest, http.StatusUnauthorized:
					return errInvalidCredentials
				}
				return fmt.Errorf("login: %w", err)
			}
			if err := a.session.Establish(resp.AccessToken); err != nil {
				return err
			}

			a.logger.Info("session established", zap.String("username", username))
			fmt.Fprintln(a.out, "Login realizado com sucesso.")
			return nil
		},
	}
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove o token de acesso guardado",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := a.session.TearDown(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Sessão encerrada.")
			return nil
		},
	}
}
