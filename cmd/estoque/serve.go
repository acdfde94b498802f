package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/metrics"
	"github.com/mamadbah2/estoque-admin/internal/repository/mongodb"
	"github.com/mamadbah2/estoque-admin/internal/repository/sheets"
	"github.com/mamadbah2/estoque-admin/internal/scheduler"
	"github.com/mamadbah2/estoque-admin/internal/server/handlers"
	"github.com/mamadbah2/estoque-admin/internal/server/router"
	"github.com/mamadbah2/estoque-admin/internal/service/editing"
	"github.com/mamadbah2/estoque-admin/internal/service/reporting"
	"github.com/mamadbah2/estoque-admin/internal/session"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
	"github.com/mamadbah2/estoque-admin/pkg/logger"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Inicia o gateway HTTP de edição de entradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

// clientFor builds a backend client authenticated with token.
func (a *app) clientFor(token string) *estoque.APIClient {
	sess, _ := session.Open(session.NewMemoryStore(token))
	return estoque.NewClient(a.cfg.API, sess)
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	baseLogger := a.logger
	m := metrics.New()

	var recorder editing.Recorder
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		if err != nil {
			return err
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		recorder = mongoRepo
	} else {
		baseLogger.Warn("mongodb uri missing, submission audit disabled")
	}

	factory := func(token string) editor.Backend { return a.clientFor(token) }
	manager := editing.NewManager(factory, recorder, m, cfg.Server.SessionTTL, baseLogger.Named("svc.editing"))
	go manager.Run(ctx)

	if cfg.Sheets.Enabled() && cfg.API.ServiceToken != "" {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return err
		}
		reportingSvc := reporting.NewService(a.clientFor(cfg.API.ServiceToken), m, baseLogger.Named("svc.reporting"))
		sched, err := scheduler.NewScheduler(cfg.Export, reportingSvc, sheetsRepo, baseLogger.Named("scheduler"))
		if err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	} else {
		baseLogger.Warn("sheets export or service token missing, scheduled export disabled")
	}

	handler := handlers.NewEditorHandler(manager, logger.Named(baseLogger, "handlers.editor"))
	engine := router.New(handler, m, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			baseLogger.Error("http server crashed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
		baseLogger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
