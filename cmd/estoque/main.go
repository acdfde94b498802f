package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/config"
	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/repository/mongodb"
	"github.com/mamadbah2/estoque-admin/internal/session"
	"github.com/mamadbah2/estoque-admin/internal/tui"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
	"github.com/mamadbah2/estoque-admin/pkg/logger"
)

// app carries what every command needs once the root command initialized it.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *session.Session
	client  *estoque.APIClient
	driver  tui.PromptDriver
	out     io.Writer
}

var nowUTC = func() time.Time { return time.Now().UTC() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	a := &app{out: os.Stdout}
	var envFile string

	root := &cobra.Command{
		Use:           "estoque",
		Short:         "Administração de estoque: entradas, produtos, empresas e tipos",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(envFile, cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "arquivo .env com a configuração")

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newEntriesCommand(a),
		newCompaniesCommand(a),
		newProductTypesCommand(a),
		newProductsCommand(a),
		newExportCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) init(envFile string, cmd *cobra.Command) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	// Interactive commands stay quiet unless a level is asked for.
	level := cfg.Log.Level
	if os.Getenv("LOG_LEVEL") == "" && cmd.Name() != "serve" {
		level = "warn"
	}
	base, err := logger.New(level)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(base)

	sess, err := session.Open(session.NewFileStore(cfg.API.TokenFile))
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = base
	a.session = sess
	a.client = estoque.NewClient(cfg.API, sess)
	a.out = cmd.OutOrStdout()
	a.driver = tui.NewSurveyDriver(a.out)
	return nil
}

// requireSession is the PreRunE of every command that talks to the backend.
func (a *app) requireSession(*cobra.Command, []string) error {
	if err := a.session.Require(); err != nil {
		return fmt.Errorf("%w: execute \"estoque login\"", err)
	}
	return nil
}

// openAudit connects the submission audit log, or returns nil when MongoDB is
// not configured.
func (a *app) openAudit(ctx context.Context) (*mongodb.MongoDBRepository, error) {
	if !a.cfg.MongoDB.Enabled() {
		return nil, nil
	}
	return mongodb.NewMongoDBRepository(ctx, a.cfg.MongoDB.URI, a.cfg.MongoDB.DBName, logger.Named(a.logger, "repo.mongodb"))
}

// recordSubmission writes a successful terminal submission to the audit log.
// Failures are logged; the entry is already saved.
func (a *app) recordSubmission(ctx context.Context, result editor.SubmitResult) {
	repo, err := a.openAudit(ctx)
	if err != nil {
		a.logger.Error("failed to init mongodb repository", zap.Error(err))
		return
	}
	if repo == nil {
		return
	}
	defer func() {
		if err := repo.Close(ctx); err != nil {
			a.logger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	action := models.ActionUpdate
	if result.Created {
		action = models.ActionCreate
	}
	record := models.SubmissionRecord{
		EntryID:     result.Entry.ID,
		Action:      action,
		Payload:     result.Payload,
		DroppedRows: len(result.Dropped),
		SubmittedAt: nowUTC(),
	}
	if err := repo.Record(ctx, record); err != nil {
		a.logger.Error("failed to record submission", zap.Int64("entry_id", record.EntryID), zap.Error(err))
	}
}

// cancelled turns a prompt abort into a quiet exit.
func (a *app) cancelled(err error) error {
	if errors.Is(err, tui.ErrAborted) {
		fmt.Fprintln(a.out, "Operação cancelada.")
		return nil
	}
	return err
}
