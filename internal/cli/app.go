package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	gitadapter "github.com/ericfisherdev/reviewdesk/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/reviewdesk/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/reviewdesk/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewdesk/internal/application"
	"github.com/ericfisherdev/reviewdesk/internal/config"
)

// app is the composition root shared by all commands: configuration, the
// session database, and the wired application services for the current
// working directory. A persisted session, if present, is resumed during
// construction.
type app struct {
	cfg     *config.Config
	db      *sqliteadapter.DB
	ctrl    *application.Controller
	lister  *application.ListService
	workDir string
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolving working directory: %w", err)
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		closeDB(db)
		return nil, err
	}

	vcs := gitadapter.NewClient(workDir, cfg.Remote)
	remote := githubadapter.NewClient(cfg.GitHubToken, cfg.GitHubUsername)
	store := sqliteadapter.NewSessionRepo(db)

	ctrl := application.NewController(vcs, remote, store, workDir, cfg.BranchPrefix)
	if err := ctrl.Resume(ctx); err != nil {
		closeDB(db)
		return nil, err
	}

	return &app{
		cfg:     cfg,
		db:      db,
		ctrl:    ctrl,
		lister:  application.NewListService(vcs, remote),
		workDir: workDir,
	}, nil
}

func (a *app) Close() {
	closeDB(a.db)
}

func closeDB(db *sqliteadapter.DB) {
	if err := db.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
