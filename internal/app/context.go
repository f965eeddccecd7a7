package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"planline/internal/config"
	"planline/internal/db"
	"planline/internal/domain"
	"planline/internal/engine"
	"planline/internal/logging"
	"planline/internal/migrate"
	"planline/internal/projects"
	"planline/internal/repo"
	"planline/internal/rules"
)

// Workspace bundles everything a command needs: config, database, manager and engine.
type Workspace struct {
	Dir      string
	Config   *config.Config
	DB       *sql.DB
	Cache    *repo.Cache
	Projects projects.Manager
	Engine   engine.Engine
	Logger   *slog.Logger
}

type Options struct {
	Workspace string
	// Actor overrides config.actor when set.
	Actor string
	// Config, when non-nil, is used instead of reading planline.yml.
	Config *config.Config
	Logger *slog.Logger
	LogOut io.Writer
	// LogLevel overrides config log.level for this process when set.
	LogLevel string
}

// Open loads config, opens and migrates the workspace database and wires the
// project manager and mutation engine.
func Open(ctx context.Context, opts Options) (*Workspace, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.LoadOptional(opts.Workspace); err != nil {
			return nil, err
		}
	}
	if opts.Actor != "" {
		cfg.Actor = opts.Actor
	}
	logger := opts.Logger
	if logger == nil {
		out := opts.LogOut
		if out == nil {
			out = io.Discard
		}
		logCfg := *cfg
		if opts.LogLevel != "" {
			logCfg.Log.Level = opts.LogLevel
		}
		logger = logging.New(&logCfg, out)
	}
	conn, err := db.Open(db.Config{Workspace: opts.Workspace, BusyTimeoutMS: cfg.DB.BusyTimeoutMS})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	cache, err := repo.NewCache(cfg.Cache.MaxCostBytes)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("cache: %w", err)
	}
	mgr := projects.New(repo.Repo{DB: conn, Cache: cache}, logger)
	mgr.Actor = cfg.Actor
	eng := engine.New(logger)
	if policy := rules.WBSDeletePolicy(cfg.WBS.DeletePolicy); policy.Valid() {
		eng.WBSPolicy = policy
	}
	return &Workspace{
		Dir:      opts.Workspace,
		Config:   cfg,
		DB:       conn,
		Cache:    cache,
		Projects: mgr,
		Engine:   eng,
		Logger:   logger,
	}, nil
}

func (w *Workspace) Close() error {
	w.Cache.Close()
	return w.DB.Close()
}

// ResolveProject picks the project a command acts on: the override when given,
// then the current pointer, then the only stored project.
func (w *Workspace) ResolveProject(ctx context.Context, override string) (domain.Project, error) {
	if override != "" {
		return w.Projects.GetProject(ctx, override)
	}
	p, err := w.Projects.CurrentProject(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, projects.ErrNoCurrent) {
		return domain.Project{}, err
	}
	list, lerr := w.Projects.ListProjects(ctx)
	if lerr != nil {
		return domain.Project{}, lerr
	}
	if len(list) == 1 {
		return w.Projects.GetProject(ctx, list[0].ID)
	}
	return domain.Project{}, err
}

// Session opens an engine session on the resolved project that saves through the manager.
func (w *Workspace) Session(ctx context.Context, override string) (*engine.Session, error) {
	p, err := w.ResolveProject(ctx, override)
	if err != nil {
		return nil, err
	}
	return engine.NewSession(p, w.Config.Actor, w.Projects), nil
}
