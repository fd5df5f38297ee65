package commands

import (
	"context"
	"net/http"

	"github.com/sqve/branchlink/internal/catalog"
	"github.com/sqve/branchlink/internal/config"
	"github.com/sqve/branchlink/internal/dirform"
	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/notify"
	"github.com/sqve/branchlink/internal/platform"
	"github.com/sqve/branchlink/internal/selector"
	"github.com/sqve/branchlink/internal/store"
)

// Backend is every collaborator the catalog, the selector and the directory
// form talk to. platform.Client and store.Store both satisfy it.
type Backend interface {
	catalog.BranchLister
	selector.BranchLister
	selector.BranchUpdater
	dirform.ConnectionUpdater
	GetConnection(ctx context.Context, connectionID int64) (*domain.Connection, error)
}

// NewBackend builds the backend selected by cfg.
func NewBackend(cfg *config.Config) (Backend, error) {
	switch cfg.Backend {
	case config.BackendAPI:
		if cfg.API.Token == "" {
			return nil, errors.ErrConfigInvalid("api.token", "required for the api backend")
		}
		return platform.NewClient(platform.ClientConfig{
			BaseURL: cfg.API.URL,
			Token:   cfg.API.Token,
		}, &http.Client{Timeout: cfg.API.Timeout}), nil
	case config.BackendFile:
		return store.Open(cfg.State.Path), nil
	default:
		return nil, errors.ErrConfigInvalid("backend", "unknown backend "+cfg.Backend)
	}
}

// Session is the resolved selection context of one command run. Connection,
// Project and Org stay nil when they are not known.
type Session struct {
	Config     *config.Config
	Backend    Backend
	Connection *domain.Connection
	Project    *domain.Project
	Org        *domain.Organization
}

// ConnectionID returns the selected connection id, or 0.
func (s *Session) ConnectionID() int64 {
	if s.Connection == nil {
		return 0
	}
	return s.Connection.ID
}

// NewSession reads the configuration and resolves the selected connection,
// project and organization.
func NewSession(ctx context.Context) (*Session, error) {
	cfg, err := config.Get()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	backend, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}

	s := &Session{Config: cfg, Backend: backend}

	if id := config.GetInt64("connection"); id != 0 {
		conn, err := backend.GetConnection(ctx, id)
		if err != nil {
			return nil, err
		}
		s.Connection = conn
	}

	ref := config.GetString("project")
	if ref == "" && s.Connection != nil {
		ref = s.Connection.Project.Ref
	}
	if ref != "" {
		s.Project = &domain.Project{Ref: ref, ParentRef: ref}
	}

	if id := config.GetInt64("org"); id != 0 {
		s.Org = &domain.Organization{ID: id}
	}

	logger.DebugOperation("resolve_session",
		"backend", cfg.Backend,
		"connection_id", s.ConnectionID(),
		"project_ref", ref,
		"has_org", s.Org != nil)
	return s, nil
}

// LoadCatalog fetches the GitHub branches of the selected connection.
func (s *Session) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat := catalog.New(s.Backend, s.Config.Catalog.CacheTTL)

	spinner := logger.StartSpinner("Loading branches...")
	err := cat.Load(ctx, s.ConnectionID())
	spinner.Stop()

	if err != nil {
		return nil, err
	}
	return cat, nil
}

// NewSelector builds a production branch selector over remote and loads the
// registered branches. remote may be nil when only the designation is needed.
func (s *Session) NewSelector(ctx context.Context, remote selector.RemoteBranches) (*selector.Selector, error) {
	sel := selector.New(s.Project, remote, s.Backend, s.Backend, notify.Console{})
	if err := sel.Refresh(ctx); err != nil {
		return nil, err
	}
	return sel, nil
}

// RequireConnection fails when no connection was selected.
func (s *Session) RequireConnection(operation string) error {
	if s.Connection == nil {
		return errors.ErrPreconditionMissing(operation, "connection")
	}
	return nil
}
