// Package selector designates which registered branch deploys to production.
package selector

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/logger"
	"github.com/sqve/branchlink/internal/notify"
)

// NoBranchLabel is shown when no production branch is known.
const NoBranchLabel = "Select a branch"

// State of the selector surface.
type State int

const (
	Closed State = iota
	Open
	Committing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Committing:
		return "committing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// BranchLister fetches the branches registered with a project.
type BranchLister interface {
	ListBranches(ctx context.Context, projectRef string) ([]domain.RegisteredBranch, error)
}

// BranchUpdater persists a change to a registered branch.
type BranchUpdater interface {
	UpdateBranch(ctx context.Context, update domain.BranchUpdate) (*domain.RegisteredBranch, error)
}

// RemoteBranches is the provider catalog the candidates are drawn from.
type RemoteBranches interface {
	Branches() iter.Seq[domain.RemoteBranch]
	IsLoading() bool
}

// Candidate is a remote branch offered for selection. Active marks the
// current production branch.
type Candidate struct {
	Name   string `json:"name" yaml:"name"`
	Active bool   `json:"active" yaml:"active"`
}

// Selector is the Closed/Open/Committing state machine. Only one commit can
// be in flight because selection is accepted only while Open.
type Selector struct {
	project  *domain.Project
	remote   RemoteBranches
	lister   BranchLister
	updater  BranchUpdater
	notifier notify.Notifier
	log      *logger.Logger

	mu         sync.Mutex
	state      State
	registered []domain.RegisteredBranch
	loaded     bool
	loadErr    error
}

// New creates a closed selector. project may be nil until it is resolved.
func New(project *domain.Project, remote RemoteBranches, lister BranchLister, updater BranchUpdater, notifier notify.Notifier) *Selector {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Selector{
		project:  project,
		remote:   remote,
		lister:   lister,
		updater:  updater,
		notifier: notifier,
		log:      logger.WithComponent("selector"),
	}
}

func (s *Selector) projectRef() string {
	if s.project == nil {
		return ""
	}
	return s.project.ParentRef
}

// Refresh loads the registered branches. It does nothing until the project
// parent ref is known.
func (s *Selector) Refresh(ctx context.Context) error {
	ref := s.projectRef()
	if ref == "" {
		s.log.Debug("skipping registered branch fetch, project not resolved")
		return nil
	}

	branches, err := s.lister.ListBranches(ctx, ref)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.loadErr = err
	if err != nil {
		s.registered = nil
		s.log.Warn("failed to load registered branches", "project_ref", ref, "error", err)
		return err
	}
	s.registered = branches
	return nil
}

// Open shows the selector surface.
func (s *Selector) Open() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Closed {
		s.state = Open
	}
}

// Close hides the surface. It has no effect while committing.
func (s *Selector) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Open {
		s.state = Closed
	}
}

// State returns where the selector is in its open/commit cycle.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loaded reports whether the registered branches have been fetched.
func (s *Selector) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// LoadErr returns the error of the last Refresh.
func (s *Selector) LoadErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// IsUpdating reports whether a production branch commit is in flight.
func (s *Selector) IsUpdating() bool {
	return s.State() == Committing
}

// IsBusy reports whether the selector should show a loading indicator.
func (s *Selector) IsBusy() bool {
	return s.IsUpdating() || (s.remote != nil && s.remote.IsLoading())
}

// ProductionBranch returns the confirmed production git branch, or "".
func (s *Selector) ProductionBranch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prod := domain.ProductionBranch(s.registered); prod != nil {
		return prod.GitBranch
	}
	return ""
}

// Label is the text shown for the current designation.
func (s *Selector) Label() string {
	if name := s.ProductionBranch(); name != "" {
		return name
	}
	return NoBranchLabel
}

// Candidates lists the remote branches for selection, marking the production
// branch active. ready is false while registered or remote branches are
// still loading.
func (s *Selector) Candidates() (candidates []Candidate, ready bool) {
	if !s.Loaded() || s.remote == nil || s.remote.IsLoading() {
		return nil, false
	}

	production := s.ProductionBranch()
	for b := range s.remote.Branches() {
		candidates = append(candidates, Candidate{
			Name:   b.Name,
			Active: production != "" && b.Name == production,
		})
	}
	return candidates, true
}

// Select commits branchName as the production git branch.
//
// Select is a no-op, returning (nil, nil), when the selector is not Open
// (including while another commit is in flight), when the project is not
// resolved, or when no production branch is registered. On success the
// selector closes and the confirmed row replaces the local one. On failure
// the selector returns to Open with the previous designation intact.
func (s *Selector) Select(ctx context.Context, branchName string) (*domain.RegisteredBranch, error) {
	s.mu.Lock()
	if s.state != Open {
		s.mu.Unlock()
		return nil, nil
	}
	ref := s.projectRef()
	production := domain.ProductionBranch(s.registered)
	if ref == "" || production == nil {
		s.mu.Unlock()
		s.log.Debug("skipping production branch commit", "project_ref", ref, "has_production", production != nil)
		return nil, nil
	}
	s.state = Committing
	s.mu.Unlock()

	log := s.log.WithOperation("update_production_branch")
	log.Debug("committing", "branch_id", production.ID, "project_ref", ref, "git_branch", branchName)

	confirmed, err := s.updater.UpdateBranch(ctx, domain.BranchUpdate{
		ID:         production.ID,
		ProjectRef: ref,
		BranchName: branchName,
		GitBranch:  branchName,
	})

	s.mu.Lock()
	if err != nil {
		s.state = Open
		s.mu.Unlock()
		log.Warn("commit failed", "git_branch", branchName, "error", err)
		s.notifier.Failure("Failed to update production branch", err)
		return nil, err
	}

	if confirmed == nil {
		row := *production
		row.Name = branchName
		row.GitBranch = branchName
		confirmed = &row
	}
	s.applyConfirmed(*confirmed)
	s.state = Closed
	s.mu.Unlock()

	s.log.InfoOperation("update_production_branch", "branch_id", confirmed.ID, "git_branch", confirmed.GitBranch)
	s.notifier.Success(fmt.Sprintf("Changed Production Branch to %s", confirmed.GitBranch))
	return confirmed, nil
}

// applyConfirmed replaces the row with the persisted one. If the persisted
// row carries the default flag no other row keeps it. Callers hold s.mu.
func (s *Selector) applyConfirmed(row domain.RegisteredBranch) {
	updated := make([]domain.RegisteredBranch, 0, len(s.registered))
	found := false
	for _, b := range s.registered {
		if b.ID == row.ID {
			updated = append(updated, row)
			found = true
			continue
		}
		if row.IsDefault {
			b.IsDefault = false
		}
		updated = append(updated, b)
	}
	if !found {
		updated = append(updated, row)
	}
	s.registered = updated
}
