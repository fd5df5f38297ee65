// Package store keeps connections and registered branches in a local TOML
// file. It serves the same collaborator contracts as the platform API.
package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/pelletier/go-toml/v2"

	"github.com/sqve/branchlink/internal/domain"
	"github.com/sqve/branchlink/internal/errors"
	"github.com/sqve/branchlink/internal/fs"
	"github.com/sqve/branchlink/internal/logger"
)

// Store is a file-backed implementation of the remote collaborators.
type Store struct {
	path string
	log  *logger.Logger
}

func Open(path string) *Store {
	return &Store{
		path: path,
		log:  logger.WithComponent("store"),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing file is an empty state.
func (s *Store) Load() (*State, error) {
	if !fs.FileExists(s.path) {
		return &State{}, nil
	}

	unlock, err := lockFile(s.path+".lock", false)
	if err != nil {
		return nil, errors.ErrStateFile(s.path, err)
	}
	defer unlock()

	return s.read()
}

// Save replaces the state on disk.
func (s *Store) Save(state *State) error {
	return s.update(func(current *State) error {
		*current = *state
		return nil
	})
}

func (s *Store) read() (*State, error) {
	var state State

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &state, nil
	}
	if err != nil {
		return nil, errors.ErrStateFile(s.path, err)
	}

	if err := toml.Unmarshal(data, &state); err != nil {
		return nil, errors.ErrStateFile(s.path, err)
	}
	return &state, nil
}

// update applies fn under an exclusive lock and writes the result atomically.
func (s *Store) update(fn func(*State) error) error {
	if err := fs.EnsureParentDir(s.path); err != nil {
		return errors.ErrStateFile(s.path, err)
	}

	unlock, err := lockFile(s.path+".lock", true)
	if err != nil {
		return errors.ErrStateFile(s.path, err)
	}
	defer unlock()

	state, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(state); err != nil {
		return err
	}

	return s.write(state)
}

// write encodes the state and replaces the file atomically.
func (s *Store) write(state *State) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(state); err != nil {
		return errors.ErrStateFile(s.path, err)
	}

	if err := fs.WriteFileAtomic(s.path, buf.Bytes(), fs.FileShared); err != nil {
		return errors.ErrStateFile(s.path, err)
	}
	return nil
}

func (s *Store) ListGitHubBranches(ctx context.Context, connectionID int64) ([]domain.RemoteBranch, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}

	conn := state.connection(connectionID)
	if conn == nil {
		return nil, errors.ErrNotFound("connection", connectionID)
	}

	branches := make([]domain.RemoteBranch, 0, len(conn.GitHubBranches))
	for _, name := range conn.GitHubBranches {
		branches = append(branches, domain.RemoteBranch{Name: name})
	}
	return branches, nil
}

func (s *Store) ListBranches(ctx context.Context, projectRef string) ([]domain.RegisteredBranch, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}

	var branches []domain.RegisteredBranch
	for _, b := range state.Branches {
		if b.ParentRef == projectRef {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

// UpdateBranch points a registered branch at another git branch. The git
// branch must exist in a repository connected to the branch's project.
func (s *Store) UpdateBranch(ctx context.Context, update domain.BranchUpdate) (*domain.RegisteredBranch, error) {
	var updated domain.RegisteredBranch

	err := s.update(func(state *State) error {
		idx := slices.IndexFunc(state.Branches, func(b domain.RegisteredBranch) bool {
			return b.ID == update.ID && b.ParentRef == update.ProjectRef
		})
		if idx < 0 {
			return errors.ErrNotFound("branch", update.ID)
		}

		if !gitBranchExists(state, update.ProjectRef, update.GitBranch) {
			return errors.ErrRemoteRequest("update branch", 422,
				fmt.Errorf("git branch %q does not exist in the connected repository", update.GitBranch)).
				WithContext("git_branch", update.GitBranch)
		}

		state.Branches[idx].Name = update.BranchName
		state.Branches[idx].GitBranch = update.GitBranch
		updated = state.Branches[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("branch updated", "branch_id", updated.ID, "git_branch", updated.GitBranch, "path", filepath.Base(s.path))
	return &updated, nil
}

func gitBranchExists(state *State, projectRef, gitBranch string) bool {
	for _, c := range state.Connections {
		if c.ProjectRef == projectRef && slices.Contains(c.GitHubBranches, gitBranch) {
			return true
		}
	}
	return false
}

// UpdateConnection replaces the directory path of a connection owned by the
// given organization.
func (s *Store) UpdateConnection(ctx context.Context, update domain.ConnectionUpdate) error {
	return s.update(func(state *State) error {
		conn := state.connection(update.ConnectionID)
		if conn == nil || conn.OrganizationID != update.OrganizationID {
			return errors.ErrNotFound("connection", update.ConnectionID).
				WithContext("organization_id", update.OrganizationID)
		}
		dir := update.Workdir
		conn.Directory = &dir
		return nil
	})
}

func (s *Store) GetConnection(ctx context.Context, connectionID int64) (*domain.Connection, error) {
	state, err := s.Load()
	if err != nil {
		return nil, err
	}

	conn := state.connection(connectionID)
	if conn == nil {
		return nil, errors.ErrNotFound("connection", connectionID)
	}
	return conn.toDomain(), nil
}
