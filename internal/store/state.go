package store

import "github.com/sqve/branchlink/internal/domain"

// State is the on-disk document.
type State struct {
	Connections []ConnectionRecord        `toml:"connections"`
	Branches    []domain.RegisteredBranch `toml:"branches"`
}

// ConnectionRecord is a connection plus the branches its repository reports.
type ConnectionRecord struct {
	ID             int64    `toml:"id"`
	OrganizationID int64    `toml:"organization_id"`
	ProjectRef     string   `toml:"project_ref"`
	Repository     string   `toml:"repository,omitempty"`
	Directory      *string  `toml:"supabase_directory,omitempty"`
	GitHubBranches []string `toml:"github_branches"`
}

func (r ConnectionRecord) toDomain() *domain.Connection {
	conn := &domain.Connection{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Project:        domain.ProjectRef{Ref: r.ProjectRef},
		Repository:     r.Repository,
	}
	if r.Directory != nil {
		*conn = conn.WithDirectoryPath(*r.Directory)
	}
	return conn
}

func (s *State) connection(id int64) *ConnectionRecord {
	for i := range s.Connections {
		if s.Connections[i].ID == id {
			return &s.Connections[i]
		}
	}
	return nil
}
