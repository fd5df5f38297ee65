// Package domain holds the entities shared by the branch catalog, the
// production branch selector and the directory form.
package domain

// Connection links a hosted project to a version-control repository.
type Connection struct {
	ID             int64              `json:"id" toml:"id" yaml:"id"`
	OrganizationID int64              `json:"organization_id" toml:"organization_id" yaml:"organization_id"`
	Project        ProjectRef         `json:"project" toml:"project" yaml:"project"`
	Repository     string             `json:"repository,omitempty" toml:"repository,omitempty" yaml:"repository,omitempty"`
	Metadata       ConnectionMetadata `json:"metadata" toml:"metadata" yaml:"metadata"`
}

type ProjectRef struct {
	Ref  string `json:"ref" toml:"ref" yaml:"ref"`
	Name string `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
}

// ConnectionMetadata is the configuration block owned by the persistence service.
type ConnectionMetadata struct {
	SupabaseConfig *SupabaseConfig `json:"supabaseConfig,omitempty" toml:"supabase_config,omitempty" yaml:"supabaseConfig,omitempty"`
}

type SupabaseConfig struct {
	SupabaseDirectory *string `json:"supabaseDirectory,omitempty" toml:"supabase_directory,omitempty" yaml:"supabaseDirectory,omitempty"`
}

// DirectoryPath returns the persisted directory, or "" when none is set.
func (c *Connection) DirectoryPath() string {
	if c == nil || c.Metadata.SupabaseConfig == nil || c.Metadata.SupabaseConfig.SupabaseDirectory == nil {
		return ""
	}
	return *c.Metadata.SupabaseConfig.SupabaseDirectory
}

// WithDirectoryPath returns a copy of c whose configuration holds path.
func (c Connection) WithDirectoryPath(path string) Connection {
	p := path
	c.Metadata = ConnectionMetadata{SupabaseConfig: &SupabaseConfig{SupabaseDirectory: &p}}
	return c
}

// Organization is the organization selected by the caller.
type Organization struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug,omitempty"`
}

// Project is the project selected by the caller. Branch rows are registered
// against ParentRef.
type Project struct {
	Ref       string `json:"ref"`
	ParentRef string `json:"parent_ref"`
}
