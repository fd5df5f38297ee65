package domain

// RemoteBranch is a branch reported by the version-control provider.
type RemoteBranch struct {
	Name string `json:"name" toml:"name" yaml:"name"`
}

// RegisteredBranch is a preview or production branch tracked by the hosted
// project. At most one per project has IsDefault set.
type RegisteredBranch struct {
	ID         string `json:"id" toml:"id" yaml:"id"`
	Name       string `json:"name" toml:"name" yaml:"name"`
	ProjectRef string `json:"project_ref" toml:"project_ref" yaml:"project_ref"`
	ParentRef  string `json:"parent_project_ref" toml:"parent_project_ref" yaml:"parent_project_ref"`
	GitBranch  string `json:"git_branch" toml:"git_branch" yaml:"git_branch"`
	IsDefault  bool   `json:"is_default" toml:"is_default" yaml:"is_default"`
}

// ProductionBranch returns the registered branch flagged as default, or nil.
func ProductionBranch(branches []RegisteredBranch) *RegisteredBranch {
	for i := range branches {
		if branches[i].IsDefault {
			b := branches[i]
			return &b
		}
	}
	return nil
}

// BranchUpdate re-points a registered branch at a git branch.
type BranchUpdate struct {
	ID         string
	ProjectRef string
	BranchName string
	GitBranch  string
}

// ConnectionUpdate replaces a connection's directory path.
type ConnectionUpdate struct {
	ConnectionID   int64
	OrganizationID int64
	Workdir        string
}
