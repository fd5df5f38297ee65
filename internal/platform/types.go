package platform

import "github.com/sqve/branchlink/internal/domain"

type githubBranch struct {
	Name string `json:"name"`
}

type branchUpdateBody struct {
	BranchName string `json:"branch_name"`
	GitBranch  string `json:"git_branch"`
}

type connectionUpdateBody struct {
	OrganizationID int64  `json:"organization_id"`
	Workdir        string `json:"workdir"`
}

type githubConnection struct {
	ID           int64 `json:"id"`
	Organization struct {
		ID int64 `json:"id"`
	} `json:"organization"`
	Project struct {
		Ref  string `json:"ref"`
		Name string `json:"name"`
	} `json:"project"`
	Repository struct {
		Name string `json:"name"`
	} `json:"repository"`
	Metadata domain.ConnectionMetadata `json:"metadata"`
}

func (c githubConnection) toDomain() *domain.Connection {
	return &domain.Connection{
		ID:             c.ID,
		OrganizationID: c.Organization.ID,
		Project:        domain.ProjectRef{Ref: c.Project.Ref, Name: c.Project.Name},
		Repository:     c.Repository.Name,
		Metadata:       c.Metadata,
	}
}
