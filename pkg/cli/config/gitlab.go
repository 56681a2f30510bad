package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/service/gitlab"
	"github.com/urfave/cli/v3"
)

// GitLab holds issue tracker configuration
type GitLab struct {
	BaseURL   string
	Token     string
	ProjectID string
}

// Flags returns CLI flags for GitLab configuration
func (g *GitLab) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gitlab-url",
			Usage:       "GitLab base URL",
			Category:    "GitLab",
			Value:       "https://gitlab.com",
			Sources:     cli.EnvVars("PBLVIEW_GITLAB_URL"),
			Destination: &g.BaseURL,
		},
		&cli.StringFlag{
			Name:        "gitlab-token",
			Usage:       "GitLab personal access token",
			Category:    "GitLab",
			Sources:     cli.EnvVars("PBLVIEW_GITLAB_TOKEN"),
			Destination: &g.Token,
		},
		&cli.StringFlag{
			Name:        "gitlab-project",
			Usage:       "GitLab project path or numeric ID (e.g. team/backlog)",
			Category:    "GitLab",
			Sources:     cli.EnvVars("PBLVIEW_GITLAB_PROJECT"),
			Destination: &g.ProjectID,
		},
	}
}

// Validate checks the required tracker settings
func (g *GitLab) Validate() error {
	if g.Token == "" {
		return goerr.New("GitLab token is required. Please provide PBLVIEW_GITLAB_TOKEN")
	}
	if g.ProjectID == "" {
		return goerr.New("GitLab project is required. Please provide PBLVIEW_GITLAB_PROJECT")
	}
	return nil
}

// Configure creates a GitLab API client
func (g *GitLab) Configure() (*gitlab.Client, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return gitlab.New(g.BaseURL, g.Token, g.ProjectID), nil
}

// LogValue returns structured log value. The token is never logged.
func (g GitLab) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("baseURL", g.BaseURL),
		slog.String("project", g.ProjectID),
		slog.Bool("hasToken", g.Token != ""),
	)
}
