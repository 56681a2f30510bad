package config

import (
	"log/slog"

	"github.com/pbl-lab/pblview/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Scope holds scope filter configuration
type Scope struct {
	IncludeMissingDueDate bool
}

// Flags returns CLI flags for Scope configuration
func (s *Scope) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "include-missing-due-date",
			Usage:       "Keep done issues without a due date in the report instead of excluding them",
			Category:    "Scope",
			Sources:     cli.EnvVars("PBLVIEW_INCLUDE_MISSING_DUE_DATE"),
			Destination: &s.IncludeMissingDueDate,
		},
	}
}

// Options converts the configuration to scope filter options
func (s *Scope) Options() usecase.ScopeOptions {
	return usecase.ScopeOptions{
		IncludeMissingDueDate: s.IncludeMissingDueDate,
	}
}

// LogValue returns structured log value
func (s Scope) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("includeMissingDueDate", s.IncludeMissingDueDate),
	)
}
