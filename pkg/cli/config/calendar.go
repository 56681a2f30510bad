package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Calendar holds business-day calendar configuration
type Calendar struct {
	ClosuresFile string
}

// closuresConfig is the YAML shape of the closures file:
//
//	closures:
//	  - "2025-08-13"
//	  - "2025-08-14"
type closuresConfig struct {
	Closures []string `yaml:"closures"`
}

// Flags returns CLI flags for Calendar configuration
func (c *Calendar) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "closures-file",
			Usage:       "YAML file listing organization closure dates (YYYY-MM-DD)",
			Category:    "Calendar",
			Sources:     cli.EnvVars("PBLVIEW_CLOSURES_FILE"),
			Destination: &c.ClosuresFile,
		},
	}
}

// Configure builds the business-day calendar, loading closure dates from the
// configured file when one is given.
func (c *Calendar) Configure() (*model.BusinessDayCalendar, error) {
	if c.ClosuresFile == "" {
		return model.NewBusinessDayCalendar(nil), nil
	}

	raw, err := os.ReadFile(c.ClosuresFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read closures file",
			goerr.V("path", c.ClosuresFile))
	}

	var cfg closuresConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse closures file",
			goerr.V("path", c.ClosuresFile))
	}

	closures := make([]time.Time, 0, len(cfg.Closures))
	for _, s := range cfg.Closures {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil, goerr.Wrap(err, "malformed closure date",
				goerr.V("path", c.ClosuresFile), goerr.V("date", s))
		}
		closures = append(closures, d)
	}

	return model.NewBusinessDayCalendar(closures), nil
}

// LogValue returns structured log value
func (c Calendar) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("closuresFile", c.ClosuresFile),
	)
}
