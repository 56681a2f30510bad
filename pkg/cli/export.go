package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/cli/config"
	"github.com/pbl-lab/pblview/pkg/domain/model"
	"github.com/pbl-lab/pblview/pkg/service/export"
	"github.com/pbl-lab/pblview/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var (
		gitlabCfg    config.GitLab
		firestoreCfg config.Firestore
		calendarCfg  config.Calendar
		scopeCfg     config.Scope

		start     string
		end       string
		output    string
		milestone string
	)

	flags := joinFlags(
		gitlabCfg.Flags(),
		firestoreCfg.Flags(),
		calendarCfg.Flags(),
		scopeCfg.Flags(),
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "start",
				Usage:       "Reporting period start date (YYYY-MM-DD)",
				Required:    true,
				Sources:     cli.EnvVars("PBLVIEW_START"),
				Destination: &start,
			},
			&cli.StringFlag{
				Name:        "end",
				Usage:       "Reporting period end date (YYYY-MM-DD)",
				Required:    true,
				Sources:     cli.EnvVars("PBLVIEW_END"),
				Destination: &end,
			},
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "Output xlsx path",
				Value:       "report.xlsx",
				Sources:     cli.EnvVars("PBLVIEW_OUTPUT"),
				Destination: &output,
			},
			&cli.StringFlag{
				Name:        "milestone",
				Usage:       "Narrow the charts to one milestone",
				Sources:     cli.EnvVars("PBLVIEW_MILESTONE"),
				Destination: &milestone,
			},
		},
	)

	return &cli.Command{
		Name:  "export",
		Usage: "Write a burn chart workbook for a reporting period",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			period, err := model.ParsePeriod(start, end)
			if err != nil {
				return err
			}

			repo, err := firestoreCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gitlabClient, err := gitlabCfg.Configure()
			if err != nil {
				return err
			}

			calendar, err := calendarCfg.Configure()
			if err != nil {
				return err
			}

			chart := usecase.NewChart(calendar)
			report := usecase.NewReport(repo, gitlabClient, chart, gitlabCfg.ProjectID, scopeCfg.Options())

			scope, err := report.ScopedIssues(ctx, period)
			if err != nil {
				return err
			}
			burnDown, err := report.Generate(ctx, model.ChartBurnDown, period, milestone)
			if err != nil {
				return err
			}
			burnUp, err := report.Generate(ctx, model.ChartBurnUp, period, milestone)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
			}
			defer f.Close()

			if err := export.WriteWorkbook(f, scope, burnDown, burnUp); err != nil {
				return err
			}

			logger.Info("Report written",
				slog.String("path", output),
				slog.Any("period", period),
				slog.Int("issues", len(scope.Filtered)),
				slog.Int("excluded", len(scope.Excluded)),
			)
			return nil
		},
	}
}
