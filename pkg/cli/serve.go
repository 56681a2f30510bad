package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pbl-lab/pblview/pkg/cli/config"
	controller "github.com/pbl-lab/pblview/pkg/controller/http"
	"github.com/pbl-lab/pblview/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg    config.Server
		gitlabCfg    config.GitLab
		firestoreCfg config.Firestore
		calendarCfg  config.Calendar
		scopeCfg     config.Scope
	)

	flags := joinFlags(
		serverCfg.Flags(),
		gitlabCfg.Flags(),
		firestoreCfg.Flags(),
		calendarCfg.Flags(),
		scopeCfg.Flags(),
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the report API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			logger.Info("Starting pblview server",
				slog.Any("server", serverCfg),
				slog.Any("gitlab", gitlabCfg),
				slog.Any("firestore", firestoreCfg),
				slog.Any("calendar", calendarCfg),
				slog.Any("scope", scopeCfg),
			)

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

			server := controller.NewServer(ctx, serverCfg.Addr, report)

			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
