package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"update-keeper/cmd/root"
	"update-keeper/controllers"
	"update-keeper/internal/config"
	"update-keeper/internal/env"
	"update-keeper/internal/logger"
	"update-keeper/internal/middleware"
	"update-keeper/internal/models"
	"update-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the update keeper HTTP service",
	Run: func(cmd *cobra.Command, args []string) {
		if err := startServer(context.Background()); err != nil {
			logger.Fatal(err)
		}
	},
}

/**
 * Start the HTTP service and the background update schedule
 * @param {context.Context} ctx - Parent context, cancelled on SIGINT/SIGTERM
 * @returns {error} Error if the service fails to start or shut down
 * @description
 * - Creates the update service against the persisted updater configuration
 * - Registers health, metrics and updater API routes on a gin router
 * - Drains service events into the log
 * - Schedules the startup check and the optional periodic check
 * - Shuts down gracefully and removes the staging area on exit
 */
func startServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfgPath := env.UpdaterConfigPath()
	cfg, err := config.LoadUpdaterConfig(cfgPath)
	if err != nil {
		return err
	}
	liveDir := config.Config.InstallDir
	if liveDir == "" {
		liveDir = env.ExecutableDir()
	}
	svc, err := services.NewUpdateService(cfg, cfgPath, liveDir)
	if err != nil {
		return err
	}
	defer svc.Close()

	gin.SetMode(config.Config.Server.Mode)
	router := gin.Default()
	router.Use(middleware.MetricsMiddleware())

	controllers.NewAPIController(svc).RegisterRoutes(router)
	controllers.NewUpdateController(svc).RegisterRoutes(router)

	go logEvents(svc)
	go scheduleChecks(ctx, svc)

	srv := &http.Server{
		Addr:    config.Config.Server.Address,
		Handler: router,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", config.Config.Server.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	return nil
}

func logEvents(svc *services.UpdateService) {
	for ev := range svc.Events() {
		switch ev.Kind {
		case models.EventStateChanged:
			logger.Infof("State changed: %s", ev.State)
		case models.EventStatusChanged:
			if ev.Severity == models.SeverityError {
				logger.Errorf("%s", ev.Message)
			} else {
				logger.Infof("%s", ev.Message)
			}
		case models.EventCheckResult:
			logger.Infof("Check finished: update_available=%v latest=%s",
				ev.Check.UpdateAvailable, ev.Check.LatestVersion)
		case models.EventDownloadResult, models.EventInstallResult:
			logger.Infof("Operation finished: success=%v reason=%q",
				ev.Result.Success, ev.Result.Reason)
		}
	}
}

/**
 * Run the startup check after a short delay, then repeat on the configured
 * interval. A check that finds the service busy is skipped silently.
 */
func scheduleChecks(ctx context.Context, svc *services.UpdateService) {
	delay := time.Duration(config.Config.Check.StartupDelayMS) * time.Millisecond
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return
	}
	if err := svc.RequestCheck(); err != nil && !errors.Is(err, services.ErrBusy) {
		logger.Errorf("Startup check failed: %v", err)
	}

	if config.Config.Check.IntervalMinutes <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(config.Config.Check.IntervalMinutes) * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := svc.RequestCheck(); err != nil && !errors.Is(err, services.ErrBusy) {
				logger.Errorf("Periodic check failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func init() {
	root.RootCmd.AddCommand(serverCmd)
}
