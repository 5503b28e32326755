package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/timeanalyzer/internal/backup"
	"github.com/dukerupert/timeanalyzer/internal/clock"
	"github.com/dukerupert/timeanalyzer/internal/config"
	"github.com/dukerupert/timeanalyzer/internal/database"
	"github.com/dukerupert/timeanalyzer/internal/logging"
	"github.com/dukerupert/timeanalyzer/internal/notify"
	"github.com/dukerupert/timeanalyzer/internal/report"
	"github.com/dukerupert/timeanalyzer/internal/server"
	"github.com/dukerupert/timeanalyzer/internal/store"
	"github.com/dukerupert/timeanalyzer/internal/websocket"
	"github.com/dukerupert/timeanalyzer/internal/window"
)

func main() {
	cfg := config.Load()
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	clk := clock.System{Location: cfg.Location}
	blobs := store.NewBlobStore(db)

	activities := store.NewActivityStore(blobs, clk, logger.With("component", "store"))
	activities.Load()

	hub := websocket.NewHub(logger.With("component", "websocket"))

	var notifier notify.Notifier = notify.Nop{}
	if cfg.NotifyEnabled {
		notifier = notify.NewDesktop(logger.With("component", "notify"))
	}

	coord := report.NewCoordinator(
		activities,
		websocket.NewRenderer(hub),
		notifier,
		clk,
		blobs,
		window.Parse(cfg.DefaultWindow),
		logger.With("component", "report"),
	)
	activities.OnChange(coord.OnStoreChange)

	backupMgr := backup.NewManager(backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
		Passphrase:   cfg.BackupPassphrase,
		ScheduleHour: cfg.BackupScheduleHour,
		Retention:    cfg.BackupRetention,
	}, activities, store.NewBackupStore(db), func(s backup.Status) {
		hub.Broadcast(websocket.Message{
			Type:   "backup_status",
			Entity: "backup",
			Action: string(s.State),
			Extra: map[string]any{
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backupMgr.Start(ctx)
	defer backupMgr.Stop()

	// Initial render so the first dashboard client gets charts immediately.
	coord.Refresh(ctx, coord.CurrentWindow())

	srv := server.New(server.Deps{
		Activities:  activities,
		Coordinator: coord,
		Backups:     backupMgr,
		Hub:         hub,
		Clock:       clk,
	}, logger)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("time analyzer running", "addr", "http://"+cfg.HTTPAddress, "activities", activities.Len())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
