package app

import (
	"context"
	"errors"
	"fmt"

	"mysql-backup-service/internal/adapter/compressor"
	"mysql-backup-service/internal/adapter/database"
	"mysql-backup-service/internal/adapter/notifier"
	"mysql-backup-service/internal/adapter/storage"
	"mysql-backup-service/internal/config"
	"mysql-backup-service/internal/domain"
	"mysql-backup-service/internal/infrastructure/logger"
	"mysql-backup-service/internal/infrastructure/scheduler"
	"mysql-backup-service/internal/profile"
	"mysql-backup-service/internal/usecase"
)

type App struct {
	Config *config.Config
	Logger *logger.Logger

	coordinator *usecase.Coordinator
	cleanupUC   *usecase.Cleanup
	statusUC    *usecase.Status
}

func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LogLevel, cfg.LogFile())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	localStorage, err := storage.NewLocal(cfg.BackupDirectory)
	if err != nil {
		return nil, &domain.ConfigError{Path: cfg.BackupDirectory, Err: err}
	}

	comp := compressor.NewGzip()
	dumper := database.NewMySQL(comp, cfg.DumpTimeout())
	profiles := profile.New(cfg.EnvDirectory)
	reports := usecase.NewReportStore(cfg.ReportPath())

	uploadTargets := initializeUploadTargets(cfg, log)
	channels := initializeChannels(cfg, log)

	var dispatcher *usecase.Dispatcher
	if len(channels) > 0 {
		dispatcher = usecase.NewDispatcher(channels, log, cfg.NotifyTimeout())
	}

	cleanupUC := usecase.NewCleanup(localStorage, uploadTargets, cfg.RetentionDays, log)

	coordinator := usecase.NewCoordinator(usecase.CoordinatorOptions{
		Profiles:      profiles,
		Dumper:        dumper,
		DestDir:       localStorage.BasePath(),
		UploadTargets: uploadTargets,
		Cleanup:       cleanupUC,
		Dispatcher:    dispatcher,
		Reports:       reports,
		Logger:        log,
		Concurrency:   cfg.Concurrency,
	})

	return &App{
		Config:      cfg,
		Logger:      log,
		coordinator: coordinator,
		cleanupUC:   cleanupUC,
		statusUC:    usecase.NewStatus(reports, localStorage, cfg.RetentionDays),
	}, nil
}

// initializeChannels builds the enabled notification channels. A channel
// that fails to initialize is logged and left out; it never blocks the run.
func initializeChannels(cfg *config.Config, log *logger.Logger) []domain.Notifier {
	n := cfg.Notification
	if !n.Enabled {
		return nil
	}

	var channels []domain.Notifier

	if n.Webhook != "" {
		channels = append(channels, notifier.NewWebhook(n.Webhook))
		log.Infof("✓ Webhook notifications enabled")
	}

	if n.Email != "" {
		channels = append(channels, notifier.NewEmail(n.SMTP, n.Email))
		log.Infof("✓ Email notifications enabled (to: %s)", n.Email)
	}

	if n.WhatsApp.Enabled {
		channels = append(channels, notifier.NewWhatsApp(n.WhatsApp.APIURL, n.WhatsApp.GroupID))
		log.Infof("✓ WhatsApp notifications enabled (group: %s)", n.WhatsApp.GroupID)
	}

	if n.Telegram.Enabled {
		tg, err := notifier.NewTelegram(n.Telegram.BotToken, n.Telegram.ChatID, cfg.NotifyTimeout())
		if err != nil {
			log.Errorf("Failed to initialize Telegram: %v", err)
		} else {
			channels = append(channels, tg)
			log.Infof("✓ Telegram notifications enabled")
		}
	}

	return channels
}

func initializeUploadTargets(cfg *config.Config, log *logger.Logger) []usecase.UploadTarget {
	var targets []usecase.UploadTarget

	for _, targetCfg := range cfg.EnabledUploadTargets() {
		var stor domain.Storage
		var err error

		switch targetCfg.Type {
		case "s3":
			stor, err = storage.NewS3(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize S3: %v", err)
				continue
			}
			log.Infof("✓ S3 upload enabled (bucket: %s)", targetCfg.Bucket)

		case "gdrive":
			stor, err = storage.NewGDrive(&targetCfg)
			if err != nil {
				log.Errorf("Failed to initialize Google Drive: %v", err)
				continue
			}
			log.Infof("✓ Google Drive upload enabled")

		default:
			log.Warnf("Unknown upload target type: %s", targetCfg.Type)
			continue
		}

		targets = append(targets, usecase.UploadTarget{
			Name:    targetCfg.Type,
			Storage: stor,
		})
	}

	return targets
}

// Backup performs one full run and returns its report. The error is non-nil
// only for a global configuration failure.
func (a *App) Backup(ctx context.Context) (*domain.RunReport, error) {
	return a.coordinator.Run(ctx)
}

// Cleanup enforces retention only, with no dumps and no backup notification.
func (a *App) Cleanup(ctx context.Context) *domain.RetentionStats {
	return a.cleanupUC.Execute(ctx)
}

// Status reads the last persisted report and artifact directory state.
func (a *App) Status(ctx context.Context) (*usecase.StatusReport, error) {
	return a.statusUC.Collect(ctx)
}

// Serve runs backups in-process on the configured cron schedules until ctx
// is cancelled. External cron invoking `backup` remains the primary mode;
// this exists for hosts without one.
func (a *App) Serve(ctx context.Context) error {
	if len(a.Config.Schedule) == 0 {
		return &domain.ConfigError{Err: errors.New("serve requires at least one schedule entry")}
	}

	sched := scheduler.New(func(spec string, err error) {
		a.Logger.Errorf("Scheduled run (%s) failed: %v", spec, err)
	})

	for _, spec := range a.Config.Schedule {
		spec := spec
		err := sched.AddJob(spec, func(ctx context.Context) error {
			a.Logger.Infof("=== Triggered scheduled backup (%s) ===", spec)
			_, err := a.coordinator.Run(ctx)
			return err
		})
		if err != nil {
			return &domain.ConfigError{Err: fmt.Errorf("invalid schedule %q: %w", spec, err)}
		}
	}

	if a.Config.CleanupSchedule != "" {
		err := sched.AddJob(a.Config.CleanupSchedule, func(ctx context.Context) error {
			a.cleanupUC.Execute(ctx)
			return nil
		})
		if err != nil {
			return &domain.ConfigError{Err: fmt.Errorf("invalid cleanup_schedule %q: %w", a.Config.CleanupSchedule, err)}
		}
	}

	sched.Start()
	a.Logger.Infof("Scheduler started with %d backup schedule(s)", len(a.Config.Schedule))

	<-ctx.Done()
	sched.Stop()
	return nil
}

func (a *App) Shutdown() {
	a.Logger.Infof("Shutting down")
	a.Logger.Close()
}
