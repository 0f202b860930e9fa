package main

import (
	"context"
	"fmt"
	"io"

	"pos_emailer/internal/app"
	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/infra/config"
	"pos_emailer/internal/infra/database"
	"pos_emailer/internal/infra/logger"
	"pos_emailer/internal/infra/mailer"
	"pos_emailer/internal/infra/metrics"
	"pos_emailer/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func loadConfig(path string) (*config.AppConfig, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("could not load application configuration: %w", err)
	}
	logger.Init(cfg)
	logger.Log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"db_driver":   cfg.Database.Driver,
		"db_host":     cfg.Database.Host,
		"db_name":     cfg.Database.Name,
		"smtp":        fmt.Sprintf("%s:%d", cfg.Mail.Host, cfg.Mail.Port),
		"mail_user":   cfg.Mail.User,
		"site_url":    cfg.SiteURL,
	}).Info("Configuration loaded")
	return cfg, nil
}

// buildRouter wires the notifiers, the delivery channel and the report observers.
func buildRouter(cfg *config.AppConfig, dryRun bool, out io.Writer) (*app.Router, error) {
	renderer, err := app.NewRenderer(cfg.SiteURL, cfg.EmailDomain, cfg.Mail.From)
	if err != nil {
		return nil, err
	}

	var sender notification.Sender
	if dryRun {
		logger.Log.Info("Dry run: emails will be printed, not sent")
		sender = mailer.NewConsoleSender(out)
	} else {
		if cfg.Mail.Password == "" {
			logger.Log.Warn("MAIL_PASSWORD not set; every send will be refused until configured")
		}
		sender = mailer.NewSMTPSender(cfg.Mail)
	}

	openStore := func(ctx context.Context) (app.Store, error) {
		store, err := database.OpenStore(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	observers := []app.ReportObserver{metrics.NewRecorder(cfg.PushgatewayURL)}
	if cfg.TelegramToken != "" && cfg.TelegramAlertChatID != 0 {
		client, err := telegram.NewTelebotAdapter(cfg.TelegramToken)
		if err != nil {
			logger.Log.WithError(err).Warn("Telegram alerts disabled")
		} else {
			observers = append(observers, telegram.NewAlerter(client, cfg.TelegramAlertChatID))
		}
	}

	facultyNotifier := app.NewFacultyNotifier(openStore, sender, renderer)
	studentNotifier := app.NewStudentNotifier(openStore, sender, renderer, cfg.StudentLimit, cfg.ApprovalWindow)
	return app.NewRouter(facultyNotifier, studentNotifier, logger.Log, observers...), nil
}
