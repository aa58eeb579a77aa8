// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/reelsite/internal/app/resources"
	"github.com/dalemusser/reelsite/internal/app/store/audit"
	"github.com/dalemusser/reelsite/internal/app/system/auditlog"
	"github.com/dalemusser/reelsite/internal/app/system/mailer"
	"github.com/dalemusser/reelsite/internal/app/system/seeding"
	"github.com/dalemusser/reelsite/internal/app/system/sitedata"
	"github.com/dalemusser/reelsite/internal/app/system/tasks"
	"github.com/dalemusser/reelsite/internal/app/system/timeouts"
	"github.com/dalemusser/reelsite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after the schema is in place and before the handler
// is built. It loads the site dataset, seeds the first admin and the
// optional sample media, and starts the background jobs.
//
// Returning an error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.TimeoutPing,
		Read:  appCfg.TimeoutRead,
		Write: appCfg.TimeoutWrite,
	})

	ds, err := sitedata.LoadFile(appCfg.SiteDataFile)
	if err != nil {
		logger.Error("failed to load site data", zap.String("file", appCfg.SiteDataFile), zap.Error(err))
		return err
	}
	viewdata.Init(ds)
	if appCfg.SiteDataFile != "" {
		logger.Info("loaded site data override", zap.String("file", appCfg.SiteDataFile))
	}

	if err := seeding.SeedAll(ctx, deps.MongoDatabase, logger, seeding.Options{
		AdminEmail:    appCfg.SeedAdminEmail,
		AdminName:     appCfg.SeedAdminName,
		AdminPassword: appCfg.SeedAdminPassword,
		SampleMedia:   appCfg.SeedSampleMedia,
		Data:          ds,
		Audit:         newAuditLogger(appCfg, deps, logger),
	}); err != nil {
		logger.Error("failed to seed data", zap.Error(err))
		return err
	}

	startTaskRunner(appCfg, deps, logger)

	inquiryNotifier = mailer.NewInquiryNotifier(mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		User:     appCfg.MailSMTPUser,
		Pass:     appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
		FromName: appCfg.MailFromName,
	}, logger), appCfg.NotifyEmail, logger)
	if inquiryNotifier != nil {
		logger.Info("inquiry notifications enabled", zap.String("notify_email", appCfg.NotifyEmail))
	}

	return nil
}

// inquiryNotifier is nil when mail is not configured.
var inquiryNotifier *mailer.InquiryNotifier

// taskRunner is kept for Shutdown.
var taskRunner *tasks.Runner

func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)
	if appCfg.AuditRetention > 0 {
		taskRunner.Register(tasks.AuditRetentionJob(audit.New(deps.MongoDatabase), appCfg.AuditRetention, logger))
	}
	taskRunner.Start()
}

func newAuditLogger(appCfg AppConfig, deps DBDeps, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(deps.MongoDatabase), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
}
