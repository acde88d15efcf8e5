package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"weddingplanner/config"
	"weddingplanner/internal/bootstrap"

	"github.com/sirupsen/logrus"
)

// One-shot reminder sweep for schedulers that run a binary instead of
// calling the cron endpoint.
func main() {
	logger := bootstrap.NewLogger(os.Stdout)
	if err := run(logger); err != nil {
		logger.WithError(err).Error("reminder sweep failed")
		os.Exit(1)
	}
}

func run(logger *logrus.Logger) error {
	cfg, err := config.Load(logger)
	if err != nil {
		return err
	}
	db, err := config.ConnectionDb(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer config.CloseDb(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, closeLedger := bootstrap.ReminderLedger(ctx, cfg, logger)
	defer closeLedger()
	events, closeEvents := bootstrap.Events(cfg, logger)
	defer closeEvents()

	svc := bootstrap.ReminderService(db, cfg, bootstrap.EmailSender(cfg, logger), ledger, events, logger)
	report, err := svc.RunReminderSweep(ctx)
	if err != nil {
		return err
	}
	if len(report.Failures) > 0 {
		logger.WithField("failures", len(report.Failures)).Warn("reminder sweep finished with failures")
	}
	return nil
}
