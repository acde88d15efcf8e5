package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weddingplanner/internal/entity"
	"weddingplanner/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const EventReminderSent = "reminder.sent"

type ReminderKind string

const (
	ReminderUser  ReminderKind = "user"
	ReminderAdmin ReminderKind = "admin"
)

// DefaultReminderSchedule lists the day offsets before a wedding at which the
// owner is reminded.
var DefaultReminderSchedule = []int{14, 7, 6, 5, 4, 3, 2, 1, 0}

const DefaultAdminNoticeDays = 7

type PageFailure struct {
	PageID uuid.UUID
	Slug   string
	Kind   ReminderKind
	Err    error
}

type SweepReport struct {
	Day           string
	Scanned       int
	UserReminders int
	AdminNotices  int
	Duplicates    int
	Failures      []PageFailure
}

type ReminderService struct {
	pages repository.WeddingPageRepository

	emailSender EmailSender
	ledger      ReminderLedger
	events      EventPublisher
	clock       Clock
	logger      logrus.FieldLogger
	config      ReminderConfig
}

func NewReminderService(
	pages repository.WeddingPageRepository,
	emailSender EmailSender,
	ledger ReminderLedger,
	events EventPublisher,
	clock Clock,
	logger logrus.FieldLogger,
	config ReminderConfig,
) *ReminderService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderService{
		pages:       pages,
		emailSender: emailSender,
		ledger:      ledger,
		events:      events,
		clock:       clock,
		logger:      logger,
		config:      config,
	}
}

// RunReminderSweep scans every live page with a wedding date and sends the
// reminders due today. Per-page failures are collected in the report; only a
// failure to load pages aborts the sweep.
func (s *ReminderService) RunReminderSweep(ctx context.Context) (*SweepReport, error) {
	now := s.now().In(s.location())
	report := &SweepReport{Day: now.Format(time.DateOnly)}

	err := s.pages.EachLiveBatch(ctx, s.config.BatchSize, func(pages []entity.WeddingPage) error {
		for i := range pages {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.processPage(ctx, &pages[i], now, report)
		}
		return nil
	})

	entry := s.logger.WithFields(logrus.Fields{
		"day":            report.Day,
		"scanned":        report.Scanned,
		"user_reminders": report.UserReminders,
		"admin_notices":  report.AdminNotices,
		"duplicates":     report.Duplicates,
		"failures":       len(report.Failures),
	})
	if err != nil {
		entry.WithError(err).Error("reminder sweep aborted")
		return report, fmt.Errorf("load wedding pages: %w", err)
	}
	entry.Info("reminder sweep finished")
	return report, nil
}

// ReminderDue reports which notifications fire for a wedding that is days away.
func (s *ReminderService) ReminderDue(days int) (user bool, admin bool) {
	for _, offset := range s.schedule() {
		if offset == days {
			user = true
			break
		}
	}
	return user, days == s.adminDays()
}

// DaysUntil counts whole calendar days from now (in loc) to the stored
// wedding date. Negative once the date has passed.
func DaysUntil(weddingDate time.Time, now time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	wy, wm, wd := weddingDate.UTC().Date()
	ny, nm, nd := now.In(loc).Date()
	wedding := time.Date(wy, wm, wd, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return int(wedding.Sub(today) / (24 * time.Hour))
}

func (s *ReminderService) processPage(ctx context.Context, page *entity.WeddingPage, now time.Time, report *SweepReport) {
	if page.WeddingDate == nil {
		return
	}
	report.Scanned++

	days := DaysUntil(*page.WeddingDate, now, s.location())
	userDue, adminDue := s.ReminderDue(days)
	if !userDue && !adminDue {
		return
	}

	owner := page.User
	planName := ""
	if owner.Plan != nil {
		planName = owner.Plan.Name
	}

	if userDue {
		message := reminderEmail(owner.Email, owner.Name, *page.WeddingDate, days, planName)
		if s.deliver(ctx, page, ReminderUser, report, message) {
			report.UserReminders++
		}
	}
	if adminDue {
		if strings.TrimSpace(s.config.AdminEmail) == "" {
			s.logger.WithField("slug", page.Slug).Warn("admin email not configured, skipping admin notice")
			return
		}
		message := adminNoticeEmail(s.config.AdminEmail, owner.Email, page.Slug, *page.WeddingDate)
		if s.deliver(ctx, page, ReminderAdmin, report, message) {
			report.AdminNotices++
		}
	}
}

func (s *ReminderService) deliver(ctx context.Context, page *entity.WeddingPage, kind ReminderKind, report *SweepReport, message EmailMessage) bool {
	entry := s.logger.WithFields(logrus.Fields{"page_id": page.ID, "slug": page.Slug, "kind": kind})

	claimed := false
	if s.ledger != nil {
		ok, err := s.ledger.Claim(ctx, page.ID, kind, report.Day)
		switch {
		case err != nil:
			entry.WithError(err).Warn("reminder ledger unavailable, sending without dedupe")
		case !ok:
			report.Duplicates++
			return false
		default:
			claimed = true
		}
	}

	err := s.send(ctx, message)
	if err != nil {
		if claimed {
			if releaseErr := s.ledger.Release(ctx, page.ID, kind, report.Day); releaseErr != nil {
				entry.WithError(releaseErr).Warn("could not release reminder claim")
			}
		}
		entry.WithError(err).Error("reminder not delivered")
		report.Failures = append(report.Failures, PageFailure{PageID: page.ID, Slug: page.Slug, Kind: kind, Err: err})
		return false
	}

	if s.events != nil {
		err := s.events.Publish(ctx, EventReminderSent, map[string]any{
			"page_id": page.ID,
			"slug":    page.Slug,
			"kind":    kind,
			"day":     report.Day,
		})
		if err != nil {
			entry.WithError(err).Warn("could not publish event")
		}
	}
	return true
}

func (s *ReminderService) send(ctx context.Context, message EmailMessage) (err error) {
	if s.emailSender == nil {
		return ErrEmailNotConfigured
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("email sender panic: %v", r)
		}
	}()
	return s.emailSender.Send(ctx, message)
}

func (s *ReminderService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}

func (s *ReminderService) location() *time.Location {
	if s.config.Location != nil {
		return s.config.Location
	}
	return time.UTC
}

func (s *ReminderService) schedule() []int {
	if len(s.config.Schedule) > 0 {
		return s.config.Schedule
	}
	return DefaultReminderSchedule
}

func (s *ReminderService) adminDays() int {
	if s.config.AdminDays > 0 {
		return s.config.AdminDays
	}
	return DefaultAdminNoticeDays
}
