package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/models"
)

// ConfirmedLister finds the confirmed appointments on one calendar date.
type ConfirmedLister interface {
	ListConfirmedOn(ctx context.Context, day time.Time) ([]models.Appointment, error)
}

// ReminderSender mails one reminder.
type ReminderSender interface {
	SendReminder(ctx context.Context, appt models.Appointment) error
}

// Reminders emails customers the day before a confirmed appointment. It
// never changes appointment status.
type Reminders struct {
	lister  ConfirmedLister
	sender  ReminderSender
	logger  *logging.Logger
	now     func() time.Time
	timeout time.Duration
}

func NewReminders(lister ConfirmedLister, sender ReminderSender, logger *logging.Logger) *Reminders {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reminders{lister: lister, sender: sender, logger: logger, now: time.Now, timeout: 5 * time.Minute}
}

// Run sends reminders for tomorrow's confirmed appointments and returns how
// many went out. A failed send is logged and skipped.
func (r *Reminders) Run(ctx context.Context) (int, error) {
	tomorrow := r.now().AddDate(0, 0, 1)

	appts, err := r.lister.ListConfirmedOn(ctx, tomorrow)
	if err != nil {
		return 0, fmt.Errorf("cron: fetch appointments for reminders: %w", err)
	}

	r.logger.Info("found appointments for reminders", "count", len(appts), "date", tomorrow.Format(models.DateLayout))

	sent := 0
	for _, appt := range appts {
		if err := r.sender.SendReminder(ctx, appt); err != nil {
			r.logger.Error("failed to send reminder", "appointment_id", appt.ID, "error", err)
			continue
		}
		sent++
		r.logger.Info("sent reminder", "appointment_id", appt.ID, "to", appt.CustomerEmail)
	}
	return sent, nil
}

// Start schedules Run on schedule and starts the scheduler.
func (r *Reminders) Start(schedule string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.logger.Error("reminder run failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("cron: add reminder job %q: %w", schedule, err)
	}
	c.Start()
	r.logger.Info("cron job scheduler started for appointment reminders", "schedule", schedule)
	return c, nil
}
