package appointments

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/metrics"
	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/utils"
)

// SettingsStore loads and saves the scheduling configuration.
type SettingsStore interface {
	Load(ctx context.Context) (models.SchedulingSettings, error)
	Save(ctx context.Context, s models.SchedulingSettings) error
}

// BookingLookup lists appointments with a preferred date in [start, end).
type BookingLookup interface {
	ListInRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
}

// Store is the appointment persistence the manager writes through.
type Store interface {
	BookingLookup
	Save(ctx context.Context, appt models.Appointment) (models.Appointment, error)
	Get(ctx context.Context, id string) (models.Appointment, error)
	Delete(ctx context.Context, id string) error
}

// Notifier emails the customer and the business. Each call picks its
// template from the appointment status.
type Notifier interface {
	SendCustomerEmail(ctx context.Context, appt models.Appointment) error
	SendAdminEmail(ctx context.Context, appt models.Appointment) error
}

// Result is the outcome of a write that succeeded. NotifyErr is set when the
// follow-up emails did not all go out.
type Result struct {
	Appointment models.Appointment `json:"appointment"`
	Persisted   bool               `json:"persisted"`
	Notified    bool               `json:"notified"`
	NotifyErr   *NotificationError `json:"-"`
}

// Availability is the slot picture for one calendar date.
type Availability struct {
	Date     string            `json:"date"`
	Bookable bool              `json:"bookable"`
	Slots    []models.TimeSlot `json:"slots"`
}

// Draft is the customer-supplied part of a new appointment. Date is
// YYYY-MM-DD and Time is an HH:MM slot.
type Draft struct {
	CustomerName    string             `json:"customerName"`
	CustomerEmail   string             `json:"customerEmail"`
	CustomerPhone   string             `json:"customerPhone"`
	ServiceType     models.ServiceType `json:"serviceType"`
	Date            string             `json:"date"`
	Time            string             `json:"time"`
	AlternativeDate *time.Time         `json:"alternativeDate,omitempty"`
	Description     string             `json:"description"`
	// Status is accepted and ignored; new appointments are always pending.
	Status models.AppointmentStatus `json:"status,omitempty"`
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

type Manager struct {
	settings SettingsStore
	store    Store
	notifier Notifier
	metrics  *metrics.SchedulingMetrics
	logger   *logging.Logger
	now      func() time.Time
}

type Option func(*Manager)

func WithMetrics(m *metrics.SchedulingMetrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

func WithLogger(l *logging.Logger) Option {
	return func(mgr *Manager) {
		if l != nil {
			mgr.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) { mgr.now = now }
}

func NewManager(settings SettingsStore, store Store, notifier Notifier, opts ...Option) *Manager {
	m := &Manager{
		settings: settings,
		store:    store,
		notifier: notifier,
		logger:   logging.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Availability reports whether date can be booked and, when it can, which
// slots are still free. Booked slots are a snapshot; nothing is reserved.
func (m *Manager) Availability(ctx context.Context, date time.Time) (Availability, error) {
	out := Availability{Date: date.Format(models.DateLayout), Slots: []models.TimeSlot{}}

	settings, err := m.settings.Load(ctx)
	if err != nil {
		return out, &PersistenceError{Op: "load settings", Err: err}
	}

	out.Bookable = utils.IsDateBookableOn(date, m.now(), settings)
	m.metrics.ObserveAvailability(out.Bookable)
	if !out.Bookable {
		return out, nil
	}

	slots, err := utils.GenerateTimeSlots(settings.BusinessHours)
	if err != nil {
		return out, err
	}

	start, end := utils.DayBounds(date)
	booked, err := m.store.ListInRange(ctx, start, end)
	if err != nil {
		return out, &PersistenceError{Op: "list bookings", Err: err}
	}

	out.Slots = utils.MarkUnavailable(slots, utils.BookedTimes(booked))
	return out, nil
}

// Create validates a customer submission and saves it as pending. The
// customer and admin emails follow the save.
func (m *Manager) Create(ctx context.Context, draft Draft) (*Result, error) {
	settings, err := m.settings.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load settings", Err: err}
	}

	preferred, verr := m.validate(draft, settings)
	if verr != nil {
		return nil, verr
	}

	appt := models.Appointment{
		CustomerName:    strings.TrimSpace(draft.CustomerName),
		CustomerEmail:   strings.TrimSpace(draft.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(draft.CustomerPhone),
		ServiceType:     draft.ServiceType,
		PreferredDate:   preferred,
		AlternativeDate: draft.AlternativeDate,
		Description:     strings.TrimSpace(draft.Description),
	}
	return m.SetStatus(ctx, appt, models.StatusPending)
}

func (m *Manager) validate(draft Draft, settings models.SchedulingSettings) (time.Time, error) {
	fields := map[string]string{}

	if strings.TrimSpace(draft.CustomerName) == "" {
		fields["customerName"] = "name is required"
	}
	email := strings.TrimSpace(draft.CustomerEmail)
	switch {
	case email == "":
		fields["customerEmail"] = "email is required"
	case !emailPattern.MatchString(email):
		fields["customerEmail"] = "email is invalid"
	}
	if strings.TrimSpace(draft.CustomerPhone) == "" {
		fields["customerPhone"] = "phone is required"
	}
	if !draft.ServiceType.Valid() {
		fields["serviceType"] = "service type is invalid"
	}

	var preferred time.Time
	date, err := utils.ParseDate(draft.Date)
	switch {
	case draft.Date == "":
		fields["date"] = "date is required"
	case err != nil:
		fields["date"] = err.Error()
	case !utils.IsDateBookableOn(date, m.now(), settings):
		fields["date"] = "date is not available for booking"
	}

	switch {
	case draft.Time == "":
		fields["time"] = "time is required"
	case !utils.IsSlot(draft.Time, settings.BusinessHours):
		fields["time"] = "time is not an available slot"
	case err == nil:
		at, serr := utils.AtSlot(date, draft.Time)
		if serr != nil {
			fields["time"] = serr.Error()
			break
		}
		preferred = at
	}

	if alt := draft.AlternativeDate; alt != nil && !utils.IsDateBookableOn(*alt, m.now(), settings) {
		fields["alternativeDate"] = "alternative date is not available for booking"
	}

	if len(fields) > 0 {
		return time.Time{}, &ValidationError{Fields: fields}
	}
	return preferred, nil
}

// SetStatus moves appt to status, saves the full record and sends the emails
// the new status calls for. Setting the current status again is a no-op.
//
// Leaving confirmed or rejected needs operator acknowledgement; that check
// belongs to the caller (see models.RequiresAcknowledgement).
func (m *Manager) SetStatus(ctx context.Context, appt models.Appointment, status models.AppointmentStatus) (*Result, error) {
	if appt.Status == status && appt.Status != "" {
		return &Result{Appointment: appt}, nil
	}

	from := appt.Status
	next, err := models.Transition(from, status)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"status": err.Error()}}
	}

	now := m.now()
	appt.Status = next
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = now
	}
	appt.UpdatedAt = now

	saved, err := m.store.Save(ctx, appt)
	if err != nil {
		m.logger.Error("appointment save failed", "appointment_id", appt.ID, "status", next, "error", err)
		return nil, &PersistenceError{Op: "save appointment", Err: err}
	}
	m.metrics.ObserveTransition(string(from), string(next))
	m.logger.Info("appointment status saved", "appointment_id", saved.ID, "from", from, "to", next)

	result := &Result{Appointment: saved, Persisted: true, Notified: true}
	if nerr := m.notify(ctx, saved); nerr != nil {
		result.Notified = false
		result.NotifyErr = nerr
		m.logger.Warn("appointment saved but notification failed", "appointment_id", saved.ID, "error", nerr)
	}
	return result, nil
}

func (m *Manager) notify(ctx context.Context, appt models.Appointment) *NotificationError {
	var customerErr, adminErr error

	switch appt.Status {
	case models.StatusPending:
		// Both sends run even if one fails, so the group never cancels.
		var g errgroup.Group
		g.Go(func() error {
			customerErr = m.notifier.SendCustomerEmail(ctx, appt)
			return nil
		})
		g.Go(func() error {
			adminErr = m.notifier.SendAdminEmail(ctx, appt)
			return nil
		})
		_ = g.Wait()
		m.metrics.ObserveNotification("customer", customerErr)
		m.metrics.ObserveNotification("admin", adminErr)
	case models.StatusConfirmed, models.StatusRejected:
		customerErr = m.notifier.SendCustomerEmail(ctx, appt)
		m.metrics.ObserveNotification("customer", customerErr)
	default:
		return nil
	}

	if customerErr == nil && adminErr == nil {
		return nil
	}
	return &NotificationError{Customer: customerErr, Admin: adminErr}
}

// Get loads one appointment.
func (m *Manager) Get(ctx context.Context, id string) (models.Appointment, error) {
	appt, err := m.store.Get(ctx, id)
	if err != nil {
		return models.Appointment{}, &PersistenceError{Op: "get appointment", Err: err}
	}
	return appt, nil
}

// UpdateStatus re-reads the record by id before applying SetStatus.
func (m *Manager) UpdateStatus(ctx context.Context, id string, status models.AppointmentStatus) (*Result, error) {
	appt, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.SetStatus(ctx, appt, status)
}

func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return &PersistenceError{Op: "delete appointment", Err: err}
	}
	m.logger.Info("appointment deleted", "appointment_id", id)
	return nil
}

// IsPersistence reports whether err came from the store.
func IsPersistence(err error) bool {
	var perr *PersistenceError
	return errors.As(err, &perr)
}
