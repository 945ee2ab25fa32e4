package notify

import (
	"context"
	"fmt"

	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/models"
)

// Mailer turns appointments into templated emails and hands them to an
// EmailSender. The status of the appointment picks the template.
type Mailer struct {
	sender     EmailSender
	adminEmail string
	business   models.BusinessDetails
	templates  *templateSet
	logger     *logging.Logger
}

func NewMailer(sender EmailSender, adminEmail string, business models.BusinessDetails, logger *logging.Logger) (*Mailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("notify: email sender is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	return &Mailer{
		sender:     sender,
		adminEmail: adminEmail,
		business:   business,
		templates:  templates,
		logger:     logger,
	}, nil
}

// SendCustomerEmail mails the customer for pending, confirmed and rejected
// appointments. Other statuses send nothing.
func (m *Mailer) SendCustomerEmail(ctx context.Context, appt models.Appointment) error {
	var kind templateKind
	switch appt.Status {
	case models.StatusPending:
		kind = kindRequestReceived
	case models.StatusConfirmed:
		kind = kindConfirmed
	case models.StatusRejected:
		kind = kindRejected
	default:
		m.logger.Debug("no customer email for status", "appointment_id", appt.ID, "status", appt.Status)
		return nil
	}
	return m.send(ctx, kind, appt.CustomerEmail, appt.CustomerName, appt)
}

// SendAdminEmail alerts the business about a new request. Only pending
// appointments produce a message.
func (m *Mailer) SendAdminEmail(ctx context.Context, appt models.Appointment) error {
	if appt.Status != models.StatusPending {
		return nil
	}
	if m.adminEmail == "" {
		return fmt.Errorf("notify: admin email address not configured")
	}
	return m.send(ctx, kindNewRequestAlert, m.adminEmail, m.business.Name, appt)
}

// SendReminder mails the day-before reminder for a confirmed appointment.
func (m *Mailer) SendReminder(ctx context.Context, appt models.Appointment) error {
	return m.send(ctx, kindReminder, appt.CustomerEmail, appt.CustomerName, appt)
}

func (m *Mailer) send(ctx context.Context, kind templateKind, to, toName string, appt models.Appointment) error {
	text, html, err := m.templates.render(kind, newTemplateData(m.business, appt))
	if err != nil {
		return err
	}
	msg := EmailMessage{
		To:      to,
		ToName:  toName,
		Subject: subjectFor(kind, m.business, appt),
		Body:    text,
		HTML:    html,
	}
	if err := m.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: send %s to %s: %w", kind, to, err)
	}
	return nil
}
