package notify

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/mralligator/appointment-scheduler/models"
)

//go:embed templates/*.txt templates/*.html
var templateFS embed.FS

type templateKind string

const (
	kindRequestReceived templateKind = "request_received"
	kindNewRequestAlert templateKind = "new_request_alert"
	kindConfirmed       templateKind = "confirmed"
	kindRejected        templateKind = "rejected"
	kindReminder        templateKind = "reminder"
)

var allKinds = []templateKind{kindRequestReceived, kindNewRequestAlert, kindConfirmed, kindRejected, kindReminder}

type templateData struct {
	Business        models.BusinessDetails
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Service         string
	Date            string
	Time            string
	AlternativeDate string
	Description     string
	Status          string
	Submitted       string
}

const (
	displayDate     = "Monday, January 2, 2006"
	displayTime     = "3:04 PM"
	displayDateTime = "January 2, 2006 3:04 PM"
)

func newTemplateData(b models.BusinessDetails, a models.Appointment) templateData {
	d := templateData{
		Business:      b,
		CustomerName:  a.CustomerName,
		CustomerEmail: a.CustomerEmail,
		CustomerPhone: a.CustomerPhone,
		Service:       a.ServiceType.Label(),
		Date:          a.PreferredDate.Format(displayDate),
		Time:          a.PreferredDate.Format(displayTime),
		Description:   a.Description,
		Status:        string(a.Status),
		Submitted:     a.CreatedAt.Format(displayDateTime),
	}
	if d.Description == "" {
		d.Description = "No description provided"
	}
	if a.AlternativeDate != nil {
		d.AlternativeDate = a.AlternativeDate.Format(displayDateTime)
	}
	return d
}

type templateSet struct {
	text map[templateKind]*texttemplate.Template
	html map[templateKind]*htmltemplate.Template
}

func loadTemplates() (*templateSet, error) {
	set := &templateSet{
		text: make(map[templateKind]*texttemplate.Template, len(allKinds)),
		html: make(map[templateKind]*htmltemplate.Template, len(allKinds)),
	}
	for _, kind := range allKinds {
		t, err := texttemplate.ParseFS(templateFS, "templates/"+string(kind)+".txt")
		if err != nil {
			return nil, fmt.Errorf("notify: parse %s text template: %w", kind, err)
		}
		h, err := htmltemplate.ParseFS(templateFS, "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("notify: parse %s html template: %w", kind, err)
		}
		set.text[kind] = t
		set.html[kind] = h
	}
	return set, nil
}

func (s *templateSet) render(kind templateKind, data templateData) (string, string, error) {
	var text, html bytes.Buffer
	if err := s.text[kind].Execute(&text, data); err != nil {
		return "", "", fmt.Errorf("notify: render %s text: %w", kind, err)
	}
	if err := s.html[kind].Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("notify: render %s html: %w", kind, err)
	}
	return text.String(), html.String(), nil
}

func subjectFor(kind templateKind, b models.BusinessDetails, a models.Appointment) string {
	switch kind {
	case kindRequestReceived:
		return "Appointment Request Received - " + b.Name
	case kindNewRequestAlert:
		return "New Appointment Request - " + a.CustomerName
	case kindConfirmed:
		return "Appointment Confirmed - " + b.Name
	case kindRejected:
		return "Appointment Update - " + b.Name
	case kindReminder:
		return "Reminder: Your Appointment Tomorrow - " + b.Name
	}
	return b.Name
}
