package models

import (
	"fmt"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

func (s AppointmentStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

type ServiceType string

const (
	ServiceRepair       ServiceType = "repair"
	ServiceInstallation ServiceType = "installation"
	ServiceMaintenance  ServiceType = "maintenance"
	ServiceInspection   ServiceType = "inspection"
	ServiceEmergency    ServiceType = "emergency"
	ServiceOther        ServiceType = "other"
)

var ServiceTypes = []ServiceType{
	ServiceRepair,
	ServiceInstallation,
	ServiceMaintenance,
	ServiceInspection,
	ServiceEmergency,
	ServiceOther,
}

func (t ServiceType) Valid() bool {
	for _, known := range ServiceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns the service type with its first letter upper-cased, e.g. "Repair".
func (t ServiceType) Label() string {
	if t == "" {
		return ""
	}
	s := string(t)
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}

// Appointment is a customer's request for a visit. PreferredDate carries both
// the calendar date and the slot time in naive local wall-clock time.
type Appointment struct {
	ID              string            `json:"id" gorm:"primaryKey;size:64"`
	CustomerName    string            `json:"customerName" gorm:"not null"`
	CustomerEmail   string            `json:"customerEmail" gorm:"not null"`
	CustomerPhone   string            `json:"customerPhone" gorm:"not null"`
	ServiceType     ServiceType       `json:"serviceType" gorm:"size:32;not null"`
	PreferredDate   time.Time         `json:"preferredDate" gorm:"index;not null"`
	AlternativeDate *time.Time        `json:"alternativeDate,omitempty"`
	Description     string            `json:"description"`
	Status          AppointmentStatus `json:"status" gorm:"size:16;index;not null"`
	CreatedAt       time.Time         `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time         `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// SlotTime is the HH:MM time of day the appointment occupies.
func (a Appointment) SlotTime() string {
	return a.PreferredDate.Format(SlotLayout)
}

func (a Appointment) String() string {
	return fmt.Sprintf("appointment %s (%s, %s %s)", a.ID, a.Status, a.PreferredDate.Format(DateLayout), a.SlotTime())
}
