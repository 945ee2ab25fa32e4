package appointments

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports bad caller input field by field. Nothing has been
// written when it is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid appointment: " + strings.Join(parts, "; ")
}

// PersistenceError means the store rejected a read or write. No notification
// was attempted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("appointments: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError means the record was saved but at least one email failed.
// Customer and Admin hold the individual failures.
type NotificationError struct {
	Customer error
	Admin    error
}

func (e *NotificationError) Error() string {
	var parts []string
	if e.Customer != nil {
		parts = append(parts, "customer email: "+e.Customer.Error())
	}
	if e.Admin != nil {
		parts = append(parts, "admin email: "+e.Admin.Error())
	}
	return "appointments: saved but notification failed: " + strings.Join(parts, "; ")
}

func (e *NotificationError) Unwrap() error {
	return errors.Join(e.Customer, e.Admin)
}
