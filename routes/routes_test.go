package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mralligator/appointment-scheduler/appointments"
	"github.com/mralligator/appointment-scheduler/auth"
	"github.com/mralligator/appointment-scheduler/controllers"
	"github.com/mralligator/appointment-scheduler/logging"
	"github.com/mralligator/appointment-scheduler/metrics"
	"github.com/mralligator/appointment-scheduler/middleware"
	"github.com/mralligator/appointment-scheduler/models"
	"github.com/mralligator/appointment-scheduler/repository"
)

type memSettings struct {
	mu sync.Mutex
	s  *models.SchedulingSettings
}

func (m *memSettings) Load(ctx context.Context) (models.SchedulingSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return models.DefaultSettings(), nil
	}
	return *m.s, nil
}

func (m *memSettings) Save(ctx context.Context, s models.SchedulingSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = &s
	return nil
}

type memStore struct {
	mu      sync.Mutex
	records map[string]models.Appointment
	seq     int
}

func (m *memStore) Save(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		m.seq++
		a.ID = "appt-" + strconv.Itoa(m.seq)
	}
	m.records[a.ID] = a
	return a, nil
}

func (m *memStore) Get(ctx context.Context, id string) (models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.records[id]
	if !ok {
		return models.Appointment{}, repository.ErrNotFound
	}
	return a, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.records, id)
	return nil
}

func (m *memStore) ListInRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.records {
		if !a.PreferredDate.Before(start) && a.PreferredDate.Before(end) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PreferredDate.Before(out[j].PreferredDate) })
	return out, nil
}

func (m *memStore) List(ctx context.Context, status models.AppointmentStatus) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range m.records {
		if status == "" || a.Status == status {
			out = append(out, a)
		}
	}
	return out, nil
}

type countingNotifier struct {
	mu       sync.Mutex
	customer int
	admin    int
	fail     bool
}

func (n *countingNotifier) SendCustomerEmail(ctx context.Context, a models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customer++
	if n.fail {
		return errors.New("email provider down")
	}
	return nil
}

func (n *countingNotifier) SendAdminEmail(ctx context.Context, a models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admin++
	return nil
}

var (
	secret = []byte("routes-secret")
	// today is Wednesday 2025-06-11.
	today = time.Date(2025, time.June, 11, 8, 0, 0, 0, time.Local)
)

type env struct {
	app      *fiber.App
	store    *memStore
	notifier *countingNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := logging.Discard()
	settings := &memSettings{}
	store := &memStore{records: map[string]models.Appointment{}}
	notifier := &countingNotifier{}
	reg := prometheus.NewRegistry()

	manager := appointments.NewManager(settings, store, notifier,
		appointments.WithLogger(logger),
		appointments.WithMetrics(metrics.NewSchedulingMetrics(reg)),
		appointments.WithClock(func() time.Time { return today }),
	)
	creds := auth.NewCredentialFile(filepath.Join(t.TempDir(), "admin-data.json")).WithCost(bcrypt.MinCost)

	app := fiber.New()
	Setup(app, Dependencies{
		Appointments: controllers.NewAppointmentController(manager, store, logger),
		Settings:     controllers.NewSettingsController(settings, logger),
		Auth:         controllers.NewAuthController(creds, secret, logger),
		Protected:    []fiber.Handler{middleware.Protected(secret, logger), middleware.RequireAdmin()},
		Gatherer:     reg,
	})
	return &env{app: app, store: store, notifier: notifier}
}

func (e *env) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (e *env) adminToken(t *testing.T) string {
	t.Helper()
	status, body := e.do(t, "POST", "/api/admin/setup", "", map[string]string{
		"email": "owner@example.com", "password": "longenough",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	return body["token"].(string)
}

func draft() map[string]any {
	return map[string]any{
		"customerName":  "Dana Reyes",
		"customerEmail": "dana@example.com",
		"customerPhone": "813-555-0100",
		"serviceType":   "repair",
		"date":          "2025-06-16",
		"time":          "14:00",
	}
}

func TestAdminSetupLoginVerify(t *testing.T) {
	e := newEnv(t)

	status, body := e.do(t, "GET", "/api/admin/setup-status", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["needsSetup"])

	status, body = e.do(t, "POST", "/api/admin/setup", "", map[string]string{"email": "owner@example.com", "password": "short"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["message"], "at least 8")

	token := e.adminToken(t)

	status, _ = e.do(t, "POST", "/api/admin/setup", "", map[string]string{"email": "x@example.com", "password": "longenough"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body = e.do(t, "POST", "/api/admin/login", "", map[string]string{"email": "owner@example.com", "password": "longenough"})
	assert.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = e.do(t, "POST", "/api/admin/login", "", map[string]string{"email": "owner@example.com", "password": "wrongpass"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = e.do(t, "GET", "/api/admin/verify", token, nil)
	assert.Equal(t, fiber.StatusOK, status)
	admin := body["admin"].(map[string]any)
	assert.Equal(t, "owner@example.com", admin["email"])
	assert.Equal(t, true, admin["isAdmin"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	status, _ := e.do(t, "GET", "/api/admin/appointments", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = e.do(t, "GET", "/api/admin/setup-status", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestBookingFlow(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	status, body := e.do(t, "GET", "/api/appointments/availability?date=2025-06-16", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["bookable"])
	assert.Len(t, body["slots"], 17)

	status, body = e.do(t, "POST", "/api/appointments", "", draft())
	require.Equal(t, fiber.StatusCreated, status, body)
	appt := body["appointment"].(map[string]any)
	id := appt["id"].(string)
	assert.Equal(t, "pending", appt["status"])
	assert.Equal(t, 1, e.notifier.customer)
	assert.Equal(t, 1, e.notifier.admin)

	_, body = e.do(t, "GET", "/api/appointments/availability?date=2025-06-16", "", nil)
	for _, raw := range body["slots"].([]any) {
		slot := raw.(map[string]any)
		assert.Equal(t, slot["time"] != "14:00", slot["available"], slot["time"])
	}

	status, body = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "confirmed"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "confirmed", body["appointment"].(map[string]any)["status"])
	assert.Equal(t, 2, e.notifier.customer)
	assert.Equal(t, 1, e.notifier.admin)

	status, _ = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "cancelled"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "cancelled", "acknowledged": true})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, 2, e.notifier.customer)

	status, _ = e.do(t, "GET", "/api/admin/appointments?status=cancelled", token, nil)
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = e.do(t, "DELETE", "/api/admin/appointments/"+id, token, nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = e.do(t, "GET", "/api/admin/appointments/"+id, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCreateValidationFields(t *testing.T) {
	e := newEnv(t)
	d := draft()
	d["customerEmail"] = "nope"
	d["date"] = "2025-06-14"

	status, body := e.do(t, "POST", "/api/appointments", "", d)
	assert.Equal(t, fiber.StatusBadRequest, status)
	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "customerEmail")
	assert.Contains(t, fields, "date")
	assert.Zero(t, e.notifier.customer)
}

func TestNotificationFailureIsAWarning(t *testing.T) {
	e := newEnv(t)
	e.notifier.fail = true

	status, body := e.do(t, "POST", "/api/appointments", "", draft())
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, true, body["persisted"])
	assert.Equal(t, false, body["notified"])
	assert.NotEmpty(t, body["warning"])
}

func TestSettingsRoutes(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	status, body := e.do(t, "GET", "/api/appointments/settings", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["enabled"])

	bad := models.DefaultSettings()
	bad.BusinessHours.Start = "9am"
	status, body = e.do(t, "PUT", "/api/admin/settings", token, bad)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["fields"], "businessHours.start")

	updated := models.DefaultSettings()
	updated.AvailableDays = models.Weekdays{models.Saturday}
	status, _ = e.do(t, "PUT", "/api/admin/settings", token, updated)
	assert.Equal(t, fiber.StatusOK, status)

	_, body = e.do(t, "GET", "/api/appointments/availability?date=2025-06-14", "", nil)
	assert.Equal(t, true, body["bookable"])
}

func TestRangeAndMetrics(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	status, _ := e.do(t, "POST", "/api/appointments", "", draft())
	require.Equal(t, fiber.StatusCreated, status)

	req := httptest.NewRequest("GET", "/api/admin/appointments/range?start=2025-06-16&end=2025-06-16", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	var appts []models.Appointment
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&appts))
	resp.Body.Close()
	assert.Len(t, appts, 1)

	status, _ = e.do(t, "GET", "/api/admin/appointments/range?start=2025-06-17&end=2025-06-16", token, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	resp, err = e.app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), "scheduler_appointments_status_transitions_total")
}

func TestUpdateSettingsRejectsPartialBody(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	status, body := e.do(t, "PUT", "/api/admin/settings", token, map[string]any{
		"businessHours": map[string]string{"start": "09:00", "end": "17:00"},
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	fields := body["fields"].(map[string]any)
	assert.Equal(t, "is required", fields["enabled"])
	assert.Equal(t, "is required", fields["availableDays"])
	assert.Equal(t, "is required", fields["minDaysInAdvance"])

	_, body = e.do(t, "GET", "/api/appointments/settings", "", nil)
	assert.Equal(t, true, body["enabled"])
}

func TestStatusBackToPending(t *testing.T) {
	e := newEnv(t)
	token := e.adminToken(t)

	status, body := e.do(t, "POST", "/api/appointments", "", draft())
	require.Equal(t, fiber.StatusCreated, status)
	id := body["appointment"].(map[string]any)["id"].(string)

	status, _ = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "confirmed"})
	require.Equal(t, fiber.StatusOK, status)

	status, _ = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "pending"})
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = e.do(t, "PATCH", "/api/admin/appointments/"+id+"/status", token, map[string]any{"status": "pending", "acknowledged": true})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "pending", body["appointment"].(map[string]any)["status"])
	assert.Equal(t, 3, e.notifier.customer)
	assert.Equal(t, 2, e.notifier.admin)
}
