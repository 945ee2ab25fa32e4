package appointments

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mralligator/appointment-scheduler/models"
)

var errNotFound = errors.New("not found")

type fakeSettings struct {
	settings models.SchedulingSettings
	err      error
}

func (f *fakeSettings) Load(ctx context.Context) (models.SchedulingSettings, error) {
	return f.settings, f.err
}

func (f *fakeSettings) Save(ctx context.Context, s models.SchedulingSettings) error {
	f.settings = s
	return f.err
}

type fakeStore struct {
	mu      sync.Mutex
	records map[string]models.Appointment
	saves   int
	saveErr error
	listErr error
	nextID  int
}

func newFakeStore(appts ...models.Appointment) *fakeStore {
	s := &fakeStore{records: map[string]models.Appointment{}}
	for _, a := range appts {
		s.records[a.ID] = a
	}
	return s
}

func (s *fakeStore) Save(ctx context.Context, a models.Appointment) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return models.Appointment{}, s.saveErr
	}
	if a.ID == "" {
		s.nextID++
		a.ID = "generated-" + string(rune('0'+s.nextID))
	}
	s.records[a.ID] = a
	return a, nil
}

func (s *fakeStore) Get(ctx context.Context, id string) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.records[id]
	if !ok {
		return models.Appointment{}, errNotFound
	}
	return a, nil
}

func (s *fakeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return errNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *fakeStore) ListInRange(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.Appointment
	for _, a := range s.records {
		if !a.PreferredDate.Before(start) && a.PreferredDate.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	mu          sync.Mutex
	customer    []models.Appointment
	admin       []models.Appointment
	customerErr error
	adminErr    error
}

func (n *fakeNotifier) SendCustomerEmail(ctx context.Context, a models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customer = append(n.customer, a)
	return n.customerErr
}

func (n *fakeNotifier) SendAdminEmail(ctx context.Context, a models.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.admin = append(n.admin, a)
	return n.adminErr
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.customer) + len(n.admin)
}
