package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost       = 12
	MinPasswordLength = 8
)

var (
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotConfigured = errors.New("admin not configured")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("email and password required")
	ErrPasswordTooShort   = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
)

type adminRecord struct {
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}

// CredentialFile keeps the single administrator login in a JSON file holding
// the email and a bcrypt hash.
type CredentialFile struct {
	path string
	cost int
	mu   sync.Mutex
}

func NewCredentialFile(path string) *CredentialFile {
	return &CredentialFile{path: path, cost: DefaultCost}
}

// WithCost overrides the bcrypt cost.
func (f *CredentialFile) WithCost(cost int) *CredentialFile {
	f.cost = cost
	return f
}

func (f *CredentialFile) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Create writes the admin login once. It fails if one is already stored.
func (f *CredentialFile) Create(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Exists() {
		return ErrAdminExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), f.cost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}

	data, err := json.MarshalIndent(adminRecord{
		Email:     email,
		Password:  string(hash),
		CreatedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("auth: encode admin record: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("auth: create admin dir: %w", err)
		}
	}
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrAdminExists
		}
		return fmt.Errorf("auth: write admin file: %w", err)
	}
	defer file.Close()
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("auth: write admin file: %w", err)
	}
	return nil
}

// Verify checks email and password against the stored login.
func (f *CredentialFile) Verify(email, password string) error {
	if email == "" || password == "" {
		return ErrMissingCredentials
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrAdminNotConfigured
	}
	if err != nil {
		return fmt.Errorf("auth: read admin file: %w", err)
	}

	var rec adminRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("auth: decode admin file: %w", err)
	}

	if rec.Email != email {
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.Password), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
