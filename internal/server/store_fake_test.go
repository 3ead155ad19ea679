package server

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/types"
)

// memStore is an in-memory db.Store for handler and service tests.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*db.User
	history   []types.HistoryRecord
	failWrite bool
	// failHistory makes AppendHistory fail, as an unreachable history table would.
	failHistory bool
}

var _ db.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{users: make(map[uuid.UUID]*db.User)}
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close()                        {}

func (m *memStore) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byEmail(email) != nil, nil
}

func (m *memStore) CreateUser(_ context.Context, name, email, phone string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrite {
		return uuid.Nil, errors.New("write failed")
	}
	if m.byEmail(email) != nil {
		return uuid.Nil, db.ErrDuplicateEmail
	}
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		Phone:        phone,
		AuthProvider: db.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *memStore) UpsertOAuthUser(_ context.Context, name, email, provider string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byEmail(email); u != nil {
		cp := *u
		return &cp, nil
	}
	now := time.Now()
	u := &db.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        strings.ToLower(email),
		AuthProvider: provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := m.byEmail(email)
	if u == nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = time.Now()
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *memStore) AppendHistory(_ context.Context, userID uuid.UUID, domain string, score float64) (*types.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failHistory {
		return nil, errors.New("history table unavailable")
	}
	rec := types.HistoryRecord{
		ID:        int64(len(m.history) + 1),
		UserID:    userID,
		Domain:    domain,
		Score:     score,
		CreatedAt: time.Now(),
	}
	m.history = append(m.history, rec)
	return &rec, nil
}

func (m *memStore) ListHistory(_ context.Context, userID uuid.UUID, limit int) ([]types.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 {
		limit = db.DefaultHistoryLimit
	}
	var out []types.HistoryRecord
	for i := len(m.history) - 1; i >= 0 && len(out) < limit; i-- {
		if m.history[i].UserID == userID {
			out = append(out, m.history[i])
		}
	}
	return out, nil
}

func (m *memStore) byEmail(email string) *db.User {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
