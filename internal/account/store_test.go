package account

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/jwt-auth-api/internal/user"
)

// memStore is an in-memory Store with a unique email index guarded by a mutex.
type memStore struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID

	// failure hooks
	getByIDErr    error
	updateErr     error
	deleteNothing bool
	lookupErr     error
}

func newMemStore() *memStore {
	return &memStore{
		byID:    make(map[uuid.UUID]user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (s *memStore) Create(_ context.Context, email, passwordHash, name string) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return nil, user.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.byID[u.ID] = u
	s.byEmail[email] = u.ID

	return u.Profile(), nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lookupErr != nil {
		return nil, s.lookupErr
	}

	id, ok := s.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	u := s.byID[id]
	return &u, nil
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getByIDErr != nil {
		return nil, s.getByIDErr
	}

	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u.Profile(), nil
}

func (s *memStore) Update(_ context.Context, id uuid.UUID, fields user.UpdateFields) (*user.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.updateErr != nil {
		return nil, s.updateErr
	}

	u, ok := s.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	if fields.Email != nil && *fields.Email != u.Email {
		if _, taken := s.byEmail[*fields.Email]; taken {
			return nil, user.ErrDuplicateEmail
		}
		delete(s.byEmail, u.Email)
		u.Email = *fields.Email
		s.byEmail[u.Email] = id
	}
	if fields.Name != nil {
		u.Name = *fields.Name
	}
	if fields.PasswordHash != nil {
		u.PasswordHash = *fields.PasswordHash
	}
	if !fields.IsEmpty() {
		u.UpdatedAt = time.Now().UTC().Add(time.Millisecond)
	}
	s.byID[id] = u

	return u.Profile(), nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.deleteNothing {
		return false, nil
	}

	u, ok := s.byID[id]
	if !ok {
		return false, nil
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return true, nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

func (s *memStore) hashOf(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byID[id].PasswordHash
}

var errStoreDown = errors.New("connection refused")
