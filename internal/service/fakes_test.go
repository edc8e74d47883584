package service_test

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/robin246j/account-service/internal/domain"
	"github.com/robin246j/account-service/internal/repo"
)

// memUserRepo mirrors the store contract: unique email enforced at insert,
// upsert-on-update-profile, lookups by email.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*domain.User{}}
}

func (m *memUserRepo) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.users[u.Email] = &cp
	return nil
}

func (m *memUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) UpsertProfile(_ context.Context, email string, p domain.Profile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		u = &domain.User{
			ID:        primitive.NewObjectID(),
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
		m.users[email] = u
	}
	if p.Cultivation != nil {
		u.Profile.Cultivation = p.Cultivation
	}
	if p.Experience != nil {
		u.Profile.Experience = p.Experience
	}
	if p.Address != nil {
		u.Profile.Address = p.Address
	}
	if p.PhoneNumber != nil {
		u.Profile.PhoneNumber = p.PhoneNumber
	}
	if p.Bio != nil {
		u.Profile.Bio = p.Bio
	}
	return true, nil
}

func (m *memUserRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

// memCodeRepo keeps the same consume semantics as the Mongo repo: atomic
// delete of a live match, expired records left in place.
type memCodeRepo struct {
	mu    sync.Mutex
	codes []domain.VerificationCode
}

func newMemCodeRepo() *memCodeRepo { return &memCodeRepo{} }

func (m *memCodeRepo) CreateCode(_ context.Context, vc *domain.VerificationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	vc.CreatedAt = time.Now().UTC()
	m.codes = append(m.codes, *vc)
	return nil
}

func (m *memCodeRepo) ConsumeCode(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	expired := false
	for i, vc := range m.codes {
		if vc.Email != email || vc.Code != code {
			continue
		}
		if vc.ExpiresAt.Before(now) {
			expired = true
			continue
		}
		m.codes = append(m.codes[:i], m.codes[i+1:]...)
		return nil
	}
	if expired {
		return repo.ErrCodeExpired
	}
	return repo.ErrCodeNotFound
}

func (m *memCodeRepo) stored() []domain.VerificationCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.VerificationCode(nil), m.codes...)
}

// chanMailer hands each sent mail to a channel so tests can wait for the
// fire-and-forget goroutine.
type chanMailer struct {
	sent chan sentMail
}

type sentMail struct {
	To, Subject, Body string
}

func newChanMailer() *chanMailer {
	return &chanMailer{sent: make(chan sentMail, 8)}
}

func (c *chanMailer) Send(_ context.Context, to, subject, body string) error {
	c.sent <- sentMail{To: to, Subject: subject, Body: body}
	return nil
}
