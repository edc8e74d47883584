package http_test

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/robin246j/account-service/internal/domain"
	api "github.com/robin246j/account-service/internal/http"
	"github.com/robin246j/account-service/internal/queue"
	"github.com/robin246j/account-service/internal/repo"
	"github.com/robin246j/account-service/internal/service"
)

// In-memory stand-ins for the Mongo store, keeping its contracts: unique
// email on insert, upsert profile update, atomic single-use code consume.

type stubUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func (s *stubUsers) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	s.users[u.Email] = &cp
	return nil
}

func (s *stubUsers) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *stubUsers) UpsertProfile(_ context.Context, email string, p domain.Profile) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		u = &domain.User{ID: primitive.NewObjectID(), Email: email}
		s.users[email] = u
	}
	if p.Bio != nil {
		u.Profile.Bio = p.Bio
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
	return true, nil
}

type stubCodes struct {
	mu    sync.Mutex
	codes []domain.VerificationCode
}

func (s *stubCodes) CreateCode(_ context.Context, vc *domain.VerificationCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, *vc)
	return nil
}

func (s *stubCodes) ConsumeCode(_ context.Context, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := false
	for i, vc := range s.codes {
		if vc.Email != email || vc.Code != code {
			continue
		}
		if vc.ExpiresAt.Before(time.Now().UTC()) {
			expired = true
			continue
		}
		s.codes = append(s.codes[:i], s.codes[i+1:]...)
		return nil
	}
	if expired {
		return repo.ErrCodeExpired
	}
	return repo.ErrCodeNotFound
}

// lastCode returns the most recently stored code for the address.
func (s *stubCodes) lastCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.codes) - 1; i >= 0; i-- {
		if s.codes[i].Email == email {
			return s.codes[i].Code
		}
	}
	return ""
}

type stubMailer struct{}

func (stubMailer) Send(context.Context, string, string, string) error { return nil }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

type testEnv struct {
	Router *gin.Engine
	Users  *stubUsers
	Codes  *stubCodes
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	users := &stubUsers{users: map[string]*domain.User{}}
	codes := &stubCodes{}

	acc := service.NewAccount(users)
	ver := service.NewVerification(codes, stubMailer{}, 10*time.Minute)

	h := api.NewHandler(acc, ver, okPinger{}, nil, 0, queue.NewNoop(), "account.events")
	return &testEnv{Router: api.NewRouter(h), Users: users, Codes: codes}
}
