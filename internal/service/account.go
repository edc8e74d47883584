package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/robin246j/account-service/internal/domain"
	"github.com/robin246j/account-service/internal/log"
	"github.com/robin246j/account-service/internal/repo"
	"github.com/robin246j/account-service/internal/security"
)

// UserRepo is the slice of the store the account service needs.
type UserRepo interface {
	CreateUser(ctx context.Context, u *domain.User) error
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpsertProfile(ctx context.Context, email string, p domain.Profile) (bool, error)
}

type Account struct {
	Users UserRepo
}

func NewAccount(users UserRepo) *Account {
	return &Account{Users: users}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Username    string
	Token       string
}

// Register hashes the password and persists a fresh, unverified user.
// Duplicate detection rides on the store's unique email index, not on a
// pre-read — см. EnsureUserIndexes.
func (a *Account) Register(ctx context.Context, in RegisterInput) (primitive.ObjectID, error) {
	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return primitive.NilObjectID, err
	}
	u := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.DisplayName,
		Username:     in.Username,
		Token:        in.Token,
	}
	if err := a.Users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return primitive.NilObjectID, ErrConflict
		}
		return primitive.NilObjectID, err
	}
	log.With(ctx).Info("user registered", zap.String("email", in.Email))
	return u.ID, nil
}

// Login checks the password and returns the stored summary, token включительно,
// verbatim. No-such-user and wrong-password stay distinct failures.
func (a *Account) Login(ctx context.Context, email, password string) (*domain.UserSummary, error) {
	u, err := a.Users.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if !security.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &domain.UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Username:    u.Username,
		Token:       u.Token,
	}, nil
}

// UpdateProfile overwrites only the supplied fields, creating the document
// when no user matches (upsert, inherited behavior).
func (a *Account) UpdateProfile(ctx context.Context, email string, p domain.Profile) error {
	ok, err := a.Users.UpsertProfile(ctx, email, p)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
