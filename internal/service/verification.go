package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/robin246j/account-service/internal/domain"
	"github.com/robin246j/account-service/internal/log"
	"github.com/robin246j/account-service/internal/mail"
	"github.com/robin246j/account-service/internal/repo"
	"github.com/robin246j/account-service/internal/security"
)

const DefaultCodeTTL = 10 * time.Minute

type CodeRepo interface {
	CreateCode(ctx context.Context, vc *domain.VerificationCode) error
	ConsumeCode(ctx context.Context, email, code string) error
}

type Verification struct {
	Codes   CodeRepo
	Mailer  mail.Sender
	CodeTTL time.Duration
}

func NewVerification(codes CodeRepo, mailer mail.Sender, ttl time.Duration) *Verification {
	if ttl <= 0 {
		ttl = DefaultCodeTTL
	}
	return &Verification{Codes: codes, Mailer: mailer, CodeTTL: ttl}
}

// IssueCode stores a fresh code and emails it in the background. Outstanding
// codes for the same address are left alone — несколько живых кодов это ок.
// Delivery failure never reaches the caller, only the log.
func (v *Verification) IssueCode(ctx context.Context, email, userName string) (string, error) {
	code, err := security.GenerateCode()
	if err != nil {
		return "", err
	}
	vc := &domain.VerificationCode{
		Email:     email,
		Code:      code,
		ExpiresAt: time.Now().UTC().Add(v.CodeTTL),
	}
	if err := v.Codes.CreateCode(ctx, vc); err != nil {
		return "", err
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		subject := "Your verification code"
		body := verifyMailBody(userName, code)
		if err := v.Mailer.Send(ctx, email, subject, body); err != nil {
			log.L().Error("verification mail send failed",
				zap.String("email", email), zap.Error(err))
		}
	}()

	return code, nil
}

// ConsumeCode burns the code exactly once. Expired codes stay in storage and
// keep failing; they never become valid again.
func (v *Verification) ConsumeCode(ctx context.Context, email, code string) error {
	err := v.Codes.ConsumeCode(ctx, email, code)
	switch {
	case err == nil:
		log.With(ctx).Info("verification code consumed", zap.String("email", email))
		return nil
	case errors.Is(err, repo.ErrCodeNotFound):
		return ErrInvalidCode
	case errors.Is(err, repo.ErrCodeExpired):
		return ErrCodeExpired
	default:
		return err
	}
}

func verifyMailBody(userName, code string) string {
	name := userName
	if name == "" {
		name = "there"
	}
	return fmt.Sprintf(
		`<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>`,
		name, code)
}
