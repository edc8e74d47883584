package mail

import (
	"context"

	"go.uber.org/zap"

	"github.com/robin246j/account-service/internal/log"
)

// Sender delivers a single HTML mail. Best effort: callers fire it from a
// goroutine and only log failures.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogSender is the fallback when SMTP is not configured: the mail (код
// внутри) просто уходит в лог. Удобно для локальной разработки.
type LogSender struct{}

func (LogSender) Send(_ context.Context, to, subject, htmlBody string) error {
	log.L().Info("mail (smtp disabled)",
		zap.String("to", to), zap.String("subject", subject), zap.String("body", htmlBody))
	return nil
}
