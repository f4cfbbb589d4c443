package mailer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GiorgiUbiria/expense_tracker/internal/logger"
	"go.uber.org/zap"
)

// Mailer delivers password reset links.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, link string) error
	Close() error
}

// ResetMessage is the queued payload consumed by the mail worker.
type ResetMessage struct {
	Kind      string    `json:"kind"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResetMessage(from, to, link string, now time.Time) ResetMessage {
	return ResetMessage{
		Kind:    "password_reset",
		From:    from,
		To:      to,
		Subject: "Password Reset",
		Body: fmt.Sprintf("You requested a password reset. Open the link below within one hour to choose a new password.\n\n%s\n\n"+
			"If you did not request this, you can ignore this email.", link),
		Link:      link,
		CreatedAt: now.UTC(),
	}
}

func (m ResetMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LogMailer writes reset links to the log. Used when no broker is set up.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	logger.Log.Info("password reset link", zap.String("to", to), zap.String("link", link))
	return nil
}

func (LogMailer) Close() error { return nil }
