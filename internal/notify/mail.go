package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"preschool/internal/logging"
)

// Email is a rendered outgoing message.
type Email struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers an email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}

// LogMailer writes emails to the log instead of delivering them.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	if log == nil {
		log = slog.Default()
	}
	return &LogMailer{log: log.With(logging.Module("notify.mailer"))}
}

func (m *LogMailer) Send(_ context.Context, e Email) error {
	m.log.Info("email sent",
		slog.String("from", e.From),
		slog.String("to", e.To),
		slog.String("subject", e.Subject),
		slog.String("body", e.Body))
	return nil
}

// Render builds the status email for a change.
func Render(from string, c StatusChange) Email {
	status := string(c.Status)
	greeting := "Dear Parent"
	if name := strings.TrimSpace(c.ParentName); name != "" {
		greeting = "Dear " + name
	}
	return Email{
		From:    from,
		To:      c.Email,
		Subject: "The First Step Pre-School Application Status - " + status,
		Body:    fmt.Sprintf("%s, The application for %s has been %s.", greeting, c.StudentName, status),
	}
}
