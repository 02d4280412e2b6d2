package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"go-desk/internal/config"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type EmailService interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}

type EmailServiceImpl struct {
	Config *config.Config
	Repo   *EmailRepository
	Log    *zap.Logger
}

func NewEmailService(cfg *config.Config, repo *EmailRepository, log *zap.Logger) EmailService {
	return &EmailServiceImpl{
		Config: cfg,
		Repo:   repo,
		Log:    log,
	}
}

// SendEmail delivers via SMTP and records the attempt in the send log. The
// log row is written before delivery so a crash mid-send still leaves a trace.
func (s *EmailServiceImpl) SendEmail(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if s.Config.SMTPHost == "" || s.Config.SMTPPort == 0 {
		return errors.New("invalid email configuration: missing host or port")
	}

	from := s.Config.FromEmail
	if from == "" {
		from = s.Config.SMTPUser
	}

	record := &Email{
		ID:       primitive.NewObjectID(),
		From:     from,
		To:       to,
		Subject:  subject,
		HtmlBody: body,
		Status:   EmailQueued,
	}
	if s.Repo != nil {
		_ = s.Repo.Create(ctx, record)
	}

	auth := smtp.PlainAuth("", s.Config.SMTPUser, s.Config.SMTPPassword, s.Config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.Config.SMTPHost, s.Config.SMTPPort)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", strings.Join(to, ", "), subject, body))

	s.Log.Info("sending email", zap.Strings("to", to), zap.String("subject", subject))
	err := smtp.SendMail(addr, auth, from, to, msg)

	status := EmailSent
	errMsg := ""
	if err != nil {
		status = EmailFailed
		errMsg = err.Error()
	}
	if s.Repo != nil {
		_ = s.Repo.UpdateStatus(ctx, record.ID, status, errMsg)
	}

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
