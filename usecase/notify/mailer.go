package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/onboarding/internal/config"
	"github.com/fastygo/onboarding/pkg/logger"
)

// Mail is a rendered plain-text message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers rendered mail.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// NewMailer returns an SMTP mailer when a host is configured, otherwise a LogMailer.
func NewMailer(cfg config.MailConfig, log *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(log)
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends mail through a single SMTP relay.
type SMTPMailer struct {
	cfg  config.MailConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) Send(ctx context.Context, mail Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := net.JoinHostPort(m.cfg.SMTPHost, strconv.Itoa(m.cfg.SMTPPort))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.SMTPHost)
	}

	send := m.send
	if send == nil {
		send = smtp.SendMail
	}
	return send(addr, auth, m.cfg.From, []string{mail.To}, compose(m.cfg.From, mail))
}

func compose(from string, mail Mail) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", mail.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mail.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(mail.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogMailer writes mail to the log instead of delivering it. Used in development.
type LogMailer struct {
	logger *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogMailer{logger: log}
}

func (m *LogMailer) Send(ctx context.Context, mail Mail) error {
	logger.WithRequestID(ctx, m.logger).Info("mail not delivered (no SMTP host)",
		zap.String("to", mail.To),
		zap.String("subject", mail.Subject),
		zap.String("body", mail.Body))
	return nil
}
