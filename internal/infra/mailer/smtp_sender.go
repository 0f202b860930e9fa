package mailer

import (
	"context"
	"fmt"
	"time"

	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/infra/config"

	"github.com/wneessen/go-mail"
)

const defaultSendTimeout = 30 * time.Second

var ErrMissingCredential = fmt.Errorf("mail password is not configured")

// deliverFunc performs one dial/auth/send/close cycle.
type deliverFunc func(ctx context.Context, client *mail.Client, msg *mail.Msg) error

// SMTPSender delivers messages over an implicit-TLS SMTP submission port,
// opening a fresh authenticated session for every message.
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
	fromName string
	timeout  time.Duration
	deliver  deliverFunc
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		user:     cfg.User,
		password: cfg.Password,
		from:     cfg.From,
		fromName: cfg.FromName,
		timeout:  defaultSendTimeout,
		deliver: func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, msg)
		},
	}
}

// Send refuses immediately, without dialing, when no password is configured.
// Transport panics are returned as errors.
func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) (err error) {
	if s.password == "" {
		return ErrMissingCredential
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("smtp transport panicked sending to %s: %v", msg.To, r)
		}
	}()

	m, err := s.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSSL(),
		mail.WithTLSPolicy(mail.NoTLS), // already encrypted; no STARTTLS on top
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.password),
		mail.WithTimeout(s.timeout),
	)
	if err != nil {
		return fmt.Errorf("failed to create smtp client for %s:%d: %w", s.host, s.port, err)
	}

	if err := s.deliver(ctx, client, m); err != nil {
		return fmt.Errorf("failed to send %q to %s via %s:%d: %w", msg.Subject, msg.To, s.host, s.port, err)
	}
	return nil
}

// buildMessage assembles a multipart/alternative message with plain-text and HTML parts.
func (s *SMTPSender) buildMessage(msg notification.Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", s.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}
