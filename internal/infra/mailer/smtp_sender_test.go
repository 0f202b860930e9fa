package mailer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"pos_emailer/internal/domain/notification"
	"pos_emailer/internal/infra/config"

	"github.com/wneessen/go-mail"
)

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Host:     "smtp.example.edu",
		Port:     465,
		User:     "peongrad",
		Password: "secret",
		From:     "gradinfo@cs.vt.edu",
		FromName: "SAACS Plan of Study",
	}
}

func testMessage() notification.Message {
	return notification.Message{
		Kind:    notification.KindApproved,
		To:      "alice@vt.edu",
		Subject: "Plan of Study Approved",
		Text:    "Your Plan of Study has been approved.",
		HTML:    "<p>Your Plan of Study has been approved.</p>",
	}
}

func TestSMTPSender_MissingCredentialNeverDials(t *testing.T) {
	cfg := testMailConfig()
	cfg.Password = ""
	s := NewSMTPSender(cfg)
	called := false
	s.deliver = func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
		called = true
		return nil
	}

	err := s.Send(context.Background(), testMessage())

	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
	if called {
		t.Error("expected no delivery attempt without a password")
	}
}

func TestSMTPSender_Delivers(t *testing.T) {
	s := NewSMTPSender(testMailConfig())
	var delivered *mail.Msg
	s.deliver = func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
		delivered = msg
		return nil
	}

	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if delivered == nil {
		t.Fatal("expected a delivery")
	}

	var raw bytes.Buffer
	if _, err := delivered.WriteTo(&raw); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	out := raw.String()
	for _, want := range []string{
		`"SAACS Plan of Study" <gradinfo@cs.vt.edu>`,
		"<alice@vt.edu>",
		"Subject: Plan of Study Approved",
		"multipart/alternative",
		"text/plain",
		"text/html",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected message to contain %q\n%s", want, out)
		}
	}
}

func TestSMTPSender_DeliveryErrorIsWrapped(t *testing.T) {
	s := NewSMTPSender(testMailConfig())
	boom := errors.New("535 authentication failed")
	s.deliver = func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
		return boom
	}

	err := s.Send(context.Background(), testMessage())

	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped delivery error, got %v", err)
	}
	if !strings.Contains(err.Error(), "alice@vt.edu") {
		t.Errorf("expected recipient in error, got %v", err)
	}
}

func TestSMTPSender_PanicBecomesError(t *testing.T) {
	s := NewSMTPSender(testMailConfig())
	s.deliver = func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
		panic("connection reset")
	}

	err := s.Send(context.Background(), testMessage())

	if err == nil || !strings.Contains(err.Error(), "panicked") {
		t.Fatalf("expected panic to be returned as error, got %v", err)
	}
}

func TestSMTPSender_InvalidRecipient(t *testing.T) {
	s := NewSMTPSender(testMailConfig())
	s.deliver = func(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
		t.Fatal("deliver must not be called for an invalid recipient")
		return nil
	}
	msg := testMessage()
	msg.To = "not an address"

	if err := s.Send(context.Background(), msg); err == nil {
		t.Fatal("expected error for invalid recipient")
	}
}

func TestConsoleSender(t *testing.T) {
	var out bytes.Buffer
	s := NewConsoleSender(&out)

	if err := s.Send(context.Background(), testMessage()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "alice@vt.edu") || !strings.Contains(got, "    Your Plan of Study has been approved.") {
		t.Errorf("unexpected dry-run output:\n%s", got)
	}
}
