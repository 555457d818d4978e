package service

import (
	"context"
	"errors"
	"testing"

	"bayanihan/internal/domain"
	"bayanihan/internal/repository"
)

type fakeEmailProvider struct {
	name       string
	configured bool
	err        error
	sent       int
}

func (p *fakeEmailProvider) Name() string       { return p.name }
func (p *fakeEmailProvider) IsConfigured() bool { return p.configured }
func (p *fakeEmailProvider) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	p.sent++
	return p.err
}

type fakeSMSProvider struct {
	name       string
	configured bool
	err        error
	sent       int
}

func (p *fakeSMSProvider) Name() string       { return p.name }
func (p *fakeSMSProvider) IsConfigured() bool { return p.configured }
func (p *fakeSMSProvider) SendSMS(ctx context.Context, to, body string) error {
	p.sent++
	return p.err
}

func newNotificationService(t *testing.T, emails []EmailProvider, sms []SMSProvider) *NotificationService {
	db := newTestDB(t)
	return NewNotificationService(repository.NewNotificationRepository(db), emails, sms)
}

func TestRender(t *testing.T) {
	vars := map[string]interface{}{
		"name":   "Maria",
		"amount": 500,
		"order": map[string]interface{}{
			"ref": "order:42",
		},
	}
	cases := []struct {
		name string
		body string
		want string
	}{
		{"plain", "no placeholders", "no placeholders"},
		{"simple", "Hi {{name}}!", "Hi Maria!"},
		{"spaces", "Hi {{ name }}!", "Hi Maria!"},
		{"number", "You received {{amount}} PHP.", "You received 500 PHP."},
		{"dotted", "Ref {{order.ref}}.", "Ref order:42."},
		{"unknown", "Hello {{missing}}.", "Hello ."},
		{"dotted through scalar", "{{name.deeper}}", ""},
		{"multiple", "{{name}} got {{amount}}", "Maria got 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.body, vars); got != tc.want {
				t.Fatalf("Render(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
	if got := Render("Hi {{name}}", nil); got != "Hi {{name}}" {
		t.Fatalf("nil variables should leave the body alone, got %q", got)
	}
}

func TestSendPicksFirstConfiguredProvider(t *testing.T) {
	primary := &fakeEmailProvider{name: "primary", configured: false}
	fallback := &fakeEmailProvider{name: "fallback", configured: true}
	svc := newNotificationService(t, []EmailProvider{primary, fallback}, nil)

	msg, err := svc.Send(context.Background(), SendInput{
		Channel: domain.ChannelEmail,
		To:      "maria@example.com",
		Subject: "Welcome",
		Body:    "Hi {{name}}!",
		Variables: map[string]interface{}{
			"name": "Maria",
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Status != domain.MessageSent {
		t.Fatalf("status = %q, want sent", msg.Status)
	}
	if msg.Provider != "fallback" {
		t.Fatalf("provider = %q, want fallback", msg.Provider)
	}
	if msg.Body != "Hi Maria!" {
		t.Fatalf("body = %q, want rendered", msg.Body)
	}
	if msg.Attempts != 1 || msg.SentAt == nil {
		t.Fatalf("attempts = %d, sentAt = %v", msg.Attempts, msg.SentAt)
	}
	if primary.sent != 0 || fallback.sent != 1 {
		t.Fatalf("primary sent %d, fallback sent %d", primary.sent, fallback.sent)
	}
}

func TestSendRecordsProviderFailure(t *testing.T) {
	broken := &fakeSMSProvider{name: "broken", configured: true, err: errors.New("gateway timeout")}
	svc := newNotificationService(t, nil, []SMSProvider{broken})

	msg, err := svc.Send(context.Background(), SendInput{
		Channel: domain.ChannelSMS,
		To:      "+639171234567",
		Body:    "Your payout has arrived.",
	})
	if err != nil {
		t.Fatalf("send should not fail the request: %v", err)
	}
	if msg.Status != domain.MessageFailed {
		t.Fatalf("status = %q, want failed", msg.Status)
	}
	if msg.LastError != "gateway timeout" {
		t.Fatalf("last error = %q", msg.LastError)
	}
	if msg.Attempts != 1 {
		t.Fatalf("attempts = %d, want 1", msg.Attempts)
	}
}

func TestSendWithTemplate(t *testing.T) {
	provider := &fakeEmailProvider{name: "mail", configured: true}
	svc := newNotificationService(t, []EmailProvider{provider}, nil)

	if _, err := svc.UpsertTemplate("payment-approved", domain.ChannelEmail, "Payment approved", "Hi {{name}}, your {{amount}} PHP top-up is in."); err != nil {
		t.Fatalf("upsert template: %v", err)
	}
	msg, err := svc.Send(context.Background(), SendInput{
		Channel:     domain.ChannelEmail,
		To:          "maria@example.com",
		TemplateKey: "payment-approved",
		Variables: map[string]interface{}{
			"name":   "Maria",
			"amount": "250.00",
		},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Subject != "Payment approved" {
		t.Fatalf("subject = %q", msg.Subject)
	}
	if msg.Body != "Hi Maria, your 250.00 PHP top-up is in." {
		t.Fatalf("body = %q", msg.Body)
	}

	if _, err := svc.Send(context.Background(), SendInput{
		Channel:     domain.ChannelEmail,
		To:          "maria@example.com",
		TemplateKey: "no-such-template",
	}); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("missing template: got %v, want bad request", err)
	}
}

func TestUpsertTemplateValidation(t *testing.T) {
	svc := newNotificationService(t, nil, nil)

	if _, err := svc.UpsertTemplate("k", "carrier-pigeon", "s", "b"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("unknown channel: got %v, want bad request", err)
	}
	if _, err := svc.UpsertTemplate("k", domain.ChannelEmail, "", "b"); !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("email without subject: got %v, want bad request", err)
	}
	first, err := svc.UpsertTemplate("welcome", domain.ChannelSMS, "", "Welcome po!")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.UpsertTemplate("welcome", domain.ChannelSMS, "", "Mabuhay!")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second row: %d vs %d", second.ID, first.ID)
	}
	if second.Body != "Mabuhay!" {
		t.Fatalf("body = %q, want updated", second.Body)
	}
}

func TestRetryFlipsFailedToSent(t *testing.T) {
	provider := &fakeSMSProvider{name: "sms", configured: true, err: errors.New("down")}
	svc := newNotificationService(t, nil, []SMSProvider{provider})

	msg, err := svc.Send(context.Background(), SendInput{
		Channel: domain.ChannelSMS,
		To:      "+639171234567",
		Body:    "ping",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.Status != domain.MessageFailed {
		t.Fatalf("status = %q, want failed", msg.Status)
	}

	provider.err = nil
	retried, err := svc.Retry(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if retried.Status != domain.MessageSent {
		t.Fatalf("status = %q, want sent", retried.Status)
	}
	if retried.Attempts != 2 {
		t.Fatalf("attempts = %d, want 2", retried.Attempts)
	}
	if retried.LastError != "" {
		t.Fatalf("last error not cleared: %q", retried.LastError)
	}

	// Retrying a sent message is a no-op.
	again, err := svc.Retry(context.Background(), msg.ID)
	if err != nil {
		t.Fatalf("retry sent: %v", err)
	}
	if again.Attempts != 2 {
		t.Fatalf("attempts = %d, want unchanged", again.Attempts)
	}
	if provider.sent != 2 {
		t.Fatalf("provider called %d times, want 2", provider.sent)
	}

	if _, err := svc.Retry(context.Background(), 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing message: got %v, want not found", err)
	}
}
