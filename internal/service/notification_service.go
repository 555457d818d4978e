package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"bayanihan/internal/domain"
	"bayanihan/internal/models"
	"bayanihan/internal/repository"
)

// EmailProvider and SMSProvider are black-box senders: configured or not,
// success or error. The service walks them in preference order.
type EmailProvider interface {
	Name() string
	IsConfigured() bool
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

type SMSProvider interface {
	Name() string
	IsConfigured() bool
	SendSMS(ctx context.Context, to, body string) error
}

type NotificationService struct {
	repo   *repository.NotificationRepository
	emails []EmailProvider
	sms    []SMSProvider
}

func NewNotificationService(repo *repository.NotificationRepository, emails []EmailProvider, sms []SMSProvider) *NotificationService {
	return &NotificationService{repo: repo, emails: emails, sms: sms}
}

var templateVar = regexp.MustCompile(`{{\s*([\w.]+)\s*}}`)

// Render substitutes {{name}} and {{a.b.c}} placeholders from variables.
// Unknown placeholders render as the empty string.
func Render(body string, variables map[string]interface{}) string {
	if variables == nil {
		return body
	}
	return templateVar.ReplaceAllStringFunc(body, func(match string) string {
		key := templateVar.FindStringSubmatch(match)[1]
		var v interface{} = variables
		for _, part := range strings.Split(key, ".") {
			m, ok := v.(map[string]interface{})
			if !ok {
				return ""
			}
			v = m[part]
		}
		if v == nil {
			return ""
		}
		return fmt.Sprintf("%v", v)
	})
}

func (s *NotificationService) UpsertTemplate(key, channel, subject, body string) (*models.NotificationTemplate, error) {
	if channel != domain.ChannelEmail && channel != domain.ChannelSMS {
		return nil, fmt.Errorf("%w: unknown channel", domain.ErrBadRequest)
	}
	if channel == domain.ChannelEmail && subject == "" {
		return nil, fmt.Errorf("%w: subject required for email templates", domain.ErrBadRequest)
	}
	t := &models.NotificationTemplate{Key: key, Channel: channel, Subject: subject, Body: body}
	if err := s.repo.UpsertTemplate(t); err != nil {
		return nil, err
	}
	return s.repo.GetTemplate(key, channel)
}

func (s *NotificationService) ListTemplates(channel string) ([]models.NotificationTemplate, error) {
	return s.repo.ListTemplates(channel)
}

type SendInput struct {
	Channel     string
	To          string
	Subject     string
	Body        string
	TemplateKey string
	Variables   map[string]interface{}
	UserID      *uint
}

// Send persists the message first (status pending), then attempts delivery
// and records the outcome. A provider failure is a failed message, not a
// failed request.
func (s *NotificationService) Send(ctx context.Context, in SendInput) (*models.NotificationMessage, error) {
	subject := in.Subject
	body := in.Body
	if in.TemplateKey != "" {
		tpl, err := s.repo.GetTemplate(in.TemplateKey, in.Channel)
		if err != nil {
			return nil, err
		}
		if tpl == nil {
			return nil, fmt.Errorf("%w: template not found", domain.ErrBadRequest)
		}
		subject = tpl.Subject
		body = tpl.Body
	}
	body = Render(body, in.Variables)

	var varsJSON string
	if in.Variables != nil {
		b, _ := json.Marshal(in.Variables)
		varsJSON = string(b)
	}
	msg := &models.NotificationMessage{
		UserID:      in.UserID,
		Channel:     in.Channel,
		To:          in.To,
		Subject:     subject,
		Body:        body,
		TemplateKey: in.TemplateKey,
		Variables:   varsJSON,
		Status:      domain.MessagePending,
	}
	if err := s.repo.CreateMessage(msg); err != nil {
		return nil, err
	}

	now := time.Now()
	provider, sendErr := s.deliver(ctx, in.Channel, in.To, subject, body)
	msg.Attempts++
	msg.LastAttemptAt = &now
	if sendErr != nil {
		msg.Status = domain.MessageFailed
		msg.LastError = sendErr.Error()
	} else {
		msg.Status = domain.MessageSent
		msg.Provider = provider
		msg.SentAt = &now
	}
	if err := s.repo.SaveMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *NotificationService) deliver(ctx context.Context, channel, to, subject, body string) (string, error) {
	switch channel {
	case domain.ChannelEmail:
		if subject == "" {
			return "", fmt.Errorf("subject required for email")
		}
		for _, p := range s.emails {
			if p.IsConfigured() {
				return p.Name(), p.SendEmail(ctx, to, subject, body)
			}
		}
		return "", fmt.Errorf("no email provider configured")
	case domain.ChannelSMS:
		for _, p := range s.sms {
			if p.IsConfigured() {
				return p.Name(), p.SendSMS(ctx, to, body)
			}
		}
		return "", fmt.Errorf("no sms provider configured")
	}
	return "", fmt.Errorf("unknown channel %q", channel)
}

// Retry re-attempts a failed or pending message. Sent messages are returned
// unchanged.
func (s *NotificationService) Retry(ctx context.Context, id uint) (*models.NotificationMessage, error) {
	msg, err := s.repo.GetMessage(id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: message", domain.ErrNotFound)
	}
	if msg.Status == domain.MessageSent {
		return msg, nil
	}
	now := time.Now()
	provider, sendErr := s.deliver(ctx, msg.Channel, msg.To, msg.Subject, msg.Body)
	msg.Attempts++
	msg.LastAttemptAt = &now
	if sendErr != nil {
		msg.Status = domain.MessageFailed
		msg.LastError = sendErr.Error()
	} else {
		msg.Status = domain.MessageSent
		msg.Provider = provider
		msg.LastError = ""
		msg.SentAt = &now
	}
	if err := s.repo.SaveMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *NotificationService) ListMessages(status, channel, to string) ([]models.NotificationMessage, error) {
	return s.repo.ListMessages(status, channel, to)
}
