package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/sangkips/bizsite-bff/internal/config"
)

// MailgunSender sends emails via the Mailgun API.
type MailgunSender struct {
	cfg    config.MailConfig
	client *mailgun.MailgunImpl
}

func NewMailgunSender(cfg config.MailConfig) *MailgunSender {
	client := mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	if cfg.MailgunAPIBase != "" {
		client.SetAPIBase(cfg.MailgunAPIBase)
	}

	return &MailgunSender{
		cfg:    cfg,
		client: client,
	}
}

func (s *MailgunSender) Name() string {
	return ProviderMailgun
}

// Send delivers msg through Mailgun. A missing From falls back to the configured sender.
func (s *MailgunSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := s.validate(); err != nil {
		log.Error().Err(err).Msg("mailgun configuration invalid")
		return "", err
	}
	if msg.To == "" {
		return "", errors.New("message recipient is required")
	}

	from := msg.From
	if from == "" {
		from = FormatAddress(s.cfg.FromName, s.cfg.FromAddress)
	}

	message := s.client.NewMessage(from, msg.Subject, msg.TextBody, msg.To)
	if msg.HTMLBody != "" {
		message.SetHtml(msg.HTMLBody)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}
	if len(msg.Tags) > 0 {
		if err := message.AddTag(msg.Tags...); err != nil {
			log.Warn().Err(err).Strs("tags", msg.Tags).Msg("failed to tag message")
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout(s.cfg.SendTimeout))
	defer cancel()

	_, messageID, err := s.client.Send(sendCtx, message)
	if err != nil {
		log.Error().Err(err).Str("to", msg.To).Msg("failed to send email")
		return "", fmt.Errorf("mailgun send: %w", err)
	}

	log.Info().Str("to", msg.To).Str("message_id", messageID).Msg("email sent")
	return messageID, nil
}

func (s *MailgunSender) validate() error {
	if s.cfg.MailgunDomain == "" {
		return errors.New("MAILGUN_DOMAIN is required")
	}
	if s.cfg.MailgunAPIKey == "" {
		return errors.New("MAILGUN_API_KEY is required")
	}
	if s.cfg.FromAddress == "" {
		return errors.New("MAIL_FROM_ADDRESS is required")
	}
	return nil
}
