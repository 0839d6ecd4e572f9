package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/sangkips/bizsite-bff/internal/config"
)

const (
	ProviderMailgun = "mailgun"
	ProviderLog     = "log"
)

// Message is a rendered email ready for delivery.
type Message struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	HTMLBody string
	TextBody string
	Tags     []string
}

// Sender delivers messages and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
	Name() string
}

// New builds the sender selected by MAIL_PROVIDER.
func New(cfg config.MailConfig) (Sender, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderMailgun:
		return NewMailgunSender(cfg), nil
	case ProviderLog, "":
		return NewLogSender(), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}

// FormatAddress renders an RFC 5322 mailbox with the display name quoted
// (or MIME-encoded), or just the address when name is empty.
func FormatAddress(name, address string) string {
	if name == "" {
		return address
	}
	return (&mail.Address{Name: name, Address: address}).String()
}

func sendTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return 30 * time.Second
	}
	return d
}
