package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development when no mail provider is configured.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Name() string {
	return ProviderLog
}

func (s *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	id := fmt.Sprintf("log-%s", uuid.New().String())
	log.Info().
		Str("message_id", id).
		Str("from", msg.From).
		Str("to", msg.To).
		Str("reply_to", msg.ReplyTo).
		Str("subject", msg.Subject).
		Strs("tags", msg.Tags).
		Str("text", msg.TextBody).
		Msg("email logged, not delivered")

	return id, nil
}
