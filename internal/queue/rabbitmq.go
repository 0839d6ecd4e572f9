package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
)

type RabbitMQ struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
	queue   amqp091.Queue
	mu      sync.Mutex // amqp channels are not safe for concurrent publishing
}

// SubmissionMessage is the event published for every form submission whose email was sent.
type SubmissionMessage struct {
	SubmissionID string              `json:"submission_id"`
	Kind         string              `json:"kind"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	Phone        string              `json:"phone,omitempty"`
	Company      string              `json:"company,omitempty"`
	Locale       string              `json:"locale,omitempty"`
	Fields       map[string]string   `json:"fields,omitempty"`
	Lists        map[string][]string `json:"lists,omitempty"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

// NewRabbitMQ connects and declares the durable submissions queue
func NewRabbitMQ(url, queueName string) (*RabbitMQ, error) {
	var conn *amqp091.Connection
	var err error

	// Retry connection up to 10 times with 2 second delay
	for i := 0; i < 10; i++ {
		conn, err = amqp091.Dial(url)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("failed to connect to RabbitMQ, retrying in 2s (%d/10)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to connect to RabbitMQ after retries")
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		log.Error().Err(err).Msg("failed to open channel")
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	queue, err := channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		log.Error().Err(err).Msg("failed to declare queue")
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	log.Info().Str("queue", queueName).Msg("connected to RabbitMQ and declared queue")

	return &RabbitMQ{
		conn:    conn,
		channel: channel,
		queue:   queue,
	}, nil
}

// PublishSubmission publishes a submission event as persistent JSON
func (r *RabbitMQ) PublishSubmission(ctx context.Context, msg SubmissionMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err = r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key (queue name)
		false,        // mandatory
		false,        // immediate
		amqp091.Publishing{
			DeliveryMode: amqp091.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.SubmissionID,
			Timestamp:    msg.SubmittedAt,
			Body:         body,
		},
	)
	if err != nil {
		log.Error().Err(err).Str("submission_id", msg.SubmissionID).Msg("failed to publish submission")
		return fmt.Errorf("failed to publish message: %w", err)
	}

	log.Debug().Str("submission_id", msg.SubmissionID).Msg("published submission to queue")
	return nil
}

// Consume starts delivering submissions one at a time. The worker acks,
// nacks or rejects each delivery itself once the lead is forwarded.
func (r *RabbitMQ) Consume() (<-chan amqp091.Delivery, error) {
	// only one unacknowledged submission per consumer, so a requeued
	// lead goes back to the queue instead of piling up in this worker
	if err := r.channel.Qos(1, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set submissions prefetch: %w", err)
	}

	deliveries, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer tag, generated by the broker
		false,        // auto-ack off: worker settles each lead
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", r.queue.Name, err)
	}

	log.Info().Str("queue", r.queue.Name).Msg("consuming submissions")
	return deliveries, nil
}

// Ping reports whether submissions can still be published.
func (r *RabbitMQ) Ping() error {
	switch {
	case r.conn == nil || r.conn.IsClosed():
		return errors.New("connection is closed")
	case r.channel == nil || r.channel.IsClosed():
		return errors.New("channel is closed")
	}
	return nil
}

// Close releases the submissions channel, then the connection.
func (r *RabbitMQ) Close() error {
	var errs []error
	if r.channel != nil {
		if err := r.channel.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
	}
	if r.conn != nil {
		if err := r.conn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Str("queue", r.queue.Name).Msg("failed to close submissions queue")
		return err
	}

	log.Info().Str("queue", r.queue.Name).Msg("closed submissions queue")
	return nil
}
