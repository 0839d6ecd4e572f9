package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/bizsite-bff/internal/backend"
	"github.com/sangkips/bizsite-bff/internal/metrics"
	"github.com/sangkips/bizsite-bff/internal/queue"
)

// Consumer yields raw deliveries from the submissions queue.
type Consumer interface {
	Consume() (<-chan amqp091.Delivery, error)
}

// LeadClient creates leads in the backend API.
type LeadClient interface {
	SubmitLead(ctx context.Context, lead backend.Lead) (*backend.LeadReceipt, error)
}

type Worker struct {
	consumer   Consumer
	leads      LeadClient
	retryDelay time.Duration
}

func NewWorker(consumer Consumer, leads LeadClient) *Worker {
	return &Worker{
		consumer:   consumer,
		leads:      leads,
		retryDelay: time.Second,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.consumer.Consume()
	if err != nil {
		return fmt.Errorf("failed to start consumer: %w", err)
	}

	log.Info().Msg("worker started, waiting for submissions")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("worker shutting down")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitMQ channel closed")
			}
			w.processMessage(ctx, d)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, d amqp091.Delivery) {
	var msg queue.SubmissionMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.Error().Err(err).Str("message_id", d.MessageId).Msg("failed to unmarshal submission")
		metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeDropped).Inc()
		d.Reject(false)
		return
	}

	log.Info().Str("submission_id", msg.SubmissionID).Str("kind", msg.Kind).Msg("forwarding submission")

	receipt, err := w.leads.SubmitLead(ctx, ToLead(msg))
	if err != nil {
		w.handleFailure(d, msg, err)
		return
	}

	log.Info().Str("submission_id", msg.SubmissionID).Str("lead_id", receipt.ID).Msg("lead created")
	metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeForwarded).Inc()
	d.Ack(false)
}

func (w *Worker) handleFailure(d amqp091.Delivery, msg queue.SubmissionMessage, err error) {
	// one requeue per message; a second failure means the backend is not recovering soon
	if backend.IsRetryable(err) && !d.Redelivered {
		log.Warn().Err(err).Str("submission_id", msg.SubmissionID).Msg("backend unavailable, requeueing")
		metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeRetried).Inc()
		// Sleep a bit to prevent tight loop
		time.Sleep(w.retryDelay)
		d.Nack(false, true)
		return
	}

	log.Error().Err(err).Str("submission_id", msg.SubmissionID).Bool("redelivered", d.Redelivered).Msg("giving up on submission")
	metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeDropped).Inc()
	d.Reject(false)
}

// ToLead maps a submission event onto the backend's lead payload.
// Form-specific fields and lists are carried as attributes.
func ToLead(msg queue.SubmissionMessage) backend.Lead {
	var attrs map[string]any
	if len(msg.Fields)+len(msg.Lists) > 0 {
		attrs = make(map[string]any, len(msg.Fields)+len(msg.Lists))
		for k, v := range msg.Fields {
			attrs[k] = v
		}
		for k, v := range msg.Lists {
			attrs[k] = v
		}
	}

	return backend.Lead{
		ExternalID:  msg.SubmissionID,
		Source:      msg.Kind,
		Name:        msg.Name,
		Email:       msg.Email,
		Phone:       msg.Phone,
		Company:     msg.Company,
		Locale:      msg.Locale,
		Attributes:  attrs,
		SubmittedAt: msg.SubmittedAt,
	}
}

// InlineForwarder creates the lead during the request when no queue is configured.
type InlineForwarder struct {
	leads LeadClient
}

func NewInlineForwarder(leads LeadClient) *InlineForwarder {
	return &InlineForwarder{leads: leads}
}

func (f *InlineForwarder) PublishSubmission(ctx context.Context, msg queue.SubmissionMessage) error {
	receipt, err := f.leads.SubmitLead(ctx, ToLead(msg))
	if err != nil {
		metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeDropped).Inc()
		return fmt.Errorf("forward submission %s: %w", msg.SubmissionID, err)
	}

	log.Info().Str("submission_id", msg.SubmissionID).Str("lead_id", receipt.ID).Msg("lead created")
	metrics.LeadsForwarded.WithLabelValues(metrics.OutcomeForwarded).Inc()
	return nil
}
