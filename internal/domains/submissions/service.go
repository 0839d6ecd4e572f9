package submissions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/bizsite-bff/internal/domains/deliveries"
	"github.com/sangkips/bizsite-bff/internal/mailer"
	"github.com/sangkips/bizsite-bff/internal/mergetag"
	"github.com/sangkips/bizsite-bff/internal/metrics"
	"github.com/sangkips/bizsite-bff/internal/queue"
)

const (
	KindContact            = "contact"
	KindConfirmation       = "confirmation"
	KindPartnerApplication = "partner_application"

	contactTemplate      = "contact"
	confirmationTemplate = "confirmation"
	partnerTemplate      = "partner-application"

	statusSent = "sent"

	// bound for recording and forwarding once the request context may be gone
	afterSendTimeout = 10 * time.Second
)

var (
	ErrTemplateUnavailable = errors.New("email template unavailable")
	ErrDeliveryFailed      = errors.New("email delivery failed")
)

// TemplateLoader returns raw template text. Implementations read it fresh on every call.
type TemplateLoader interface {
	Load(name string) (string, error)
	LoadLocalized(base, locale string) (string, error)
}

// SubmissionPublisher forwards accepted submissions to the backend, via the queue or inline.
type SubmissionPublisher interface {
	PublishSubmission(ctx context.Context, msg queue.SubmissionMessage) error
}

// Routing holds the fixed addresses used by the handlers.
type Routing struct {
	FromAddress   string
	FromName      string
	ContactInbox  string
	PartnersInbox string
}

type Service struct {
	templates  TemplateLoader
	sender     mailer.Sender
	deliveries deliveries.Repository
	publisher  SubmissionPublisher
	routing    Routing
	validate   *validator.Validate
	now        func() time.Time
}

// NewService wires the pipeline. publisher may be nil when lead forwarding is disabled.
func NewService(templates TemplateLoader, sender mailer.Sender, deliveryRepo deliveries.Repository, publisher SubmissionPublisher, routing Routing) *Service {
	if deliveryRepo == nil {
		deliveryRepo = deliveries.NewNopRepository()
	}
	return &Service{
		templates:  templates,
		sender:     sender,
		deliveries: deliveryRepo,
		publisher:  publisher,
		routing:    routing,
		validate:   newValidator(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// outgoing is everything dispatch needs for one submission.
type outgoing struct {
	kind     string
	template string
	locale   Locale // set only for localized templates
	to       string
	replyTo  string
	subject  string
	data     mergetag.Data
	event    *queue.SubmissionMessage
}

// SubmitContact emails a contact form submission to the sales inbox.
func (s *Service) SubmitContact(ctx context.Context, req ContactRequest) (*SubmissionResponse, error) {
	req.normalize()
	if err := s.check(KindContact, &req); err != nil {
		return nil, err
	}

	data := mergetag.Data{}
	data.Set("name", req.Name)
	data.Set("email", req.Email)
	data.Set("phone", orNotProvided(req.Phone))
	data.Set("company", orNotProvided(req.Company))
	data.Set("company_size", req.CompanySize.Label())
	data.Set("topic", req.Topic.Label())
	setLabels(data, "interests", labelsOf(featureLabels, req.Interests))
	data.Set("message", req.Message)
	data.Set("locale", req.Locale.Label())

	return s.dispatch(ctx, outgoing{
		kind:     KindContact,
		template: contactTemplate,
		to:       s.routing.ContactInbox,
		replyTo:  mailer.FormatAddress(req.Name, req.Email),
		subject:  fmt.Sprintf("%s from %s", req.Topic.Label(), req.Name),
		data:     data,
		event: &queue.SubmissionMessage{
			Kind:    KindContact,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Company: req.Company,
			Locale:  string(req.Locale.OrDefault()),
			Fields: nonEmpty(map[string]string{
				"topic":        string(req.Topic),
				"company_size": string(req.CompanySize),
				"message":      req.Message,
			}),
			Lists: nonEmptyLists(map[string][]string{
				"interests": codesOf(req.Interests),
			}),
		},
	})
}

// SendConfirmation emails the visitor an acknowledgement in their language.
func (s *Service) SendConfirmation(ctx context.Context, req ConfirmationRequest) (*SubmissionResponse, error) {
	req.normalize()
	if err := s.check(KindConfirmation, &req); err != nil {
		return nil, err
	}

	locale := req.Locale.OrDefault()

	data := mergetag.Data{}
	data.Set("name", req.Name)
	data.Set("email", req.Email)
	topic := "your request"
	if req.Topic != "" {
		topic = req.Topic.Label()
	}
	data.Set("topic", topic)
	data.Set("contact_email", s.routing.ContactInbox)
	data.Set("locale", locale.Label())

	return s.dispatch(ctx, outgoing{
		kind:     KindConfirmation,
		template: confirmationTemplate,
		locale:   locale,
		to:       mailer.FormatAddress(req.Name, req.Email),
		subject:  confirmationSubjects[locale],
		data:     data,
	})
}

// SubmitPartnerApplication emails a partner program application to the partners inbox.
func (s *Service) SubmitPartnerApplication(ctx context.Context, req PartnerApplicationRequest) (*SubmissionResponse, error) {
	req.normalize()
	if err := s.check(KindPartnerApplication, &req); err != nil {
		return nil, err
	}

	data := mergetag.Data{}
	data.Set("name", req.Name)
	data.Set("email", req.Email)
	data.Set("phone", orNotProvided(req.Phone))
	data.Set("company", req.Company)
	data.Set("website", orNotProvided(req.Website))
	data.Set("partner_type", req.PartnerType.Label())
	setLabels(data, "regions", labelsOf(regionLabels, req.Regions))
	setLabels(data, "services", labelsOf(partnerServiceLabels, req.Services))
	data.Set("client_range", req.ClientRange.Label())
	data.Set("message", orNotProvided(req.Message))
	data.Set("locale", req.Locale.Label())

	return s.dispatch(ctx, outgoing{
		kind:     KindPartnerApplication,
		template: partnerTemplate,
		to:       s.routing.PartnersInbox,
		replyTo:  mailer.FormatAddress(req.Name, req.Email),
		subject:  fmt.Sprintf("Partner application: %s (%s)", req.Company, req.PartnerType.Label()),
		data:     data,
		event: &queue.SubmissionMessage{
			Kind:    KindPartnerApplication,
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Company: req.Company,
			Locale:  string(req.Locale.OrDefault()),
			Fields: nonEmpty(map[string]string{
				"website":      req.Website,
				"partner_type": string(req.PartnerType),
				"client_range": string(req.ClientRange),
				"message":      req.Message,
			}),
			Lists: nonEmptyLists(map[string][]string{
				"regions":  codesOf(req.Regions),
				"services": codesOf(req.Services),
			}),
		},
	})
}

func (s *Service) check(kind string, req interface{}) error {
	if err := validateRequest(s.validate, req); err != nil {
		metrics.Submissions.WithLabelValues(kind, metrics.OutcomeInvalid).Inc()
		return err
	}
	return nil
}

// dispatch runs load, render, strip and send. Nothing is recorded as
// forwarded unless the provider accepted the email.
func (s *Service) dispatch(ctx context.Context, out outgoing) (*SubmissionResponse, error) {
	submissionID := uuid.New()
	id := submissionID.String()
	submittedAt := s.now()

	logger := log.With().Str("submission_id", id).Str("kind", out.kind).Logger()

	tmpl, err := s.loadTemplate(out)
	if err != nil {
		logger.Error().Err(err).Str("template", out.template).Msg("failed to load email template")
		metrics.Submissions.WithLabelValues(out.kind, metrics.OutcomeTemplateError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrTemplateUnavailable, err)
	}

	out.data.Set("submission_id", id)
	out.data.Set("submitted_at", submittedAt.Format(time.RFC1123))

	html := mergetag.Render(out.data, tmpl)
	msg := mailer.Message{
		From:     mailer.FormatAddress(s.routing.FromName, s.routing.FromAddress),
		To:       out.to,
		ReplyTo:  out.replyTo,
		Subject:  sanitizeHeader(out.subject),
		HTMLBody: html,
		TextBody: mergetag.StripToPlainText(html),
		Tags:     []string{out.kind},
	}

	start := time.Now()
	providerID, sendErr := s.sender.Send(ctx, msg)
	metrics.MailSendSeconds.WithLabelValues(s.sender.Name()).Observe(time.Since(start).Seconds())

	// the email outcome is final at this point
	afterCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), afterSendTimeout)
	defer cancel()

	delivery := deliveries.Delivery{
		ID:        submissionID,
		Kind:      out.kind,
		Recipient: msg.To,
		Subject:   msg.Subject,
		CreatedAt: submittedAt,
	}

	if sendErr != nil {
		logger.Error().Err(sendErr).Str("provider", s.sender.Name()).Msg("failed to send email")
		metrics.Submissions.WithLabelValues(out.kind, metrics.OutcomeDeliveryFailure).Inc()

		delivery.Status = deliveries.StatusFailed
		delivery.LastError = sql.NullString{String: sendErr.Error(), Valid: true}
		s.record(afterCtx, logger, delivery)
		return nil, fmt.Errorf("%w: %w", ErrDeliveryFailed, sendErr)
	}

	logger.Info().Str("provider", s.sender.Name()).Str("provider_message_id", providerID).Msg("email sent")
	metrics.Submissions.WithLabelValues(out.kind, metrics.OutcomeSent).Inc()

	delivery.Status = deliveries.StatusSent
	delivery.ProviderMessageID = sql.NullString{String: providerID, Valid: providerID != ""}
	s.record(afterCtx, logger, delivery)

	if out.event != nil && s.publisher != nil {
		event := *out.event
		event.SubmissionID = id
		event.SubmittedAt = submittedAt
		if err := s.publisher.PublishSubmission(afterCtx, event); err != nil {
			logger.Error().Err(err).Msg("failed to forward submission")
		}
	}

	return &SubmissionResponse{ID: id, Status: statusSent, SubmittedAt: submittedAt}, nil
}

func (s *Service) loadTemplate(out outgoing) (string, error) {
	if out.locale != "" {
		return s.templates.LoadLocalized(out.template, string(out.locale))
	}
	return s.templates.Load(out.template)
}

func (s *Service) record(ctx context.Context, logger zerolog.Logger, d deliveries.Delivery) {
	if err := s.deliveries.Record(ctx, d); err != nil {
		logger.Warn().Err(err).Msg("failed to record delivery")
	}
}

// sanitizeHeader keeps user input from injecting extra mail headers.
func sanitizeHeader(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r", " ", "\n", " ").Replace(s))
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}

// setLabels renders a non-empty selection as a list and an empty one as "Not provided".
func setLabels(data mergetag.Data, key string, labels []string) {
	if len(labels) == 0 {
		data.Set(key, notProvided)
		return
	}
	data.SetList(key, labels)
}

func nonEmpty(fields map[string]string) map[string]string {
	for k, v := range fields {
		if v == "" {
			delete(fields, k)
		}
	}
	return fields
}

func nonEmptyLists(lists map[string][]string) map[string][]string {
	for k, v := range lists {
		if len(v) == 0 {
			delete(lists, k)
		}
	}
	return lists
}
