package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSent            = "sent"
	OutcomeInvalid         = "invalid"
	OutcomeTemplateError   = "template_error"
	OutcomeDeliveryFailure = "delivery_failed"

	OutcomeForwarded = "forwarded"
	OutcomeRetried   = "retried"
	OutcomeDropped   = "dropped"
)

var (
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bff_submissions_total",
		Help: "Form submissions handled, by kind and outcome",
	}, []string{"kind", "outcome"})

	MailSendSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bff_mail_send_seconds",
		Help:    "Time spent handing a message to the mail provider",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	LeadsForwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bff_leads_forwarded_total",
		Help: "Leads forwarded to the backend API, by outcome",
	}, []string{"outcome"})

	DeliveriesPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bff_deliveries_pruned_total",
		Help: "Delivery log rows removed by the retention pruner",
	})
)
