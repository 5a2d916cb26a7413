package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymflow_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ClassBookingsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_class_bookings_total",
			Help: "Total number of confirmed class bookings",
		},
	)

	ClassBookingRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_class_booking_rejections_total",
			Help: "Class booking attempts refused by a business rule",
		},
		[]string{"reason"},
	)

	ClassBookingCancellationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_class_booking_cancellations_total",
			Help: "Total number of class booking cancellations",
		},
		[]string{"by"},
	)

	CheckInsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_check_ins_total",
			Help: "Total number of gym check-ins",
		},
		[]string{"method"},
	)

	CheckInRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_check_in_rejections_total",
			Help: "Check-in attempts refused by a business rule",
		},
		[]string{"reason"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gymflow_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	WalletTopUpsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_wallet_topups_total",
			Help: "Total number of wallet top-ups",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymflow_subscriptions_created_total",
			Help: "Total number of subscriptions created",
		},
		[]string{"plan", "source"},
	)

	SubscriptionCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymflow_subscription_cancellations_total",
			Help: "Total number of subscriptions cancelled by members",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordClassBooking() {
	ClassBookingsTotal.Inc()
}

// RecordBookingRejection counts a refused booking. reason is a short slug
// such as "class_full" or "weekly_limit".
func RecordBookingRejection(reason string) {
	ClassBookingRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordBookingCancellation(by string) {
	ClassBookingCancellationsTotal.WithLabelValues(by).Inc()
}

func RecordCheckIn(method string) {
	CheckInsTotal.WithLabelValues(method).Inc()
}

func RecordCheckInRejection(reason string) {
	CheckInRejectionsTotal.WithLabelValues(reason).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordWalletTopUp() {
	WalletTopUpsTotal.Inc()
}

func RecordSubscription(plan, source string) {
	SubscriptionsCreatedTotal.WithLabelValues(plan, source).Inc()
}

func RecordSubscriptionCancellation() {
	SubscriptionCancellationsTotal.Inc()
}
