/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"time"

	"github.com/ortuman/c2sgate/instance"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	c2sConnectionRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "connection_registered",
			Help:      "The total number of register operations.",
		},
		[]string{"instance"},
	)
	c2sConnectionUnregistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "connection_unregistered",
			Help:      "The total number of unregister operations.",
		},
		[]string{"instance"},
	)
	c2sIncomingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "incoming_requests_total",
			Help:      "The total number of incoming stanza requests.",
		},
		[]string{"instance", "name", "type"},
	)
	c2sIncomingRequestDurationBucket = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "incoming_requests_duration_bucket",
			Help:      "Bucketed histogram of incoming stanza requests duration.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 16),
		},
		[]string{"instance", "name", "type"},
	)
	c2sOutgoingDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "outgoing_deliveries_total",
			Help:      "The total number of bus payloads written to clients.",
		},
		[]string{"instance"},
	)
	c2sAuthentications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "authentications_total",
			Help:      "The total number of SASL authentication attempts.",
		},
		[]string{"instance", "result"},
	)
	c2sStreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "stream_errors_total",
			Help:      "The total number of stream errors sent to clients.",
		},
		[]string{"instance", "reason"},
	)
	c2sIncomingTotalConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "c2sgate",
			Subsystem: "c2s",
			Name:      "incoming_total_connections",
			Help:      "Total incoming C2S connections.",
		},
		[]string{"instance"},
	)
)

func init() {
	prometheus.MustRegister(c2sConnectionRegistered)
	prometheus.MustRegister(c2sConnectionUnregistered)
	prometheus.MustRegister(c2sIncomingRequests)
	prometheus.MustRegister(c2sIncomingRequestDurationBucket)
	prometheus.MustRegister(c2sOutgoingDeliveries)
	prometheus.MustRegister(c2sAuthentications)
	prometheus.MustRegister(c2sStreamErrors)
	prometheus.MustRegister(c2sIncomingTotalConnections)
}

func reportIncomingRequest(name, typ string, d time.Duration) {
	metricLabel := prometheus.Labels{
		"instance": instance.ID(),
		"name":     name,
		"type":     typ,
	}
	c2sIncomingRequests.With(metricLabel).Inc()
	c2sIncomingRequestDurationBucket.With(metricLabel).Observe(d.Seconds())
}

func reportOutgoingDelivery() {
	c2sOutgoingDeliveries.With(prometheus.Labels{"instance": instance.ID()}).Inc()
}

func reportAuthentication(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	c2sAuthentications.With(prometheus.Labels{"instance": instance.ID(), "result": result}).Inc()
}

func reportStreamError(reason string) {
	c2sStreamErrors.With(prometheus.Labels{"instance": instance.ID(), "reason": reason}).Inc()
}

func reportConnectionRegistered() {
	metricLabel := prometheus.Labels{
		"instance": instance.ID(),
	}
	c2sConnectionRegistered.With(metricLabel).Inc()
	c2sIncomingTotalConnections.With(metricLabel).Inc()
}

func reportConnectionUnregistered() {
	metricLabel := prometheus.Labels{
		"instance": instance.ID(),
	}
	c2sConnectionUnregistered.With(metricLabel).Inc()
	c2sIncomingTotalConnections.With(metricLabel).Dec()
}
