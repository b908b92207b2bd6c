package prometheusmetrics

import (
	"strconv"

	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/prometheus/client_golang/prometheus"
)

// Defines the actual Prometheus metrics we will be using. Satisfies interface MetricsEngine
type Metrics struct {
	Registry      *prometheus.Registry
	adaptRequests *prometheus.CounterVec
	adaptBids     *prometheus.CounterVec
	adaptPrices   *prometheus.HistogramVec
	viewability   *prometheus.CounterVec
	firstPartyID  *prometheus.CounterVec
	events        *prometheus.CounterVec
}

const (
	adapterLabel = "adapter"
	browserLabel = "browser"
	statusLabel  = "status"
	eventLabel   = "event"
	successLabel = "success"
)

// NewMetrics constructs the Prometheus metrics and registers them on a fresh
// registry. Needs to be fed the prometheus config.
func NewMetrics(cfg config.PrometheusMetrics) *Metrics {
	adapterLabelNames := []string{adapterLabel, browserLabel, statusLabel}

	metrics := Metrics{}
	metrics.Registry = prometheus.NewRegistry()

	metrics.adaptRequests = newCounter(cfg, metrics.Registry, "adapter_requests_total",
		"Number of outbound requests built by each bidder.",
		adapterLabelNames,
	)
	metrics.adaptBids = newCounter(cfg, metrics.Registry, "adapter_bids_received_total",
		"Number of bids received from each bidder.",
		adapterLabelNames,
	)
	metrics.adaptPrices = newHistogram(cfg, metrics.Registry, "adapter_prices",
		"Value of the bids from each bidder.",
		[]string{adapterLabel}, prometheus.LinearBuckets(0.1, 0.1, 200),
	)
	metrics.viewability = newCounter(cfg, metrics.Registry, "imp_viewability_total",
		"Number of slots by viewability measurability.",
		[]string{adapterLabel, statusLabel},
	)
	metrics.firstPartyID = newCounter(cfg, metrics.Registry, "first_party_id_total",
		"Outcome of loading the persisted first-party id.",
		[]string{adapterLabel, statusLabel},
	)
	metrics.events = newCounter(cfg, metrics.Registry, "tracking_events_total",
		"Tracking events posted by each bidder.",
		[]string{adapterLabel, eventLabel, successLabel},
	)

	return &metrics
}

func newCounter(cfg config.PrometheusMetrics, registry *prometheus.Registry, name string, help string, labels []string) *prometheus.CounterVec {
	opts := prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
	}
	counter := prometheus.NewCounterVec(opts, labels)
	registry.MustRegister(counter)
	return counter
}

func newHistogram(cfg config.PrometheusMetrics, registry *prometheus.Registry, name string, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	opts := prometheus.HistogramOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}
	histogram := prometheus.NewHistogramVec(opts, labels)
	registry.MustRegister(histogram)
	return histogram
}

func (me *Metrics) RecordAdapterRequest(labels metrics.AdapterLabels) {
	me.adaptRequests.With(resolveAdapterLabels(labels)).Inc()
}

func (me *Metrics) RecordAdapterBidsReceived(labels metrics.AdapterLabels, bids int64) {
	me.adaptBids.With(resolveAdapterLabels(labels)).Add(float64(bids))
}

func (me *Metrics) RecordAdapterPrice(labels metrics.AdapterLabels, cpm float64) {
	me.adaptPrices.With(prometheus.Labels{adapterLabel: string(labels.Adapter)}).Observe(cpm)
}

func (me *Metrics) RecordImpViewability(adapter openrtb_ext.BidderName, status metrics.ViewabilityStatus) {
	me.viewability.With(prometheus.Labels{
		adapterLabel: string(adapter),
		statusLabel:  string(status),
	}).Inc()
}

func (me *Metrics) RecordFirstPartyID(adapter openrtb_ext.BidderName, status metrics.IDStatus) {
	me.firstPartyID.With(prometheus.Labels{
		adapterLabel: string(adapter),
		statusLabel:  string(status),
	}).Inc()
}

func (me *Metrics) RecordTrackingEvent(adapter openrtb_ext.BidderName, event metrics.EventType, success bool) {
	me.events.With(prometheus.Labels{
		adapterLabel: string(adapter),
		eventLabel:   string(event),
		successLabel: strconv.FormatBool(success),
	}).Inc()
}

func resolveAdapterLabels(labels metrics.AdapterLabels) prometheus.Labels {
	return prometheus.Labels{
		adapterLabel: string(labels.Adapter),
		browserLabel: string(labels.Browser),
		statusLabel:  string(labels.AdapterStatus),
	}
}
