package config

import (
	"time"

	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/metrics"
	prometheusmetrics "github.com/marphezis/prebid-adapters/metrics/prometheus"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	gometrics "github.com/rcrowley/go-metrics"
	influxdb "github.com/vrischmann/go-metrics-influxdb"
)

// NewMetricsEngine reads the configuration and returns the appropriate metrics engine
// for this instance.
func NewMetricsEngine(cfg *config.Configuration, adapterList []openrtb_ext.BidderName) *DetailedMetricsEngine {
	// Create a list of metrics engines to use.
	// Capacity of 2, as unlikely to have more than 2 metrics backends, and in the case
	// of 1 we won't use the list so it will be garbage collected.
	engineList := make(MultiMetricsEngine, 0, 2)
	returnEngine := DetailedMetricsEngine{}

	if cfg.Metrics.Influxdb.Host != "" {
		// Currently use go-metrics as the metrics piece for influx
		returnEngine.GoMetrics = metrics.NewMetrics(gometrics.NewPrefixedRegistry("mpa."), adapterList)
		engineList = append(engineList, returnEngine.GoMetrics)
		// Set up the Influx logger
		go influxdb.InfluxDB(
			returnEngine.GoMetrics.MetricsRegistry,                             // metrics registry
			time.Second*time.Duration(cfg.Metrics.Influxdb.MetricSendInterval), // Configurable interval
			cfg.Metrics.Influxdb.Host,                                          // the InfluxDB url
			cfg.Metrics.Influxdb.Database,                                      // your InfluxDB database
			cfg.Metrics.Influxdb.Measurement,                                   // your measurement
			cfg.Metrics.Influxdb.Username,                                      // your InfluxDB user
			cfg.Metrics.Influxdb.Password,                                      // your InfluxDB password
			cfg.Metrics.Influxdb.AlignTimestamps,                               // align timestamps
		)
		// Influx is not added to the engine list as goMetrics takes care of it already.
	}
	if cfg.Metrics.Prometheus.Namespace != "" || cfg.Metrics.Prometheus.Subsystem != "" {
		// Set up the Prometheus metrics.
		returnEngine.PrometheusMetrics = prometheusmetrics.NewMetrics(cfg.Metrics.Prometheus)
		engineList = append(engineList, returnEngine.PrometheusMetrics)
	}

	// Now return the proper metrics engine
	if len(engineList) > 1 {
		returnEngine.MetricsEngine = &engineList
	} else if len(engineList) == 1 {
		returnEngine.MetricsEngine = engineList[0]
	} else {
		returnEngine.MetricsEngine = &NilMetricsEngine{}
	}

	return &returnEngine
}

// DetailedMetricsEngine is a MultiMetricsEngine that preserves links to underlying metrics engines.
type DetailedMetricsEngine struct {
	metrics.MetricsEngine
	GoMetrics         *metrics.Metrics
	PrometheusMetrics *prometheusmetrics.Metrics
}

// MultiMetricsEngine logs metrics to multiple metrics databases The can be useful in transitioning
// an instance from one engine to another, you can run both in parallel to verify stats match up.
type MultiMetricsEngine []metrics.MetricsEngine

// RecordAdapterRequest across all engines
func (me *MultiMetricsEngine) RecordAdapterRequest(labels metrics.AdapterLabels) {
	for _, thisME := range *me {
		thisME.RecordAdapterRequest(labels)
	}
}

// RecordAdapterBidsReceived across all engines
func (me *MultiMetricsEngine) RecordAdapterBidsReceived(labels metrics.AdapterLabels, bids int64) {
	for _, thisME := range *me {
		thisME.RecordAdapterBidsReceived(labels, bids)
	}
}

// RecordAdapterPrice across all engines
func (me *MultiMetricsEngine) RecordAdapterPrice(labels metrics.AdapterLabels, cpm float64) {
	for _, thisME := range *me {
		thisME.RecordAdapterPrice(labels, cpm)
	}
}

// RecordImpViewability across all engines
func (me *MultiMetricsEngine) RecordImpViewability(adapter openrtb_ext.BidderName, status metrics.ViewabilityStatus) {
	for _, thisME := range *me {
		thisME.RecordImpViewability(adapter, status)
	}
}

// RecordFirstPartyID across all engines
func (me *MultiMetricsEngine) RecordFirstPartyID(adapter openrtb_ext.BidderName, status metrics.IDStatus) {
	for _, thisME := range *me {
		thisME.RecordFirstPartyID(adapter, status)
	}
}

// RecordTrackingEvent across all engines
func (me *MultiMetricsEngine) RecordTrackingEvent(adapter openrtb_ext.BidderName, event metrics.EventType, success bool) {
	for _, thisME := range *me {
		thisME.RecordTrackingEvent(adapter, event, success)
	}
}

// NilMetricsEngine implements the MetricsEngine interface where no metrics are actually captured. This is
// used if no metric backend is configured and also for tests.
type NilMetricsEngine struct{}

// RecordAdapterRequest as a noop
func (me *NilMetricsEngine) RecordAdapterRequest(labels metrics.AdapterLabels) {
}

// RecordAdapterBidsReceived as a noop
func (me *NilMetricsEngine) RecordAdapterBidsReceived(labels metrics.AdapterLabels, bids int64) {
}

// RecordAdapterPrice as a noop
func (me *NilMetricsEngine) RecordAdapterPrice(labels metrics.AdapterLabels, cpm float64) {
}

// RecordImpViewability as a noop
func (me *NilMetricsEngine) RecordImpViewability(adapter openrtb_ext.BidderName, status metrics.ViewabilityStatus) {
}

// RecordFirstPartyID as a noop
func (me *NilMetricsEngine) RecordFirstPartyID(adapter openrtb_ext.BidderName, status metrics.IDStatus) {
}

// RecordTrackingEvent as a noop
func (me *NilMetricsEngine) RecordTrackingEvent(adapter openrtb_ext.BidderName, event metrics.EventType, success bool) {
}
