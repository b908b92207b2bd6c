package metrics

import (
	"fmt"

	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/rcrowley/go-metrics"
)

// Metrics is the go-metrics implementation of MetricsEngine.
type Metrics struct {
	MetricsRegistry    metrics.Registry
	SafariRequestMeter metrics.Meter

	AdapterMetrics map[openrtb_ext.BidderName]*AdapterMetrics
}

// AdapterMetrics houses the metrics for a particular adapter
type AdapterMetrics struct {
	RequestMeter      metrics.Meter
	StatusMeters      map[AdapterStatus]metrics.Meter
	BidsReceivedMeter metrics.Meter
	PriceHistogram    metrics.Histogram
	ViewabilityMeters map[ViewabilityStatus]metrics.Meter
	IDMeters          map[IDStatus]metrics.Meter
	EventMeters       map[EventType]*EventMetrics
}

// EventMetrics count tracking posts by outcome.
type EventMetrics struct {
	SentMeter   metrics.Meter
	FailedMeter metrics.Meter
}

// NewBlankMetrics creates a new Metrics object with all blank metrics object. This may also be useful for
// testing routines to ensure that no metrics are written anywhere.
func NewBlankMetrics(registry metrics.Registry, exchanges []openrtb_ext.BidderName) *Metrics {
	newMetrics := &Metrics{
		MetricsRegistry:    registry,
		SafariRequestMeter: &metrics.NilMeter{},
		AdapterMetrics:     make(map[openrtb_ext.BidderName]*AdapterMetrics, len(exchanges)),
	}
	for _, a := range exchanges {
		newMetrics.AdapterMetrics[a] = makeBlankAdapterMetrics()
	}
	return newMetrics
}

// NewMetrics creates a new Metrics object with needed metrics defined.
func NewMetrics(registry metrics.Registry, exchanges []openrtb_ext.BidderName) *Metrics {
	newMetrics := NewBlankMetrics(registry, exchanges)
	newMetrics.SafariRequestMeter = metrics.GetOrRegisterMeter("safari_requests", registry)
	for _, a := range exchanges {
		registerAdapterMetrics(registry, "adapter", string(a), newMetrics.AdapterMetrics[a])
	}
	return newMetrics
}

// Part of setting up blank metrics, the adapter metrics.
func makeBlankAdapterMetrics() *AdapterMetrics {
	blankMeter := &metrics.NilMeter{}
	newAdapter := &AdapterMetrics{
		RequestMeter:      blankMeter,
		StatusMeters:      make(map[AdapterStatus]metrics.Meter),
		BidsReceivedMeter: blankMeter,
		PriceHistogram:    &metrics.NilHistogram{},
		ViewabilityMeters: make(map[ViewabilityStatus]metrics.Meter),
		IDMeters:          make(map[IDStatus]metrics.Meter),
		EventMeters:       make(map[EventType]*EventMetrics),
	}
	for _, s := range AdapterStatuses() {
		newAdapter.StatusMeters[s] = blankMeter
	}
	for _, v := range ViewabilityStatuses() {
		newAdapter.ViewabilityMeters[v] = blankMeter
	}
	for _, s := range IDStatuses() {
		newAdapter.IDMeters[s] = blankMeter
	}
	for _, e := range EventTypes() {
		newAdapter.EventMeters[e] = &EventMetrics{
			SentMeter:   blankMeter,
			FailedMeter: blankMeter,
		}
	}
	return newAdapter
}

func registerAdapterMetrics(registry metrics.Registry, prefix string, exchange string, am *AdapterMetrics) {
	am.RequestMeter = metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.requests", prefix, exchange), registry)
	for _, s := range AdapterStatuses() {
		am.StatusMeters[s] = metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.requests.%[3]s", prefix, exchange, s), registry)
	}
	am.BidsReceivedMeter = metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.bids_received", prefix, exchange), registry)
	am.PriceHistogram = metrics.GetOrRegisterHistogram(fmt.Sprintf("%[1]s.%[2]s.prices", prefix, exchange), registry, metrics.NewExpDecaySample(1028, 0.015))
	for _, v := range ViewabilityStatuses() {
		am.ViewabilityMeters[v] = metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.viewability.%[3]s", prefix, exchange, v), registry)
	}
	for _, s := range IDStatuses() {
		am.IDMeters[s] = metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.first_party_id.%[3]s", prefix, exchange, s), registry)
	}
	for _, e := range EventTypes() {
		am.EventMeters[e] = &EventMetrics{
			SentMeter:   metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.events.%[3]s.sent", prefix, exchange, e), registry),
			FailedMeter: metrics.GetOrRegisterMeter(fmt.Sprintf("%[1]s.%[2]s.events.%[3]s.failed", prefix, exchange, e), registry),
		}
	}
}

func (me *Metrics) getAdapterMetrics(adapter openrtb_ext.BidderName, what string) (*AdapterMetrics, bool) {
	am, ok := me.AdapterMetrics[adapter]
	if !ok {
		logger.Errorf("Trying to run adapter %s metrics on %s: adapter metrics not found", what, string(adapter))
	}
	return am, ok
}

// RecordAdapterRequest implements a part of the MetricsEngine interface
func (me *Metrics) RecordAdapterRequest(labels AdapterLabels) {
	am, ok := me.getAdapterMetrics(labels.Adapter, "request")
	if !ok {
		return
	}
	am.RequestMeter.Mark(1)
	if m, ok := am.StatusMeters[labels.AdapterStatus]; ok {
		m.Mark(1)
	}
	if labels.Browser == BrowserSafari {
		me.SafariRequestMeter.Mark(1)
	}
}

// RecordAdapterBidsReceived implements a part of the MetricsEngine interface
func (me *Metrics) RecordAdapterBidsReceived(labels AdapterLabels, bids int64) {
	am, ok := me.getAdapterMetrics(labels.Adapter, "bid")
	if !ok {
		return
	}
	am.BidsReceivedMeter.Mark(bids)
	if m, ok := am.StatusMeters[labels.AdapterStatus]; ok && labels.AdapterStatus != AdapterStatusOK {
		m.Mark(1)
	}
}

// RecordAdapterPrice implements a part of the MetricsEngine interface. Generates a histogram of bid prices
func (me *Metrics) RecordAdapterPrice(labels AdapterLabels, cpm float64) {
	am, ok := me.getAdapterMetrics(labels.Adapter, "price")
	if !ok {
		return
	}
	am.PriceHistogram.Update(int64(cpm))
}

func (me *Metrics) RecordImpViewability(adapter openrtb_ext.BidderName, status ViewabilityStatus) {
	am, ok := me.getAdapterMetrics(adapter, "viewability")
	if !ok {
		return
	}
	if m, ok := am.ViewabilityMeters[status]; ok {
		m.Mark(1)
	}
}

func (me *Metrics) RecordFirstPartyID(adapter openrtb_ext.BidderName, status IDStatus) {
	am, ok := me.getAdapterMetrics(adapter, "first-party id")
	if !ok {
		return
	}
	if m, ok := am.IDMeters[status]; ok {
		m.Mark(1)
	}
}

func (me *Metrics) RecordTrackingEvent(adapter openrtb_ext.BidderName, event EventType, success bool) {
	am, ok := me.getAdapterMetrics(adapter, "event")
	if !ok {
		return
	}
	em, ok := am.EventMeters[event]
	if !ok {
		return
	}
	if success {
		em.SentMeter.Mark(1)
	} else {
		em.FailedMeter.Mark(1)
	}
}
