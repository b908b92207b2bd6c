// Package marphezis holds the request and response translation shared by the bidders
// buying on the marphezis exchange. The bidders only differ in their endpoint, their
// COPPA source and the identifiers they attach.
package marphezis

import (
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/util/uuidutil"
)

const (
	bidTTL         = 60
	contentType    = "text/plain;charset=utf-8"
	publisherIDKey = "publisherId"
)

// Translator builds the outbound request of one bidder and reads the exchange answer.
// It is safe for concurrent use.
type Translator struct {
	bidder   openrtb_ext.BidderName
	label    string
	endpoint string
	metrics  metrics.MetricsEngine
	logger   logger.Logger
	ids      uuidutil.UUIDGenerator
}

// NewTranslator creates the Translator of bidder. label is the display name used in
// log lines.
func NewTranslator(bidder openrtb_ext.BidderName, label string, endpoint string, me metrics.MetricsEngine, l logger.Logger, ids uuidutil.UUIDGenerator) *Translator {
	if l == nil {
		l = logger.Default()
	}
	if ids == nil {
		ids = uuidutil.UUIDRandomGenerator{}
	}
	return &Translator{
		bidder:   bidder,
		label:    label,
		endpoint: endpoint,
		metrics:  me,
		logger:   l,
		ids:      ids,
	}
}

// Endpoint is the URL bid requests are posted to.
func (t *Translator) Endpoint() string {
	return t.endpoint
}

func (t *Translator) recordRequest(browser metrics.Browser, status metrics.AdapterStatus) {
	if t.metrics == nil {
		return
	}
	t.metrics.RecordAdapterRequest(metrics.AdapterLabels{
		Adapter:       t.bidder,
		Browser:       browser,
		AdapterStatus: status,
	})
}

func (t *Translator) recordViewability(status metrics.ViewabilityStatus) {
	if t.metrics != nil {
		t.metrics.RecordImpViewability(t.bidder, status)
	}
}

func (t *Translator) recordBids(status metrics.AdapterStatus, bids []*adapters.Bid) {
	if t.metrics == nil {
		return
	}
	labels := metrics.AdapterLabels{
		Adapter:       t.bidder,
		AdapterStatus: status,
	}
	t.metrics.RecordAdapterBidsReceived(labels, int64(len(bids)))
	for _, bid := range bids {
		t.metrics.RecordAdapterPrice(labels, bid.CPM)
	}
}
