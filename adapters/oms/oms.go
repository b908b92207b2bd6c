package oms

import (
	"time"

	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/adapters/marphezis"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/events"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

type adapter struct {
	*marphezis.Translator
	code      openrtb_ext.BidderName
	validator openrtb_ext.BidderParamValidator
	tracker   events.Tracker
	coppa     bool
	logger    logger.Logger
}

// Builder builds a new instance of the OMS adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter, deps adapters.Dependencies) (adapters.Bidder, error) {
	deps, err := deps.WithDefaults()
	if err != nil {
		return nil, err
	}

	bidder := &adapter{
		Translator: marphezis.NewTranslator(bidderName, "OMS", cfg.Endpoint, deps.Metrics, deps.Logger, deps.IDs),
		code:       bidderName,
		validator:  deps.Validator,
		coppa:      deps.Config.COPPA,
		logger:     deps.Logger,
	}
	if cfg.EventsEndpoint != "" {
		timeout := time.Duration(deps.Config.Events.TimeoutMs) * time.Millisecond
		bidder.tracker = events.NewHTTPTracker(deps.HTTPClient, cfg.EventsEndpoint, timeout, bidderName, deps.Metrics, deps.Logger)
	}
	return bidder, nil
}

func (a *adapter) Code() openrtb_ext.BidderName {
	return a.code
}

func (a *adapter) IsBidRequestValid(request *adapters.BidRequest) bool {
	if request == nil || request.Bidder != string(a.code) {
		return false
	}
	return marphezis.HasSizes(request) && a.validator.Validate(a.code, request.Params) == nil
}

// BuildRequests honours the COPPA flag of the first slot on top of the global one.
func (a *adapter) BuildRequests(requests []*adapters.BidRequest, bidderRequest *adapters.BidderRequest) (*adapters.RequestData, error) {
	coppa := a.coppa
	if len(requests) > 0 && requests[0] != nil && requests[0].COPPA {
		coppa = true
	}
	return a.Translator.BuildRequests(requests, bidderRequest, marphezis.RequestOptions{COPPA: coppa})
}

func (a *adapter) OnTimeout(data []adapters.TimeoutData) {
	if data == nil {
		return
	}
	a.track(metrics.EventTimeout, data)
}

// OnBidderError reports the bidder request of the failed call.
func (a *adapter) OnBidderError(data *adapters.BidderError) {
	if data == nil || data.BidderRequest == nil {
		return
	}
	a.track(metrics.EventError, data.BidderRequest)
}

func (a *adapter) OnBidWon(bid *adapters.Bid) {
	if bid == nil {
		return
	}
	a.track(metrics.EventBidWon, bid)
}

func (a *adapter) track(event metrics.EventType, payload interface{}) {
	if a.tracker == nil {
		a.logger.Debugf("%s: no events endpoint configured, dropping %s event", a.code, event)
		return
	}
	a.tracker.Track(event, payload)
}
