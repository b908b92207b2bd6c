package brightcom

import (
	"context"

	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/adapters/marphezis"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/identity"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
)

type adapter struct {
	*marphezis.Translator
	code           openrtb_ext.BidderName
	validator      openrtb_ext.BidderParamValidator
	coppa          bool
	storageAllowed bool
	identity       *identity.Manager
	metrics        metrics.MetricsEngine
	logger         logger.Logger
}

// Builder builds a new instance of the Brightcom adapter for the given bidder with the given config.
func Builder(bidderName openrtb_ext.BidderName, cfg config.Adapter, deps adapters.Dependencies) (adapters.Bidder, error) {
	deps, err := deps.WithDefaults()
	if err != nil {
		return nil, err
	}

	return &adapter{
		Translator:     marphezis.NewTranslator(bidderName, "Brightcom", cfg.Endpoint, deps.Metrics, deps.Logger, deps.IDs),
		code:           bidderName,
		validator:      deps.Validator,
		coppa:          deps.Config.COPPA,
		storageAllowed: deps.Config.StorageAllowed(string(bidderName)),
		identity:       identity.NewManager(deps.Store, deps.Clock, deps.IDs, deps.Logger),
		metrics:        deps.Metrics,
		logger:         deps.Logger,
	}, nil
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

// BuildRequests attaches the first-party id as user.ext.iiq when the host allows
// the bidder to use storage. The id is kept per page client id. COPPA only comes
// from the global configuration.
func (a *adapter) BuildRequests(requests []*adapters.BidRequest, bidderRequest *adapters.BidderRequest) (*adapters.RequestData, error) {
	opts := marphezis.RequestOptions{COPPA: a.coppa}
	if a.storageAllowed && len(requests) > 0 {
		opts.FirstPartyData = a.firstPartyData(clientID(bidderRequest))
	}
	return a.Translator.BuildRequests(requests, bidderRequest, opts)
}

func clientID(bidderRequest *adapters.BidderRequest) string {
	if bidderRequest == nil || bidderRequest.Page == nil {
		return ""
	}
	return bidderRequest.Page.ClientID()
}

func (a *adapter) firstPartyData(clientID string) string {
	data, outcome := a.identity.LoadOrCreate(context.Background(), clientID)
	if a.metrics != nil {
		a.metrics.RecordFirstPartyID(a.code, metrics.IDStatus(outcome.String()))
	}
	if data.PCID == "" {
		return ""
	}

	raw, err := jsonutil.Marshal(data)
	if err != nil {
		a.logger.Errorf("%s: failed to encode the first-party data: %v", a.code, err)
		return ""
	}
	return string(raw)
}
