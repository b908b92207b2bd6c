package adapters

import (
	"net/http"

	"github.com/benbjohnson/clock"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/logger"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/static"
	"github.com/marphezis/prebid-adapters/storage"
	"github.com/marphezis/prebid-adapters/util/uuidutil"
)

// Builder is a function which creates a Bidder from its configuration.
type Builder func(bidderName openrtb_ext.BidderName, cfg config.Adapter, deps Dependencies) (Bidder, error)

// Dependencies are the shared services handed to every Builder.
//
// Metrics and Store may stay nil: nothing is measured and nothing is persisted.
type Dependencies struct {
	Config     *config.Configuration
	Validator  openrtb_ext.BidderParamValidator
	Metrics    metrics.MetricsEngine
	Logger     logger.Logger
	Store      storage.Store
	HTTPClient *http.Client
	Clock      clock.Clock
	IDs        uuidutil.UUIDGenerator
}

// WithDefaults fills the unset services. The params validator defaults to the
// schemas shipped in the static package.
func (d Dependencies) WithDefaults() (Dependencies, error) {
	if d.Config == nil {
		d.Config = &config.Configuration{}
	}
	if d.Validator == nil {
		validator, err := openrtb_ext.NewBidderParamsValidatorFS(static.Files, static.BidderParamsDir)
		if err != nil {
			return d, err
		}
		d.Validator = validator
	}
	if d.Logger == nil {
		d.Logger = logger.Default()
	}
	if d.HTTPClient == nil {
		d.HTTPClient = http.DefaultClient
	}
	if d.Clock == nil {
		d.Clock = clock.New()
	}
	if d.IDs == nil {
		d.IDs = uuidutil.UUIDRandomGenerator{}
	}
	return d, nil
}
