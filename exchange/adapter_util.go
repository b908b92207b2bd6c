package exchange

import (
	"fmt"

	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/config"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

// BuildRegistry builds every enabled bidder and registers it with its bidder info.
// Bidders are registered in CoreBidderNames order. Errors don't stop the remaining
// bidders from being built.
func BuildRegistry(cfg *config.Configuration, infos adapters.BidderInfos, deps adapters.Dependencies) (*adapters.Registry, []error) {
	deps, err := deps.WithDefaults()
	if err != nil {
		return nil, []error{err}
	}
	if cfg == nil {
		cfg = deps.Config
	}
	deps.Config = cfg

	bidders, errs := buildBidders(cfg, infos, newAdapterBuilders(), deps)

	registry := adapters.NewRegistry(deps.Logger)
	for _, bidderName := range openrtb_ext.CoreBidderNames() {
		bidder, ok := bidders[bidderName]
		if !ok {
			continue
		}
		if err := registry.Register(bidder, infos[string(bidderName)]); err != nil {
			errs = append(errs, fmt.Errorf("%v: %v", bidderName, err))
		}
	}
	return registry, errs
}

func buildBidders(cfg *config.Configuration, infos adapters.BidderInfos, builders map[openrtb_ext.BidderName]adapters.Builder, deps adapters.Dependencies) (map[openrtb_ext.BidderName]adapters.Bidder, []error) {
	bidders := make(map[openrtb_ext.BidderName]adapters.Bidder)
	var errs []error

	for _, bidderName := range openrtb_ext.CoreBidderNames() {
		adapterCfg := cfg.Adapters[string(bidderName)]
		if adapterCfg.Disabled {
			deps.Logger.Infof("%v: disabled by configuration", bidderName)
			continue
		}

		if _, ok := infos[string(bidderName)]; !ok {
			errs = append(errs, fmt.Errorf("%v: bidder info not found", bidderName))
			continue
		}

		builder, builderFound := builders[bidderName]
		if !builderFound {
			errs = append(errs, fmt.Errorf("%v: builder not registered", bidderName))
			continue
		}

		bidderInstance, builderErr := builder(bidderName, adapterCfg, deps)
		if builderErr != nil {
			errs = append(errs, fmt.Errorf("%v: %v", bidderName, builderErr))
			continue
		}
		bidders[bidderName] = bidderInstance
	}
	return bidders, errs
}
