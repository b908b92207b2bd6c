package exchange

import (
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/adapters/brightcom"
	"github.com/marphezis/prebid-adapters/adapters/oms"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

// newAdapterBuilders returns the adapter builders. Adding a new adapter requires a
// builder here and a bidder-info file under static.
func newAdapterBuilders() map[openrtb_ext.BidderName]adapters.Builder {
	return map[openrtb_ext.BidderName]adapters.Builder{
		openrtb_ext.BidderBrightcom: brightcom.Builder,
		openrtb_ext.BidderOms:       oms.Builder,
	}
}
