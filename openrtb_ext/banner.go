package openrtb_ext

import "github.com/marphezis/prebid-adapters/viewability"

// ExtBanner defines the contract for imp[i].banner.ext
type ExtBanner struct {
	Viewability viewability.Score `json:"viewability"`
}
