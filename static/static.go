// Package static holds the files shipped with every bidder: the JSON schemas of
// their params and their info sheets.
package static

import "embed"

const (
	BidderParamsDir = "bidder-params"
	BidderInfoDir   = "bidder-info"
)

//go:embed bidder-params/*.json bidder-info/*.yaml
var Files embed.FS
