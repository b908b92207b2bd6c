package adapters

import (
	"encoding/json"
	"net/http"

	"github.com/marphezis/prebid-adapters/floors"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
	"github.com/marphezis/prebid-adapters/page"
	"github.com/prebid/openrtb/v20/openrtb2"
)

// Bidder is the client side half of a demand partner integration. The host calls
// IsBidRequestValid on every slot, then BuildRequests once per auction with the valid
// slots, performs the HTTP call itself and hands the answer to InterpretResponse.
type Bidder interface {
	// Code is the bidder code the host routes slots by.
	Code() openrtb_ext.BidderName

	// IsBidRequestValid reports whether the slot carries enough information to bid on.
	// Invalid slots are silently left out of the auction.
	IsBidRequestValid(request *BidRequest) bool

	// BuildRequests translates the slots into a single outbound request.
	//
	// A nil RequestData means nothing should be sent. Errors are logged by the bidder
	// before they are returned, so the host may ignore them.
	BuildRequests(requests []*BidRequest, bidderRequest *BidderRequest) (*RequestData, error)

	// InterpretResponse turns the exchange answer into bids. Failures never panic and
	// degrade to an empty list.
	InterpretResponse(response *ResponseData) ([]*Bid, []error)

	// GetUserSyncs returns the sync pixels the host should drop.
	GetUserSyncs(options SyncOptions, responses []*ResponseData, gdprConsent *GDPRConsent) []UserSync
}

// TimeoutNotifier is implemented by bidders which want to hear about their timed out requests.
type TimeoutNotifier interface {
	OnTimeout(data []TimeoutData)
}

// BidderErrorNotifier is implemented by bidders which want to hear about failed HTTP calls.
type BidderErrorNotifier interface {
	OnBidderError(data *BidderError)
}

// BidWonNotifier is implemented by bidders which want to hear about won auctions.
type BidWonNotifier interface {
	OnBidWon(bid *Bid)
}

// BidRequest describes one ad slot offered to a bidder.
type BidRequest struct {
	Bidder     string     `json:"bidder"`
	BidID      string     `json:"bidId"`
	AdUnitCode string     `json:"adUnitCode"`
	AuctionID  string     `json:"auctionId,omitempty"`
	MediaTypes MediaTypes `json:"mediaTypes"`
	// Sizes is the legacy size list, used when MediaTypes has no banner sizes.
	Sizes  json.RawMessage `json:"sizes,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	// COPPA is the per slot child directed flag.
	COPPA        bool                       `json:"coppa,omitempty"`
	SChain       json.RawMessage            `json:"schain,omitempty"`
	UserIDAsEIDs []openrtb2.EID             `json:"userIdAsEids,omitempty"`
	UserID       map[string]json.RawMessage `json:"userId,omitempty"`

	// FloorProvider is the price floors module, when the host runs one.
	FloorProvider floors.Provider `json:"-"`
}

// MediaTypes lists the formats a slot accepts.
type MediaTypes struct {
	Banner *BannerMediaType `json:"banner,omitempty"`
}

// BannerMediaType holds the banner sizes, either a list of [w, h] pairs or a single pair.
type BannerMediaType struct {
	Sizes json.RawMessage `json:"sizes,omitempty"`
}

// BannerSizes returns the raw banner sizes, or nil when the slot has none.
func (r *BidRequest) BannerSizes() json.RawMessage {
	if r.MediaTypes.Banner == nil {
		return nil
	}
	return r.MediaTypes.Banner.Sizes
}

// BidderRequest is the auction wide context shared by all slots of one bidder.
type BidderRequest struct {
	AuctionID   string       `json:"auctionId,omitempty"`
	BidderCode  string       `json:"bidderCode,omitempty"`
	RefererInfo RefererInfo  `json:"refererInfo"`
	GDPRConsent *GDPRConsent `json:"gdprConsent,omitempty"`
	USPConsent  string       `json:"uspConsent,omitempty"`
	// Timeout is the auction time budget in milliseconds.
	Timeout int64 `json:"timeout,omitempty"`

	// Page is the browser environment of the auction.
	Page page.Context `json:"-"`
}

// RefererInfo describes the page the auction runs on.
type RefererInfo struct {
	Page   string `json:"page,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// GDPRConsent is the consent state resolved by the host's consent management.
type GDPRConsent struct {
	GDPRApplies   bool    `json:"gdprApplies"`
	ConsentString *string `json:"consentString,omitempty"`
}

// RequestData packages the data needed to make an HTTP request.
type RequestData struct {
	Method  string
	Uri     string
	Body    []byte
	Headers http.Header
}

// ResponseData packages together information from the server's http.Response.
//
// This exists so that prebid-adapters can mock Bidder server calls in tests.
// Adapter implementations should not care about the difference between an
// actual HTTP call and a fixture.
type ResponseData struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// Bid is a normalized bid handed back to the host.
type Bid struct {
	RequestID  string              `json:"requestId"`
	CPM        float64             `json:"cpm"`
	Width      int64               `json:"width"`
	Height     int64               `json:"height"`
	CreativeID string              `json:"creativeId"`
	Currency   string              `json:"currency"`
	NetRevenue bool                `json:"netRevenue"`
	MediaType  openrtb_ext.BidType `json:"mediaType"`
	Ad         string              `json:"ad"`
	TTL        int64               `json:"ttl"`
	Meta       BidMeta             `json:"meta"`

	// Set by the host once the bid entered the auction.
	AdUnitCode string `json:"adUnitCode,omitempty"`
	AuctionID  string `json:"auctionId,omitempty"`
	Bidder     string `json:"bidder,omitempty"`
}

// BidMeta carries the bid metadata.
type BidMeta struct {
	AdvertiserDomains []string `json:"advertiserDomains"`
}

// TimeoutData describes one slot whose bidder request timed out.
type TimeoutData struct {
	Bidder     string          `json:"bidder"`
	BidID      string          `json:"bidId"`
	AdUnitCode string          `json:"adUnitCode"`
	AuctionID  string          `json:"auctionId"`
	Params     json.RawMessage `json:"params,omitempty"`
	Timeout    int64           `json:"timeout"`
}

// BidderError is reported when the HTTP call of a bidder failed.
type BidderError struct {
	Error         error          `json:"-"`
	BidderRequest *BidderRequest `json:"bidderRequest,omitempty"`
}

// SyncOptions tells which sync pixel types the host allows.
type SyncOptions struct {
	IframeEnabled bool `json:"iframeEnabled"`
	PixelEnabled  bool `json:"pixelEnabled"`
}

// UserSync is one sync pixel.
type UserSync struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
