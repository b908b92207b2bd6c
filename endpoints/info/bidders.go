package info

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/julienschmidt/httprouter"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/util/jsonutil"
)

// NewBiddersEndpoint implements /info/bidders. The list holds the registered bidder
// codes and their aliases, sorted.
func NewBiddersEndpoint(registry *adapters.Registry) httprouter.Handle {
	bidderNames := make([]string, 0)
	for _, bidderName := range registry.Bidders() {
		bidderNames = append(bidderNames, string(bidderName))
	}
	for alias := range registry.Aliases() {
		bidderNames = append(bidderNames, alias)
	}
	sort.Strings(bidderNames)

	biddersJson, err := jsonutil.Marshal(bidderNames)
	if err != nil {
		glog.Fatalf("error creating /info/bidders endpoint response: %v", err)
	}

	return func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(biddersJson); err != nil {
			glog.Errorf("error writing response to /info/bidders: %v", err)
		}
	}
}

// NewBidderDetailsEndpoint implements /info/bidders/:bidderName. Aliases answer with the
// details of the bidder they point to plus an aliasOf field.
func NewBidderDetailsEndpoint(registry *adapters.Registry) httprouter.Handle {
	// Build all the responses up front, since there are a finite number and it won't use much memory.
	aliases := registry.Aliases()
	owned := make(map[string][]string)
	for alias, bidderName := range aliases {
		owned[string(bidderName)] = append(owned[string(bidderName)], alias)
	}

	responses := make(map[string]json.RawMessage)
	for _, bidderName := range registry.Bidders() {
		responses[string(bidderName)] = marshalDetail(registry, string(bidderName), owned[string(bidderName)], "")
	}
	for alias, bidderName := range aliases {
		responses[alias] = marshalDetail(registry, string(bidderName), owned[string(bidderName)], string(bidderName))
	}

	// Return an endpoint which writes the responses from memory.
	return func(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
		forBidder := strings.ToLower(ps.ByName("bidderName"))
		response, ok := responses[forBidder]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(response); err != nil {
			glog.Errorf("error writing response to /info/bidders/%s: %v", forBidder, err)
		}
	}
}

type bidderDetail struct {
	adapters.BidderInfo
	AliasOf string                 `json:"aliasOf,omitempty"`
	Events  *adapters.Capabilities `json:"events"`
}

// marshalDetail reports the aliases the registry actually routes, which leaves out the
// ones shadowed by another bidder's code.
func marshalDetail(registry *adapters.Registry, bidderName string, aliases []string, aliasOf string) json.RawMessage {
	info, _ := registry.Info(bidderName)
	info.Aliases = append([]string(nil), aliases...)
	sort.Strings(info.Aliases)
	capabilities, _ := registry.Capabilities(bidderName)
	detail := bidderDetail{
		BidderInfo: info,
		AliasOf:    aliasOf,
		Events:     &capabilities,
	}

	jsonBytes, err := jsonutil.Marshal(detail)
	if err != nil {
		glog.Fatalf("error writing JSON of bidder %s: %v", bidderName, err)
	}
	return jsonBytes
}
