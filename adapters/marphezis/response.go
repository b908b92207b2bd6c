package marphezis

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/marphezis/prebid-adapters/adapters"
	"github.com/marphezis/prebid-adapters/errortypes"
	"github.com/marphezis/prebid-adapters/floors"
	"github.com/marphezis/prebid-adapters/metrics"
	"github.com/marphezis/prebid-adapters/openrtb_ext"
)

// InterpretResponse maps the bids of the first seat of the response.
//
// A body which is not a JSON object is logged as a warning and yields no bids. A bid
// which cannot be mapped discards every bid of the response.
func (t *Translator) InterpretResponse(response *adapters.ResponseData) ([]*adapters.Bid, []error) {
	if response == nil {
		response = &adapters.ResponseData{}
	}

	if response.StatusCode == http.StatusNoContent {
		t.recordBids(metrics.AdapterStatusNoBid, nil)
		return nil, nil
	}
	if response.StatusCode != http.StatusOK {
		t.recordBids(metrics.AdapterStatusErr, nil)
		return nil, []error{&errortypes.BadServerResponse{
			Message: fmt.Sprintf("Unexpected status code: %d", response.StatusCode),
		}}
	}

	body := response.Body
	if !isObject(body) {
		message := fmt.Sprintf("%s server returned empty/non-json response: %s", t.label, strconv.Quote(string(body)))
		t.logger.Warnf("%s", message)
		t.recordBids(metrics.AdapterStatusErr, nil)
		return []*adapters.Bid{}, []error{&errortypes.Warning{Message: message, WarningCode: errortypes.EmptyResponseWarningCode}}
	}

	if !hasBids(body) {
		t.recordBids(metrics.AdapterStatusNoBid, nil)
		return []*adapters.Bid{}, nil
	}

	var (
		bids   []*adapters.Bid
		mapErr error
	)
	_, err := jsonparser.ArrayEach(body, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if mapErr != nil {
			return
		}
		bid, err := mapBid(value, dataType)
		if err != nil {
			mapErr = err
			return
		}
		bids = append(bids, bid)
	}, "seatbid", "[0]", "bid")
	if mapErr == nil {
		mapErr = err
	}

	if mapErr != nil {
		t.logger.Errorf("%s: failed to interpret the response: %v; response=%s", t.label, mapErr, seatbidContext(body))
		t.recordBids(metrics.AdapterStatusErr, nil)
		return []*adapters.Bid{}, []error{&errortypes.BadServerResponse{Message: mapErr.Error()}}
	}

	t.recordBids(metrics.AdapterStatusOK, bids)
	return bids, nil
}

// GetUserSyncs never asks for sync pixels.
func (t *Translator) GetUserSyncs(adapters.SyncOptions, []*adapters.ResponseData, *adapters.GDPRConsent) []adapters.UserSync {
	return []adapters.UserSync{}
}

// hasBids checks for a truthy id and a non empty bid list in the first seat.
func hasBids(body []byte) bool {
	id, idType, _, err := jsonparser.Get(body, "id")
	if err != nil || !isTruthy(id, idType) {
		return false
	}
	bid, bidType, _, err := jsonparser.Get(body, "seatbid", "[0]", "bid")
	if err != nil || bidType != jsonparser.Array {
		return false
	}
	_, _, _, err = jsonparser.Get(bid, "[0]")
	return err == nil
}

func mapBid(value []byte, dataType jsonparser.ValueType) (*adapters.Bid, error) {
	if dataType != jsonparser.Object {
		return nil, fmt.Errorf("bid is a %s, not an object", dataType)
	}

	price, err := parsePrice(value)
	if err != nil {
		return nil, err
	}

	creativeID := scalarString(value, "crid")
	if creativeID == "" {
		creativeID = scalarString(value, "id")
	}

	adm, _ := jsonparser.GetString(value, "adm")
	nurl, nurlType, _, nurlErr := jsonparser.Get(value, "nurl")
	hasNurl := nurlErr == nil
	nurlString := ""
	if hasNurl && nurlType == jsonparser.String {
		nurlString, _ = jsonparser.ParseString(nurl)
	}

	domains := []string{}
	jsonparser.ArrayEach(value, func(domain []byte, domainType jsonparser.ValueType, _ int, _ error) {
		if domainType != jsonparser.String {
			return
		}
		if parsed, err := jsonparser.ParseString(domain); err == nil {
			domains = append(domains, parsed)
		}
	}, "adomain")

	return &adapters.Bid{
		RequestID:  scalarString(value, "impid"),
		CPM:        price,
		Width:      intValue(value, "w"),
		Height:     intValue(value, "h"),
		CreativeID: creativeID,
		Currency:   floors.USD,
		NetRevenue: true,
		MediaType:  openrtb_ext.BidTypeBanner,
		Ad:         adMarkup(adm, nurlString, hasNurl),
		TTL:        bidTTL,
		Meta: adapters.BidMeta{
			AdvertiserDomains: domains,
		},
	}, nil
}

// parsePrice accepts a JSON number or a string starting with a number.
func parsePrice(bid []byte) (float64, error) {
	value, dataType, _, err := jsonparser.Get(bid, "price")
	if err != nil {
		return 0, fmt.Errorf("bid has no price")
	}
	switch dataType {
	case jsonparser.Number:
		return jsonparser.ParseFloat(value)
	case jsonparser.String:
		price, ok := parseFloatPrefix(string(value))
		if !ok {
			return 0, fmt.Errorf("bid price %q is not a number", value)
		}
		return price, nil
	}
	return 0, fmt.Errorf("bid price is a %s, not a number", dataType)
}

// scalarString reads a string or a number as text. Anything else is empty.
func scalarString(data []byte, key string) string {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		return ""
	}
	switch dataType {
	case jsonparser.String:
		parsed, err := jsonparser.ParseString(value)
		if err != nil {
			return ""
		}
		return parsed
	case jsonparser.Number:
		return string(value)
	}
	return ""
}

func intValue(data []byte, key string) int64 {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil || (dataType != jsonparser.Number && dataType != jsonparser.String) {
		return 0
	}
	n, _ := parseIntPrefix(string(value))
	return n
}

func isTruthy(value []byte, dataType jsonparser.ValueType) bool {
	switch dataType {
	case jsonparser.String:
		return len(value) > 0
	case jsonparser.Number:
		f, err := jsonparser.ParseFloat(value)
		return err == nil && f != 0
	case jsonparser.Boolean:
		return string(value) == "true"
	case jsonparser.Object, jsonparser.Array:
		return true
	}
	return false
}

func isObject(body []byte) bool {
	_, dataType, _, err := jsonparser.Get(body)
	return err == nil && dataType == jsonparser.Object
}

// seatbidContext extracts {id, seatbid} from the body for log lines.
func seatbidContext(body []byte) string {
	context := []byte(`{}`)
	for _, key := range []string{"id", "seatbid"} {
		value, dataType, _, err := jsonparser.Get(body, key)
		if err != nil {
			continue
		}
		if updated, err := jsonparser.Set(context, rawJSON(value, dataType), key); err == nil {
			context = updated
		}
	}
	return string(context)
}
